package repository

import "sync"

var (
	mu        sync.RWMutex
	auth      AuthRepository
	documents DocumentRepository
	teams     TeamRepository
	logs      LogsRepository
)

// SetAuth replaces the process-wide auth repository.
func SetAuth(r AuthRepository) {
	mu.Lock()
	auth = r
	mu.Unlock()
}

// Auth returns the current auth repository, or nil when none is set.
func Auth() AuthRepository {
	mu.RLock()
	defer mu.RUnlock()
	return auth
}

// SetDocuments replaces the process-wide document repository.
func SetDocuments(r DocumentRepository) {
	mu.Lock()
	documents = r
	mu.Unlock()
}

// Documents returns the current document repository.
func Documents() DocumentRepository {
	mu.RLock()
	defer mu.RUnlock()
	return documents
}

// SetTeams replaces the process-wide team repository.
func SetTeams(r TeamRepository) {
	mu.Lock()
	teams = r
	mu.Unlock()
}

// Teams returns the current team repository.
func Teams() TeamRepository {
	mu.RLock()
	defer mu.RUnlock()
	return teams
}

// SetLogs replaces the process-wide logs repository.
func SetLogs(r LogsRepository) {
	mu.Lock()
	logs = r
	mu.Unlock()
}

// Logs returns the current logs repository.
func Logs() LogsRepository {
	mu.RLock()
	defer mu.RUnlock()
	return logs
}
