// Package bootstrap wires configuration, the token store, the HTTP client
// and the repositories shared by every binary.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"docportal/internal/config"
	"docportal/internal/database"
	"docportal/internal/database/migration"
	"docportal/internal/httpclient"
	"docportal/internal/logger"
	"docportal/internal/repository"
	"docportal/internal/repository/httpapi"
	"docportal/internal/repository/postgres"
	"docportal/internal/service"
	"docportal/internal/storage"
	"docportal/internal/tokens"
)

// seededTokenLifetime applies to a DOCPORTAL_ACCESS_TOKEN that is not a
// JWT carrying its own exp claim.
const seededTokenLifetime = 24 * time.Hour

// Options adjust New for a particular binary.
type Options struct {
	// Registerer receives client metrics. Defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
	// Migrate creates the token table when the postgres store is selected.
	Migrate bool
	// StoreOverride forces a token backend regardless of configuration.
	StoreOverride string
}

// App holds the wired collaborators.
type App struct {
	Config   *config.AppConfig
	Client   *httpclient.Client
	Store    *tokens.Store
	Sessions service.SessionService
	Teams    service.TeamService
	// DB is non-nil only for the postgres token store.
	DB *sql.DB

	tokenRows *postgres.TokenPostgres
}

// New builds an App and installs its repositories in the registry.
func New(ctx context.Context, cfg *config.AppConfig, opt Options) (*App, error) {
	a := &App{Config: cfg}

	kind := cfg.Tokens.Store
	if opt.StoreOverride != "" {
		kind = opt.StoreOverride
	}
	backend, err := a.tokenBackend(ctx, kind, opt.Migrate)
	if err != nil {
		return nil, err
	}
	a.Store = tokens.NewStore(backend, cfg.Tokens.Key)

	if tok := cfg.Tokens.AccessToken; tok != "" {
		if err := a.Store.Put(ctx, SeedRecord(tok, time.Now())); err != nil {
			a.Close()
			return nil, fmt.Errorf("seed access token: %w", err)
		}
	}

	a.Client, err = httpclient.New(httpclient.Config{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout,
		Registerer: opt.Registerer,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	repository.SetAuth(httpapi.NewAuth(a.Client, cfg.API.AuthPrefix))
	repository.SetDocuments(httpapi.NewDocuments(a.Client, cfg.API.DocsPrefix))
	repository.SetTeams(httpapi.NewTeams(a.Client, cfg.API.TeamsPrefix, cfg.API.TeamMembersPrefix))
	repository.SetLogs(httpapi.NewLogs(a.Client, cfg.API.LogsPrefix))

	a.Sessions = service.NewSessionService(a.Store, repository.Auth)
	a.Teams = service.NewTeamService(repository.Teams)
	a.Client.SetTokenSource(a.Store)
	a.Client.SetRefresher(a.Sessions)

	logger.Log.Info("bootstrap_ready",
		zap.String("api_base_url", cfg.API.BaseURL),
		zap.String("token_store", kind),
	)
	return a, nil
}

func (a *App) tokenBackend(ctx context.Context, kind string, migrate bool) (tokens.Backend, error) {
	switch kind {
	case "memory":
		return tokens.NewMemory(), nil
	case "file":
		return tokens.NewFile(a.Config.Tokens.FileDir), nil
	case "postgres":
		if !a.Config.Database.Enabled() {
			return nil, errors.New("TOKEN_STORE=postgres requires DB_HOST")
		}
		db, err := database.NewPostgres(ctx, a.Config.Database)
		if err != nil {
			return nil, fmt.Errorf("connect token database: %w", err)
		}
		if migrate {
			if err := migration.EnsureMigrated(ctx, db, a.Config.Database.Host); err != nil {
				db.Close()
				return nil, err
			}
		}
		a.DB = db
		a.tokenRows = postgres.NewTokenPostgres(db)
		return a.tokenRows, nil
	default:
		return nil, fmt.Errorf("unsupported token store %q", kind)
	}
}

// SeedRecord turns a bare access token into a record. A JWT's exp claim
// wins over seededTokenLifetime.
func SeedRecord(token string, now time.Time) tokens.Record {
	exp := now.Add(seededTokenLifetime)
	if claims, err := tokens.DecodeClaims(token); err == nil && !claims.ExpiresAt.IsZero() {
		exp = claims.ExpiresAt
	}
	return tokens.Record{AccessToken: token, TokenType: "Bearer", AccessExpiresAt: exp.UnixMilli()}
}

// PurgeStaleTokens removes token records untouched for longer than age.
// It is a no-op unless tokens live in Postgres.
func (a *App) PurgeStaleTokens(ctx context.Context, age time.Duration) (int64, error) {
	if a.tokenRows == nil || age <= 0 {
		return 0, nil
	}
	n, err := a.tokenRows.Purge(ctx, time.Now().Add(-age))
	if err != nil {
		return 0, err
	}
	logger.Log.Info("token_records_purged", zap.Int64("count", n), zap.Duration("older_than", age))
	return n, nil
}

// Mirror connects to object storage and returns a MirrorService over the
// registered document repository.
func (a *App) Mirror(ctx context.Context) (service.MirrorService, error) {
	store, err := storage.NewMinIO(ctx, a.Config.MinIO)
	if err != nil {
		return nil, err
	}
	return service.NewMirrorService(repository.Documents, store), nil
}

// Close releases the token database, if any.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
