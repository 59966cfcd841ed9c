package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"docportal/internal/logger"
)

type keyCtx struct{}

// WithKey scopes store operations on ctx to key instead of the store's
// default key.
func WithKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, keyCtx{}, key)
}

// Store binds a Backend to a storage key.
// It is safe for concurrent use when the Backend is.
type Store struct {
	backend Backend
	key     string
	now     func() time.Time
}

// NewStore creates a Store. An empty key falls back to DefaultKey.
func NewStore(b Backend, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{backend: b, key: key, now: time.Now}
}

// Key returns the storage key operations on ctx use.
func (s *Store) Key(ctx context.Context) string {
	return s.keyFor(ctx)
}

func (s *Store) keyFor(ctx context.Context) string {
	if k, ok := ctx.Value(keyCtx{}).(string); ok && k != "" {
		return k
	}
	return s.key
}

// Save overwrites the stored record with ts, resolving expiry against the
// current time.
func (s *Store) Save(ctx context.Context, ts TokenSet) (Record, error) {
	rec, err := NewRecord(ts, s.now())
	if err != nil {
		return Record{}, err
	}
	if err := s.Put(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Put stores rec verbatim.
func (s *Store) Put(ctx context.Context, rec Record) error {
	if rec.AccessToken == "" {
		return ErrMissingAccessToken
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal token record: %w", err)
	}
	if err := s.backend.Put(ctx, s.keyFor(ctx), b); err != nil {
		return fmt.Errorf("store token record: %w", err)
	}
	return nil
}

// Load returns the stored record. Missing and malformed records both
// yield ErrNoToken.
func (s *Store) Load(ctx context.Context) (Record, error) {
	key := s.keyFor(ctx)
	b, err := s.backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNoToken) {
			return Record{}, ErrNoToken
		}
		return Record{}, fmt.Errorf("load token record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil || rec.AccessToken == "" {
		logger.Log.Warn("token_record_malformed", zap.String("key", key))
		return Record{}, ErrNoToken
	}
	return rec, nil
}

// Valid reports whether a record exists with an unexpired access token.
func (s *Store) Valid(ctx context.Context) bool {
	_, ok := s.AccessToken(ctx)
	return ok
}

// AccessToken returns the stored access token if it is still valid.
func (s *Store) AccessToken(ctx context.Context) (string, bool) {
	rec, err := s.Load(ctx)
	if err != nil {
		return "", false
	}
	if !rec.Usable(s.now()) {
		return "", false
	}
	return rec.AccessToken, true
}

// Clear removes the stored record.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx, s.keyFor(ctx)); err != nil && !errors.Is(err, ErrNoToken) {
		return fmt.Errorf("clear token record: %w", err)
	}
	return nil
}
