// Package database opens the PostgreSQL pool that backs gateway token
// records.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/zap"

	"docportal/internal/config"
	"docportal/internal/logger"
)

var sqlOpen = sql.Open

const (
	pingTimeout = 5 * time.Second

	// ApplicationName tags token store sessions in pg_stat_activity.
	ApplicationName = "docportal-tokens"
)

// ErrIncompleteConfig is returned when a required DB_* variable is unset.
var ErrIncompleteConfig = errors.New("incomplete token database config")

// TokenStoreDSN builds the pgx DSN for the token store. The password is
// escaped into the userinfo and never appears in errors.
func TokenStoreDSN(c config.DatabaseConfig) (string, error) {
	var missing []string
	for _, f := range []struct{ env, val string }{
		{"DB_HOST", c.Host}, {"DB_PORT", c.Port}, {"DB_USER", c.User}, {"DB_NAME", c.Name},
	} {
		if f.val == "" {
			missing = append(missing, f.env)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s unset", ErrIncompleteConfig, strings.Join(missing, ", "))
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   c.Host + ":" + c.Port,
		Path:   c.Name,
		User:   url.User(c.User),
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}

	q := url.Values{}
	q.Set("application_name", ApplicationName)
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// redact hides the password of a DSN built by TokenStoreDSN.
func redact(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "postgres://<unparseable>"
	}
	return u.Redacted()
}

// NewPostgres opens a traced pgx pool for token records and pings it,
// bounded by ctx and pingTimeout. Idle connections never exceed the open
// limit.
func NewPostgres(ctx context.Context, c config.DatabaseConfig) (*sql.DB, error) {
	dsn, err := TokenStoreDSN(c)
	if err != nil {
		return nil, err
	}

	driverName, err := otelsql.Register("pgx",
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL, semconv.DBName(c.Name)),
		otelsql.WithSQLCommenter(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register otelsql: %w", err)
	}

	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open token database %s: %w", redact(dsn), err)
	}

	idle := c.MaxIdleConns
	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
		if idle > c.MaxOpenConns {
			idle = c.MaxOpenConns
		}
	}
	if idle > 0 {
		db.SetMaxIdleConns(idle)
	}
	if c.ConnMaxLifetimeSec > 0 {
		db.SetConnMaxLifetime(time.Duration(c.ConnMaxLifetimeSec) * time.Second)
	}

	start := time.Now()
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping token database %s: %w", redact(dsn), err)
	}

	logger.Log.Info("token_db_connected",
		zap.String("dsn", redact(dsn)),
		zap.Int("max_open_conns", c.MaxOpenConns),
		zap.Int("max_idle_conns", idle),
		zap.Int64("ping_ms", time.Since(start).Milliseconds()),
	)
	return db, nil
}
