package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// APIConfig holds the upstream document API location and route prefixes.
type APIConfig struct {
	BaseURL           string        `env:"API_BASE_URL" envDefault:"http://localhost:8070"`
	AuthPrefix        string        `env:"AUTH_API_PREFIX" envDefault:"/api/auth"`
	DocsPrefix        string        `env:"DOCS_API_PREFIX" envDefault:"/api/v1/documents"`
	TeamsPrefix       string        `env:"TEAMS_API_PREFIX" envDefault:"/api/v1/teams"`
	TeamMembersPrefix string        `env:"TEAM_MEMBERS_API_PREFIX" envDefault:"/api/v1/teamMembers"`
	LogsPrefix        string        `env:"LOGS_API_PREFIX" envDefault:"/api/v1/logs"`
	Timeout           time.Duration `env:"HTTP_TIMEOUT" envDefault:"15s"`
}

// TokenConfig selects where token records are persisted.
type TokenConfig struct {
	// Store is one of memory, file or postgres.
	Store string `env:"TOKEN_STORE" envDefault:"file"`
	Key   string `env:"TOKEN_STORE_KEY" envDefault:"auth_tokens_v1"`
	// FileDir defaults to $XDG_CONFIG_HOME/docportal when empty.
	FileDir string `env:"TOKEN_FILE_DIR"`
	// AccessToken seeds a memory store, used by the MCP server.
	AccessToken string `env:"DOCPORTAL_ACCESS_TOKEN"`
}

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `env:"DB_HOST"`
	Port               string `env:"DB_PORT" envDefault:"5432"`
	User               string `env:"DB_USER"`
	Password           string `env:"DB_PASSWORD"`
	Name               string `env:"DB_NAME"`
	SSLMode            string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns       int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns       int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetimeSec int    `env:"DB_CONN_MAX_LIFETIME_SEC" envDefault:"300"`
}

// Enabled reports whether a database host was configured.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// MinIOConfig holds object storage settings for the document mirror.
type MinIOConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET"`
	UseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	Region    string `env:"MINIO_REGION" envDefault:"us-east-1"`
}

// OIDCConfig describes the identity provider used by the PKCE login flow.
type OIDCConfig struct {
	AuthURL     string   `env:"OIDC_AUTH_URL"`
	TokenURL    string   `env:"OIDC_TOKEN_URL"`
	ClientID    string   `env:"OIDC_CLIENT_ID"`
	RedirectURL string   `env:"OIDC_REDIRECT_URL" envDefault:"http://127.0.0.1:8765/callback"`
	Scopes      []string `env:"OIDC_SCOPES" envSeparator:"," envDefault:"openid,profile,email"`
}

// TracingConfig mirrors the standard OTEL_* variables read by the exporters.
type TracingConfig struct {
	Disabled    bool   `env:"OTEL_SDK_DISABLED" envDefault:"false"`
	ServiceName string `env:"OTEL_SERVICE_NAME"`
	Protocol    string `env:"OTEL_EXPORTER_OTLP_PROTOCOL" envDefault:"grpc"`
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Sampler     string `env:"OTEL_TRACES_SAMPLER" envDefault:"parentbased_traceidratio"`
	SamplerArg  string `env:"OTEL_TRACES_SAMPLER_ARG" envDefault:"1.0"`
}

// SessionConfig tunes the gateway session cookie.
type SessionConfig struct {
	Secure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	MaxAge time.Duration `env:"SESSION_MAX_AGE" envDefault:"24h"`
	// PurgeAfter drops stored token records untouched for this long at
	// gateway startup. Zero disables the purge.
	PurgeAfter time.Duration `env:"SESSION_PURGE_AFTER" envDefault:"720h"`
}

// AppConfig is the centralized configuration struct for all binaries.
// It is populated from environment variables; a .env file is picked up by
// importing github.com/joho/godotenv/autoload in main.
type AppConfig struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	API      APIConfig
	Tokens   TokenConfig
	Database DatabaseConfig
	MinIO    MinIOConfig
	OIDC     OIDCConfig
	Tracing  TracingConfig
	Session  SessionConfig
}

// Load reads configuration from environment variables.
func Load() (*AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	switch strings.ToLower(cfg.Tokens.Store) {
	case "memory", "file", "postgres":
		cfg.Tokens.Store = strings.ToLower(cfg.Tokens.Store)
	default:
		return nil, fmt.Errorf("unsupported TOKEN_STORE %q", cfg.Tokens.Store)
	}
	if cfg.API.Timeout <= 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	return &cfg, nil
}
