package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docportal/internal/config"
	"docportal/internal/model"
	"docportal/internal/repository"
	repoMocks "docportal/internal/repository/mocks"
	"docportal/internal/tokens"
)

func testConfig(baseURL string) *config.AppConfig {
	return &config.AppConfig{
		API: config.APIConfig{
			BaseURL:           baseURL,
			AuthPrefix:        "/api/auth",
			DocsPrefix:        "/api/v1/documents",
			TeamsPrefix:       "/api/v1/teams",
			TeamMembersPrefix: "/api/v1/teamMembers",
			LogsPrefix:        "/api/v1/logs",
			Timeout:           time.Second,
		},
		Tokens: config.TokenConfig{Store: "memory", Key: "test_tokens"},
	}
}

func TestNew_SeededTokenReachesBackend(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Tokens.AccessToken = "opaque-token"

	a, err := New(context.Background(), cfg, Options{Registerer: prometheus.NewRegistry()})
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, repository.Documents())
	require.NotNil(t, repository.Teams())
	require.NotNil(t, repository.Logs())
	require.NotNil(t, repository.Auth())

	_, err = repository.Documents().List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer opaque-token", gotAuth)
	assert.Nil(t, a.DB)
}

func TestNew_ServicesFollowRegistrySwaps(t *testing.T) {
	var backendHits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendHits++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"real","name":"Backend"}]}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Tokens.AccessToken = "opaque-token"
	a, err := New(context.Background(), cfg, Options{Registerer: prometheus.NewRegistry()})
	require.NoError(t, err)
	defer a.Close()

	teams := new(repoMocks.MockTeamRepository)
	teams.On("Teams", mock.Anything, true).Return([]model.Team{{ID: "mock"}}, nil).Once()
	auth := new(repoMocks.MockAuthRepository)
	auth.On("Exchange", mock.Anything, repository.ExchangeParams{Code: "c"}).
		Return(tokens.TokenSet{AccessToken: "swapped", ExpiresIn: 60}, nil).Once()

	repository.SetTeams(teams)
	repository.SetAuth(auth)

	got, err := a.Teams.List(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, []model.Team{{ID: "mock"}}, got)

	rec, err := a.Sessions.Login(context.Background(), repository.ExchangeParams{Code: "c"})
	require.NoError(t, err)
	assert.Equal(t, "swapped", rec.AccessToken)

	assert.Zero(t, backendHits)
	teams.AssertExpectations(t)
	auth.AssertExpectations(t)
}

func TestNew_Errors(t *testing.T) {
	t.Run("unknown store", func(t *testing.T) {
		_, err := New(context.Background(), testConfig("http://localhost:1"), Options{
			Registerer:    prometheus.NewRegistry(),
			StoreOverride: "redis",
		})
		assert.Error(t, err)
	})

	t.Run("postgres without host", func(t *testing.T) {
		_, err := New(context.Background(), testConfig("http://localhost:1"), Options{
			Registerer:    prometheus.NewRegistry(),
			StoreOverride: "postgres",
		})
		assert.ErrorContains(t, err, "DB_HOST")
	})

	t.Run("bad base url", func(t *testing.T) {
		_, err := New(context.Background(), testConfig("::not a url"), Options{Registerer: prometheus.NewRegistry()})
		assert.Error(t, err)
	})
}

func TestSeedRecord(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("opaque token", func(t *testing.T) {
		rec := SeedRecord("abc", now)
		assert.Equal(t, now.Add(seededTokenLifetime).UnixMilli(), rec.AccessExpiresAt)
		assert.True(t, rec.Usable(now))
	})

	t.Run("jwt exp wins", func(t *testing.T) {
		exp := now.Add(10 * time.Minute)
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("k"))
		require.NoError(t, err)

		rec := SeedRecord(tok, now)
		assert.Equal(t, exp.Unix()*1000, rec.AccessExpiresAt)
	})
}

func TestPurgeStaleTokens_NoDatabase(t *testing.T) {
	a := &App{}
	n, err := a.PurgeStaleTokens(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)
}
