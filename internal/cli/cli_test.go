package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docportal/internal/model"
	"docportal/internal/repository"
	repoMocks "docportal/internal/repository/mocks"
	"docportal/internal/service"
	serviceMocks "docportal/internal/service/mocks"
	"docportal/internal/tokens"
)

type harness struct {
	out      *bytes.Buffer
	docs     *repoMocks.MockDocumentRepository
	logs     *repoMocks.MockLogsRepository
	auth     *repoMocks.MockAuthRepository
	sessions *serviceMocks.MockSessionService
	teams    *serviceMocks.MockTeamService
	mirror   *serviceMocks.MockMirrorService
	root     *Command
}

func newHarness() *harness {
	h := &harness{
		out:      new(bytes.Buffer),
		docs:     new(repoMocks.MockDocumentRepository),
		logs:     new(repoMocks.MockLogsRepository),
		auth:     new(repoMocks.MockAuthRepository),
		sessions: new(serviceMocks.MockSessionService),
		teams:    new(serviceMocks.MockTeamService),
		mirror:   new(serviceMocks.MockMirrorService),
	}
	h.root = Root(Deps{
		Out:       h.out,
		Sessions:  h.sessions,
		Teams:     h.teams,
		Documents: func() repository.DocumentRepository { return h.docs },
		Logs:      func() repository.LogsRepository { return h.logs },
		Auth:      func() repository.AuthRepository { return h.auth },
		Login: func(_ context.Context, announce func(string)) (tokens.Record, error) {
			announce("https://idp.example/authorize?state=s")
			return tokens.Record{AccessToken: "at", AccessExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()}, nil
		},
		Mirror: func(context.Context) (service.MirrorService, error) { return h.mirror, nil },
	})
	return h
}

func (h *harness) run(args ...string) error {
	return h.root.Execute(context.Background(), h.out, args)
}

func TestExecute_Dispatch(t *testing.T) {
	h := newHarness()

	t.Run("help", func(t *testing.T) {
		require.NoError(t, h.run("--help"))
		assert.Contains(t, h.out.String(), "docs")
		assert.Contains(t, h.out.String(), "mirror")
	})

	t.Run("unknown command", func(t *testing.T) {
		err := h.run("frobnicate")
		assert.ErrorIs(t, err, ErrUsage)
	})

	t.Run("missing subcommand", func(t *testing.T) {
		err := h.run("teams")
		assert.ErrorIs(t, err, ErrUsage)
	})

	t.Run("bad flag", func(t *testing.T) {
		err := h.run("docs", "list", "--nope")
		assert.ErrorIs(t, err, ErrUsage)
	})

	t.Run("wrong arg count", func(t *testing.T) {
		err := h.run("docs", "share")
		assert.ErrorIs(t, err, ErrUsage)
	})
}

func TestLoginAndLogout(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.run("login"))
	assert.Contains(t, h.out.String(), "https://idp.example/authorize?state=s")
	assert.Contains(t, h.out.String(), "2030-01-01")

	h.out.Reset()
	h.sessions.On("Logout", mock.Anything).Return(false, nil).Once()
	require.NoError(t, h.run("logout"))
	assert.Contains(t, h.out.String(), "did not confirm")
}

func TestWhoami(t *testing.T) {
	h := newHarness()
	h.sessions.On("Profile", mock.Anything).Return(service.Profile{Name: "Ada", Email: "ada@example.com"}, nil).Once()
	require.NoError(t, h.run("whoami"))
	assert.Contains(t, h.out.String(), "Ada <ada@example.com>")

	h.sessions.On("Profile", mock.Anything).Return(service.Profile{}, service.ErrNotAuthenticated).Once()
	assert.ErrorIs(t, h.run("whoami"), service.ErrNotAuthenticated)
}

func TestDocsList(t *testing.T) {
	h := newHarness()
	docs := []model.Document{{ID: "1", Name: "report.pdf", Type: "pdf", Size: "1.0 KB", Tags: []string{"a", "b"}}}

	h.docs.On("List", mock.Anything).Return(docs, nil).Once()
	require.NoError(t, h.run("docs", "list"))
	assert.Contains(t, h.out.String(), "report.pdf")
	assert.Contains(t, h.out.String(), "a,b")

	h.out.Reset()
	h.docs.On("ListByStatus", mock.Anything, "ACTIVE").Return(docs, nil).Once()
	require.NoError(t, h.run("docs", "list", "--status", "active", "--json"))

	var got []model.Document
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &got))
	assert.Equal(t, docs, got)
	h.docs.AssertExpectations(t)
}

func TestDocsSearchAndTags(t *testing.T) {
	h := newHarness()
	h.docs.On("AdvancedSearch", mock.Anything, "quarterly report").Return([]model.Document{}, nil).Once()
	h.docs.On("SearchByTags", mock.Anything, []string{"x", "y"}).Return([]model.Document{}, nil).Once()
	h.docs.On("UpdateTags", mock.Anything, "7", []string{"one"}).Return([]string{"one"}, nil).Once()

	require.NoError(t, h.run("docs", "search", "quarterly", "report"))
	require.NoError(t, h.run("docs", "tagged", "x", "y"))
	require.NoError(t, h.run("docs", "set-tags", "7", "one"))
	assert.Contains(t, h.out.String(), "Tags: one")
	assert.ErrorIs(t, h.run("docs", "tagged"), ErrUsage)
	h.docs.AssertExpectations(t)
}

func TestDocsShareAndDownload(t *testing.T) {
	h := newHarness()
	h.docs.On("ShareURL", mock.Anything, "7", 15).Return("https://share/7", nil).Once()
	require.NoError(t, h.run("docs", "share", "7", "-m", "15"))
	assert.Contains(t, h.out.String(), "https://share/7")

	h.docs.On("DownloadInfo", mock.Anything, "7").Return(model.DownloadInfo{URL: "https://dl/7"}, nil).Once()
	require.NoError(t, h.run("docs", "download", "7"))
	assert.Contains(t, h.out.String(), "https://dl/7")

	dir := t.TempDir()
	h.docs.On("DownloadContent", mock.Anything, "7").Return([]byte("content"), model.DownloadInfo{FileName: "notes.txt"}, nil).Once()
	require.NoError(t, h.run("docs", "download", "7", "--output", dir))

	data, err := os.ReadFile(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestDocsDelete(t *testing.T) {
	h := newHarness()
	h.docs.On("Delete", mock.Anything, "7").Return(model.Result{Success: true}, nil).Once()
	h.docs.On("Delete", mock.Anything, "8").Return(model.Result{Success: false, Message: "in use"}, nil).Once()

	require.NoError(t, h.run("docs", "delete", "7"))
	assert.Contains(t, h.out.String(), "Deleted 7.")

	err := h.run("docs", "delete", "8")
	assert.ErrorIs(t, err, repository.ErrRejected)
	assert.ErrorContains(t, err, "in use")
	h.docs.AssertExpectations(t)
}

func TestDocsUpload(t *testing.T) {
	h := newHarness()
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0o600))

	in := model.UploadInput{FileName: "a.txt", Description: "greeting", Content: []byte("hi")}
	h.docs.On("Upload", mock.Anything, in).Return(model.Document{ID: "u1", Name: "a.txt", Size: "2 B"}, nil).Once()

	require.NoError(t, h.run("docs", "upload", path, "-d", "greeting"))
	assert.Contains(t, h.out.String(), "u1")

	assert.Error(t, h.run("docs", "upload", filepath.Join(t.TempDir(), "missing")))
}

func TestTeamsCommands(t *testing.T) {
	h := newHarness()
	h.teams.On("List", mock.Anything, true).Return([]model.Team{{ID: "t1", Name: "Ops", MemberCount: 3}}, nil).Once()
	h.teams.On("Invite", mock.Anything, "t1", "a@b.io", model.RoleAdmin).
		Return(&model.TeamMember{ID: "m1", Email: "a@b.io", Role: model.RoleAdmin}, nil).Once()
	h.teams.On("Invite", mock.Anything, "t1", "bad", model.RoleMember).Return(nil, service.ErrInvalidEmail).Once()
	h.teams.On("RemoveMember", mock.Anything, "t1", "m1").Return(model.Result{Success: true, Message: "member removed"}, nil).Once()

	require.NoError(t, h.run("teams", "list"))
	assert.Contains(t, h.out.String(), "Ops")

	h.teams.On("Get", mock.Anything, "t1").Return(model.Team{ID: "t1", Name: "Ops", MemberCount: 3, DocumentCount: 5, Description: "on call"}, nil).Once()
	require.NoError(t, h.run("teams", "show", "t1"))
	assert.Contains(t, h.out.String(), "Ops (t1): 3 members, 5 documents. on call")

	require.NoError(t, h.run("teams", "invite", "t1", "a@b.io", "--role", "Admin"))
	assert.Contains(t, h.out.String(), "Added a@b.io as admin")

	assert.ErrorIs(t, h.run("teams", "invite", "t1", "bad"), service.ErrInvalidEmail)

	require.NoError(t, h.run("teams", "remove", "t1", "m1"))
	assert.Contains(t, h.out.String(), "member removed")

	h.teams.AssertExpectations(t)
}

func TestLogsCommands(t *testing.T) {
	h := newHarness()
	h.logs.On("ByDocument", mock.Anything, "5").Return([]model.LogEntry{{ActorName: "ada", OperationType: "UPLOAD"}}, nil).Once()
	h.logs.On("Count", mock.Anything, "week").Return([]model.LogCount{{Label: "2025-W01", Count: 12}}, nil).Once()

	require.NoError(t, h.run("logs", "list", "--document", "5"))
	assert.Contains(t, h.out.String(), "UPLOAD")

	require.NoError(t, h.run("logs", "count", "-p", "week"))
	assert.Contains(t, h.out.String(), "2025-W01")
	h.logs.AssertExpectations(t)
}

func TestMirrorCommand(t *testing.T) {
	h := newHarness()
	opt := service.MirrorOptions{DocumentIDs: []string{"1", "2"}, LinkExpiry: time.Hour, Concurrency: 2}
	h.mirror.On("Mirror", mock.Anything, opt).Return([]service.MirrorResult{
		{DocumentID: "1", Name: "a.pdf", Size: 10, URL: "https://s3/a"},
		{DocumentID: "2", Name: "b.pdf", Error: "boom"},
	}, nil).Once()

	err := h.run("mirror", "--id", "1,2", "--link-expiry", "1h", "-c", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, h.out.String(), "https://s3/a")
	assert.Contains(t, h.out.String(), "failed: boom")
}

func TestMirrorCommand_StorageUnavailable(t *testing.T) {
	h := newHarness()
	h.root = Root(Deps{
		Out: h.out,
		Mirror: func(context.Context) (service.MirrorService, error) {
			return nil, errors.New("minio endpoint is required")
		},
	})
	assert.ErrorContains(t, h.run("mirror"), "endpoint")
}
