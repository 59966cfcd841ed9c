// Package repository defines the data access contracts used by services,
// handlers and tools. Implementations live in subpackages: httpapi talks to
// the document API, postgres persists token records.
package repository

import (
	"context"
	"errors"
	"fmt"

	"docportal/internal/model"
	"docportal/internal/tokens"
)

var (
	// ErrInvalidInput is returned before any request is made when required
	// arguments are missing.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMalformedPayload marks 2xx responses missing an expected field.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrRejected marks responses whose body reports failure.
	ErrRejected = errors.New("rejected by backend")
)

// AuthError carries the error string reported by the identity backend.
type AuthError struct {
	Code string
}

func (e *AuthError) Error() string {
	return "auth: " + e.Code
}

// MalformedError builds an ErrMalformedPayload with a specific message.
func MalformedError(msg string) error {
	return fmt.Errorf("%w: %s", ErrMalformedPayload, msg)
}

// RejectedError builds an ErrRejected with the backend's message.
func RejectedError(msg string) error {
	return fmt.Errorf("%w: %s", ErrRejected, msg)
}

// ExchangeParams are the PKCE values sent to exchange an authorization code.
type ExchangeParams struct {
	Code         string `json:"code"`
	CodeVerifier string `json:"codeVerifier"`
	RedirectURI  string `json:"redirectUri"`
	Nonce        string `json:"nonce"`
}

// RevokeParams identify the session to end.
type RevokeParams struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
}

// AuthRepository talks to the identity endpoints of the backend.
type AuthRepository interface {
	// Exchange trades an authorization code for a token set.
	Exchange(ctx context.Context, p ExchangeParams) (tokens.TokenSet, error)
	// Refresh returns a new token set, keeping refreshToken when the
	// backend does not rotate it.
	Refresh(ctx context.Context, refreshToken string) (tokens.TokenSet, error)
	// Revoke ends the session. It never fails; the result reports whether
	// the backend confirmed it.
	Revoke(ctx context.Context, p RevokeParams) bool
	// Me returns the backend's view of the current user.
	Me(ctx context.Context) (map[string]any, error)
}

// PageQuery holds page/size pagination parameters.
type PageQuery struct {
	Page int
	Size int
}

// DocumentRepository maps the documents API to model.Document and friends.
type DocumentRepository interface {
	List(ctx context.Context) ([]model.Document, error)
	ListByStatus(ctx context.Context, status string) ([]model.Document, error)
	// AdvancedSearch filters the full list by a free-text query.
	AdvancedSearch(ctx context.Context, query string) ([]model.Document, error)
	// SearchByTags keeps documents carrying any of tags, case-insensitively.
	SearchByTags(ctx context.Context, tags []string) ([]model.Document, error)
	ShareURL(ctx context.Context, documentID string, expirationMinutes int) (string, error)
	DownloadInfo(ctx context.Context, documentID string) (model.DownloadInfo, error)
	DownloadContent(ctx context.Context, documentID string) ([]byte, model.DownloadInfo, error)
	Delete(ctx context.Context, documentID string) (model.Result, error)
	Comments(ctx context.Context, documentID string, pq PageQuery) ([]model.Comment, error)
	AddComment(ctx context.Context, documentID, content string) (model.Comment, error)
	UpdateTags(ctx context.Context, documentID string, tags []string) ([]string, error)
	Upload(ctx context.Context, in model.UploadInput) (model.Document, error)
}

// TeamRepository maps the teams and team members APIs.
type TeamRepository interface {
	Teams(ctx context.Context, activeOnly bool) ([]model.Team, error)
	Team(ctx context.Context, teamID string) (model.Team, error)
	CreateTeam(ctx context.Context, in model.TeamInput) (model.Team, error)
	UpdateTeam(ctx context.Context, teamID string, in model.TeamInput) (model.Team, error)
	DeleteTeam(ctx context.Context, teamID string) (model.Result, error)
	Members(ctx context.Context, teamID string) ([]model.TeamMember, error)
	// InviteMember returns nil when the backend does not echo the member.
	InviteMember(ctx context.Context, teamID, email string, role model.TeamRole) (*model.TeamMember, error)
	RemoveMember(ctx context.Context, teamID, memberID string) (model.Result, error)
	UpdateMemberRole(ctx context.Context, teamID, memberID string, role model.TeamRole) (model.Result, error)
	LeaveTeam(ctx context.Context, teamID string) (model.Result, error)
}

// LogsRepository reads the activity log.
type LogsRepository interface {
	All(ctx context.Context) ([]model.LogEntry, error)
	ByDocument(ctx context.Context, documentID string) ([]model.LogEntry, error)
	// Count aggregates activity for period "week" or "month".
	Count(ctx context.Context, period string) ([]model.LogCount, error)
}
