package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "docportal/docs"
	"docportal/internal/repository"
	"docportal/internal/service"
)

// Deps are the collaborators the gateway routes need. Repositories are
// resolved through the registry on every request.
type Deps struct {
	// DB is the token database; nil when tokens are not stored in Postgres.
	DB       *sql.DB
	Sessions service.SessionService
	Teams    service.TeamService
	// Gatherer backs GET /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())
	app.Get("/swagger/*", swagger.HandlerDefault)
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	auth := app.Group("/auth")
	auth.Post("/exchange", Exchange(d.Sessions))
	auth.Post("/refresh", Refresh(d.Sessions))
	auth.Post("/logout", Logout(d.Sessions))
	auth.Get("/me", Me(d.Sessions, repository.Auth))

	session := RequireSession(d.Sessions)

	docs := app.Group("/documents", session)
	docs.Get("/", ListDocuments(repository.Documents))
	docs.Post("/", UploadDocument(repository.Documents))
	docs.Get("/search", SearchDocuments(repository.Documents))
	docs.Get("/by-tags", DocumentsByTags(repository.Documents))
	docs.Get("/:id/share", ShareDocument(repository.Documents))
	docs.Get("/:id/download", DownloadDocument(repository.Documents))
	docs.Delete("/:id", DeleteDocument(repository.Documents))
	docs.Get("/:id/comments", ListComments(repository.Documents))
	docs.Post("/:id/comments", AddComment(repository.Documents))
	docs.Put("/:id/tags", UpdateTags(repository.Documents))

	teams := app.Group("/teams", session)
	teams.Get("/", ListTeams(d.Teams))
	teams.Post("/", CreateTeam(d.Teams))
	teams.Get("/:id", GetTeam(d.Teams))
	teams.Put("/:id", UpdateTeam(d.Teams))
	teams.Delete("/:id", DeleteTeam(d.Teams))
	teams.Get("/:id/members", ListMembers(d.Teams))
	teams.Post("/:id/members", InviteMember(d.Teams))
	teams.Put("/:id/members/:memberId", ChangeMemberRole(d.Teams))
	teams.Delete("/:id/members/:memberId", RemoveMember(d.Teams))
	teams.Post("/:id/leave", LeaveTeam(d.Teams))

	logs := app.Group("/logs", session)
	logs.Get("/", ListLogs(repository.Logs))
	logs.Get("/count", CountLogs(repository.Logs))
}
