// Package mcpserver exposes the document, team and log repositories as
// Model Context Protocol tools.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"docportal/internal/logger"
	"docportal/internal/repository"
	"docportal/internal/service"
)

const serverName = "docportal"

// Deps resolve the collaborators behind the tools. Repository funcs are
// called per invocation.
type Deps struct {
	Documents func() repository.DocumentRepository
	Logs      func() repository.LogsRepository
	Auth      func() repository.AuthRepository
	Teams     service.TeamService
}

// RegistryDeps resolves repositories from the process-wide registry.
func RegistryDeps(teams service.TeamService) Deps {
	return Deps{
		Documents: repository.Documents,
		Logs:      repository.Logs,
		Auth:      repository.Auth,
		Teams:     teams,
	}
}

// New builds a server with every tool, prompt and resource template registered.
func New(version string, d Deps) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)
	registerDocumentTools(server, d.Documents)
	registerTeamTools(server, d.Teams)
	registerLogTools(server, d.Logs)
	registerAuthTools(server, d.Auth)
	registerPrompts(server)
	registerResources(server, d.Documents)
	return server
}

// Run serves on t until ctx is cancelled or the peer disconnects.
func Run(ctx context.Context, server *mcp.Server, t mcp.Transport) error {
	logger.Log.Info("mcp_server_started", zap.String("server", serverName))
	err := server.Run(ctx, t)
	if ctx.Err() != nil {
		return nil
	}
	return err
}
