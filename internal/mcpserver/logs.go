package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"docportal/internal/model"
	"docportal/internal/repository"
)

type LogsInput struct {
	DocumentID string `json:"document_id,omitempty" jsonschema:"restrict to entries about this document"`
}

type LogList struct {
	Logs []model.LogEntry `json:"logs" jsonschema:"activity log entries"`
}

type LogCountInput struct {
	Period string `json:"period,omitempty" jsonschema:"week or month"`
}

type LogCountResult struct {
	Counts []model.LogCount `json:"counts" jsonschema:"aggregated activity buckets"`
}

type MeInput struct{}

type MeResult struct {
	User map[string]any `json:"user" jsonschema:"the backend's view of the authenticated user"`
}

func registerLogTools(server *mcp.Server, logs func() repository.LogsRepository) {
	mcp.AddTool(server, &mcp.Tool{Name: "get-logs-list", Description: "Fetch a list of logs."}, getLogs(logs, false))
	mcp.AddTool(server, &mcp.Tool{Name: "get-logs-documents", Description: "Fetch log entries by document ID."}, getLogs(logs, true))
	mcp.AddTool(server, &mcp.Tool{Name: "get-logs-count", Description: "Fetch the count of logs over a specified period."}, countLogs(logs))
}

func registerAuthTools(server *mcp.Server, auth func() repository.AuthRepository) {
	mcp.AddTool(server, &mcp.Tool{Name: "get-api-auth-me", Description: "Fetch information about the authenticated user."}, me(auth))
}

// getLogs serves both log tools; byDocument makes document_id mandatory.
func getLogs(logs func() repository.LogsRepository, byDocument bool) mcp.ToolHandlerFor[LogsInput, LogList] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in LogsInput) (*mcp.CallToolResult, LogList, error) {
		var (
			items []model.LogEntry
			err   error
		)
		if byDocument || in.DocumentID != "" {
			items, err = logs().ByDocument(ctx, in.DocumentID)
		} else {
			items, err = logs().All(ctx)
		}
		if err != nil {
			return nil, LogList{}, err
		}
		if items == nil {
			items = []model.LogEntry{}
		}
		return nil, LogList{Logs: items}, nil
	}
}

func countLogs(logs func() repository.LogsRepository) mcp.ToolHandlerFor[LogCountInput, LogCountResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in LogCountInput) (*mcp.CallToolResult, LogCountResult, error) {
		counts, err := logs().Count(ctx, in.Period)
		if err != nil {
			return nil, LogCountResult{}, err
		}
		if counts == nil {
			counts = []model.LogCount{}
		}
		return nil, LogCountResult{Counts: counts}, nil
	}
}

func me(auth func() repository.AuthRepository) mcp.ToolHandlerFor[MeInput, MeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ MeInput) (*mcp.CallToolResult, MeResult, error) {
		user, err := auth().Me(ctx)
		if err != nil {
			return nil, MeResult{}, err
		}
		return nil, MeResult{User: user}, nil
	}
}
