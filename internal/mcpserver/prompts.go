package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerPrompts(server *mcp.Server) {
	server.AddPrompt(&mcp.Prompt{
		Name:        "summarize-document",
		Title:       "Summarize Document",
		Description: "Ask the model to summarize a document loaded through its document resource.",
		Arguments: []*mcp.PromptArgument{
			{Name: "document_id", Description: "document identifier", Required: true},
			{Name: "length", Description: "summary length, e.g. short or detailed (default short)"},
		},
	}, summarizeDocumentPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "create-team-prompt",
		Title:       "Create Team Prompt",
		Description: "Gather a team name and description before calling create-team.",
		Arguments: []*mcp.PromptArgument{
			{Name: "name", Description: "proposed team name"},
			{Name: "description", Description: "proposed team description"},
		},
	}, createTeamPrompt)
}

func promptArg(req *mcp.GetPromptRequest, name string) string {
	if req == nil || req.Params == nil {
		return ""
	}
	return strings.TrimSpace(req.Params.Arguments[name])
}

func summarizeDocumentPrompt(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	id := promptArg(req, "document_id")
	if id == "" {
		return nil, fmt.Errorf("document_id is required")
	}
	length := promptArg(req, "length")
	if length == "" {
		length = "short"
	}
	return &mcp.GetPromptResult{
		Description: "Summarize document " + id,
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: fmt.Sprintf("Please provide a %s summary of the following document.", length)}},
			{Role: "user", Content: &mcp.EmbeddedResource{Resource: &mcp.ResourceContents{URI: documentURI(id)}}},
		},
	}, nil
}

func createTeamPrompt(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	nameMsg := "Please suggest a concise team name."
	if name := promptArg(req, "name"); name != "" {
		nameMsg = "Proposed team name: " + name
	}
	descMsg := "Please suggest a short description for the team."
	if desc := promptArg(req, "description"); desc != "" {
		descMsg = "Proposed description: " + desc
	}
	return &mcp.GetPromptResult{
		Description: "Collect team details",
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: nameMsg}},
			{Role: "user", Content: &mcp.TextContent{Text: descMsg}},
			{Role: "assistant", Content: &mcp.TextContent{Text: "Please confirm or improve the above and return final name and description."}},
		},
	}, nil
}
