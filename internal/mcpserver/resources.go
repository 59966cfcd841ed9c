package mcpserver

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"docportal/internal/repository"
)

const documentURIPrefix = "resource://document/"

func documentURI(id string) string {
	return documentURIPrefix + url.PathEscape(id)
}

// documentIDFromURI extracts the id from resource://document/{document_id}.
func documentIDFromURI(uri string) (string, error) {
	rest, ok := strings.CutPrefix(uri, documentURIPrefix)
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", fmt.Errorf("expected %s{document_id}, got %q", documentURIPrefix, uri)
	}
	return url.PathUnescape(rest)
}

func registerResources(server *mcp.Server, docs func() repository.DocumentRepository) {
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		Name:        "document",
		Title:       "Document content",
		Description: "Content of a document. UTF-8 files are returned as text, anything else as a blob.",
		URITemplate: documentURIPrefix + "{document_id}",
	}, documentResource(docs))
}

func documentResource(docs func() repository.DocumentRepository) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if req == nil || req.Params == nil {
			return nil, fmt.Errorf("document URI is required")
		}
		uri := req.Params.URI
		id, err := documentIDFromURI(uri)
		if err != nil {
			return nil, err
		}
		data, info, err := docs().DownloadContent(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(data) > maxInlineContent {
			return nil, fmt.Errorf("document is %d bytes, above the %d byte inline limit", len(data), maxInlineContent)
		}

		mimeType := mime.TypeByExtension(path.Ext(info.FileName))
		if mimeType == "" {
			mimeType = http.DetectContentType(data)
		}
		contents := &mcp.ResourceContents{URI: uri, MIMEType: mimeType}
		if utf8.Valid(data) {
			contents.Text = string(data)
		} else {
			contents.Blob = data
		}
		return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{contents}}, nil
	}
}
