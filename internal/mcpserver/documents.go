package mcpserver

import (
	"context"
	"encoding/base64"
	"fmt"
	"unicode/utf8"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"docportal/internal/model"
	"docportal/internal/repository"
)

// maxInlineContent caps the bytes download-document-content returns.
const maxInlineContent = 1 << 20

type DocumentListInput struct {
	Status string `json:"status,omitempty" jsonschema:"optional status filter: UPLOADING, ACTIVE, DELETED or PROCESSING"`
}

type DocumentList struct {
	Documents []model.Document `json:"documents" jsonschema:"matching documents"`
	Total     int              `json:"total" jsonschema:"number of documents returned"`
}

type SearchInput struct {
	Query string `json:"query" jsonschema:"case-insensitive substring of name, type, category or a tag; a 20xx year in the query also matches documents uploaded in any 20xx year"`
}

type TagSearchInput struct {
	Tags []string `json:"tags" jsonschema:"documents carrying any of these tags match, case-insensitively"`
}

type DocumentIDInput struct {
	DocumentID string `json:"document_id" jsonschema:"document identifier"`
}

type ShareInput struct {
	DocumentID        string `json:"document_id" jsonschema:"document identifier"`
	ExpirationMinutes int    `json:"expiration_minutes,omitempty" jsonschema:"link lifetime in minutes (default 60)"`
}

type ShareResult struct {
	URL               string `json:"url" jsonschema:"shareable link"`
	ExpirationMinutes int    `json:"expiration_minutes" jsonschema:"link lifetime in minutes"`
}

type ContentResult struct {
	FileName string `json:"file_name,omitempty" jsonschema:"stored file name"`
	Size     int    `json:"size" jsonschema:"content length in bytes"`
	Encoding string `json:"encoding" jsonschema:"text or base64"`
	Content  string `json:"content" jsonschema:"file content"`
}

type TagsInput struct {
	DocumentID string   `json:"document_id" jsonschema:"document identifier"`
	Tags       []string `json:"tags" jsonschema:"replacement tag list"`
}

type TagsResult struct {
	Tags []string `json:"tags" jsonschema:"tags now stored on the document"`
}

type CommentsInput struct {
	DocumentID string `json:"document_id" jsonschema:"document identifier"`
	Page       int    `json:"page,omitempty" jsonschema:"zero-based page"`
	Size       int    `json:"size,omitempty" jsonschema:"page size"`
}

type CommentList struct {
	Comments []model.Comment `json:"comments" jsonschema:"comments on the document"`
}

type AddCommentInput struct {
	DocumentID string `json:"document_id" jsonschema:"document identifier"`
	Content    string `json:"content" jsonschema:"comment text"`
}

type UploadInput struct {
	FileName    string `json:"file_name" jsonschema:"name to store the file under"`
	Content     string `json:"content" jsonschema:"file content"`
	Encoding    string `json:"encoding,omitempty" jsonschema:"text (default) or base64"`
	Description string `json:"description,omitempty" jsonschema:"optional description"`
}

func registerDocumentTools(server *mcp.Server, docs func() repository.DocumentRepository) {
	mcp.AddTool(server, &mcp.Tool{Name: "get-documents", Description: "Fetch a list of documents."}, getDocuments(docs))
	mcp.AddTool(server, &mcp.Tool{Name: "search-documents", Description: "Search documents by free text."}, searchDocuments(docs))
	mcp.AddTool(server, &mcp.Tool{Name: "search-documents-by-tags", Description: "Find documents carrying any of the given tags."}, searchByTags(docs))
	mcp.AddTool(server, &mcp.Tool{Name: "share-document", Description: "Generate a shareable link for a document."}, shareDocument(docs))
	mcp.AddTool(server, &mcp.Tool{Name: "download-document-metadata", Description: "Download metadata for a document."}, downloadMetadata(docs))
	mcp.AddTool(server, &mcp.Tool{Name: "download-document-content", Description: "Download the content of a document."}, downloadContent(docs))
	mcp.AddTool(server, &mcp.Tool{Name: "delete-document", Description: "Delete a document."}, deleteDocument(docs))
	mcp.AddTool(server, &mcp.Tool{Name: "update-document-tags", Description: "Replace the tags of a document."}, updateTags(docs))
	mcp.AddTool(server, &mcp.Tool{Name: "get-document-comments", Description: "Fetch comments on a document."}, getComments(docs))
	mcp.AddTool(server, &mcp.Tool{Name: "add-document-comment", Description: "Comment on a document."}, addComment(docs))
	mcp.AddTool(server, &mcp.Tool{Name: "upload-document", Description: "Upload a document."}, uploadDocument(docs))
}

func listOf(items []model.Document) DocumentList {
	if items == nil {
		items = []model.Document{}
	}
	return DocumentList{Documents: items, Total: len(items)}
}

func getDocuments(docs func() repository.DocumentRepository) mcp.ToolHandlerFor[DocumentListInput, DocumentList] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in DocumentListInput) (*mcp.CallToolResult, DocumentList, error) {
		var (
			items []model.Document
			err   error
		)
		if in.Status != "" {
			items, err = docs().ListByStatus(ctx, in.Status)
		} else {
			items, err = docs().List(ctx)
		}
		if err != nil {
			return nil, DocumentList{}, err
		}
		return nil, listOf(items), nil
	}
}

func searchDocuments(docs func() repository.DocumentRepository) mcp.ToolHandlerFor[SearchInput, DocumentList] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, DocumentList, error) {
		items, err := docs().AdvancedSearch(ctx, in.Query)
		if err != nil {
			return nil, DocumentList{}, err
		}
		return nil, listOf(items), nil
	}
}

func searchByTags(docs func() repository.DocumentRepository) mcp.ToolHandlerFor[TagSearchInput, DocumentList] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in TagSearchInput) (*mcp.CallToolResult, DocumentList, error) {
		items, err := docs().SearchByTags(ctx, in.Tags)
		if err != nil {
			return nil, DocumentList{}, err
		}
		return nil, listOf(items), nil
	}
}

func shareDocument(docs func() repository.DocumentRepository) mcp.ToolHandlerFor[ShareInput, ShareResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ShareInput) (*mcp.CallToolResult, ShareResult, error) {
		minutes := in.ExpirationMinutes
		if minutes <= 0 {
			minutes = 60
		}
		u, err := docs().ShareURL(ctx, in.DocumentID, minutes)
		if err != nil {
			return nil, ShareResult{}, err
		}
		return nil, ShareResult{URL: u, ExpirationMinutes: minutes}, nil
	}
}

func downloadMetadata(docs func() repository.DocumentRepository) mcp.ToolHandlerFor[DocumentIDInput, model.DownloadInfo] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in DocumentIDInput) (*mcp.CallToolResult, model.DownloadInfo, error) {
		info, err := docs().DownloadInfo(ctx, in.DocumentID)
		if err != nil {
			return nil, model.DownloadInfo{}, err
		}
		return nil, info, nil
	}
}

// downloadContent returns UTF-8 content as text and anything else as
// base64.
func downloadContent(docs func() repository.DocumentRepository) mcp.ToolHandlerFor[DocumentIDInput, ContentResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in DocumentIDInput) (*mcp.CallToolResult, ContentResult, error) {
		data, info, err := docs().DownloadContent(ctx, in.DocumentID)
		if err != nil {
			return nil, ContentResult{}, err
		}
		if len(data) > maxInlineContent {
			return nil, ContentResult{}, fmt.Errorf("document is %d bytes, above the %d byte inline limit; use download-document-metadata for a link", len(data), maxInlineContent)
		}
		out := ContentResult{FileName: info.FileName, Size: len(data), Encoding: "text", Content: string(data)}
		if !utf8.Valid(data) {
			out.Encoding = "base64"
			out.Content = base64.StdEncoding.EncodeToString(data)
		}
		return nil, out, nil
	}
}

func deleteDocument(docs func() repository.DocumentRepository) mcp.ToolHandlerFor[DocumentIDInput, model.Result] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in DocumentIDInput) (*mcp.CallToolResult, model.Result, error) {
		res, err := docs().Delete(ctx, in.DocumentID)
		if err != nil {
			return nil, model.Result{}, err
		}
		return nil, res, nil
	}
}

func updateTags(docs func() repository.DocumentRepository) mcp.ToolHandlerFor[TagsInput, TagsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in TagsInput) (*mcp.CallToolResult, TagsResult, error) {
		tags, err := docs().UpdateTags(ctx, in.DocumentID, in.Tags)
		if err != nil {
			return nil, TagsResult{}, err
		}
		return nil, TagsResult{Tags: tags}, nil
	}
}

func getComments(docs func() repository.DocumentRepository) mcp.ToolHandlerFor[CommentsInput, CommentList] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in CommentsInput) (*mcp.CallToolResult, CommentList, error) {
		items, err := docs().Comments(ctx, in.DocumentID, repository.PageQuery{Page: in.Page, Size: in.Size})
		if err != nil {
			return nil, CommentList{}, err
		}
		if items == nil {
			items = []model.Comment{}
		}
		return nil, CommentList{Comments: items}, nil
	}
}

func addComment(docs func() repository.DocumentRepository) mcp.ToolHandlerFor[AddCommentInput, model.Comment] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in AddCommentInput) (*mcp.CallToolResult, model.Comment, error) {
		c, err := docs().AddComment(ctx, in.DocumentID, in.Content)
		if err != nil {
			return nil, model.Comment{}, err
		}
		return nil, c, nil
	}
}

func uploadDocument(docs func() repository.DocumentRepository) mcp.ToolHandlerFor[UploadInput, model.Document] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UploadInput) (*mcp.CallToolResult, model.Document, error) {
		content := []byte(in.Content)
		switch in.Encoding {
		case "", "text":
		case "base64":
			decoded, err := base64.StdEncoding.DecodeString(in.Content)
			if err != nil {
				return nil, model.Document{}, fmt.Errorf("decode base64 content: %w", err)
			}
			content = decoded
		default:
			return nil, model.Document{}, fmt.Errorf("unsupported encoding %q", in.Encoding)
		}
		doc, err := docs().Upload(ctx, model.UploadInput{FileName: in.FileName, Description: in.Description, Content: content})
		if err != nil {
			return nil, model.Document{}, err
		}
		return nil, doc, nil
	}
}
