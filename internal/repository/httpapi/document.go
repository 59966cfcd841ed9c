package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"docportal/internal/httpclient"
	"docportal/internal/model"
	"docportal/internal/repository"
)

// Documents implements repository.DocumentRepository.
type Documents struct {
	client Doer
	prefix string
}

var _ repository.DocumentRepository = (*Documents)(nil)

func NewDocuments(client Doer, prefix string) *Documents {
	return &Documents{client: client, prefix: strings.TrimRight(prefix, "/")}
}

func (d *Documents) path(parts ...string) string {
	p := d.prefix
	for _, s := range parts {
		p += "/" + segment(s)
	}
	return p
}

func (d *Documents) List(ctx context.Context) ([]model.Document, error) {
	return d.list(ctx, nil)
}

func (d *Documents) ListByStatus(ctx context.Context, status string) ([]model.Document, error) {
	var q url.Values
	if status != "" {
		q = url.Values{"status": {strings.ToUpper(status)}}
	}
	return d.list(ctx, q)
}

func (d *Documents) list(ctx context.Context, q url.Values) ([]model.Document, error) {
	res, err := d.client.Do(ctx, d.prefix, httpclient.Options{Query: q})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	r := res.Result()
	if code, ok := codeOf(r); ok && code != 0 && code != 200 {
		return nil, repository.RejectedError(message(r, "failed to fetch documents"))
	}
	items := listOf(r, "data.documents", "documents")
	out := make([]model.Document, 0, len(items))
	for _, it := range items {
		out = append(out, mapDocument(it))
	}
	return out, nil
}

var yearToken = regexp.MustCompile(`\b20\d{2}\b`)

// AdvancedSearch matches the query as a case-insensitive substring of the
// name, type, category or any tag. A query containing a 20xx year also
// matches every document whose upload date contains a 20xx year.
func (d *Documents) AdvancedSearch(ctx context.Context, query string) ([]model.Document, error) {
	all, err := d.List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all, nil
	}
	queryHasYear := yearToken.MatchString(q)

	out := make([]model.Document, 0, len(all))
	for _, doc := range all {
		if matchesQuery(doc, q) || (queryHasYear && yearToken.MatchString(doc.UploadDate)) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func matchesQuery(doc model.Document, q string) bool {
	if strings.Contains(strings.ToLower(doc.Name), q) ||
		strings.Contains(strings.ToLower(doc.Type), q) ||
		strings.Contains(strings.ToLower(doc.Category), q) {
		return true
	}
	for _, t := range doc.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

func (d *Documents) SearchByTags(ctx context.Context, tags []string) ([]model.Document, error) {
	all, err := d.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return all, nil
	}
	want := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		want[strings.ToLower(t)] = struct{}{}
	}

	out := make([]model.Document, 0, len(all))
	for _, doc := range all {
		for _, t := range doc.Tags {
			if _, ok := want[strings.ToLower(t)]; ok {
				out = append(out, doc)
				break
			}
		}
	}
	return out, nil
}

func (d *Documents) ShareURL(ctx context.Context, documentID string, expirationMinutes int) (string, error) {
	if documentID == "" {
		return "", fmt.Errorf("%w: document id is required", repository.ErrInvalidInput)
	}
	q := url.Values{"documentId": {documentID}}
	if expirationMinutes > 0 {
		q.Set("expirationMinutes", strconv.Itoa(expirationMinutes))
	}
	res, err := d.client.Do(ctx, d.prefix+"/share", httpclient.Options{Query: q})
	if err != nil {
		return "", fmt.Errorf("share document: %w", err)
	}
	if !res.IsJSON() {
		if text := strings.TrimSpace(res.Text()); isAbsoluteURL(text) {
			return text, nil
		}
	}
	link := str(res.Result(), "", "data.url", "url", "data.shareUrl")
	if link == "" {
		return "", repository.MalformedError("share url not found")
	}
	return link, nil
}

func (d *Documents) DownloadInfo(ctx context.Context, documentID string) (model.DownloadInfo, error) {
	if documentID == "" {
		return model.DownloadInfo{}, fmt.Errorf("%w: document id is required", repository.ErrInvalidInput)
	}
	res, err := d.client.Do(ctx, d.path("download", documentID), httpclient.Options{})
	if err != nil {
		return model.DownloadInfo{}, fmt.Errorf("download document: %w", err)
	}
	data := unwrap(res.Result())
	inner := unwrap(data)
	link := str(inner, "", "url", "downloadUrl")
	if link == "" {
		link = str(data, "", "url", "downloadUrl")
	}
	if link == "" {
		return model.DownloadInfo{}, repository.MalformedError("download url not found")
	}
	return model.DownloadInfo{
		URL:      link,
		FileName: strictStr(inner, strictStr(data, "", "fileName"), "fileName"),
	}, nil
}

// DownloadContent resolves the download URL and fetches the bytes behind
// it. Presigned absolute URLs are fetched without credentials.
func (d *Documents) DownloadContent(ctx context.Context, documentID string) ([]byte, model.DownloadInfo, error) {
	info, err := d.DownloadInfo(ctx, documentID)
	if err != nil {
		return nil, model.DownloadInfo{}, err
	}
	res, err := d.client.Do(ctx, info.URL, httpclient.Options{NoAuth: isAbsoluteURL(info.URL)})
	if err != nil {
		return nil, info, fmt.Errorf("fetch document content: %w", err)
	}
	return res.Bytes(), info, nil
}

func (d *Documents) Delete(ctx context.Context, documentID string) (model.Result, error) {
	if documentID == "" {
		return model.Result{}, fmt.Errorf("%w: document id is required", repository.ErrInvalidInput)
	}
	res, err := d.client.Do(ctx, d.path(documentID), httpclient.Options{Method: http.MethodDelete})
	if err != nil {
		return model.Result{}, fmt.Errorf("delete document: %w", err)
	}
	// A 2xx status field wins; otherwise only data.success:false fails.
	r := res.Result()
	ok := statusOK(r, "status") || r.Get("data.success").Type != gjson.False
	return model.Result{Success: ok, Message: strictStr(r, "", "data.message", "message")}, nil
}

func (d *Documents) Comments(ctx context.Context, documentID string, pq repository.PageQuery) ([]model.Comment, error) {
	if documentID == "" {
		return nil, fmt.Errorf("%w: document id is required", repository.ErrInvalidInput)
	}
	q := url.Values{}
	if pq.Page > 0 {
		q.Set("page", strconv.Itoa(pq.Page))
	}
	if pq.Size > 0 {
		q.Set("size", strconv.Itoa(pq.Size))
	}
	res, err := d.client.Do(ctx, d.path(documentID, "comments"), httpclient.Options{Query: q})
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	items := listOf(res.Result(), "data.comments", "comments", "data.data.comments", "data.content", "data")
	out := make([]model.Comment, 0, len(items))
	for _, it := range items {
		out = append(out, mapComment(it, "Unknown", ""))
	}
	return out, nil
}

type commentRequest struct {
	DocumentID string `json:"documentId"`
	Content    string `json:"content"`
}

func (d *Documents) AddComment(ctx context.Context, documentID, content string) (model.Comment, error) {
	content = strings.TrimSpace(content)
	if documentID == "" || content == "" {
		return model.Comment{}, fmt.Errorf("%w: document id and content are required", repository.ErrInvalidInput)
	}
	res, err := d.client.Do(ctx, d.path(documentID, "comments"), httpclient.Options{
		Method: http.MethodPost,
		Body:   commentRequest{DocumentID: documentID, Content: content},
	})
	if err != nil {
		return model.Comment{}, fmt.Errorf("add comment: %w", err)
	}
	r := res.Result()
	if !succeeded(r) {
		return model.Comment{}, repository.RejectedError(message(r, "failed to add comment"))
	}
	c, _ := objectOf(r, "data")
	return mapComment(c, "Me", content), nil
}

// UpdateTags replaces the document's tag set and returns the tags the
// backend reports, or the submitted tags when it reports none.
func (d *Documents) UpdateTags(ctx context.Context, documentID string, tags []string) ([]string, error) {
	if documentID == "" {
		return nil, fmt.Errorf("%w: document id is required", repository.ErrInvalidInput)
	}
	if tags == nil {
		tags = []string{}
	}
	res, err := d.client.Do(ctx, d.path(documentID, "tags"), httpclient.Options{
		Method: http.MethodPost,
		Body:   tags,
	})
	if err != nil {
		return nil, fmt.Errorf("update tags: %w", err)
	}
	r := res.Result()
	if !succeeded(r) {
		return nil, repository.RejectedError(message(r, "failed to update tags"))
	}
	if v := r.Get("data.tags"); v.IsArray() {
		return cleanTags(v), nil
	}
	return tags, nil
}

func (d *Documents) Upload(ctx context.Context, in model.UploadInput) (model.Document, error) {
	if strings.TrimSpace(in.FileName) == "" || in.Content == nil {
		return model.Document{}, fmt.Errorf("%w: file name and content are required", repository.ErrInvalidInput)
	}
	q := url.Values{"fileName": {in.FileName}}
	if in.Description != "" {
		q.Set("description", in.Description)
	}
	res, err := d.client.PostMultipart(ctx, d.prefix+"/upload", q, "file", in.FileName, in.Content)
	if err != nil {
		return model.Document{}, fmt.Errorf("upload document: %w", err)
	}
	r := res.Result()
	if !succeeded(r) {
		return model.Document{}, repository.RejectedError(message(r, "failed to upload document"))
	}

	data, _ := objectOf(r, "data", "@this")
	doc := mapDocument(data)
	if !present(data.Get("fileName")) {
		doc.Name = in.FileName
		if ext := fileExtension(in.FileName); ext != "" {
			doc.Type = ext
		}
	}
	if !present(data.Get("fileSize")) {
		doc.SizeBytes = int64(len(in.Content))
		doc.Size = formatBytes(doc.SizeBytes)
	}
	if doc.Description == "" {
		doc.Description = in.Description
	}
	return doc, nil
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
