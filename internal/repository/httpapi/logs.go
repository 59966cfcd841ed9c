package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"docportal/internal/httpclient"
	"docportal/internal/model"
	"docportal/internal/repository"
)

// Logs implements repository.LogsRepository.
type Logs struct {
	client Doer
	prefix string
}

var _ repository.LogsRepository = (*Logs)(nil)

func NewLogs(client Doer, prefix string) *Logs {
	return &Logs{client: client, prefix: strings.TrimRight(prefix, "/")}
}

func (l *Logs) All(ctx context.Context) ([]model.LogEntry, error) {
	return l.entries(ctx, l.prefix, nil)
}

func (l *Logs) ByDocument(ctx context.Context, documentID string) ([]model.LogEntry, error) {
	if documentID == "" {
		return nil, fmt.Errorf("%w: document id is required", repository.ErrInvalidInput)
	}
	return l.entries(ctx, l.prefix+"/documents", url.Values{"documentId": {documentID}})
}

func (l *Logs) entries(ctx context.Context, path string, q url.Values) ([]model.LogEntry, error) {
	res, err := l.client.Do(ctx, path, httpclient.Options{Query: q})
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	items := logItems(res.Result())
	out := make([]model.LogEntry, 0, len(items))
	for i, it := range items {
		out = append(out, mapLog(it, i))
	}
	return out, nil
}

// logItems accepts either {data:[...]} or a bare array. Any other shape
// yields no entries.
func logItems(r gjson.Result) []gjson.Result {
	data := unwrap(r)
	if !data.IsArray() {
		return nil
	}
	return data.Array()
}

func (l *Logs) Count(ctx context.Context, period string) ([]model.LogCount, error) {
	var q url.Values
	switch period {
	case "":
	case "week", "month":
		q = url.Values{"period": {period}}
	default:
		return nil, fmt.Errorf("%w: period must be week or month", repository.ErrInvalidInput)
	}
	res, err := l.client.Do(ctx, l.prefix+"/count", httpclient.Options{Method: http.MethodPost, Query: q})
	if err != nil {
		return nil, fmt.Errorf("count logs: %w", err)
	}
	r := res.Result()
	items := listOf(r, "data", "@this")
	if items == nil {
		if obj, ok := objectOf(r, "data", "@this"); ok && present(obj.Get("count")) {
			items = []gjson.Result{obj}
		}
	}
	out := make([]model.LogCount, 0, len(items))
	for _, it := range items {
		out = append(out, mapCount(it))
	}
	return out, nil
}
