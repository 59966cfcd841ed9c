package httpclient

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// ErrNotJSON is returned by Decode when the response was not JSON.
var ErrNotJSON = errors.New("response is not json")

// Response is a fully read, successful HTTP response.
type Response struct {
	Status int
	Header http.Header
	body   []byte
	json   bool
}

func newResponse(status int, header http.Header, body []byte) *Response {
	return &Response{
		Status: status,
		Header: header,
		body:   body,
		json:   isJSON(header.Get("Content-Type")),
	}
}

// IsJSON reports whether the server declared a JSON content type.
func (r *Response) IsJSON() bool { return r.json }

// Bytes returns the raw body.
func (r *Response) Bytes() []byte { return r.body }

// Text returns the raw body as a string.
func (r *Response) Text() string { return string(r.body) }

// Result returns a gjson view of a JSON body. Non-JSON bodies yield a
// Result whose Exists reports false.
func (r *Response) Result() gjson.Result {
	if !r.json || !gjson.ValidBytes(r.body) {
		return gjson.Result{}
	}
	return gjson.ParseBytes(r.body)
}

// Decode unmarshals a JSON body into v.
func (r *Response) Decode(v any) error {
	if !r.json {
		return ErrNotJSON
	}
	return json.Unmarshal(r.body, v)
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

const maxErrorBody = 512

// errorBody picks the most useful text from a failed response.
func errorBody(contentType string, body []byte) string {
	if isJSON(contentType) && gjson.ValidBytes(body) {
		res := gjson.ParseBytes(body)
		for _, path := range []string{"message", "error", "error_description"} {
			if v := res.Get(path); v.Type == gjson.String && v.String() != "" {
				return v.String()
			}
		}
	}
	return truncate(strings.TrimSpace(string(body)), maxErrorBody)
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
