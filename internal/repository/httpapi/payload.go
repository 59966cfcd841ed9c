package httpapi

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"docportal/internal/httpclient"
)

// Doer is the subset of httpclient.Client the repositories use.
type Doer interface {
	Do(ctx context.Context, path string, opt httpclient.Options) (*httpclient.Response, error)
	PostMultipart(ctx context.Context, path string, query url.Values, field, fileName string, content []byte) (*httpclient.Response, error)
}

var _ Doer = (*httpclient.Client)(nil)

// present reports whether v carries a usable value (JSON null counts as absent).
func present(v gjson.Result) bool {
	return v.Exists() && v.Type != gjson.Null
}

// firstOf returns the first present value among paths.
func firstOf(r gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := r.Get(p); present(v) {
			return v
		}
	}
	return gjson.Result{}
}

// str returns the first present value among paths rendered as a string,
// or def.
func str(r gjson.Result, def string, paths ...string) string {
	if v := firstOf(r, paths...); present(v) {
		return v.String()
	}
	return def
}

// strictStr is str restricted to JSON strings.
func strictStr(r gjson.Result, def string, paths ...string) string {
	for _, p := range paths {
		if v := r.Get(p); v.Type == gjson.String {
			return v.String()
		}
	}
	return def
}

// num returns the first present value among paths as an integer. Numeric
// strings are accepted.
func num(r gjson.Result, paths ...string) int64 {
	v := firstOf(r, paths...)
	switch v.Type {
	case gjson.Number:
		return v.Int()
	case gjson.String:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err == nil {
			return int64(n)
		}
	}
	return 0
}

// listOf returns the elements of the first array found among paths.
func listOf(r gjson.Result, paths ...string) []gjson.Result {
	for _, p := range paths {
		if v := r.Get(p); v.IsArray() {
			return v.Array()
		}
	}
	return nil
}

// objectOf returns the first JSON object found among paths.
func objectOf(r gjson.Result, paths ...string) (gjson.Result, bool) {
	for _, p := range paths {
		if v := r.Get(p); v.IsObject() {
			return v, true
		}
	}
	return gjson.Result{}, false
}

// unwrap returns r.data when present, else r.
func unwrap(r gjson.Result) gjson.Result {
	if v := r.Get("data"); present(v) {
		return v
	}
	return r
}

// intField reads key as an integer, accepting numeric strings.
func intField(r gjson.Result, key string) (int64, bool) {
	v := r.Get(key)
	switch v.Type {
	case gjson.Number:
		return v.Int(), true
	case gjson.String:
		n, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64)
		return n, err == nil
	}
	return 0, false
}

// codeOf returns the envelope's code field.
func codeOf(r gjson.Result) (int64, bool) {
	return intField(r, "code")
}

// succeeded applies the envelope success rule used by every mutation:
// a 2xx status or code, success:true at either level, or code 0. Bodies
// that are not JSON objects carry no envelope and count as success.
func succeeded(r gjson.Result) bool {
	if !r.IsObject() {
		return true
	}
	if statusOK(r, "status") || statusOK(r, "code") {
		return true
	}
	inner := unwrap(r)
	for _, lvl := range []gjson.Result{r, inner} {
		if lvl.Get("success").Type == gjson.True {
			return true
		}
		if n, ok := codeOf(lvl); ok && n == 0 {
			return true
		}
	}
	return false
}

// statusOK reports whether key holds a 2xx status.
func statusOK(r gjson.Result, key string) bool {
	n, ok := intField(r, key)
	return ok && n >= 200 && n < 300
}

// message returns the backend's message at either envelope level, or def.
func message(r gjson.Result, def string) string {
	return strictStr(r, def, "message", "data.message", "msg")
}

// segment escapes a single path segment.
func segment(s string) string {
	return url.PathEscape(s)
}
