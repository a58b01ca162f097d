package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

const maxMemory = 32 << 20 // 32 MB

var (
	// ErrEmptyBody is returned by Bind when the request has no body.
	ErrEmptyBody = errors.New("empty request body")

	// ErrBodyTooLarge is returned when the body exceeds the request's limit.
	ErrBodyTooLarge = errors.New("request body too large")
)

// Request wraps *http.Request with input helpers.
type Request struct {
	raw   *http.Request
	limit int64
}

// NewRequest wraps a standard *http.Request. Bodies are read up to 32 MB.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r, limit: maxMemory}
}

// LimitBody sets the maximum number of body bytes Bind and Decode accept.
func (req *Request) LimitBody(n int64) *Request {
	req.limit = n
	return req
}

// Raw returns the underlying *http.Request.
func (req *Request) Raw() *http.Request { return req.raw }

// ── Binding ──────────────────────────────────────────────────────────────────

// Bind decodes the request body into v.
// Supports JSON and application/x-www-form-urlencoded / multipart.
// Both map onto struct fields via `json:"name"` tags.
func (req *Request) Bind(v any) error {
	req.limitBody()
	ct := req.ContentType()

	switch {
	case strings.Contains(ct, "application/json"):
		return req.bindJSON(v)
	case strings.Contains(ct, "multipart/form-data"):
		if err := req.raw.ParseMultipartForm(maxMemory); err != nil {
			return bodyError(err, "parsing multipart form")
		}
		return bindForm(req.raw.MultipartForm.Value, v)
	default:
		if err := req.raw.ParseForm(); err != nil {
			return bodyError(err, "parsing form")
		}
		return bindForm(map[string][]string(req.raw.PostForm), v)
	}
}

// Decode reads the body once into a generic value: the decoded JSON document
// for JSON requests, a map[string]string for form requests, nil when the body
// is empty. A body over the limit fails with ErrBodyTooLarge.
func (req *Request) Decode() (any, error) {
	if req.raw.Body == nil || req.raw.Body == http.NoBody {
		return nil, nil
	}
	req.limitBody()
	if strings.Contains(req.ContentType(), "application/json") || req.ContentType() == "" {
		body, err := io.ReadAll(req.raw.Body)
		_ = req.raw.Body.Close()
		if err != nil {
			return nil, bodyError(err, "reading body")
		}
		if len(strings.TrimSpace(string(body))) == 0 {
			return nil, nil
		}
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, errors.Wrap(err, "decoding JSON body")
		}
		return v, nil
	}

	if strings.Contains(req.ContentType(), "multipart/form-data") {
		if err := req.raw.ParseMultipartForm(maxMemory); err != nil {
			return nil, bodyError(err, "parsing multipart form")
		}
		return flatten(req.raw.MultipartForm.Value), nil
	}
	if err := req.raw.ParseForm(); err != nil {
		return nil, bodyError(err, "parsing form")
	}
	return flatten(req.raw.PostForm), nil
}

// limitBody caps the body once; later reads share the same limit.
func (req *Request) limitBody() {
	if req.raw.Body == nil || req.raw.Body == http.NoBody || req.limit <= 0 {
		return
	}
	if _, capped := req.raw.Body.(*limitedBody); capped {
		return
	}
	req.raw.Body = &limitedBody{http.MaxBytesReader(nil, req.raw.Body, req.limit)}
}

type limitedBody struct{ io.ReadCloser }

func bodyError(err error, action string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errors.Wrap(ErrBodyTooLarge, action)
	}
	return errors.Wrap(err, action)
}

func (req *Request) bindJSON(v any) error {
	defer req.raw.Body.Close()
	body, err := io.ReadAll(req.raw.Body)
	if err != nil {
		return bodyError(err, "reading body")
	}
	if len(body) == 0 {
		return ErrEmptyBody
	}
	return json.Unmarshal(body, v)
}

// bindForm maps form values onto v through a JSON round-trip, so the same
// `json` tags serve both encodings.
func bindForm(values map[string][]string, v any) error {
	m := make(map[string]any, len(values))
	for k, vals := range values {
		if len(vals) == 1 {
			m[k] = vals[0]
		} else {
			m[k] = vals
		}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func flatten(values map[string][]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// ── Input helpers ────────────────────────────────────────────────────────────

// Input returns a single input value (query string OR post body).
func (req *Request) Input(key string, fallback ...string) string {
	_ = req.raw.ParseForm()
	v := req.raw.FormValue(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.raw.URL.Query().Get(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// QueryMap returns the query string as a flat map (first value per key).
func (req *Request) QueryMap() map[string]string {
	return flatten(req.raw.URL.Query())
}

// All returns all input as a flat map (query + post).
func (req *Request) All() map[string]string {
	_ = req.raw.ParseForm()
	return flatten(req.raw.Form)
}

// Has returns true if the key is present and non-empty.
func (req *Request) Has(key string) bool {
	return req.Input(key) != ""
}

// RouteParam returns a URL route parameter (chi).
func (req *Request) RouteParam(key string) string {
	return chi.URLParam(req.raw, key)
}

// RouteParams returns every URL route parameter matched by chi.
func (req *Request) RouteParams() map[string]string {
	out := make(map[string]string)
	rctx := chi.RouteContext(req.raw.Context())
	if rctx == nil {
		return out
	}
	for i, key := range rctx.URLParams.Keys {
		if key == "*" || i >= len(rctx.URLParams.Values) {
			continue
		}
		out[key] = rctx.URLParams.Values[i]
	}
	return out
}

// Header returns a request header value.
func (req *Request) Header(key string) string {
	return req.raw.Header.Get(key)
}

// BearerToken extracts the token from Authorization: Bearer <token>.
func (req *Request) BearerToken() string {
	auth := req.raw.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// Method returns the HTTP method.
func (req *Request) Method() string { return req.raw.Method }

// Path returns the URL path.
func (req *Request) Path() string { return req.raw.URL.Path }

// ContentType returns the Content-Type header value.
func (req *Request) ContentType() string {
	return req.raw.Header.Get("Content-Type")
}

// IsJSON returns true when the request expects a JSON response.
func (req *Request) IsJSON() bool {
	return strings.Contains(req.raw.Header.Get("Accept"), "application/json") ||
		strings.Contains(req.ContentType(), "application/json")
}
