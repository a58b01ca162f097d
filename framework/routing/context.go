package routing

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5/middleware"

	gohttp "github.com/mohfalahisnan/honorer/framework/http"
)

// Context is handed to controller handlers that ask for it.
type Context struct {
	Writer   http.ResponseWriter
	Request  *http.Request
	Input    *gohttp.Request
	Response *gohttp.Response

	ww middleware.WrapResponseWriter
}

func newContext(w http.ResponseWriter, r *http.Request) *Context {
	ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
	return &Context{
		Writer:   ww,
		Request:  r,
		Input:    gohttp.NewRequest(r),
		Response: gohttp.NewResponse(ww),
		ww:       ww,
	}
}

// Context returns the request context.
func (c *Context) Context() context.Context { return c.Request.Context() }

// Param returns a URL route parameter.
func (c *Context) Param(key string) string { return Param(c.Request, key) }

// Vars returns the request-scoped binding store.
func (c *Context) Vars() *Vars { return VarsFrom(c.Request.Context()) }

// Written reports whether the handler already sent a response.
func (c *Context) Written() bool { return c.ww.Status() != 0 }

// ── Vars ─────────────────────────────────────────────────────────────────────

// Vars is the request-scoped store of raw inputs and validated binding
// values. Each raw input is read at most once per request.
type Vars struct {
	mu     sync.Mutex
	raw    map[Kind]rawInput
	values map[int]any
}

type rawInput struct {
	value any
	err   error
}

type varsKey struct{}

// VarsFrom returns the store carried by ctx, or nil.
func VarsFrom(ctx context.Context) *Vars {
	v, _ := ctx.Value(varsKey{}).(*Vars)
	return v
}

// withVars returns r carrying a store, reusing one already attached.
func withVars(r *http.Request) (*http.Request, *Vars) {
	if v := VarsFrom(r.Context()); v != nil {
		return r, v
	}
	v := &Vars{raw: make(map[Kind]rawInput), values: make(map[int]any)}
	return r.WithContext(context.WithValue(r.Context(), varsKey{}, v)), v
}

// Value returns the validated value bound to handler parameter index.
func (v *Vars) Value(index int) (any, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	val, ok := v.values[index]
	return val, ok
}

func (v *Vars) set(index int, value any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.values[index] = value
}

// Raw returns the unvalidated input of kind, reading it from r on first use.
func (v *Vars) Raw(kind Kind, r *http.Request) (any, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if in, ok := v.raw[kind]; ok {
		return in.value, in.err
	}

	var in rawInput
	req := gohttp.NewRequest(r)
	switch kind {
	case KindParam:
		in.value = req.RouteParams()
	case KindQuery:
		in.value = req.QueryMap()
	case KindBody:
		in.value, in.err = req.Decode()
	}
	v.raw[kind] = in
	return in.value, in.err
}
