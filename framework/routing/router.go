package routing

import (
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	gohttp "github.com/mohfalahisnan/honorer/framework/http"
)

// Middleware is the standard net/http middleware shape.
type Middleware = func(http.Handler) http.Handler

// Registrar is the HTTP router the Composer emits routes to.
type Registrar interface {
	// Handle registers final for method and pattern behind chain, outermost
	// middleware first.
	Handle(method, pattern string, chain []Middleware, final http.Handler)
}

// Router wraps chi.Router. Routes get their own middleware chains through
// Handle; middleware added with Use wraps every request, and may be added
// after routes exist.
type Router struct {
	mux chi.Router
	sub bool

	mu      sync.RWMutex
	global  []Middleware
	handler http.Handler
}

// New creates a Router with sane defaults (RequestID, RealIP, Recoverer) and
// JSON 404/405 responses.
func New() *Router {
	mux := chi.NewRouter()
	mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		gohttp.NewResponse(w).NotFound()
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		gohttp.NewResponse(w).Error(http.StatusMethodNotAllowed, "Method not allowed.")
	})

	r := &Router{mux: mux}
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	return r
}

// ── Registration ─────────────────────────────────────────────────────────────

// Handle implements Registrar.
func (r *Router) Handle(method, pattern string, chain []Middleware, final http.Handler) {
	r.mux.With(chain...).Method(strings.ToUpper(method), pattern, final)
}

func (r *Router) Get(pattern string, h http.HandlerFunc)    { r.mux.Get(pattern, h) }
func (r *Router) Post(pattern string, h http.HandlerFunc)   { r.mux.Post(pattern, h) }
func (r *Router) Put(pattern string, h http.HandlerFunc)    { r.mux.Put(pattern, h) }
func (r *Router) Patch(pattern string, h http.HandlerFunc)  { r.mux.Patch(pattern, h) }
func (r *Router) Delete(pattern string, h http.HandlerFunc) { r.mux.Delete(pattern, h) }

// Prefix creates a sub-router with a URL prefix.
//
//	router.Prefix("/_honorer", func(r *routing.Router) { r.Get("/metrics", h) })
func (r *Router) Prefix(pattern string, fn func(r *Router)) {
	r.mux.Route(pattern, func(mx chi.Router) {
		fn(&Router{mux: mx, sub: true})
	})
}

// ── Middleware ───────────────────────────────────────────────────────────────

// Use appends middleware to the chain wrapping every request, in order. On a
// Prefix sub-router it is chi's Use and must precede the sub-router's routes.
func (r *Router) Use(mw ...Middleware) {
	if r.sub {
		r.mux.Use(mw...)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.global = append(r.global, mw...)
	r.handler = Chain(r.global, r.mux)
}

// Chain wraps final in mws, the first middleware being the outermost.
func Chain(mws []Middleware, final http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		final = mws[i](final)
	}
	return final
}

// ── Introspection ────────────────────────────────────────────────────────────

// RouteInfo describes one registered route.
type RouteInfo struct {
	Method     string `json:"method"`
	Path       string `json:"path"`
	Controller string `json:"controller,omitempty"`
	Handler    string `json:"handler,omitempty"`
}

// Routes lists every route known to the underlying chi mux, sorted by path
// then method.
func (r *Router) Routes() ([]RouteInfo, error) {
	var out []RouteInfo
	err := chi.Walk(r.mux, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		out = append(out, RouteInfo{Method: method, Path: route})
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out, err
}

// ── Params ───────────────────────────────────────────────────────────────────

// Param extracts a URL param.
func Param(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// ── Serve ────────────────────────────────────────────────────────────────────

// ServeHTTP implements http.Handler so Router can be passed to http.ListenAndServe.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.Handler().ServeHTTP(w, req)
}

// Handler returns the mux wrapped in the global middleware.
func (r *Router) Handler() http.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.handler == nil {
		return r.mux
	}
	return r.handler
}
