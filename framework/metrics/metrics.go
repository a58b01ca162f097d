// Package metrics records framework statistics in a go-metrics registry:
// container resolutions, per-route request timings and validation failures.
//
//	stats := metrics.New()
//	root.AfterResolving(stats.Resolved)
//	factory := module.NewFactory(root, store, router, module.WithObserver(stats))
//	router.Get("/_honorer/metrics", stats.Handler().ServeHTTP)
package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	gometrics "github.com/rcrowley/go-metrics"

	"github.com/mohfalahisnan/honorer/framework/container"
	gohttp "github.com/mohfalahisnan/honorer/framework/http"
	"github.com/mohfalahisnan/honorer/framework/routing"
)

// Metric name prefixes.
const (
	ResolvedPrefix   = "container.resolved"
	RequestPrefix    = "http.request"
	ServerErrPrefix  = "http.server_error"
	ValidationPrefix = "validation.failed"
)

// Stats is a routing.Observer backed by a go-metrics registry.
type Stats struct {
	registry gometrics.Registry
}

var _ routing.Observer = (*Stats)(nil)

// New returns Stats over a fresh registry.
func New() *Stats {
	return NewWithRegistry(gometrics.NewRegistry())
}

// NewWithRegistry returns Stats recording into registry.
func NewWithRegistry(registry gometrics.Registry) *Stats {
	return &Stats{registry: registry}
}

// Registry returns the underlying registry.
func (s *Stats) Registry() gometrics.Registry { return s.registry }

// Resolved counts a built instance. Its signature matches
// container.Container.AfterResolving.
func (s *Stats) Resolved(token container.Token, _ any) {
	gometrics.GetOrRegisterCounter(Name(ResolvedPrefix, container.TokenName(token)), s.registry).Inc(1)
}

// Route times every request of a route and counts its 5xx responses.
func (s *Stats) Route(method, path string) routing.Middleware {
	route := method + " " + path
	timer := gometrics.GetOrRegisterTimer(Name(RequestPrefix, route), s.registry)
	serverErrors := gometrics.GetOrRegisterCounter(Name(ServerErrPrefix, route), s.registry)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			timer.UpdateSince(start)
			if ww.Status() >= http.StatusInternalServerError {
				serverErrors.Inc(1)
			}
		})
	}
}

// ValidationFailed marks a rejected request, per kind and per route.
func (s *Stats) ValidationFailed(method, path string, kind routing.Kind) {
	gometrics.GetOrRegisterMeter(Name(ValidationPrefix, kind.String()), s.registry).Mark(1)
	gometrics.GetOrRegisterMeter(Name(ValidationPrefix, method+" "+path), s.registry).Mark(1)
}

// Count returns the count of the counter, meter or timer called name, or 0.
func (s *Stats) Count(name string) int64 {
	switch m := s.registry.Get(name).(type) {
	case gometrics.Counter:
		return m.Count()
	case gometrics.Meter:
		return m.Count()
	case gometrics.Timer:
		return m.Count()
	}
	return 0
}

// Snapshot returns every metric as a map of its values.
func (s *Stats) Snapshot() map[string]map[string]any {
	return s.registry.GetAll()
}

// Handler serves the snapshot as JSON: {"data": {name: {field: value}}}.
func (s *Stats) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		gohttp.NewResponse(w).Success(s.Snapshot())
	})
}

// Name joins a metric prefix and subject.
func Name(prefix, subject string) string {
	return prefix + "/" + strings.TrimSpace(subject)
}
