package routing

import (
	"net/http"

	"github.com/mohfalahisnan/honorer/framework/container"
	"github.com/mohfalahisnan/honorer/framework/http/validation"
)

// Kind is the request part a binding reads.
type Kind int

const (
	KindParam Kind = iota // chi URL params, map[string]string
	KindQuery             // query string, map[string]string
	KindBody              // decoded JSON document or form map
)

// kinds is the order validators run in.
var kinds = []Kind{KindParam, KindQuery, KindBody}

func (k Kind) String() string {
	switch k {
	case KindParam:
		return "param"
	case KindQuery:
		return "query"
	case KindBody:
		return "body"
	}
	return "unknown"
}

// Binding injects a request part into handler parameter Index (0 is the
// controller receiver). With a nil Schema the raw value is injected.
type Binding struct {
	Index  int
	Kind   Kind
	Schema validation.Schema
}

// Route declares one endpoint of a controller. Handler is a method
// expression on the controller type:
//
//	routing.Get("/{id}", (*UserController).Get,
//	    routing.BindParams(1, validation.Rules{"id": "required|integer"}))
//
// Handler parameters after the receiver receive their binding's value, a
// *Context, the request context.Context, or their zero value. It may return
// nothing, an error, a value, or a value and an error.
type Route struct {
	Method     string
	Path       string
	Handler    any
	Bindings   []Binding
	Middleware []Middleware
}

// RouteOption configures a Route.
type RouteOption func(*Route)

// NewRoute declares a route for method and path.
func NewRoute(method, path string, handler any, opts ...RouteOption) Route {
	r := Route{Method: method, Path: path, Handler: handler}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func Get(path string, handler any, opts ...RouteOption) Route {
	return NewRoute(http.MethodGet, path, handler, opts...)
}

func Post(path string, handler any, opts ...RouteOption) Route {
	return NewRoute(http.MethodPost, path, handler, opts...)
}

func Put(path string, handler any, opts ...RouteOption) Route {
	return NewRoute(http.MethodPut, path, handler, opts...)
}

func Patch(path string, handler any, opts ...RouteOption) Route {
	return NewRoute(http.MethodPatch, path, handler, opts...)
}

func Delete(path string, handler any, opts ...RouteOption) Route {
	return NewRoute(http.MethodDelete, path, handler, opts...)
}

// BindParams injects the URL params into parameter index.
func BindParams(index int, schema validation.Schema) RouteOption {
	return bind(index, KindParam, schema)
}

// BindQuery injects the query string into parameter index.
func BindQuery(index int, schema validation.Schema) RouteOption {
	return bind(index, KindQuery, schema)
}

// BindBody injects the request body into parameter index.
func BindBody(index int, schema validation.Schema) RouteOption {
	return bind(index, KindBody, schema)
}

func bind(index int, kind Kind, schema validation.Schema) RouteOption {
	return func(r *Route) {
		r.Bindings = append(r.Bindings, Binding{Index: index, Kind: kind, Schema: schema})
	}
}

// WithMiddleware appends route-level middleware.
func WithMiddleware(mw ...Middleware) RouteOption {
	return func(r *Route) { r.Middleware = append(r.Middleware, mw...) }
}

// Controller declares a controller class and its routes.
type Controller struct {
	// Provider builds the controller instance inside the module container.
	Provider   container.ClassProvider
	Prefix     string
	Middleware []Middleware
	Routes     []Route
}

// Token is the container token the controller is registered under.
func (c *Controller) Token() container.Token { return c.Provider.Token() }

// Name is a printable name for the controller.
func (c *Controller) Name() string { return container.TokenName(c.Token()) }
