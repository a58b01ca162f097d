package routing

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	gohttp "github.com/mohfalahisnan/honorer/framework/http"
	"github.com/mohfalahisnan/honorer/framework/http/validation"
)

var (
	errorType      = reflect.TypeFor[error]()
	contextType    = reflect.TypeFor[*Context]()
	stdContextType = reflect.TypeFor[context.Context]()
	requestType    = reflect.TypeFor[*http.Request]()
	writerType     = reflect.TypeFor[http.ResponseWriter]()
)

// Observer is notified about composed routes and rejected requests.
type Observer interface {
	// Route returns middleware wrapped around the whole chain of the route,
	// or nil.
	Route(method, path string) Middleware
	// ValidationFailed is called when a validator rejects a request.
	ValidationFailed(method, path string, kind Kind)
}

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithObserver registers an Observer.
func WithObserver(o Observer) ComposerOption {
	return func(c *Composer) { c.observer = o }
}

// WithLogger sets the logger used for handler failures.
func WithLogger(logger logrus.FieldLogger) ComposerOption {
	return func(c *Composer) { c.logger = logger }
}

// Composer turns controller declarations into handler chains on a Registrar.
//
// Each route is registered once with the chain
//
//	module middleware → controller middleware → route middleware →
//	param validator → query validator → body validator → handler
//
// where a validator is present only for kinds with at least one schema.
// A route ending in a URL parameter that a param schema checks is also
// registered on its parent path with a trailing slash, so a request missing
// the parameter gets a validation error rather than 404.
type Composer struct {
	registrar Registrar
	observer  Observer
	logger    logrus.FieldLogger
}

// NewComposer returns a Composer emitting to registrar.
func NewComposer(registrar Registrar, opts ...ComposerOption) *Composer {
	c := &Composer{registrar: registrar, logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// compiled is a checked route ready to register.
type compiled struct {
	method     string
	path       string
	fn         reflect.Value
	ft         reflect.Type
	bindings   []Binding
	bound      map[int]Binding
	middleware []Middleware
}

// Compose registers every route of ctrl under prefix, invoking handlers on
// instance. Declarations are all checked before anything is registered.
func (c *Composer) Compose(moduleMW []Middleware, prefix string, ctrl *Controller, instance any) ([]RouteInfo, error) {
	if ctrl == nil {
		return nil, RouteDefinitionError{Reason: "controller is nil"}
	}
	if instance == nil {
		return nil, RouteDefinitionError{Controller: ctrl.Name(), Path: prefix, Reason: "controller instance is nil"}
	}

	routes := make([]*compiled, 0, len(ctrl.Routes))
	for _, route := range ctrl.Routes {
		cr, err := compile(ctrl, instance, JoinPath(prefix, ctrl.Prefix, route.Path), route)
		if err != nil {
			return nil, err
		}
		routes = append(routes, cr)
	}

	receiver := reflect.ValueOf(instance)
	infos := make([]RouteInfo, 0, len(routes))
	for _, cr := range routes {
		chain, final := c.chain(moduleMW, ctrl.Middleware, cr), c.final(cr, receiver)
		c.registrar.Handle(cr.method, cr.path, chain, final)
		if parent, ok := paramParent(cr); ok {
			c.registrar.Handle(cr.method, parent, chain, final)
		}

		info := RouteInfo{Method: cr.method, Path: cr.path, Controller: ctrl.Name(), Handler: funcName(cr.fn)}
		c.logger.WithFields(logrus.Fields{
			"method":  info.Method,
			"path":    info.Path,
			"handler": info.Handler,
		}).Debug("route registered")
		infos = append(infos, info)
	}
	return infos, nil
}

func compile(ctrl *Controller, instance any, path string, route Route) (*compiled, error) {
	fail := func(format string, args ...any) error {
		return RouteDefinitionError{Controller: ctrl.Name(), Method: route.Method, Path: path, Reason: fmt.Sprintf(format, args...)}
	}

	if route.Method == "" {
		return nil, fail("method is empty")
	}
	fn := reflect.ValueOf(route.Handler)
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, fail("handler must be a function, got %T", route.Handler)
	}
	ft := fn.Type()
	if ft.IsVariadic() {
		return nil, fail("handler must not be variadic")
	}
	if ft.NumIn() == 0 || !reflect.TypeOf(instance).AssignableTo(ft.In(0)) {
		return nil, fail("handler receiver must accept %T", instance)
	}
	switch {
	case ft.NumOut() > 2:
		return nil, fail("handler returns %d values", ft.NumOut())
	case ft.NumOut() == 2 && ft.Out(1) != errorType:
		return nil, fail("second handler result must be error")
	}

	bound := make(map[int]Binding, len(route.Bindings))
	for _, b := range route.Bindings {
		if b.Index < 1 || b.Index >= ft.NumIn() {
			return nil, fail("binding index %d out of range", b.Index)
		}
		if _, dup := bound[b.Index]; dup {
			return nil, fail("parameter %d bound twice", b.Index)
		}
		if b.Kind < KindParam || b.Kind > KindBody {
			return nil, fail("unknown binding kind %d", b.Kind)
		}
		bound[b.Index] = b
	}

	return &compiled{
		method:     strings.ToUpper(route.Method),
		path:       path,
		fn:         fn,
		ft:         ft,
		bindings:   route.Bindings,
		bound:      bound,
		middleware: route.Middleware,
	}, nil
}

// paramParent returns "/users/" for a route like "/users/{id}" whose
// params are validated by a schema.
func paramParent(cr *compiled) (string, bool) {
	i := strings.LastIndexByte(cr.path, '/')
	last := cr.path[i+1:]
	if i <= 0 || !strings.HasPrefix(last, "{") || !strings.HasSuffix(last, "}") {
		return "", false
	}
	for _, b := range cr.bindings {
		if b.Kind == KindParam && b.Schema != nil {
			return cr.path[:i+1], true
		}
	}
	return "", false
}

func (c *Composer) chain(moduleMW, controllerMW []Middleware, cr *compiled) []Middleware {
	var chain []Middleware
	if c.observer != nil {
		if mw := c.observer.Route(cr.method, cr.path); mw != nil {
			chain = append(chain, mw)
		}
	}
	chain = append(chain, moduleMW...)
	chain = append(chain, controllerMW...)
	chain = append(chain, cr.middleware...)

	for _, kind := range kinds {
		var schemed []Binding
		for _, b := range cr.bindings {
			if b.Kind == kind && b.Schema != nil {
				schemed = append(schemed, b)
			}
		}
		if len(schemed) > 0 {
			chain = append(chain, c.validator(cr, kind, schemed))
		}
	}
	return chain
}

// validator checks every schemed binding of kind and stores the parsed
// values; the first failure ends the request with 400.
func (c *Composer) validator(cr *compiled, kind Kind, bindings []Binding) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, vars := withVars(r)

			raw, err := vars.Raw(kind, r)
			if err != nil {
				c.reject(w, cr, kind, malformed(kind))
				return
			}
			for _, b := range bindings {
				parsed, err := b.Schema.Validate(raw)
				if err != nil {
					var errs *validation.Errors
					if errors.As(err, &errs) {
						c.reject(w, cr, kind, errs)
						return
					}
					c.logger.WithError(err).WithFields(logrus.Fields{
						"method": cr.method,
						"path":   cr.path,
						"kind":   kind.String(),
					}).Error("schema failed")
					gohttp.NewResponse(w).ServerError()
					return
				}
				vars.set(b.Index, parsed)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (c *Composer) reject(w http.ResponseWriter, cr *compiled, kind Kind, errs *validation.Errors) {
	if c.observer != nil {
		c.observer.ValidationFailed(cr.method, cr.path, kind)
	}
	c.logger.WithFields(logrus.Fields{
		"method": cr.method,
		"path":   cr.path,
		"kind":   kind.String(),
		"fields": errs.Fields(),
	}).Debug("request rejected")
	gohttp.NewResponse(w).ValidationError(errs)
}

func malformed(kind Kind) *validation.Errors {
	errs := validation.NewErrors()
	errs.Add(kind.String(), fmt.Sprintf("The %s is malformed.", kind))
	return errs
}

// ── Handler invocation ───────────────────────────────────────────────────────

func (c *Composer) final(cr *compiled, receiver reflect.Value) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, vars := withVars(r)
		hc := newContext(w, r)

		args := make([]reflect.Value, cr.ft.NumIn())
		args[0] = receiver
		for i := 1; i < len(args); i++ {
			arg, err := argument(cr, i, hc, vars)
			if err != nil {
				c.writeError(hc, cr, err)
				return
			}
			args[i] = arg
		}
		c.respond(hc, cr, cr.fn.Call(args))
	})
}

func argument(cr *compiled, i int, hc *Context, vars *Vars) (reflect.Value, error) {
	pt := cr.ft.In(i)
	if b, ok := cr.bound[i]; ok {
		val, ok := vars.Value(i)
		if !ok {
			raw, err := vars.Raw(b.Kind, hc.Request)
			if err != nil {
				return reflect.Value{}, malformed(b.Kind)
			}
			val = raw
		}
		if val == nil {
			return reflect.Zero(pt), nil
		}
		v := reflect.ValueOf(val)
		if !v.Type().AssignableTo(pt) {
			return reflect.Value{}, errors.Errorf("parameter %d: cannot use %s %s as %s", i, b.Kind, v.Type(), pt)
		}
		return v, nil
	}

	switch pt {
	case contextType:
		return reflect.ValueOf(hc), nil
	case stdContextType:
		return reflect.ValueOf(hc.Context()), nil
	case requestType:
		return reflect.ValueOf(hc.Request), nil
	case writerType:
		return reflect.ValueOf(&hc.Writer).Elem(), nil
	}
	return reflect.Zero(pt), nil
}

func (c *Composer) respond(hc *Context, cr *compiled, out []reflect.Value) {
	var (
		result any
		err    error
	)
	switch len(out) {
	case 1:
		if cr.ft.Out(0) == errorType {
			err, _ = out[0].Interface().(error)
		} else {
			result = out[0].Interface()
		}
	case 2:
		result = out[0].Interface()
		err, _ = out[1].Interface().(error)
	}

	if err != nil {
		c.writeError(hc, cr, err)
		return
	}
	if hc.Written() {
		return
	}
	if isNil(result) {
		hc.Response.NoContent()
		return
	}
	hc.Response.Success(result)
}

func (c *Composer) writeError(hc *Context, cr *compiled, err error) {
	log := c.logger.WithError(err).WithFields(logrus.Fields{"method": cr.method, "path": cr.path})
	if hc.Written() {
		log.Error("handler failed after writing a response")
		return
	}

	var (
		httpErr *HTTPError
		errs    *validation.Errors
	)
	switch {
	case errors.As(err, &httpErr):
		if httpErr.Status >= http.StatusInternalServerError {
			log.Error("handler failed")
		}
		hc.Response.Error(httpErr.Status, httpErr.Message)
	case errors.As(err, &errs):
		hc.Response.ValidationError(errs)
	default:
		log.Error("handler failed")
		hc.Response.ServerError()
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func funcName(fn reflect.Value) string {
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return ""
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}
