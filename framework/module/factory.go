package module

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/mohfalahisnan/honorer/framework/container"
	"github.com/mohfalahisnan/honorer/framework/lifecycle"
	"github.com/mohfalahisnan/honorer/framework/routing"
)

// Router is what the Factory needs from the HTTP router: route registration
// and middleware wrapping every request.
type Router interface {
	routing.Registrar
	Use(mw ...routing.Middleware)
}

// Record is the registration state of one module.
type Record struct {
	ID         string
	Class      *Class
	Container  *container.Container
	Registered bool
	Routes     []routing.RouteInfo

	// Instances the module owns for lifecycle purposes, in init order.
	// Destroy hooks run over them in reverse.
	Instances []any

	// tokens aliased from the root container to Container
	exposed []container.Token
}

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the factory logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(f *Factory) { f.logger = logger }
}

// WithoutInitHooks skips OnModuleInit hooks during registration.
func WithoutInitHooks() Option {
	return func(f *Factory) { f.initHooks = false }
}

// WithScopedMiddleware applies module middleware to the module's own routes
// instead of to every request.
func WithScopedMiddleware() Option {
	return func(f *Factory) { f.scoped = true }
}

// WithObserver forwards route and validation events to o.
func WithObserver(o routing.Observer) Option {
	return func(f *Factory) { f.observer = o }
}

// Factory registers modules: it builds their containers, resolves imports,
// aliases exports, composes controller routes and runs lifecycle hooks.
type Factory struct {
	root      *container.Container
	store     *Store
	router    Router
	composer  *routing.Composer
	lifecycle *lifecycle.Manager
	logger    logrus.FieldLogger
	observer  routing.Observer
	initHooks bool
	scoped    bool

	// serializes RegisterModule / DestroyModule
	op sync.Mutex

	mu      sync.RWMutex
	records map[*Class]*Record
	order   []*Class
}

// NewFactory returns a Factory registering into root and router.
func NewFactory(root *container.Container, store *Store, router Router, opts ...Option) *Factory {
	f := &Factory{
		root:      root,
		store:     store,
		router:    router,
		logger:    logrus.StandardLogger(),
		initHooks: true,
		records:   make(map[*Class]*Record),
	}
	for _, opt := range opts {
		opt(f)
	}

	composerOpts := []routing.ComposerOption{routing.WithLogger(f.logger)}
	if f.observer != nil {
		composerOpts = append(composerOpts, routing.WithObserver(f.observer))
	}
	f.composer = routing.NewComposer(router, composerOpts...)
	f.lifecycle = lifecycle.NewManager(f.logger)
	return f
}

// RegisterModule registers cls and, first, everything it imports. It is a
// no-op for a registered class.
func (f *Factory) RegisterModule(ctx context.Context, cls *Class) error {
	f.op.Lock()
	defer f.op.Unlock()
	return f.register(ctx, cls)
}

// RegisterModules registers classes in order, stopping at the first error.
func (f *Factory) RegisterModules(ctx context.Context, classes ...*Class) error {
	f.op.Lock()
	defer f.op.Unlock()
	for _, cls := range classes {
		if err := f.register(ctx, cls); err != nil {
			return err
		}
	}
	return nil
}

func (f *Factory) register(ctx context.Context, cls *Class) error {
	if cls == nil {
		return errors.New("module: registering a nil class")
	}
	rec := f.record(cls)
	if rec.Registered {
		return nil
	}
	desc, ok := f.store.Descriptor(cls)
	if !ok {
		return MissingModuleDescriptorError{Module: cls.Name()}
	}

	// set before imports so that an import cycle stops here
	f.mark(rec, true)
	if err := f.build(ctx, rec, desc); err != nil {
		f.rollback(rec)
		return ModuleRegistrationError{Module: cls.Name(), Cause: err}
	}

	f.mu.Lock()
	f.order = append(f.order, cls)
	f.mu.Unlock()

	f.logger.WithFields(logrus.Fields{
		"module":    cls.Name(),
		"id":        rec.ID,
		"providers": len(desc.Providers),
		"routes":    len(rec.Routes),
	}).Info("module registered")
	return nil
}

func (f *Factory) record(cls *Class) *Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[cls]
	if !ok {
		rec = &Record{ID: uuid.NewString(), Class: cls}
		f.records[cls] = rec
	}
	return rec
}

func (f *Factory) mark(rec *Record, registered bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec.Registered = registered
}

func (f *Factory) build(ctx context.Context, rec *Record, desc Descriptor) error {
	name := rec.Class.Name()
	c := f.root.Child()
	rec.Container = c

	var imported []*Class
	for _, imp := range desc.Imports {
		dep, err := load(imp)
		if err != nil {
			f.logger.WithError(err).WithField("module", name).Warn("skipping unresolved import")
			continue
		}
		if err := f.register(ctx, dep); err != nil {
			return errors.Wrapf(err, "importing %s", dep.Name())
		}
		imported = append(imported, dep)
	}

	for _, dep := range imported {
		depDesc, _ := f.store.Descriptor(dep)
		for _, token := range depDesc.Exports {
			if err := c.Alias(token, f.root); err != nil {
				return errors.Wrapf(err, "aliasing export %s of %s", container.TokenName(token), dep.Name())
			}
		}
	}

	for _, p := range desc.Providers {
		if p == nil {
			return errors.New("nil provider")
		}
		token := p.Token()
		if err := c.Provide(p); err != nil {
			return errors.Wrapf(err, "registering provider %s", container.TokenName(token))
		}
		if err := f.root.Alias(token, c); err != nil {
			return errors.Wrapf(err, "exposing provider %s", container.TokenName(token))
		}
		rec.exposed = append(rec.exposed, token)
	}

	var scopedMW []routing.Middleware
	if f.scoped {
		scopedMW = desc.Middleware
	}
	for _, ctrl := range desc.Controllers {
		if ctrl == nil {
			return errors.New("nil controller")
		}
		if err := c.Register(ctrl.Token(), ctrl.Provider); err != nil {
			return errors.Wrapf(err, "registering controller %s", ctrl.Name())
		}
		instance, err := c.Resolve(ctrl.Token())
		if err != nil {
			return errors.Wrapf(err, "resolving controller %s", ctrl.Name())
		}
		routes, err := f.composer.Compose(scopedMW, desc.Prefix, ctrl, instance)
		if err != nil {
			return err
		}
		rec.Routes = append(rec.Routes, routes...)
	}

	if f.initHooks {
		owned, err := f.lifecycle.Init(ctx, name, c)
		if err != nil {
			return err
		}
		rec.Instances = owned
	}

	// mounted last: a failed registration leaves no global middleware behind
	if !f.scoped && len(desc.Middleware) > 0 {
		f.router.Use(desc.Middleware...)
	}
	return nil
}

func load(imp Import) (*Class, error) {
	if imp == nil {
		return nil, errors.New("nil import")
	}
	cls, err := imp.load()
	if err != nil {
		return nil, err
	}
	if cls == nil {
		return nil, errors.New("import resolved to nil")
	}
	return cls, nil
}

// rollback undoes a failed registration so that it can be retried. Routes
// already handed to the router stay registered; a retry replaces them.
func (f *Factory) rollback(rec *Record) {
	f.lifecycle.Release(rec.Instances)
	f.unexpose(rec)
	if rec.Container != nil {
		rec.Container.Clear()
	}
	f.mark(rec, false)
	rec.Container = nil
	rec.Instances = nil
	rec.Routes = nil
}

func (f *Factory) unexpose(rec *Record) {
	for _, token := range rec.exposed {
		f.root.Unalias(token, rec.Container)
	}
	rec.exposed = nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

// IsModuleRegistered reports whether cls is currently registered.
func (f *Factory) IsModuleRegistered(cls *Class) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	rec, ok := f.records[cls]
	return ok && rec.Registered
}

// RegisteredModules returns the registered classes in registration order;
// an import precedes the modules importing it.
func (f *Factory) RegisteredModules() []*Class {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]*Class(nil), f.order...)
}

// Record returns the registration record of cls.
func (f *Factory) Record(cls *Class) (*Record, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	rec, ok := f.records[cls]
	return rec, ok
}

// Container returns the container of a registered module.
func (f *Factory) Container(cls *Class) (*container.Container, bool) {
	rec, ok := f.Record(cls)
	if !ok || !rec.Registered {
		return nil, false
	}
	return rec.Container, true
}

// Routes returns every route composed for registered modules.
func (f *Factory) Routes() []routing.RouteInfo {
	var out []routing.RouteInfo
	for _, cls := range f.RegisteredModules() {
		if rec, ok := f.Record(cls); ok {
			out = append(out, rec.Routes...)
		}
	}
	return out
}

// ── Teardown ─────────────────────────────────────────────────────────────────

// DestroyModule runs the destroy hooks of cls, clears its container and marks
// it unregistered. Hook failures are returned after the teardown completes.
// Its routes and global middleware stay mounted on the router.
func (f *Factory) DestroyModule(ctx context.Context, cls *Class) error {
	f.op.Lock()
	defer f.op.Unlock()
	return f.destroy(ctx, cls)
}

// DestroyAllModules destroys every registered module in reverse registration
// order.
func (f *Factory) DestroyAllModules(ctx context.Context) error {
	f.op.Lock()
	defer f.op.Unlock()

	classes := f.RegisteredModules()
	var err error
	for i := len(classes) - 1; i >= 0; i-- {
		err = multierr.Append(err, f.destroy(ctx, classes[i]))
	}
	return err
}

func (f *Factory) destroy(ctx context.Context, cls *Class) error {
	rec, ok := f.Record(cls)
	if !ok || !rec.Registered {
		return nil
	}

	err := f.lifecycle.Destroy(ctx, cls.Name(), rec.Instances)

	f.unexpose(rec)
	rec.Container.Clear()
	f.mark(rec, false)
	rec.Instances = nil
	rec.Routes = nil

	f.mu.Lock()
	for i, c := range f.order {
		if c == cls {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	f.mu.Unlock()

	f.logger.WithField("module", cls.Name()).Info("module destroyed")
	if err != nil {
		return errors.Wrapf(err, "destroying module %s", cls.Name())
	}
	return nil
}
