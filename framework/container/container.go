package container

import (
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ── Container ─────────────────────────────────────────────────────────────────

// Container is a hierarchical registry resolving tokens to singleton
// instances.
//
// It supports:
//   - Register / Provide / Override / Clear
//   - Resolve / Resolve[T] (generic)
//   - Child containers with parent delegation
//   - Alias (lazy delegation to another container, used for module exports)
//   - Resolved event callbacks
//
// Instances are cached per container: resolving a token twice on the same
// container returns the same instance. A token found only in an ancestor is
// resolved (and cached) by that ancestor.
type Container struct {
	id     string
	parent *Container
	tree   *tree

	mu sync.RWMutex

	// token → provider
	providers map[Token]Provider

	// token → built instance
	instances map[Token]any

	// token → construction in progress
	inflight map[Token]*call

	// token → registrations hidden by an alias, most recent last
	shadowed map[Token][]binding

	// registration order, for enumeration
	order []Token
}

// tree holds state shared by a root container and all its descendants.
type tree struct {
	mu             sync.RWMutex
	strict         bool
	logger         logrus.FieldLogger
	classes        map[Token]ClassProvider
	afterResolving []func(Token, any)
}

// call marks a token whose construction is in flight; concurrent resolvers
// wait on done instead of building a second instance.
type call struct {
	owner *resolution
	done  chan struct{}
	value any
	err   error
}

// waits records, for every resolution blocked on another resolution's call,
// the call it waits for. Two resolutions waiting on each other form a cycle.
var waits = struct {
	sync.Mutex
	on map[*resolution]*call
}{on: make(map[*resolution]*call)}

// binding is a registration hidden behind an alias, with its cached instance.
type binding struct {
	provider Provider
	instance any
	cached   bool
}

// Option configures a root container.
type Option func(*tree)

// WithStrictInjection makes a constructor parameter without explicit token
// metadata fail with ProviderNotFoundError when its type has no provider.
// By default such a parameter receives its zero value and a warning is logged.
func WithStrictInjection() Option {
	return func(t *tree) { t.strict = true }
}

// WithLogger sets the logger used for resolution warnings.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(t *tree) { t.logger = logger }
}

// WithClasses adds classes to the catalog consulted by Register(token) and by
// self-injectable dependency lookup.
func WithClasses(classes ...ClassProvider) Option {
	return func(t *tree) {
		for _, cls := range classes {
			t.classes[cls.Token()] = cls
		}
	}
}

// New creates an empty root container.
func New(opts ...Option) *Container {
	t := &tree{
		logger:  logrus.StandardLogger(),
		classes: make(map[Token]ClassProvider),
	}
	for _, opt := range opts {
		opt(t)
	}
	return newContainer(nil, t)
}

func newContainer(parent *Container, t *tree) *Container {
	return &Container{
		id:        uuid.NewString(),
		parent:    parent,
		tree:      t,
		providers: make(map[Token]Provider),
		instances: make(map[Token]any),
		inflight:  make(map[Token]*call),
		shadowed:  make(map[Token][]binding),
	}
}

// ID returns the container's unique identifier.
func (c *Container) ID() string { return c.id }

// Parent returns the parent container, or nil for a root.
func (c *Container) Parent() *Container { return c.parent }

// Child returns a new container whose parent is c. Registrations on the child
// are invisible to c and to c's other children.
func (c *Container) Child() *Container {
	return newContainer(c, c.tree)
}

// ── Registration ──────────────────────────────────────────────────────────────

// Register stores a provider for token in this container, replacing any
// previous registration and cached instance. With no provider, token must be
// a class in the container's catalog (see WithClasses).
//
//	c.Register(container.TypeOf[*UserService](), container.Class(NewUserService))
//	c.Register(container.TypeOf[*Clock]())   // self-registering class
func (c *Container) Register(token Token, provider ...Provider) error {
	if err := validToken(token); err != nil {
		return err
	}
	var p Provider
	if len(provider) == 0 || provider[0] == nil {
		cls, ok := c.class(token)
		if !ok {
			return ProviderNotFoundError{Token: token}
		}
		p = cls
	} else {
		p = provider[0]
	}
	if err := validateProvider(token, p); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.shadowed, token)
	c.set(token, p)
	return nil
}

// Provide registers p under its own token.
//
//	c.Provide(container.Value("config", cfg))
func (c *Container) Provide(p Provider) error {
	if p == nil {
		return InvalidProviderError{Reason: "provider is nil"}
	}
	return c.Register(p.Token(), p)
}

// Override force-replaces the registration of token in this container and
// drops its cached instance. Children that already cached their own instance
// keep it.
func (c *Container) Override(token Token, provider Provider) error {
	return c.Register(token, provider)
}

// OverrideValue replaces token with a pre-built instance.
func (c *Container) OverrideValue(token Token, value any) error {
	return c.Register(token, Value(token, value))
}

// Alias makes token in this container resolve through source. Nothing is
// cached locally: source stays the owner of the instance. A registration the
// alias replaces is kept aside and comes back on Unalias.
func (c *Container) Alias(token Token, source *Container) error {
	if err := validToken(token); err != nil {
		return err
	}
	if source == nil || source == c {
		return InvalidProviderError{Token: token, Reason: "alias source must be another container"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.providers[token]; ok {
		if a, isAlias := prev.(aliasProvider); isAlias && a.source == source {
			return nil
		}
		instance, cached := c.instances[token]
		c.shadowed[token] = append(c.shadowed[token], binding{provider: prev, instance: instance, cached: cached})
	}
	c.set(token, aliasProvider{source: source})
	return nil
}

// Unalias removes the alias of token to source and reports whether it was
// the active registration. The registration the alias replaced, if any, is
// restored. An alias to source hidden by a later one is dropped silently.
func (c *Container) Unalias(token Token, source *Container) bool {
	if validToken(token) != nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.providers[token].(aliasProvider)
	if !ok || a.source != source {
		c.forget(token, source)
		return false
	}

	if stack := c.shadowed[token]; len(stack) > 0 {
		prev := stack[len(stack)-1]
		if len(stack) == 1 {
			delete(c.shadowed, token)
		} else {
			c.shadowed[token] = stack[:len(stack)-1]
		}
		c.providers[token] = prev.provider
		if prev.cached {
			c.instances[token] = prev.instance
		}
		return true
	}

	delete(c.providers, token)
	for i, t := range c.order {
		if t == token {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// forget drops hidden aliases of token to source (must hold mu.Lock).
func (c *Container) forget(token Token, source *Container) {
	stack := c.shadowed[token]
	kept := stack[:0]
	for _, b := range stack {
		if a, ok := b.provider.(aliasProvider); ok && a.source == source {
			continue
		}
		kept = append(kept, b)
	}
	if len(kept) == 0 {
		delete(c.shadowed, token)
		return
	}
	c.shadowed[token] = kept
}

// set stores p (must hold mu.Lock).
func (c *Container) set(token Token, p Provider) {
	if _, exists := c.providers[token]; !exists {
		c.order = append(c.order, token)
	}
	c.providers[token] = p
	delete(c.instances, token)
}

// Clear drops every local registration and instance. Parent and children are
// not affected.
func (c *Container) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.providers = make(map[Token]Provider)
	c.instances = make(map[Token]any)
	c.inflight = make(map[Token]*call)
	c.shadowed = make(map[Token][]binding)
	c.order = nil
}

// ── Introspection ─────────────────────────────────────────────────────────────

// Has reports whether token is resolvable here or through any ancestor.
func (c *Container) Has(token Token) bool {
	if validToken(token) != nil {
		return false
	}
	for cur := c; cur != nil; cur = cur.parent {
		if cur.hasLocal(token) {
			return true
		}
	}
	return false
}

func (c *Container) hasLocal(token Token) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, hasProvider := c.providers[token]
	_, hasInstance := c.instances[token]
	return hasProvider || hasInstance
}

// Resolved reports whether this container holds a built instance of token.
func (c *Container) Resolved(token Token) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.instances[token]
	return ok
}

// IsAlias reports whether token is registered here as an alias.
func (c *Container) IsAlias(token Token) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.providers[token].(aliasProvider)
	return ok
}

// Tokens returns the locally registered tokens in registration order.
func (c *Container) Tokens() []Token {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Token, len(c.order))
	copy(out, c.order)
	return out
}

// AfterResolving registers a callback fired whenever any container in this
// tree builds an instance.
func (c *Container) AfterResolving(cb func(token Token, instance any)) {
	c.tree.mu.Lock()
	defer c.tree.mu.Unlock()
	c.tree.afterResolving = append(c.tree.afterResolving, cb)
}

func (c *Container) class(token Token) (ClassProvider, bool) {
	c.tree.mu.RLock()
	defer c.tree.mu.RUnlock()
	cls, ok := c.tree.classes[token]
	return cls, ok
}

func (c *Container) logger() logrus.FieldLogger {
	return c.tree.logger.WithField("container", c.id)
}

func (c *Container) fireAfterResolving(token Token, instance any) {
	c.tree.mu.RLock()
	cbs := c.tree.afterResolving
	c.tree.mu.RUnlock()
	for _, cb := range cbs {
		cb(token, instance)
	}
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Resolve returns the fully constructed instance for token.
//
//	raw, err := c.Resolve("config")
func (c *Container) Resolve(token Token) (any, error) {
	return c.resolve(token, &resolution{})
}

// resolution is the per-Resolve state: the stack of class tokens under
// construction and the in-flight calls this resolution owns, each with the
// stack depth at which it started.
type resolution struct {
	stack []Token
	owned map[*call]int
	hops  []aliasHop
}

type aliasHop struct {
	container *Container
	token     Token
}

func (r *resolution) onStack(token Token) bool {
	for _, t := range r.stack {
		if t == token {
			return true
		}
	}
	return false
}

func (r *resolution) path(token Token) []Token {
	out := make([]Token, 0, len(r.stack)+1)
	out = append(out, r.stack...)
	return append(out, token)
}

func (c *Container) resolve(token Token, r *resolution) (any, error) {
	if err := validToken(token); err != nil {
		return nil, err
	}

	c.mu.RLock()
	instance, cached := c.instances[token]
	p, local := c.providers[token]
	c.mu.RUnlock()

	if cached {
		return instance, nil
	}
	if local {
		if a, ok := p.(aliasProvider); ok {
			return c.followAlias(token, a, r)
		}
		return c.build(token, p, r)
	}
	if c.parent != nil && c.parent.Has(token) {
		return c.parent.resolve(token, r)
	}
	return nil, ProviderNotFoundError{Token: token}
}

func (c *Container) followAlias(token Token, a aliasProvider, r *resolution) (any, error) {
	hop := aliasHop{container: c, token: token}
	for _, h := range r.hops {
		if h == hop {
			return nil, CircularDependencyError{Token: token, Path: r.path(token)}
		}
	}
	r.hops = append(r.hops, hop)
	defer func() { r.hops = r.hops[:len(r.hops)-1] }()
	return a.source.resolve(token, r)
}

// build constructs token once. Concurrent resolvers of the same token wait for
// the first one. A resolution re-entering its own in-flight factory builds
// through when a class entered the stack since, so that the cycle is
// reported on that class; otherwise the factory itself is the cycle.
func (c *Container) build(token Token, p Provider, r *resolution) (any, error) {
	if _, isClass := p.(ClassProvider); isClass && r.onStack(token) {
		return nil, CircularDependencyError{Token: token, Path: r.path(token)}
	}

	c.mu.Lock()
	if instance, ok := c.instances[token]; ok {
		c.mu.Unlock()
		return instance, nil
	}
	if inflight, ok := c.inflight[token]; ok {
		c.mu.Unlock()
		if depth, mine := r.owned[inflight]; mine {
			if len(r.stack) > depth {
				return c.construct(token, p, r)
			}
			return nil, CircularDependencyError{Token: token, Path: r.path(token)}
		}
		return r.await(token, inflight)
	}
	cl := &call{owner: r, done: make(chan struct{})}
	c.inflight[token] = cl
	c.mu.Unlock()

	if r.owned == nil {
		r.owned = make(map[*call]int)
	}
	r.owned[cl] = len(r.stack)

	instance, err := c.construct(token, p, r)

	delete(r.owned, cl)
	c.mu.Lock()
	if c.inflight[token] == cl {
		delete(c.inflight, token)
	}
	if err == nil {
		c.instances[token] = instance
	}
	c.mu.Unlock()

	cl.value, cl.err = instance, err
	close(cl.done)

	if err != nil {
		return nil, err
	}
	c.fireAfterResolving(token, instance)
	return instance, nil
}

// await blocks until another resolution finishes cl. When the chain of
// resolutions cl waits on leads back to r, neither could finish and the wait
// is reported as a cycle instead.
func (r *resolution) await(token Token, cl *call) (any, error) {
	waits.Lock()
	for next, hops := cl, 0; next != nil && hops <= len(waits.on); hops++ {
		if next.owner == r {
			waits.Unlock()
			return nil, CircularDependencyError{Token: token, Path: r.path(token)}
		}
		next = waits.on[next.owner]
	}
	waits.on[r] = cl
	waits.Unlock()

	<-cl.done

	waits.Lock()
	delete(waits.on, r)
	waits.Unlock()
	return cl.value, cl.err
}

func (c *Container) construct(token Token, p Provider, r *resolution) (any, error) {
	switch p := p.(type) {
	case ValueProvider:
		return p.Value, nil
	case FactoryProvider:
		return c.invokeFactory(token, p, r)
	case ClassProvider:
		r.stack = append(r.stack, token)
		defer func() { r.stack = r.stack[:len(r.stack)-1] }()
		return c.instantiate(token, p, r)
	default:
		return nil, InvalidProviderError{Token: token, Reason: "unknown provider kind"}
	}
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve resolves token (default: TypeOf[T]()) and type-asserts the result.
//
//	svc, err := container.Resolve[*UserService](c)
//	cfg, err := container.Resolve[*config.Config](c, "config")
func Resolve[T any](c *Container, token ...Token) (T, error) {
	var zero T
	var key Token = TypeOf[T]()
	if len(token) > 0 {
		key = token[0]
	}
	instance, err := c.Resolve(key)
	if err != nil {
		return zero, err
	}
	if instance == nil {
		return zero, nil
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, TypeMismatchError{
			Token:    key,
			Expected: reflect.TypeFor[T]().String(),
			Actual:   reflect.TypeOf(instance).String(),
		}
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](c *Container, token ...Token) T {
	typed, err := Resolve[T](c, token...)
	if err != nil {
		panic(err)
	}
	return typed
}
