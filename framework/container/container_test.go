package container_test

import (
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohfalahisnan/honorer/framework/container"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

type Logger struct{ Prefix string }

func NewLogger() *Logger { return &Logger{Prefix: "app"} }

type Clock struct{ Now time.Time }

func NewClock() *Clock { return &Clock{Now: time.Unix(0, 0)} }

type UserService struct {
	Log   *Logger
	Clock *Clock
}

func NewUserService(log *Logger, clock *Clock) *UserService {
	return &UserService{Log: log, Clock: clock}
}

type UserController struct {
	Service *UserService
	Name    string
}

func NewUserController() *UserController { return &UserController{} }

type CycleA struct{ B *CycleB }

func NewCycleA(b *CycleB) *CycleA { return &CycleA{B: b} }

type CycleB struct{ A *CycleA }

func NewCycleB(a *CycleA) *CycleB { return &CycleB{A: a} }

type Repository interface{ Find(id string) string }

type memoryRepo struct{}

func (memoryRepo) Find(id string) string { return "user-" + id }

// ── Singleton / scoping ───────────────────────────────────────────────────────

func TestContainer_SingletonPerContainer(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Provide(container.Class(NewLogger)))

	first, err := c.Resolve(container.TypeOf[*Logger]())
	require.NoError(t, err)
	second, err := c.Resolve(container.TypeOf[*Logger]())
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestContainer_ParentInheritance(t *testing.T) {
	parent := container.New()
	require.NoError(t, parent.Provide(container.Class(NewLogger)))
	child := parent.Child()

	assert.True(t, child.Has(container.TypeOf[*Logger]()))

	fromChild, err := container.Resolve[*Logger](child)
	require.NoError(t, err)
	fromParent, err := container.Resolve[*Logger](parent)
	require.NoError(t, err)

	assert.Same(t, fromParent, fromChild)
	assert.True(t, parent.Resolved(container.TypeOf[*Logger]()))
	assert.False(t, child.Resolved(container.TypeOf[*Logger]()), "delegated instances are not re-cached in the child")
}

func TestContainer_ChildOverrideIsolation(t *testing.T) {
	parent := container.New()
	require.NoError(t, parent.Provide(container.Value("greeting", "hello")))
	child := parent.Child()
	sibling := parent.Child()

	require.NoError(t, child.OverrideValue("greeting", "hola"))

	got, err := child.Resolve("greeting")
	require.NoError(t, err)
	assert.Equal(t, "hola", got)

	got, err = parent.Resolve("greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	got, err = sibling.Resolve("greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	grandchild := child.Child()
	got, err = grandchild.Resolve("greeting")
	require.NoError(t, err)
	assert.Equal(t, "hola", got, "descendants of the overriding child see the override")
}

func TestContainer_ChildOverrideIsolationProperty(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("child override never leaks to parent or sibling", prop.ForAll(
		func(token string, parentValue, childValue int) bool {
			parent := container.New()
			if parent.Provide(container.Value(token, parentValue)) != nil {
				return false
			}
			child, sibling := parent.Child(), parent.Child()
			if child.OverrideValue(token, childValue) != nil {
				return false
			}
			p, _ := parent.Resolve(token)
			s, _ := sibling.Resolve(token)
			ch, _ := child.Resolve(token)
			return p == parentValue && s == parentValue && ch == childValue
		},
		gen.AnyString(), gen.Int(), gen.Int(),
	))

	properties.TestingRun(t)
}

func TestContainer_ProviderNotFound(t *testing.T) {
	c := container.New().Child()

	_, err := c.Resolve("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, container.ErrProviderNotFound)

	var notFound container.ProviderNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "missing", notFound.Token)
	assert.False(t, c.Has("missing"))
}

func TestContainer_SymbolsAreIdentityUnique(t *testing.T) {
	a := container.NewSymbol("clock")
	b := container.NewSymbol("clock")
	c := container.New()
	require.NoError(t, c.Provide(container.Value(a, 1)))

	assert.True(t, c.Has(a))
	assert.False(t, c.Has(b))
	assert.Equal(t, "Symbol(clock)", container.TokenName(a))
}

func TestContainer_InvalidToken(t *testing.T) {
	c := container.New()

	err := c.Register([]string{"not", "comparable"}, container.Value("x", 1))
	assert.ErrorIs(t, err, container.ErrInvalidToken)

	_, err = c.Resolve(nil)
	assert.ErrorIs(t, err, container.ErrInvalidToken)
}

func TestContainer_InvalidProvider(t *testing.T) {
	c := container.New()

	tests := []struct {
		name     string
		provider container.Provider
	}{
		{"constructor not a func", container.ClassProvider{Provide: "x", Constructor: 42}},
		{"too many results", container.ClassProvider{Provide: "x", Constructor: func() (int, int, error) { return 0, 0, nil }}},
		{"second result not error", container.ClassProvider{Provide: "x", Constructor: func() (int, int) { return 0, 0 }}},
		{"variadic", container.ClassProvider{Provide: "x", Constructor: func(...int) int { return 0 }}},
		{"factory arity", container.Factory("x", func(a, b int) int { return a + b }, "a")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, c.Provide(tt.provider), container.ErrInvalidProvider)
		})
	}
}

// ── Class providers ───────────────────────────────────────────────────────────

func TestContainer_ConstructorInjection(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Provide(container.Class(NewLogger)))
	require.NoError(t, c.Provide(container.Class(NewClock)))
	require.NoError(t, c.Provide(container.Class(NewUserService)))

	svc, err := container.Resolve[*UserService](c)
	require.NoError(t, err)

	assert.Same(t, container.MustResolve[*Logger](c), svc.Log)
	assert.Same(t, container.MustResolve[*Clock](c), svc.Clock)
}

func TestContainer_ExplicitInjectTokens(t *testing.T) {
	c := container.New()
	primary := &Logger{Prefix: "primary"}
	require.NoError(t, c.Provide(container.Value("primary-logger", primary)))
	require.NoError(t, c.Provide(container.Class(NewClock)))
	// nil keeps the static type for the clock parameter
	require.NoError(t, c.Provide(container.Class(NewUserService, container.Inject("primary-logger", nil))))

	svc, err := container.Resolve[*UserService](c)
	require.NoError(t, err)
	assert.Same(t, primary, svc.Log)
	assert.NotNil(t, svc.Clock)
}

func TestContainer_ExplicitTokenIsAlwaysStrict(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Provide(container.Class(NewUserService, container.Inject("nope"))))

	_, err := c.Resolve(container.TypeOf[*UserService]())
	assert.ErrorIs(t, err, container.ErrProviderNotFound)
}

func TestContainer_PermissiveMissingParameter(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Provide(container.Class(NewLogger)))
	require.NoError(t, c.Provide(container.Class(NewUserService)))

	svc, err := container.Resolve[*UserService](c)
	require.NoError(t, err)
	assert.NotNil(t, svc.Log)
	assert.Nil(t, svc.Clock, "unknown parameter type falls back to the zero value")
}

func TestContainer_StrictMissingParameter(t *testing.T) {
	c := container.New(container.WithStrictInjection())
	require.NoError(t, c.Provide(container.Class(NewLogger)))
	require.NoError(t, c.Provide(container.Class(NewUserService)))

	_, err := c.Resolve(container.TypeOf[*UserService]())
	require.Error(t, err)

	var notFound container.ProviderNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, container.TypeOf[*Clock](), notFound.Token)
}

func TestContainer_ZeroParameterConstructor(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Provide(container.Class(NewLogger)))

	log, err := container.Resolve[*Logger](c)
	require.NoError(t, err)
	assert.Equal(t, "app", log.Prefix)
}

func TestContainer_InterfaceTokenWithAs(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Provide(container.Class(
		func() memoryRepo { return memoryRepo{} },
		container.As(container.TypeOf[Repository]()),
	)))

	repo, err := container.Resolve[Repository](c)
	require.NoError(t, err)
	assert.Equal(t, "user-7", repo.Find("7"))
}

func TestContainer_SelfRegisteringClass(t *testing.T) {
	c := container.New(container.WithClasses(container.Class(NewClock)))

	require.NoError(t, c.Register(container.TypeOf[*Clock]()))
	clock, err := container.Resolve[*Clock](c)
	require.NoError(t, err)
	assert.NotNil(t, clock)

	err = c.Register(container.TypeOf[*Logger]())
	assert.ErrorIs(t, err, container.ErrProviderNotFound, "a token without provider must be a known class")
}

func TestContainer_SelfInjectableDependency(t *testing.T) {
	root := container.New(container.WithClasses(
		container.Class(NewClock, container.Injectable()),
		container.Class(NewLogger, container.Injectable()),
	))
	module := root.Child()
	require.NoError(t, module.Provide(container.Class(NewUserService)))

	svc, err := container.Resolve[*UserService](module)
	require.NoError(t, err)
	assert.NotNil(t, svc.Clock)
	assert.NotNil(t, svc.Log)

	assert.True(t, module.Has(container.TypeOf[*Clock]()), "injectable class is registered on the resolving container")
	assert.False(t, root.Has(container.TypeOf[*Clock]()))
}

func TestContainer_ContainerParameter(t *testing.T) {
	c := container.New()
	var got *container.Container
	require.NoError(t, c.Provide(container.Class(func(in *container.Container) *Logger {
		got = in
		return NewLogger()
	})))

	_, err := c.Resolve(container.TypeOf[*Logger]())
	require.NoError(t, err)
	assert.Same(t, c, got)
}

func TestContainer_PropertyInjection(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Provide(container.Class(NewLogger)))
	require.NoError(t, c.Provide(container.Class(NewClock)))
	require.NoError(t, c.Provide(container.Class(NewUserService)))
	require.NoError(t, c.Provide(container.Value("name", "users")))
	require.NoError(t, c.Provide(container.Class(NewUserController,
		container.Bind("Service", nil),
		container.Bind("Name", "name"),
	)))

	ctrl, err := container.Resolve[*UserController](c)
	require.NoError(t, err)
	assert.Same(t, container.MustResolve[*UserService](c), ctrl.Service)
	assert.Equal(t, "users", ctrl.Name)
}

func TestContainer_PropertyInjectionFailure(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Provide(container.Class(NewUserController, container.Bind("Name", "missing"))))

	_, err := c.Resolve(container.TypeOf[*UserController]())
	assert.ErrorIs(t, err, container.ErrProviderNotFound)
	assert.False(t, c.Resolved(container.TypeOf[*UserController]()))

	c2 := container.New()
	require.NoError(t, c2.Provide(container.Class(NewUserController, container.Bind("nope", "x"))))
	_, err = c2.Resolve(container.TypeOf[*UserController]())
	assert.ErrorIs(t, err, container.ErrInvalidProvider)
}

func TestContainer_ConstructorError(t *testing.T) {
	c := container.New()
	boom := errors.New("boom")
	require.NoError(t, c.Provide(container.Class(func() (*Logger, error) { return nil, boom })))

	_, err := c.Resolve(container.TypeOf[*Logger]())
	assert.ErrorIs(t, err, container.ErrConstruction)
	assert.ErrorIs(t, err, boom)
}

func TestContainer_ConstructorPanic(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Provide(container.Class(func() *Logger { panic("kaboom") })))

	_, err := c.Resolve(container.TypeOf[*Logger]())
	require.Error(t, err)
	assert.ErrorIs(t, err, container.ErrConstruction)
	assert.Contains(t, err.Error(), "kaboom")
}

// ── Circular dependencies ─────────────────────────────────────────────────────

func TestContainer_CircularDependency(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Provide(container.Class(NewCycleA)))
	require.NoError(t, c.Provide(container.Class(NewCycleB)))

	_, err := c.Resolve(container.TypeOf[*CycleA]())
	require.Error(t, err)
	assert.ErrorIs(t, err, container.ErrCircularDependency)

	var cycle container.CircularDependencyError
	require.True(t, errors.As(err, &cycle))
	assert.Equal(t, container.TypeOf[*CycleA](), cycle.Token)
	assert.Equal(t, []container.Token{
		container.TypeOf[*CycleA](),
		container.TypeOf[*CycleB](),
		container.TypeOf[*CycleA](),
	}, cycle.Path)

	// the failure is not cached: resolving again reports the same cycle
	_, err = c.Resolve(container.TypeOf[*CycleA]())
	assert.ErrorIs(t, err, container.ErrCircularDependency)
}

func TestContainer_SelfCycle(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Provide(container.Class(func(l *Logger) *Logger { return l })))

	_, err := c.Resolve(container.TypeOf[*Logger]())
	assert.ErrorIs(t, err, container.ErrCircularDependency)
}

func TestContainer_FactoryCycleReportedOnClass(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Provide(container.Factory("a", func(b *CycleB) *CycleA { return &CycleA{B: b} },
		container.TypeOf[*CycleB]())))
	require.NoError(t, c.Provide(container.Class(NewCycleB, container.Inject("a"))))

	_, err := c.Resolve("a")
	require.Error(t, err)

	var cycle container.CircularDependencyError
	require.True(t, errors.As(err, &cycle))
	assert.Equal(t, container.TypeOf[*CycleB](), cycle.Token, "a factory's own token never enters the stack")
}

func TestContainer_FactoryOnlyCycle(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Provide(container.Factory("a", func(b string) string { return "a" + b }, "b")))
	require.NoError(t, c.Provide(container.Factory("b", func(a string) string { return "b" + a }, "a")))

	_, err := c.Resolve("a")
	require.Error(t, err)

	var cycle container.CircularDependencyError
	require.True(t, errors.As(err, &cycle))
	assert.Equal(t, "a", cycle.Token)
	assert.False(t, c.Resolved("a"))
	assert.False(t, c.Resolved("b"))
}

type gateA struct{}

type gateB struct{}

type CrossX struct{ Y *CrossY }

type CrossY struct{ X *CrossX }

func TestContainer_ConcurrentCycleIsReported(t *testing.T) {
	// both gates must be built before either side asks for the other
	var rendezvous sync.WaitGroup
	rendezvous.Add(2)
	gate := func() { rendezvous.Done(); rendezvous.Wait() }

	c := container.New()
	require.NoError(t, c.Provide(container.Factory(container.TypeOf[*gateA](), func() *gateA { gate(); return &gateA{} })))
	require.NoError(t, c.Provide(container.Factory(container.TypeOf[*gateB](), func() *gateB { gate(); return &gateB{} })))
	require.NoError(t, c.Provide(container.Class(func(_ *gateA, y *CrossY) *CrossX { return &CrossX{Y: y} })))
	require.NoError(t, c.Provide(container.Class(func(_ *gateB, x *CrossX) *CrossY { return &CrossY{X: x} })))

	errs := make(chan error, 2)
	go func() { _, err := c.Resolve(container.TypeOf[*CrossX]()); errs <- err }()
	go func() { _, err := c.Resolve(container.TypeOf[*CrossY]()); errs <- err }()

	for i := 0; i < 2; i++ {
		select {
		case err := <-errs:
			assert.ErrorIs(t, err, container.ErrCircularDependency)
		case <-time.After(2 * time.Second):
			t.Fatal("concurrent resolution of a cycle did not return")
		}
	}
	assert.False(t, c.Resolved(container.TypeOf[*CrossX]()))
	assert.False(t, c.Resolved(container.TypeOf[*CrossY]()))
}

// ── Factories & values ────────────────────────────────────────────────────────

func TestContainer_Factory(t *testing.T) {
	c := container.New()
	calls := 0
	require.NoError(t, c.Provide(container.Value("host", "localhost")))
	require.NoError(t, c.Provide(container.Value("port", 8080)))
	require.NoError(t, c.Provide(container.Factory("addr", func(host string, port int) string {
		calls++
		return host + ":" + strconv.Itoa(port)
	}, "host", "port")))

	first, err := c.Resolve("addr")
	require.NoError(t, err)
	_, err = c.Resolve("addr")
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", first)
	assert.Equal(t, 1, calls, "factory results are cached")
}

func TestContainer_FactoryZeroArgsVsClassZeroArgs(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Provide(container.Factory("now", func() string { return "factory" })))
	require.NoError(t, c.Provide(container.Class(func() string { return "class" }, container.As("class"))))

	f, err := c.Resolve("now")
	require.NoError(t, err)
	k, err := c.Resolve("class")
	require.NoError(t, err)
	assert.Equal(t, "factory", f)
	assert.Equal(t, "class", k)
}

func TestContainer_ValueReturnedUnchanged(t *testing.T) {
	c := container.New()
	cfg := map[string]string{"a": "b"}
	require.NoError(t, c.Provide(container.Value("cfg", cfg)))

	got, err := c.Resolve("cfg")
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

// ── Override / Clear / Alias ──────────────────────────────────────────────────

func TestContainer_OverrideDropsCachedInstance(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Provide(container.Class(NewLogger)))
	before := container.MustResolve[*Logger](c)

	replacement := &Logger{Prefix: "test"}
	require.NoError(t, c.OverrideValue(container.TypeOf[*Logger](), replacement))

	after := container.MustResolve[*Logger](c)
	assert.NotSame(t, before, after)
	assert.Same(t, replacement, after)
}

func TestContainer_OverrideDoesNotTouchChildCache(t *testing.T) {
	parent := container.New()
	child := parent.Child()
	require.NoError(t, child.Provide(container.Class(NewLogger)))
	childLogger := container.MustResolve[*Logger](child)

	require.NoError(t, parent.OverrideValue(container.TypeOf[*Logger](), &Logger{Prefix: "parent"}))
	assert.Same(t, childLogger, container.MustResolve[*Logger](child))
}

func TestContainer_Clear(t *testing.T) {
	parent := container.New()
	require.NoError(t, parent.Provide(container.Value("shared", 1)))
	c := parent.Child()
	require.NoError(t, c.Provide(container.Value("local", 2)))

	c.Clear()

	assert.False(t, c.Has("local"))
	assert.True(t, c.Has("shared"), "parent registrations survive a child clear")
	assert.Empty(t, c.Tokens())
}

func TestContainer_Alias(t *testing.T) {
	root := container.New()
	owner := root.Child()
	importer := root.Child()
	require.NoError(t, owner.Provide(container.Class(NewLogger)))
	require.NoError(t, importer.Alias(container.TypeOf[*Logger](), owner))

	fromImporter := container.MustResolve[*Logger](importer)
	assert.Same(t, container.MustResolve[*Logger](owner), fromImporter)
	assert.True(t, importer.IsAlias(container.TypeOf[*Logger]()))
	assert.False(t, importer.Resolved(container.TypeOf[*Logger]()))
}

func TestContainer_AliasLoop(t *testing.T) {
	root := container.New()
	a, b := root.Child(), root.Child()
	require.NoError(t, a.Alias("x", b))
	require.NoError(t, b.Alias("x", a))

	_, err := a.Resolve("x")
	assert.ErrorIs(t, err, container.ErrCircularDependency)
}

func TestContainer_UnaliasOnlyMatchingSource(t *testing.T) {
	root := container.New()
	first, second := root.Child(), root.Child()
	require.NoError(t, root.Alias("svc", first))
	require.NoError(t, root.Alias("svc", second))

	assert.False(t, root.Unalias("svc", first), "alias was re-pointed to second")
	assert.True(t, root.IsAlias("svc"))
	assert.True(t, root.Unalias("svc", second))
	assert.False(t, root.Has("svc"))
	assert.Empty(t, root.Tokens())
	assert.False(t, root.Unalias([]string{"x"}, second))
}

func TestContainer_UnaliasRestoresShadowedRegistration(t *testing.T) {
	root := container.New()
	module := root.Child()
	require.NoError(t, root.Provide(container.Value("config", "app-config")))
	require.NoError(t, module.Provide(container.Value("config", "module-config")))

	require.NoError(t, root.Alias("config", module))
	assert.Equal(t, "module-config", container.MustResolve[string](root, "config"))

	assert.True(t, root.Unalias("config", module))
	assert.False(t, root.IsAlias("config"))
	assert.Equal(t, "app-config", container.MustResolve[string](root, "config"))
	assert.Equal(t, []container.Token{"config"}, root.Tokens())
}

func TestContainer_UnaliasKeepsCachedInstance(t *testing.T) {
	root := container.New()
	other := root.Child()
	require.NoError(t, root.Provide(container.Class(NewLogger)))
	before := container.MustResolve[*Logger](root)

	require.NoError(t, other.Provide(container.Class(NewLogger)))
	require.NoError(t, root.Alias(container.TypeOf[*Logger](), other))
	require.True(t, root.Unalias(container.TypeOf[*Logger](), other))

	assert.Same(t, before, container.MustResolve[*Logger](root))
}

func TestContainer_UnaliasHiddenAlias(t *testing.T) {
	root := container.New()
	first, second := root.Child(), root.Child()
	require.NoError(t, root.Provide(container.Value("svc", "root")))
	require.NoError(t, first.Provide(container.Value("svc", "first")))
	require.NoError(t, second.Provide(container.Value("svc", "second")))

	require.NoError(t, root.Alias("svc", first))
	require.NoError(t, root.Alias("svc", second))

	// first goes away while second still shadows it
	assert.False(t, root.Unalias("svc", first))
	assert.Equal(t, "second", container.MustResolve[string](root, "svc"))

	assert.True(t, root.Unalias("svc", second))
	assert.Equal(t, "root", container.MustResolve[string](root, "svc"))
}

func TestContainer_TokensInRegistrationOrder(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Provide(container.Value("b", 1)))
	require.NoError(t, c.Provide(container.Value("a", 2)))
	require.NoError(t, c.OverrideValue("b", 3))

	assert.Equal(t, []container.Token{"b", "a"}, c.Tokens())
}

// ── Generics / callbacks / concurrency ────────────────────────────────────────

func TestResolve_TypeMismatch(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Provide(container.Value("n", 42)))

	_, err := container.Resolve[string](c, "n")
	assert.ErrorIs(t, err, container.ErrTypeMismatch)
	assert.Panics(t, func() { container.MustResolve[string](c, "n") })
}

func TestContainer_AfterResolvingFiresOncePerBuild(t *testing.T) {
	root := container.New()
	child := root.Child()
	var seen []container.Token
	root.AfterResolving(func(token container.Token, _ any) { seen = append(seen, token) })

	require.NoError(t, child.Provide(container.Class(NewLogger)))
	container.MustResolve[*Logger](child)
	container.MustResolve[*Logger](child)

	assert.Equal(t, []container.Token{container.TypeOf[*Logger]()}, seen)
}

func TestContainer_ConcurrentFirstResolutionBuildsOnce(t *testing.T) {
	c := container.New()
	var built int32
	require.NoError(t, c.Provide(container.Class(func() *Logger {
		atomic.AddInt32(&built, 1)
		time.Sleep(10 * time.Millisecond)
		return NewLogger()
	})))

	const workers = 16
	results := make([]*Logger, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = container.MustResolve[*Logger](c)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&built))
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}
