package lifecycle

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/mohfalahisnan/honorer/framework/container"
)

// Initializer is implemented by providers that need setup once the module
// is wired.
type Initializer interface {
	OnModuleInit(ctx context.Context) error
}

// Destroyer is implemented by providers that release resources on teardown.
type Destroyer interface {
	OnModuleDestroy(ctx context.Context) error
}

// Phase names a lifecycle phase.
type Phase string

const (
	PhaseInit    Phase = "init"
	PhaseDestroy Phase = "destroy"
)

// ErrLifecycleHook matches every LifecycleHookError.
var ErrLifecycleHook = errors.New("lifecycle hook failed")

// LifecycleHookError reports a failing hook.
type LifecycleHookError struct {
	Module string
	Token  container.Token
	Phase  Phase
	Cause  error
}

func (e LifecycleHookError) Error() string {
	return fmt.Sprintf("lifecycle: %s hook of [%s] in module %s: %v",
		e.Phase, container.TokenName(e.Token), e.Module, e.Cause)
}

func (e LifecycleHookError) Unwrap() error { return e.Cause }

func (e LifecycleHookError) Is(target error) bool { return target == ErrLifecycleHook }

// Manager runs init hooks once per instance and destroy hooks in reverse.
type Manager struct {
	mu     sync.Mutex
	owners map[identity]owner
	logger logrus.FieldLogger
}

// owner holds the claimed instance so that its address cannot be reused
// while the claim exists.
type owner struct {
	module   string
	instance any
}

// identity is the address of a reference-typed instance.
type identity struct {
	typ reflect.Type
	ptr uintptr
}

func identify(instance any) (identity, bool) {
	v := reflect.ValueOf(instance)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Slice, reflect.Func, reflect.UnsafePointer:
		return identity{typ: v.Type(), ptr: v.Pointer()}, true
	}
	return identity{}, false
}

// NewManager returns a Manager logging to logger (the standard logrus
// logger when nil).
func NewManager(logger logrus.FieldLogger) *Manager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Manager{owners: make(map[identity]owner), logger: logger}
}

// Init resolves every local non-alias token of c in registration order and
// invokes OnModuleInit on instances that implement it. An instance belongs
// to the first module that initializes it, so its hooks run once across all
// modules. Init stops at the first failure. The returned slice holds every
// instance the module now owns, in resolution order; hand it to Destroy or
// Release when the module goes away.
func (m *Manager) Init(ctx context.Context, module string, c *container.Container) ([]any, error) {
	var owned []any
	seen := make(map[identity]bool)
	fail := func(token container.Token, err error) ([]any, error) {
		m.Release(owned)
		return nil, LifecycleHookError{Module: module, Token: token, Phase: PhaseInit, Cause: err}
	}

	for _, token := range c.Tokens() {
		if c.IsAlias(token) {
			continue
		}
		instance, err := c.Resolve(token)
		if err != nil {
			return fail(token, err)
		}
		if instance == nil {
			continue
		}

		id, ok := identify(instance)
		if ok && seen[id] {
			continue
		}
		if ok {
			seen[id] = true
		}
		if !m.claim(id, ok, module, instance) {
			continue
		}
		_, isDestroyer := instance.(Destroyer)
		if ok || isDestroyer {
			owned = append(owned, instance)
		}

		if hook, isInit := instance.(Initializer); isInit {
			if err := safely(func() error { return hook.OnModuleInit(ctx) }); err != nil {
				return fail(token, err)
			}
			m.logger.WithFields(logrus.Fields{
				"module": module,
				"token":  container.TokenName(token),
			}).Debug("module init hook ran")
		}
	}
	return owned, nil
}

// claim makes module the owner of an instance. An instance already owned by
// another module is skipped; value instances have no identity and are always
// claimed.
func (m *Manager) claim(id identity, ok bool, module string, instance any) bool {
	if !ok {
		return true
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, exists := m.owners[id]; exists {
		return o.module == module
	}
	m.owners[id] = owner{module: module, instance: instance}
	return true
}

// Release drops the ownership of instances without running any hook.
func (m *Manager) Release(instances []any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, instance := range instances {
		if id, ok := identify(instance); ok {
			delete(m.owners, id)
		}
	}
}

// Destroy invokes OnModuleDestroy on instances in reverse order and releases
// their ownership. Every hook runs; failures are logged and returned together.
func (m *Manager) Destroy(ctx context.Context, module string, instances []any) error {
	defer m.Release(instances)

	var err error
	for i := len(instances) - 1; i >= 0; i-- {
		instance := instances[i]
		d, isDestroyer := instance.(Destroyer)
		if !isDestroyer {
			continue
		}
		if hookErr := safely(func() error { return d.OnModuleDestroy(ctx) }); hookErr != nil {
			hookErr = LifecycleHookError{Module: module, Token: reflect.TypeOf(instance), Phase: PhaseDestroy, Cause: hookErr}
			m.logger.WithError(hookErr).WithField("module", module).Warn("module destroy hook failed")
			err = multierr.Append(err, hookErr)
		}
	}
	return err
}

// safely runs fn, turning a panic into an error.
func safely(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Errorf("panic: %v", rec)
		}
	}()
	return fn()
}
