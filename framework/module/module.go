// Package module declares modules and registers them into a container tree
// and a router.
//
// A module is a Class plus a Descriptor recorded in a Store. Registering it
// with a Factory registers its imports first, gives it a child container of
// the root, aliases the exports of its imports, mounts its controllers and
// runs its OnModuleInit hooks.
//
//	store := module.NewStore()
//	users, _ := store.Define("UsersModule", module.Descriptor{
//	    Prefix:      "/api",
//	    Providers:   []container.Provider{container.Class(NewUserService)},
//	    Controllers: []*routing.Controller{usersController},
//	})
//	factory := module.NewFactory(root, store, router)
//	err := factory.RegisterModule(ctx, users)
package module

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/mohfalahisnan/honorer/framework/container"
	"github.com/mohfalahisnan/honorer/framework/routing"
)

// Class identifies a module. Its identity is its address; the name is for
// logs and errors.
type Class struct {
	name string
}

// NewClass creates a module identity.
//
//	var UsersModule = module.NewClass("UsersModule")
func NewClass(name string) *Class { return &Class{name: name} }

// Name returns the module name.
func (c *Class) Name() string {
	if c == nil {
		return "<nil>"
	}
	return c.name
}

func (c *Class) String() string { return c.Name() }

func (c *Class) load() (*Class, error) { return c, nil }

// Import is a module dependency: a *Class, or a Lazy loader resolved when
// the importing module registers.
type Import interface {
	load() (*Class, error)
}

type lazy func() (*Class, error)

func (l lazy) load() (*Class, error) {
	if l == nil {
		return nil, errors.New("lazy import has no loader")
	}
	return l()
}

// Lazy defers naming an import until registration, for modules declared
// after the module importing them.
//
//	Imports: []module.Import{module.Lazy(func() (*module.Class, error) { return AuthModule, nil })}
func Lazy(loader func() (*Class, error)) Import { return lazy(loader) }

// Descriptor declares what a module contributes.
type Descriptor struct {
	Controllers []*routing.Controller
	Providers   []container.Provider
	Imports     []Import
	Exports     []container.Token
	Middleware  []routing.Middleware
	Prefix      string
}

func (d Descriptor) clone() Descriptor {
	return Descriptor{
		Controllers: append([]*routing.Controller(nil), d.Controllers...),
		Providers:   append([]container.Provider(nil), d.Providers...),
		Imports:     append([]Import(nil), d.Imports...),
		Exports:     append([]container.Token(nil), d.Exports...),
		Middleware:  append([]routing.Middleware(nil), d.Middleware...),
		Prefix:      d.Prefix,
	}
}

// Store maps module classes to their descriptors. A class is declared once.
type Store struct {
	mu          sync.RWMutex
	descriptors map[*Class]Descriptor
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{descriptors: make(map[*Class]Descriptor)}
}

// Declare records the descriptor of cls.
func (s *Store) Declare(cls *Class, d Descriptor) error {
	if cls == nil {
		return errors.New("module: declaring a nil class")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.descriptors[cls]; exists {
		return errors.Wrapf(ErrAlreadyDeclared, "module %s", cls.Name())
	}
	s.descriptors[cls] = d.clone()
	return nil
}

// Define creates a class named name and declares d for it.
func (s *Store) Define(name string, d Descriptor) (*Class, error) {
	cls := NewClass(name)
	if err := s.Declare(cls, d); err != nil {
		return nil, err
	}
	return cls, nil
}

// Descriptor returns a copy of the descriptor of cls.
func (s *Store) Descriptor(cls *Class) (Descriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.descriptors[cls]
	if !ok {
		return Descriptor{}, false
	}
	return d.clone(), true
}
