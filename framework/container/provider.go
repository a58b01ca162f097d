package container

import (
	"reflect"
)

// ── Provider definitions ──────────────────────────────────────────────────────

// Provider is a recipe for producing the value of a token. It is a closed
// set: ClassProvider, FactoryProvider or ValueProvider. The variant is chosen
// where the provider is declared, so a zero-argument factory and a
// zero-argument constructor can never be confused.
type Provider interface {
	// Token returns the token the provider registers under by default.
	Token() Token

	provider()
}

// Property binds a token to an exported field of the constructed struct.
type Property struct {
	Field string
	Token Token
}

// ClassProvider builds an instance by calling Constructor with its parameters
// resolved from the container, then assigning Properties.
//
// Constructor must be a function returning T or (T, error). Inject holds the
// explicit token for each parameter position; a missing or nil entry falls
// back to the parameter's static type.
type ClassProvider struct {
	Provide     Token
	Constructor any
	Inject      []Token
	Properties  []Property

	// Injectable marks the class as self-injectable: when requested as a
	// dependency and unknown to the resolving container it is registered
	// there on demand.
	Injectable bool
}

func (p ClassProvider) Token() Token {
	if p.Provide != nil {
		return p.Provide
	}
	if t := reflect.TypeOf(p.Constructor); t != nil && t.Kind() == reflect.Func && t.NumOut() > 0 {
		return t.Out(0)
	}
	return nil
}

func (ClassProvider) provider() {}

// FactoryProvider calls Factory with the instances of Inject, in order. The
// factory's own token never enters the circular-dependency check; only its
// dependencies do.
type FactoryProvider struct {
	Provide Token
	Factory any
	Inject  []Token
}

func (p FactoryProvider) Token() Token { return p.Provide }

func (FactoryProvider) provider() {}

// ValueProvider resolves to Value unchanged.
type ValueProvider struct {
	Provide Token
	Value   any
}

func (p ValueProvider) Token() Token { return p.Provide }

func (ValueProvider) provider() {}

// aliasProvider delegates resolution to another container without caching
// locally, so the source container stays the single owner of the instance.
type aliasProvider struct {
	source *Container
}

func (aliasProvider) Token() Token { return nil }

func (aliasProvider) provider() {}

// ── Constructors ──────────────────────────────────────────────────────────────

// ClassOption customises a ClassProvider built with Class.
type ClassOption func(*ClassProvider)

// Class declares a class provider for constructor. Its token is the
// constructor's first result type unless As is given.
//
//	container.Class(NewUserService)
//	container.Class(NewPostgresRepo, container.As(container.TypeOf[UserRepository]()))
//	container.Class(NewMailer, container.Inject("smtp.host", nil), container.Bind("Log", "logger"))
func Class(constructor any, opts ...ClassOption) ClassProvider {
	p := ClassProvider{Constructor: constructor}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// As overrides the token a class registers under.
func As(token Token) ClassOption {
	return func(p *ClassProvider) { p.Provide = token }
}

// Inject sets explicit parameter tokens. Use nil to keep the parameter's
// static type for that position.
func Inject(tokens ...Token) ClassOption {
	return func(p *ClassProvider) { p.Inject = tokens }
}

// Bind adds a property injection binding.
func Bind(field string, token Token) ClassOption {
	return func(p *ClassProvider) {
		p.Properties = append(p.Properties, Property{Field: field, Token: token})
	}
}

// Injectable marks the class as self-injectable.
func Injectable() ClassOption {
	return func(p *ClassProvider) { p.Injectable = true }
}

// Factory declares a factory provider.
//
//	container.Factory("dsn", func(cfg *config.Config) string { return cfg.DB.DSN() },
//	    container.TypeOf[*config.Config]())
func Factory(token Token, fn any, deps ...Token) FactoryProvider {
	return FactoryProvider{Provide: token, Factory: fn, Inject: deps}
}

// Value declares a value provider.
//
//	container.Value("config", cfg)
func Value(token Token, value any) ValueProvider {
	return ValueProvider{Provide: token, Value: value}
}

// ── Validation ────────────────────────────────────────────────────────────────

var errorType = reflect.TypeFor[error]()

func validateProvider(token Token, p Provider) error {
	switch p := p.(type) {
	case ClassProvider:
		return validateFunc(token, p.Constructor, "constructor")
	case FactoryProvider:
		if err := validateFunc(token, p.Factory, "factory"); err != nil {
			return err
		}
		if n := reflect.TypeOf(p.Factory).NumIn(); n != len(p.Inject) {
			return InvalidProviderError{Token: token, Reason: "factory takes a different number of arguments than declared dependencies"}
		}
		return nil
	case ValueProvider, aliasProvider:
		return nil
	case nil:
		return InvalidProviderError{Token: token, Reason: "provider is nil"}
	default:
		return InvalidProviderError{Token: token, Reason: "unknown provider kind"}
	}
}

func validateFunc(token Token, fn any, what string) error {
	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		return InvalidProviderError{Token: token, Reason: what + " must be a function"}
	}
	if t.IsVariadic() {
		return InvalidProviderError{Token: token, Reason: what + " must not be variadic"}
	}
	switch t.NumOut() {
	case 1:
		return nil
	case 2:
		if t.Out(1) != errorType {
			return InvalidProviderError{Token: token, Reason: what + " second result must be error"}
		}
		return nil
	default:
		return InvalidProviderError{Token: token, Reason: what + " must return T or (T, error)"}
	}
}
