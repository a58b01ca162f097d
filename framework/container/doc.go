// Package container provides a hierarchical dependency-injection container.
//
// # Overview
//
// A Container maps tokens to providers and caches one instance per token per
// container. Child containers see everything their ancestors provide and may
// override any token for themselves and their own descendants.
//
// # Tokens
//
//	container.TypeOf[*UserService]()   // a type
//	"config"                           // a string
//	container.NewSymbol("clock")       // an identity-unique symbol
//
// # Providers
//
//	// Class: constructor injection, parameter tokens default to parameter types
//	c.Provide(container.Class(NewUserService))
//
//	// Explicit parameter tokens and property injection
//	c.Provide(container.Class(NewMailer,
//	    container.Inject("smtp.host"),
//	    container.Bind("Log", container.TypeOf[*logrus.Logger]()),
//	))
//
//	// Factory: dependencies resolved in order
//	c.Provide(container.Factory("dsn", buildDSN, container.TypeOf[*config.Config]()))
//
//	// Pre-built value
//	c.Provide(container.Value("config", cfg))
//
// # Resolving
//
//	raw, err := c.Resolve("config")
//	svc, err := container.Resolve[*UserService](c)
//	cfg := container.MustResolve[*config.Config](c, "config")
//
// # Scopes
//
//	module := root.Child()
//	module.OverrideValue("clock", fakeClock)   // root still sees the real clock
//
// # Cycles
//
// A class whose constructor (directly or transitively) requires its own token
// fails with CircularDependencyError on the first Resolve.
//
// # Missing parameter metadata
//
// A parameter without an explicit token falls back to its static type. When
// nothing provides that type the parameter receives its zero value and a
// warning is logged; WithStrictInjection turns this into ProviderNotFoundError.
//
// # Service Providers
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&LoggingProvider{})
//	registry.Boot()
package container
