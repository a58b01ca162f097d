package container

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider binds framework services into a root container before any
// module is registered.
//
// Register() runs once when the provider is added. Boot() runs after all
// providers have been registered, making it safe to resolve other bindings
// inside Boot().
//
//	type LoggingProvider struct{ container.BaseProvider }
//
//	func (p *LoggingProvider) Register(app *container.Container) error {
//	    return app.Provide(container.Factory(logging.Token, logging.New, config.Token))
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	// Do NOT resolve other bindings here; use Boot() for that.
	Register(app *Container) error

	// Boot is called after all providers are registered.
	Boot(app *Container) error
}

// BaseProvider is an embeddable struct providing a no-op Boot().
type BaseProvider struct{}

func (BaseProvider) Boot(_ *Container) error { return nil }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders.
type ProviderRegistry struct {
	app        *Container
	providers  []ServiceProvider
	booted     bool
	registered map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register() method. A provider added
// after Boot() is booted immediately. Adding the same provider twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	if r.registered[provider] {
		return nil
	}
	if err := provider.Register(r.app); err != nil {
		return err
	}
	r.registered[provider] = true
	r.providers = append(r.providers, provider)

	if r.booted {
		return provider.Boot(r.app)
	}
	return nil
}

// Boot calls Boot() on all providers in registration order. It must be called
// after all providers have been registered; calling it again is a no-op.
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	for _, provider := range r.providers {
		if err := provider.Boot(r.app); err != nil {
			return err
		}
	}
	r.booted = true
	return nil
}

// Booted returns true if Boot() has completed.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns all registered providers.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.providers }
