package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/mohfalahisnan/honorer/framework/config"
	"github.com/mohfalahisnan/honorer/framework/container"
	"github.com/mohfalahisnan/honorer/framework/logging"
	"github.com/mohfalahisnan/honorer/framework/metrics"
	"github.com/mohfalahisnan/honorer/framework/module"
	"github.com/mohfalahisnan/honorer/framework/providers"
	"github.com/mohfalahisnan/honorer/framework/routing"
)

const (
	// Version is the framework release.
	Version = "0.1.0"

	// MetricsPath serves the metrics snapshot when APP_DEBUG is on.
	MetricsPath = "/_honorer/metrics"
)

// Application is the top-level application container.
// It embeds the root IoC Container and owns the provider registry, the
// module store and the module factory, so user code can call
// app.Resolve() and app.Declare() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
	Modules   *module.Store
	Factory   *module.Factory

	config *config.Config
	logger *logrus.Logger
	router *routing.Router
	stats  *metrics.Stats

	debugMounted bool
}

// Option configures an Application.
type Option func(*options)

type options struct {
	logger    *logrus.Logger
	providers []container.ServiceProvider
}

// WithLogger replaces the logger built from config.
func WithLogger(logger *logrus.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithProviders registers extra service providers after the core ones.
func WithProviders(list ...container.ServiceProvider) Option {
	return func(o *options) { o.providers = append(o.providers, list...) }
}

// New creates the application for cfg and registers the framework core
// providers.
//
//	application, err := app.New(config.Load())
func New(cfg *config.Config, opts ...Option) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = logging.New(cfg.Log)
	}

	containerOpts := []container.Option{container.WithLogger(logger)}
	if cfg.Container.StrictInjection {
		containerOpts = append(containerOpts, container.WithStrictInjection())
	}
	root := container.New(containerOpts...)

	a := &Application{
		Container: root,
		Providers: container.NewProviderRegistry(root),
		Modules:   module.NewStore(),
		config:    cfg,
		logger:    logger,
		router:    routing.New(),
		stats:     metrics.New(),
	}

	core := []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{Logger: logger},
		&providers.RoutingServiceProvider{Router: a.router},
		&providers.MetricsServiceProvider{Stats: a.stats},
	}
	for _, p := range append(core, o.providers...) {
		if err := a.Providers.Register(p); err != nil {
			return nil, errors.Wrapf(err, "app: registering %T", p)
		}
	}

	factoryOpts := []module.Option{module.WithLogger(logger), module.WithObserver(a.stats)}
	if cfg.Container.ScopedMiddleware {
		factoryOpts = append(factoryOpts, module.WithScopedMiddleware())
	}
	if !cfg.Container.InitHooks {
		factoryOpts = append(factoryOpts, module.WithoutInitHooks())
	}
	a.Factory = module.NewFactory(root, a.Modules, a.router, factoryOpts...)
	return a, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Declare records the descriptor of a module class.
func (a *Application) Declare(cls *module.Class, d module.Descriptor) error {
	return a.Modules.Declare(cls, d)
}

// Bootstrap boots the providers, mounts the debug endpoints and registers
// classes with all their imports.
func (a *Application) Bootstrap(ctx context.Context, classes ...*module.Class) error {
	if err := a.Providers.Boot(); err != nil {
		return errors.Wrap(err, "app: booting providers")
	}
	if a.IsDebug() && !a.debugMounted {
		if a.IsProduction() {
			a.logger.WithField("path", MetricsPath).Warn("debug endpoints exposed in production")
		}
		a.router.Get(MetricsPath, a.stats.Handler().ServeHTTP)
		a.debugMounted = true
	}
	return a.Factory.RegisterModules(ctx, classes...)
}

// Handler returns the HTTP handler serving every registered route.
func (a *Application) Handler() http.Handler { return a.router }

// Run serves HTTP on APP_PORT until ctx is done or SIGINT/SIGTERM arrives,
// then shuts the server down gracefully and destroys every module.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: a.config.App.Addr(), Handler: a.router}
	serveErr := make(chan error, 1)
	go func() {
		a.logger.WithFields(logrus.Fields{
			"name":    a.config.App.Name,
			"addr":    srv.Addr,
			"env":     a.Environment(),
			"version": Version,
		}).Info("server started")
		serveErr <- srv.ListenAndServe()
	}()

	var err error
	select {
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	case <-ctx.Done():
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.HTTP.ShutdownTimeout)
		defer cancel()
		err = srv.Shutdown(shutdownCtx)
	}
	return multierr.Append(err, a.Shutdown(context.Background()))
}

// Shutdown destroys every registered module in reverse registration order.
func (a *Application) Shutdown(ctx context.Context) error {
	return a.Factory.DestroyAllModules(ctx)
}

// Routes lists every route composed for registered modules.
func (a *Application) Routes() []routing.RouteInfo { return a.Factory.Routes() }

func (a *Application) Config() *config.Config  { return a.config }
func (a *Application) Logger() *logrus.Logger  { return a.logger }
func (a *Application) Router() *routing.Router { return a.router }
func (a *Application) Stats() *metrics.Stats   { return a.stats }

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.config.App.Env }
func (a *Application) IsProduction() bool  { return a.config.IsProduction() }
func (a *Application) IsDebug() bool       { return a.config.App.Debug }
