package providers

import (
	"github.com/sirupsen/logrus"

	"github.com/mohfalahisnan/honorer/framework/config"
	"github.com/mohfalahisnan/honorer/framework/container"
	"github.com/mohfalahisnan/honorer/framework/logging"
	"github.com/mohfalahisnan/honorer/framework/metrics"
	"github.com/mohfalahisnan/honorer/framework/routing"
)

// String keys the core services are bound under, next to their type tokens.
const (
	ConfigKey  = "config"
	LoggerKey  = "logger"
	RouterKey  = "router"
	MetricsKey = "metrics"
)

// bind registers value under its type token and under key.
func bind[T any](app *container.Container, key string, value T) error {
	if err := app.Provide(container.Value(container.TypeOf[T](), value)); err != nil {
		return err
	}
	return app.Provide(container.Value(key, value))
}

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the application configuration.
//
// Bound tokens:
//   - "config", TypeOf[*config.Config]  → *config.Config
//
// Config is loaded from EnvFiles when nil.
type ConfigServiceProvider struct {
	container.BaseProvider
	Config   *config.Config
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	if p.Config == nil {
		p.Config = config.Load(p.EnvFiles...)
	}
	return bind(app, ConfigKey, p.Config)
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the framework logger.
//
// Bound tokens:
//   - "logger", TypeOf[*logrus.Logger]  → *logrus.Logger
//
// Logger is built from the bound config in Boot when nil.
type LoggingServiceProvider struct {
	Logger *logrus.Logger
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	if p.Logger != nil {
		return bind(app, LoggerKey, p.Logger)
	}
	build := func(cfg *config.Config) *logrus.Logger { return logging.New(cfg.Log) }
	if err := app.Provide(container.Factory(container.TypeOf[*logrus.Logger](), build, ConfigKey)); err != nil {
		return err
	}
	return app.Provide(container.Factory(LoggerKey, func(l *logrus.Logger) *logrus.Logger { return l },
		container.TypeOf[*logrus.Logger]()))
}

func (p *LoggingServiceProvider) Boot(app *container.Container) error {
	logger, err := container.Resolve[*logrus.Logger](app, LoggerKey)
	if err != nil {
		return err
	}
	p.Logger = logger
	return nil
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider binds the HTTP router and, in Boot, mounts request
// logging on it.
//
// Bound tokens:
//   - "router", TypeOf[*routing.Router]  → *routing.Router
type RoutingServiceProvider struct {
	Router *routing.Router
}

func (p *RoutingServiceProvider) Register(app *container.Container) error {
	if p.Router == nil {
		p.Router = routing.New()
	}
	return bind(app, RouterKey, p.Router)
}

func (p *RoutingServiceProvider) Boot(app *container.Container) error {
	logger, err := container.Resolve[*logrus.Logger](app, LoggerKey)
	if err != nil {
		return err
	}
	p.Router.Use(logging.Requests(logger))
	return nil
}

// ── MetricsServiceProvider ────────────────────────────────────────────────────

// MetricsServiceProvider binds framework statistics and counts every
// resolution made in the container tree.
//
// Bound tokens:
//   - "metrics", TypeOf[*metrics.Stats]  → *metrics.Stats
type MetricsServiceProvider struct {
	container.BaseProvider
	Stats *metrics.Stats
}

func (p *MetricsServiceProvider) Register(app *container.Container) error {
	if p.Stats == nil {
		p.Stats = metrics.New()
	}
	app.AfterResolving(p.Stats.Resolved)
	return bind(app, MetricsKey, p.Stats)
}
