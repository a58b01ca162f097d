package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
// Embed or extend it in your app's own AppConfig.
type Config struct {
	App       AppConfig
	Log       LogConfig
	Container ContainerConfig
	HTTP      HTTPConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
	URL   string
	Port  string
}

// Addr is the listen address for the HTTP server.
func (a AppConfig) Addr() string { return ":" + a.Port }

type LogConfig struct {
	Level  string // logrus level name
	Format string // text | json
}

// ContainerConfig toggles container and module registration behaviour.
type ContainerConfig struct {
	StrictInjection  bool
	ScopedMiddleware bool
	InitHooks        bool
}

type HTTPConfig struct {
	ShutdownTimeout time.Duration
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	for _, f := range files {
		_ = godotenv.Load(f)
	}

	appEnv := env("APP_ENV", "local")
	return &Config{
		App: AppConfig{
			Name: env("APP_NAME", "Honorer"),
			Env:  appEnv,
			// debug is on by default only for local development
			Debug: envBool("APP_DEBUG", appEnv == "local"),
			URL:   env("APP_URL", "http://localhost"),
			Port:  env("APP_PORT", "8000"),
		},
		Log: LogConfig{
			Level:  env("LOG_LEVEL", "info"),
			Format: env("LOG_FORMAT", "text"),
		},
		Container: ContainerConfig{
			StrictInjection:  envBool("CONTAINER_STRICT_INJECTION", false),
			ScopedMiddleware: envBool("MODULE_SCOPED_MIDDLEWARE", false),
			InitHooks:        envBool("MODULE_INIT_HOOKS", true),
		},
		HTTP: HTTPConfig{
			ShutdownTimeout: time.Duration(GetInt("HTTP_SHUTDOWN_TIMEOUT", 10)) * time.Second,
		},
	}
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool { return c.App.Env == "production" }

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
