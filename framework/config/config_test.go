package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mohfalahisnan/honorer/framework/config"
)

// ── helpers ──────────────────────────────────────────────────────────────────

// unset removes key for the duration of the test.
func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "") // registers the restore
		os.Unsetenv(key)
	}
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	unset(t, "APP_NAME", "APP_ENV", "APP_DEBUG", "APP_PORT", "LOG_LEVEL", "LOG_FORMAT",
		"CONTAINER_STRICT_INJECTION", "MODULE_SCOPED_MIDDLEWARE", "MODULE_INIT_HOOKS", "HTTP_SHUTDOWN_TIMEOUT")
	cfg := config.Load("testdata/missing.env")

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"App.Name", cfg.App.Name, "Honorer"},
		{"App.Env", cfg.App.Env, "local"},
		{"App.Debug", cfg.App.Debug, true},
		{"App.Port", cfg.App.Port, "8000"},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Log.Format", cfg.Log.Format, "text"},
		{"Container.StrictInjection", cfg.Container.StrictInjection, false},
		{"Container.ScopedMiddleware", cfg.Container.ScopedMiddleware, false},
		{"Container.InitHooks", cfg.Container.InitHooks, true},
		{"HTTP.ShutdownTimeout", cfg.HTTP.ShutdownTimeout, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
	assert.Equal(t, ":8000", cfg.App.Addr())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("APP_NAME", "MyApp")
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("CONTAINER_STRICT_INJECTION", "true")
	t.Setenv("MODULE_INIT_HOOKS", "false")
	t.Setenv("HTTP_SHUTDOWN_TIMEOUT", "3")

	cfg := config.Load("testdata/missing.env")

	assert.Equal(t, "MyApp", cfg.App.Name)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, ":9000", cfg.App.Addr())
	assert.True(t, cfg.Container.StrictInjection)
	assert.False(t, cfg.Container.InitHooks)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ShutdownTimeout)
}

func TestLoad_ReadsDotEnvFile(t *testing.T) {
	unset(t, "APP_NAME", "LOG_FORMAT", "MODULE_SCOPED_MIDDLEWARE")

	cfg := config.Load("testdata/app.env")

	assert.Equal(t, "FromDotEnv", cfg.App.Name)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Container.ScopedMiddleware)
}

func TestLoad_EnvironmentWinsOverDotEnv(t *testing.T) {
	unset(t, "LOG_FORMAT", "MODULE_SCOPED_MIDDLEWARE")
	t.Setenv("APP_NAME", "FromEnv")

	cfg := config.Load("testdata/app.env")

	assert.Equal(t, "FromEnv", cfg.App.Name)
}

func TestLoad_AppDebugOffOutsideLocal(t *testing.T) {
	unset(t, "APP_DEBUG")
	t.Setenv("APP_ENV", "production")
	assert.False(t, config.Load("testdata/missing.env").App.Debug)

	t.Setenv("APP_ENV", "staging")
	assert.False(t, config.Load("testdata/missing.env").App.Debug)
}

func TestLoad_AppDebug(t *testing.T) {
	t.Setenv("APP_DEBUG", "true")
	assert.True(t, config.Load("testdata/missing.env").App.Debug)

	t.Setenv("APP_DEBUG", "false")
	assert.False(t, config.Load("testdata/missing.env").App.Debug)
}

// ── Get / GetInt / GetBool ───────────────────────────────────────────────────

func TestGet(t *testing.T) {
	t.Setenv("CUSTOM_KEY", "hello")
	assert.Equal(t, "hello", config.Get("CUSTOM_KEY", "default"))

	unset(t, "MISSING_KEY")
	assert.Equal(t, "fallback", config.Get("MISSING_KEY", "fallback"))
}

func TestGetInt(t *testing.T) {
	t.Setenv("SOME_INT", "42")
	assert.Equal(t, 42, config.GetInt("SOME_INT", 0))

	t.Setenv("SOME_INT", "notanint")
	assert.Equal(t, 99, config.GetInt("SOME_INT", 99))
}

func TestGetBool(t *testing.T) {
	for _, val := range []string{"true", "1", "True", "TRUE"} {
		t.Setenv("BOOL_KEY", val)
		assert.True(t, config.GetBool("BOOL_KEY", false), val)
	}

	t.Setenv("BOOL_KEY", "false")
	assert.False(t, config.GetBool("BOOL_KEY", true))

	t.Setenv("BOOL_KEY", "notabool")
	assert.True(t, config.GetBool("BOOL_KEY", true))
}
