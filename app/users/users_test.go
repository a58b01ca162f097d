package users_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohfalahisnan/honorer/app/users"
	"github.com/mohfalahisnan/honorer/framework/app"
	"github.com/mohfalahisnan/honorer/framework/config"
	"github.com/mohfalahisnan/honorer/framework/container"
)

func boot(t *testing.T) *app.Application {
	t.Helper()
	logger, _ := test.NewNullLogger()
	cfg := &config.Config{Container: config.ContainerConfig{InitHooks: true}}
	application, err := app.New(cfg, app.WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, users.Declare(application.Modules))
	require.NoError(t, application.Bootstrap(context.Background(), users.Module))
	return application
}

func send(application *app.Application, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	application.Handler().ServeHTTP(rr, req)
	return rr
}

func TestUsers_Show(t *testing.T) {
	application := boot(t)

	rr := send(application, http.MethodGet, "/api/2", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":{"id":"2","name":"Bob","email":"bob@example.com"}}`, rr.Body.String())
}

func TestUsers_ShowUnknown(t *testing.T) {
	application := boot(t)

	rr := send(application, http.MethodGet, "/api/42", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":{"code":"NOT_FOUND","message":"User not found."}}`, rr.Body.String())
}

func TestUsers_ShowRejectsNonNumericID(t *testing.T) {
	application := boot(t)

	rr := send(application, http.MethodGet, "/api/abc", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "VALIDATION_ERROR")
}

func TestUsers_ShowWithoutIDIsAValidationError(t *testing.T) {
	application := boot(t)

	rr := send(application, http.MethodGet, "/api/", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":{
		"code":"VALIDATION_ERROR",
		"message":"The given data was invalid.",
		"errors":{"id":["The id field is required."]}
	}}`, rr.Body.String())
}

func TestUsers_Index(t *testing.T) {
	application := boot(t)

	rr := send(application, http.MethodGet, "/api", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Alice")
	assert.Contains(t, rr.Body.String(), "Bob")
}

func TestUsers_Store(t *testing.T) {
	application := boot(t)

	rr := send(application, http.MethodPost, "/api", `{"name":"Carol","email":"carol@example.com"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "token required")

	rr = send(application, http.MethodPost, "/api", `{"name":"C","email":"nope"}`, "Authorization", "Bearer t")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name"`)
	assert.Contains(t, rr.Body.String(), `"email"`)

	rr = send(application, http.MethodPost, "/api", `{"name":"Carol","email":"carol@example.com"}`, "Authorization", "Bearer t")
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"data":{"id":"3","name":"Carol","email":"carol@example.com"}}`, rr.Body.String())
}

func TestUsers_ServiceIsSharedAndTornDown(t *testing.T) {
	application := boot(t)

	svc, err := container.Resolve[*users.UserService](application.Container)
	require.NoError(t, err)
	assert.Equal(t, 2, svc.Count())

	require.NoError(t, application.Shutdown(context.Background()))
	assert.Zero(t, svc.Count())
	assert.False(t, application.Factory.IsModuleRegistered(users.Module))
}

func TestUsers_Routes(t *testing.T) {
	application := boot(t)

	var got []string
	for _, r := range application.Routes() {
		got = append(got, r.Method+" "+r.Path)
	}
	assert.ElementsMatch(t, []string{"GET /api", "GET /api/{id}", "POST /api"}, got)
}
