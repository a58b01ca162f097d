package routing_test

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/mohfalahisnan/honorer/framework/routing"
)

func TestJoinPath(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{nil, "/"},
		{[]string{""}, "/"},
		{[]string{"/"}, "/"},
		{[]string{"/api", "/users", "/{id}"}, "/api/users/{id}"},
		{[]string{"/api/", "/users/"}, "/api/users"},
		{[]string{"api", "users"}, "/api/users"},
		{[]string{"//api//", "", "users//"}, "/api/users"},
		{[]string{"/", "/", "/"}, "/"},
		{[]string{"/api", "/"}, "/api"},
	}
	for _, tc := range tests {
		t.Run(strings.Join(tc.parts, "|"), func(t *testing.T) {
			assert.Equal(t, tc.want, routing.JoinPath(tc.parts...))
		})
	}
}

func segments() gopter.Gen {
	return gen.SliceOf(gen.OneGenOf(
		gen.AlphaString(),
		gen.Const(""),
		gen.Const("/"),
		gen.Const("//"),
		gen.AlphaString().Map(func(s string) string { return "/" + s + "/" }),
	))
}

func TestJoinPath_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("normalization is idempotent", prop.ForAll(
		func(parts []string) bool {
			p := routing.JoinPath(parts...)
			return routing.JoinPath(p) == p
		},
		segments(),
	))

	properties.Property("never contains a double slash", prop.ForAll(
		func(parts []string) bool {
			return !strings.Contains(routing.JoinPath(parts...), "//")
		},
		segments(),
	))

	properties.Property("starts with a slash and ends with one only at root", prop.ForAll(
		func(parts []string) bool {
			p := routing.JoinPath(parts...)
			if !strings.HasPrefix(p, "/") {
				return false
			}
			return p == "/" || !strings.HasSuffix(p, "/")
		},
		segments(),
	))

	properties.TestingRun(t)
}
