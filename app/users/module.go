// Package users is the example Users module: a UserService provider and a
// UserController mounted under /api.
//
//	GET  /api       list users
//	GET  /api/{id}  show a user, id required
//	POST /api       create a user (bearer token required)
package users

import (
	"github.com/mohfalahisnan/honorer/framework/container"
	"github.com/mohfalahisnan/honorer/framework/http/validation"
	"github.com/mohfalahisnan/honorer/framework/module"
	"github.com/mohfalahisnan/honorer/framework/providers"
	"github.com/mohfalahisnan/honorer/framework/routing"
)

// Module identifies the Users module.
var Module = module.NewClass("UsersModule")

// Controller declares the UserController routes.
func Controller() *routing.Controller {
	return &routing.Controller{
		Provider: container.Class(NewUserController),
		Routes: []routing.Route{
			routing.Get("/", (*UserController).Index),
			routing.Get("/{id}", (*UserController).Show,
				routing.BindParams(1, validation.Rules{"id": "required|numeric"})),
			routing.Post("/", (*UserController).Store,
				routing.BindBody(2, validation.Struct[CreateUser]()),
				routing.WithMiddleware(RequireToken)),
		},
	}
}

// Descriptor declares the Users module. UserService is exported to
// importing modules.
func Descriptor() module.Descriptor {
	return module.Descriptor{
		Prefix:      "/api",
		Controllers: []*routing.Controller{Controller()},
		Providers: []container.Provider{
			container.Class(NewUserService, container.Inject(providers.LoggerKey)),
		},
		Exports: []container.Token{container.TypeOf[*UserService]()},
	}
}

// Declare records the Users descriptor in store.
func Declare(store *module.Store) error {
	return store.Declare(Module, Descriptor())
}
