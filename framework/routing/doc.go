// Package routing wires controller declarations onto a chi router.
//
// # Controllers
//
// A controller is a class provider plus its routes. Handlers are method
// expressions; bindings inject validated request parts by parameter index:
//
//	var Users = &routing.Controller{
//	    Provider: container.Class(NewUserController),
//	    Prefix:   "/users",
//	    Routes: []routing.Route{
//	        routing.Get("/{id}", (*UserController).Get,
//	            routing.BindParams(1, validation.Rules{"id": "required|integer"})),
//	        routing.Post("/", (*UserController).Create,
//	            routing.BindBody(1, validation.Struct[CreateUser]())),
//	    },
//	}
//
// # Composer
//
// The Composer registers one handler chain per route. Validators run in the
// order params, query, body; a rejected request gets a 400 VALIDATION_ERROR
// response and never reaches the handler. Parsed values and raw inputs live in
// a request-scoped Vars store, so the body is read at most once.
//
// # Router
//
// Router is the chi adapter. Middleware added with Use wraps every request and
// may be added after routes are registered.
package routing
