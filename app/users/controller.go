package users

import (
	"net/http"

	gohttp "github.com/mohfalahisnan/honorer/framework/http"
	"github.com/mohfalahisnan/honorer/framework/routing"
)

// CreateUser is the body of POST /api.
type CreateUser struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
}

// UserController serves the users resource.
type UserController struct {
	users *UserService
}

func NewUserController(users *UserService) *UserController {
	return &UserController{users: users}
}

// Index lists users.
func (c *UserController) Index() []User {
	return c.users.All()
}

// Show returns the user named by the validated id param.
func (c *UserController) Show(params map[string]string) (User, error) {
	u, ok := c.users.Find(params["id"])
	if !ok {
		return User{}, routing.NewHTTPError(http.StatusNotFound, "User not found.")
	}
	return u, nil
}

// Store creates a user and answers 201.
func (c *UserController) Store(ctx *routing.Context, body CreateUser) error {
	u := c.users.Create(body.Name, body.Email)
	ctx.Response.Created(u)
	return nil
}

// RequireToken rejects requests without a bearer token.
func RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gohttp.NewRequest(r).BearerToken() == "" {
			gohttp.NewResponse(w).Unauthorized()
			return
		}
		next.ServeHTTP(w, r)
	})
}
