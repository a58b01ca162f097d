package container

import (
	"fmt"
	"reflect"
)

// Token identifies a provider registration. Any comparable value works:
// a reflect.Type (see TypeOf), a string, or a *Symbol.
//
//	c.Provide(container.Value("config", cfg))
//	c.Provide(container.Class(NewUserService))   // token: TypeOf[*UserService]()
//	repo := container.NewSymbol("UserRepository")
type Token any

// Symbol is a token whose identity is its address. Two symbols created with
// the same name are distinct tokens.
type Symbol struct {
	name string
}

// NewSymbol creates a unique token.
func NewSymbol(name string) *Symbol {
	return &Symbol{name: name}
}

// Name returns the description given to NewSymbol.
func (s *Symbol) Name() string { return s.name }

func (s *Symbol) String() string { return "Symbol(" + s.name + ")" }

// TypeOf returns the token for type T. Two types with the same name declared
// in different packages yield different tokens.
//
//	container.TypeOf[*UserService]()
//	container.TypeOf[UserRepository]()   // interface type
func TypeOf[T any]() Token {
	return reflect.TypeFor[T]()
}

// TokenName renders a token for logs and error messages.
func TokenName(token Token) string {
	switch t := token.(type) {
	case nil:
		return "<nil>"
	case reflect.Type:
		return t.String()
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

func validToken(token Token) error {
	if token == nil {
		return InvalidTokenError{Token: token}
	}
	if !reflect.TypeOf(token).Comparable() {
		return InvalidTokenError{Token: token}
	}
	return nil
}
