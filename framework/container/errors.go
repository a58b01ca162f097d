package container

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Sentinel errors for errors.Is checks. The typed errors below report as
// their sentinel.
var (
	ErrProviderNotFound   = errors.New("provider not found")
	ErrCircularDependency = errors.New("circular dependency")
	ErrInvalidToken       = errors.New("invalid provider token")
	ErrInvalidProvider    = errors.New("invalid provider")
	ErrConstruction       = errors.New("construction failed")
	ErrTypeMismatch       = errors.New("type mismatch")
)

var (
	_ error = ProviderNotFoundError{}
	_ error = CircularDependencyError{}
	_ error = InvalidTokenError{}
	_ error = InvalidProviderError{}
	_ error = ConstructionError{}
	_ error = TypeMismatchError{}
)

// ProviderNotFoundError means resolution reached no registration anywhere in
// the ancestor chain.
type ProviderNotFoundError struct {
	Token Token
}

func (e ProviderNotFoundError) Error() string {
	return fmt.Sprintf("container: no provider registered for [%s]", TokenName(e.Token))
}

func (e ProviderNotFoundError) Is(target error) bool { return target == ErrProviderNotFound }

// CircularDependencyError means Token reappeared on its own resolution stack.
// Path lists the stack from the outermost token to the repeated one.
type CircularDependencyError struct {
	Token Token
	Path  []Token
}

func (e CircularDependencyError) Error() string {
	names := make([]string, 0, len(e.Path))
	for _, t := range e.Path {
		names = append(names, TokenName(t))
	}
	if len(names) == 0 {
		return fmt.Sprintf("container: circular dependency on [%s]", TokenName(e.Token))
	}
	return fmt.Sprintf("container: circular dependency on [%s]: %s", TokenName(e.Token), strings.Join(names, " -> "))
}

func (e CircularDependencyError) Is(target error) bool { return target == ErrCircularDependency }

// InvalidTokenError rejects nil and non-comparable tokens.
type InvalidTokenError struct {
	Token Token
}

func (e InvalidTokenError) Error() string {
	return fmt.Sprintf("container: invalid token %#v (tokens must be non-nil and comparable)", e.Token)
}

func (e InvalidTokenError) Is(target error) bool { return target == ErrInvalidToken }

// InvalidProviderError reports a provider definition that can never be built.
type InvalidProviderError struct {
	Token  Token
	Reason string
}

func (e InvalidProviderError) Error() string {
	return fmt.Sprintf("container: invalid provider for [%s]: %s", TokenName(e.Token), e.Reason)
}

func (e InvalidProviderError) Is(target error) bool { return target == ErrInvalidProvider }

// ConstructionError wraps an error returned (or a panic raised) by a
// constructor or factory.
type ConstructionError struct {
	Token Token
	Cause error
}

func (e ConstructionError) Error() string {
	return fmt.Sprintf("container: building [%s]: %v", TokenName(e.Token), e.Cause)
}

func (e ConstructionError) Unwrap() error { return e.Cause }

func (e ConstructionError) Is(target error) bool { return target == ErrConstruction }

// TypeMismatchError is returned by Resolve[T] when the instance is not a T.
type TypeMismatchError struct {
	Token    Token
	Expected string
	Actual   string
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("container: [%s] resolved to %s, want %s", TokenName(e.Token), e.Actual, e.Expected)
}

func (e TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }
