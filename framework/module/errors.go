package module

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrMissingModuleDescriptor matches MissingModuleDescriptorError.
	ErrMissingModuleDescriptor = errors.New("missing module descriptor")

	// ErrAlreadyDeclared is returned when a class is declared twice.
	ErrAlreadyDeclared = errors.New("module already declared")
)

// MissingModuleDescriptorError is returned when a registered class was never
// declared in the Store.
type MissingModuleDescriptorError struct {
	Module string
}

func (e MissingModuleDescriptorError) Error() string {
	return fmt.Sprintf("module: %s has no descriptor", e.Module)
}

func (e MissingModuleDescriptorError) Is(target error) bool {
	return target == ErrMissingModuleDescriptor
}

// ModuleRegistrationError wraps any failure while registering a module.
type ModuleRegistrationError struct {
	Module string
	Cause  error
}

func (e ModuleRegistrationError) Error() string {
	return fmt.Sprintf("module: registering %s: %v", e.Module, e.Cause)
}

func (e ModuleRegistrationError) Unwrap() error { return e.Cause }
