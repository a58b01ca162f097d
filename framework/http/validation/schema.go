package validation

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Schema checks raw request input and returns its parsed form. A failure is
// reported as *Errors; any other error is treated as a server fault.
type Schema interface {
	Validate(raw any) (any, error)
}

// SchemaFunc adapts a function to Schema.
type SchemaFunc func(raw any) (any, error)

// Validate implements Schema.
func (f SchemaFunc) Validate(raw any) (any, error) { return f(raw) }

var (
	engineOnce sync.Once
	engine     *validator.Validate
)

// Engine returns the shared go-playground validator used by Struct schemas.
// Field names in messages are taken from `json` tags.
func Engine() *validator.Validate {
	engineOnce.Do(func() {
		engine = validator.New(validator.WithRequiredStructEnabled())
		engine.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			switch name {
			case "-":
				return ""
			case "":
				return f.Name
			}
			return name
		})
	})
	return engine
}

type structSchema[T any] struct{}

// Struct returns a Schema decoding raw input into T and checking it against
// T's `validate` struct tags. T may be a struct or a pointer to one.
//
//	type CreateUser struct {
//	    Name  string `json:"name" validate:"required,min=2"`
//	    Email string `json:"email" validate:"required,email"`
//	}
//	routing.Post("/", (*UserController).Create, routing.BindBody(1, validation.Struct[CreateUser]()))
func Struct[T any]() Schema { return structSchema[T]{} }

func (structSchema[T]) Validate(raw any) (any, error) {
	rt := reflect.TypeFor[T]()
	out := reflect.New(rt)
	target := out.Interface()
	if rt.Kind() == reflect.Pointer {
		out.Elem().Set(reflect.New(rt.Elem()))
		target = out.Elem().Interface()
	}

	if raw != nil {
		b, err := json.Marshal(raw)
		if err != nil {
			return nil, errors.Wrap(err, "encoding input")
		}
		if err := json.Unmarshal(b, target); err != nil {
			return nil, decodeErrors(err)
		}
	}

	if err := Engine().Struct(target); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return nil, translate(fieldErrs)
		}
		return nil, errors.Wrapf(err, "validating %s", rt)
	}
	return out.Elem().Interface(), nil
}

func decodeErrors(err error) *Errors {
	errs := NewErrors()
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		errs.Add(typeErr.Field, fmt.Sprintf("The %s must be of type %s.", typeErr.Field, typeErr.Type))
		return errs
	}
	errs.Add("input", "The input is malformed.")
	return errs
}

func translate(fieldErrs validator.ValidationErrors) *Errors {
	errs := NewErrors()
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		errs.Add(field, message(field, fe))
	}
	return errs
}

func message(field string, fe validator.FieldError) string {
	text := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required", "required_if", "required_with", "required_without":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "url", "http_url":
		return fmt.Sprintf("The %s must be a valid URL.", field)
	case "uuid", "uuid4":
		return fmt.Sprintf("The %s must be a valid UUID.", field)
	case "numeric", "number":
		return fmt.Sprintf("The %s must be a number.", field)
	case "alpha":
		return fmt.Sprintf("The %s may only contain letters.", field)
	case "alphanum":
		return fmt.Sprintf("The %s may only contain letters and numbers.", field)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "min":
		if text {
			return fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s.", field, fe.Param())
	case "max":
		if text {
			return fmt.Sprintf("The %s may not be greater than %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s may not be greater than %s.", field, fe.Param())
	case "len":
		if text {
			return fmt.Sprintf("The %s must be %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s must contain %s items.", field, fe.Param())
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", field, fe.Param())
	case "gte":
		return fmt.Sprintf("The %s must be greater than or equal to %s.", field, fe.Param())
	case "lt":
		return fmt.Sprintf("The %s must be less than %s.", field, fe.Param())
	case "lte":
		return fmt.Sprintf("The %s must be less than or equal to %s.", field, fe.Param())
	}
	return fmt.Sprintf("The %s field is invalid.", field)
}
