package routing

import (
	"fmt"
	"net/http"
	"strings"
)

// HTTPError lets a handler choose the response status of a returned error.
//
//	return nil, routing.NewHTTPError(http.StatusNotFound, "user not found")
type HTTPError struct {
	Status  int
	Message string
	Cause   error
}

// NewHTTPError returns an HTTPError; an empty message uses the status text.
func NewHTTPError(status int, message string) *HTTPError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &HTTPError{Status: status, Message: message}
}

// WithCause attaches the underlying error, kept out of the response body.
func (e *HTTPError) WithCause(err error) *HTTPError {
	e.Cause = err
	return e
}

func (e *HTTPError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Cause)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error { return e.Cause }

// RouteDefinitionError reports a route declaration the Composer cannot wire.
type RouteDefinitionError struct {
	Controller string
	Method     string
	Path       string
	Reason     string
}

func (e RouteDefinitionError) Error() string {
	return fmt.Sprintf("routing: %s %s on %s: %s", strings.ToUpper(e.Method), e.Path, e.Controller, e.Reason)
}
