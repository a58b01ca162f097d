package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mohfalahisnan/honorer/framework/http/validation"
)

// CodeValidation is the error code of a rejected request input.
const CodeValidation = "VALIDATION_ERROR"

// ── Response ─────────────────────────────────────────────────────────────────

// Response wraps http.ResponseWriter with JSON envelope helpers.
type Response struct {
	w http.ResponseWriter
}

// NewResponse wraps a ResponseWriter.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

// Raw returns the underlying ResponseWriter.
func (res *Response) Raw() http.ResponseWriter { return res.w }

// ── JSON responses ────────────────────────────────────────────────────────────

// JSON sends a JSON response.
//
//	res.JSON(http.StatusOK, map[string]any{"message": "ok"})
func (res *Response) JSON(status int, data any) {
	res.w.Header().Set("Content-Type", "application/json")
	res.w.WriteHeader(status)
	_ = json.NewEncoder(res.w).Encode(data)
}

// Success sends 200 JSON: {"data": v}
func (res *Response) Success(v any) {
	res.JSON(http.StatusOK, envelope{"data": v})
}

// Created sends 201 JSON: {"data": v}
func (res *Response) Created(v any) {
	res.JSON(http.StatusCreated, envelope{"data": v})
}

// NoContent sends 204 with no body.
func (res *Response) NoContent() {
	res.w.WriteHeader(http.StatusNoContent)
}

// ErrorBody is the payload under the "error" key of every error response.
type ErrorBody struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Error sends a JSON error response whose code is derived from status.
//
//	res.Error(http.StatusNotFound, "Resource not found")
//	// 404 {"error": {"code": "NOT_FOUND", "message": "Resource not found"}}
func (res *Response) Error(status int, message string) {
	res.JSON(status, envelope{"error": ErrorBody{Code: StatusCode(status), Message: message}})
}

// Unauthorized sends 401.
func (res *Response) Unauthorized(message ...string) {
	res.Error(http.StatusUnauthorized, first(message, "Unauthenticated."))
}

// Forbidden sends 403.
func (res *Response) Forbidden(message ...string) {
	res.Error(http.StatusForbidden, first(message, "This action is unauthorized."))
}

// NotFound sends 404.
func (res *Response) NotFound(message ...string) {
	res.Error(http.StatusNotFound, first(message, "Not found."))
}

// ServerError sends 500.
func (res *Response) ServerError(message ...string) {
	res.Error(http.StatusInternalServerError, first(message, "Server Error."))
}

// ValidationError sends 400 with the field error bag.
//
//	res.ValidationError(errs)
//	// 400 {"error": {"code": "VALIDATION_ERROR", "message": "...", "errors": {"id": ["..."]}}}
func (res *Response) ValidationError(errs *validation.Errors) {
	body := ErrorBody{Code: CodeValidation, Message: "The given data was invalid."}
	if errs != nil {
		body.Errors = errs.Bag
	}
	res.JSON(http.StatusBadRequest, envelope{"error": body})
}

// StatusCode turns an HTTP status into an upper snake case error code,
// e.g. 404 → "NOT_FOUND".
func StatusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "ERROR"
	}
	text = strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(text)
	return strings.ToUpper(text)
}

// ── Helpers ──────────────────────────────────────────────────────────────────

type envelope map[string]any

func first(ss []string, fallback string) string {
	if len(ss) > 0 && ss[0] != "" {
		return ss[0]
	}
	return fallback
}
