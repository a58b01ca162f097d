package validation

import (
	"sort"
	"strings"
)

// Errors holds field error messages.
// JSON output: {"errors": {"field": ["msg1", "msg2"]}}
//
// A non-empty *Errors is the error returned by a failing Schema.
type Errors struct {
	Bag map[string][]string `json:"errors"`
}

// NewErrors returns an empty error bag.
func NewErrors() *Errors {
	return &Errors{Bag: make(map[string][]string)}
}

// Add appends msg to field.
func (e *Errors) Add(field, msg string) {
	if e.Bag == nil {
		e.Bag = make(map[string][]string)
	}
	e.Bag[field] = append(e.Bag[field], msg)
}

// Has returns true if there are any errors.
func (e *Errors) Has() bool { return e != nil && len(e.Bag) > 0 }

// First returns the first error for a field.
func (e *Errors) First(field string) string {
	if msgs, ok := e.Bag[field]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Fields returns the failing field names, sorted.
func (e *Errors) Fields() []string {
	fields := make([]string, 0, len(e.Bag))
	for f := range e.Bag {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.Bag))
	for _, f := range e.Fields() {
		parts = append(parts, f+": "+strings.Join(e.Bag[f], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
