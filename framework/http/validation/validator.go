package validation

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	urlPattern       = regexp.MustCompile(`^https?://`)
	alphaPattern     = regexp.MustCompile(`^[a-zA-Z]+$`)
	alphaNumPattern  = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	alphaDashPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	booleans = map[string]bool{"true": true, "false": true, "1": true, "0": true, "yes": true, "no": true}
)

// ── Validator ────────────────────────────────────────────────────────────────

// Rules is a map of field → pipe-separated rule string.
// e.g. Rules{"email": "required|email", "age": "required|numeric|min:18"}
//
// Rules is also a Schema: Validate flattens the raw input to strings, checks
// it and returns the flattened map[string]string.
type Rules map[string]string

// Validate implements Schema.
func (r Rules) Validate(raw any) (any, error) {
	data, err := Flatten(raw)
	if err != nil {
		return nil, err
	}
	v := Make(data, r)
	if v.Fails() {
		return nil, v.Errors()
	}
	return data, nil
}

// Validator validates a flat map of input values.
type Validator struct {
	data   map[string]string
	rules  Rules
	errors *Errors
}

// Make creates a new Validator.
func Make(data map[string]string, rules Rules) *Validator {
	if data == nil {
		data = map[string]string{}
	}
	return &Validator{
		data:   data,
		rules:  rules,
		errors: NewErrors(),
	}
}

// Fails runs validation and returns true if any rule fails.
func (v *Validator) Fails() bool {
	v.validate()
	return v.errors.Has()
}

// Passes runs validation and returns true if all rules pass.
func (v *Validator) Passes() bool { return !v.Fails() }

// Errors returns the validation error bag.
func (v *Validator) Errors() *Errors { return v.errors }

// Flatten turns raw request input into a flat string map. It accepts
// map[string]string, map[string]any (decoded JSON objects) and nil; nested
// values are re-encoded as JSON.
func Flatten(raw any) (map[string]string, error) {
	switch in := raw.(type) {
	case nil:
		return map[string]string{}, nil
	case map[string]string:
		return in, nil
	case map[string]any:
		out := make(map[string]string, len(in))
		for k, val := range in {
			out[k] = scalar(val)
		}
		return out, nil
	default:
		errs := NewErrors()
		errs.Add("input", "The input must be an object.")
		return nil, errs
	}
}

func scalar(val any) string {
	switch x := val.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

// ── Core validation loop ─────────────────────────────────────────────────────

func (v *Validator) validate() {
	v.errors = NewErrors()

	fields := make([]string, 0, len(v.rules))
	for field := range v.rules {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		value := v.data[field]
		rules := strings.Split(v.rules[field], "|")

		for _, rule := range rules {
			rule = strings.TrimSpace(rule)
			if rule == "" {
				continue
			}

			// min:3 → name=min, param=3
			name, param, _ := strings.Cut(rule, ":")

			if !v.applyRule(field, value, name, param) {
				break // bail on first failure
			}
		}
	}
}

// applyRule returns true if the rule passes.
func (v *Validator) applyRule(field, value, rule, param string) bool {
	switch rule {
	case "required":
		if strings.TrimSpace(value) == "" {
			v.errors.Add(field, fmt.Sprintf("The %s field is required.", field))
			return false
		}

	case "string":
		// In Go everything from the form is already a string; just ensure it's present.

	case "numeric":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			v.errors.Add(field, fmt.Sprintf("The %s must be a number.", field))
			return false
		}

	case "integer":
		if _, err := strconv.Atoi(value); err != nil {
			v.errors.Add(field, fmt.Sprintf("The %s must be an integer.", field))
			return false
		}

	case "boolean":
		lower := strings.ToLower(value)
		if !booleans[lower] {
			v.errors.Add(field, fmt.Sprintf("The %s field must be true or false.", field))
			return false
		}

	case "email":
		if _, err := mail.ParseAddress(value); err != nil {
			v.errors.Add(field, fmt.Sprintf("The %s must be a valid email address.", field))
			return false
		}

	case "url":
		if !urlPattern.MatchString(value) {
			v.errors.Add(field, fmt.Sprintf("The %s must be a valid URL.", field))
			return false
		}

	case "min":
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(value) < n {
			v.errors.Add(field, fmt.Sprintf("The %s must be at least %d characters.", field, n))
			return false
		}

	case "max":
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(value) > n {
			v.errors.Add(field, fmt.Sprintf("The %s may not be greater than %d characters.", field, n))
			return false
		}

	case "size":
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(value) != n {
			v.errors.Add(field, fmt.Sprintf("The %s must be %d characters.", field, n))
			return false
		}

	case "between":
		parts := strings.SplitN(param, ",", 2)
		if len(parts) != 2 {
			break
		}
		min, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
		max, _ := strconv.Atoi(strings.TrimSpace(parts[1]))
		l := utf8.RuneCountInString(value)
		if l < min || l > max {
			v.errors.Add(field, fmt.Sprintf("The %s must be between %d and %d characters.", field, min, max))
			return false
		}

	case "in":
		allowed := strings.Split(param, ",")
		found := false
		for _, a := range allowed {
			if strings.TrimSpace(a) == value {
				found = true
				break
			}
		}
		if !found {
			v.errors.Add(field, fmt.Sprintf("The selected %s is invalid.", field))
			return false
		}

	case "not_in":
		disallowed := strings.Split(param, ",")
		for _, d := range disallowed {
			if strings.TrimSpace(d) == value {
				v.errors.Add(field, fmt.Sprintf("The selected %s is invalid.", field))
				return false
			}
		}

	case "confirmed":
		// Expects data[field+"_confirmation"] to match
		if v.data[field+"_confirmation"] != value {
			v.errors.Add(field, fmt.Sprintf("The %s confirmation does not match.", field))
			return false
		}

	case "same":
		if v.data[param] != value {
			v.errors.Add(field, fmt.Sprintf("The %s and %s must match.", field, param))
			return false
		}

	case "different":
		if v.data[param] == value {
			v.errors.Add(field, fmt.Sprintf("The %s and %s must be different.", field, param))
			return false
		}

	case "alpha":
		if !alphaPattern.MatchString(value) {
			v.errors.Add(field, fmt.Sprintf("The %s may only contain letters.", field))
			return false
		}

	case "alpha_num":
		if !alphaNumPattern.MatchString(value) {
			v.errors.Add(field, fmt.Sprintf("The %s may only contain letters and numbers.", field))
			return false
		}

	case "alpha_dash":
		if !alphaDashPattern.MatchString(value) {
			v.errors.Add(field, fmt.Sprintf("The %s may only contain letters, numbers, dashes and underscores.", field))
			return false
		}

	case "uuid":
		if _, err := uuid.Parse(value); err != nil {
			v.errors.Add(field, fmt.Sprintf("The %s must be a valid UUID.", field))
			return false
		}

	case "regex":
		re, err := regexp.Compile(param)
		if err != nil || !re.MatchString(value) {
			v.errors.Add(field, fmt.Sprintf("The %s format is invalid.", field))
			return false
		}

	case "nullable":
		if value == "" {
			return false // empty is allowed, skip the remaining rules
		}

	case "sometimes":
		// Skip remaining rules if field is absent.
		if value == "" {
			return false // stop processing this field silently
		}

	case "gt":
		f, _ := strconv.ParseFloat(value, 64)
		t, _ := strconv.ParseFloat(param, 64)
		if f <= t {
			v.errors.Add(field, fmt.Sprintf("The %s must be greater than %s.", field, param))
			return false
		}

	case "gte":
		f, _ := strconv.ParseFloat(value, 64)
		t, _ := strconv.ParseFloat(param, 64)
		if f < t {
			v.errors.Add(field, fmt.Sprintf("The %s must be greater than or equal to %s.", field, param))
			return false
		}

	case "lt":
		f, _ := strconv.ParseFloat(value, 64)
		t, _ := strconv.ParseFloat(param, 64)
		if f >= t {
			v.errors.Add(field, fmt.Sprintf("The %s must be less than %s.", field, param))
			return false
		}

	case "lte":
		f, _ := strconv.ParseFloat(value, 64)
		t, _ := strconv.ParseFloat(param, 64)
		if f > t {
			v.errors.Add(field, fmt.Sprintf("The %s must be less than or equal to %s.", field, param))
			return false
		}
	}

	return true
}
