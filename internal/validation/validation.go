package validation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/andyrewlee/reqtty/internal/data"
)

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var knownMethods = map[string]bool{
	"GET":     true,
	"HEAD":    true,
	"POST":    true,
	"PUT":     true,
	"PATCH":   true,
	"DELETE":  true,
	"OPTIONS": true,
	"TRACE":   true,
	"CONNECT": true,
}

// ValidateMethod checks for a standard HTTP method, case-insensitively.
func ValidateMethod(method string) error {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return &ValidationError{Field: "method", Message: "method cannot be empty"}
	}
	if !knownMethods[method] {
		return &ValidationError{Field: "method", Message: fmt.Sprintf("unknown method '%s'", method)}
	}
	return nil
}

// ValidateURL checks for an absolute http or https URL with a host.
func ValidateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return &ValidationError{Field: "url", Message: "url cannot be empty"}
	}
	if strings.ContainsAny(raw, " \t\n\r") {
		return &ValidationError{Field: "url", Message: "url cannot contain whitespace"}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return &ValidationError{Field: "url", Message: "url is malformed"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "url must start with http:// or https://"}
	}
	if u.Host == "" {
		return &ValidationError{Field: "url", Message: "url has no host"}
	}
	return nil
}

// ValidateRequest checks the method and URL of r and joins every failure.
func ValidateRequest(r data.Request) error {
	return errors.Join(ValidateMethod(r.Method), ValidateURL(r.URL))
}

// SanitizeInput removes control characters other than newline and tab, and
// trims surrounding space.
func SanitizeInput(input string) string {
	input = strings.Map(func(r rune) rune {
		if r < 32 && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, input)

	return strings.TrimSpace(input)
}
