// Package validation defines the per-step resume schemas and their combined union.
package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Rule codes reported in FieldError.Code.
const (
	CodeInvalidFileType    = "InvalidFileType"
	CodeFileTooLarge       = "FileTooLarge"
	CodeInvalidDate        = "InvalidDate"
	CodeInvalidBorderStyle = "InvalidBorderStyle"
	CodeInvalidShape       = "InvalidShape"
)

// FieldError represents a single violated rule at a field path.
type FieldError struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError aggregates every violation found in one pass.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:")
	for i, fe := range e.Errors {
		fmt.Fprintf(&sb, "\n  %d. %s: %s", i+1, fe.Path, fe.Message)
	}
	return sb.String()
}

// Paths returns the distinct offending paths in report order.
func (e *ValidationError) Paths() []string {
	seen := make(map[string]struct{}, len(e.Errors))
	out := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		if _, ok := seen[fe.Path]; ok {
			continue
		}
		seen[fe.Path] = struct{}{}
		out = append(out, fe.Path)
	}
	return out
}

// ForPath returns the violations reported for path.
func (e *ValidationError) ForPath(path string) []FieldError {
	var out []FieldError
	for _, fe := range e.Errors {
		if fe.Path == path {
			out = append(out, fe)
		}
	}
	return out
}

func (e *ValidationError) add(path, code, message string) {
	e.Errors = append(e.Errors, FieldError{Path: path, Code: code, Message: message})
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
