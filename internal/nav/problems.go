package nav

import (
	"fmt"
	"strings"
)

// Severity of a navigation problem.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Code identifies the rule a problem violates.
type Code string

const (
	CodeInvalidPath      Code = "invalid-path"
	CodeOutsideRoot      Code = "outside-root"
	CodeDuplicateLink    Code = "duplicate-link"
	CodeDuplicatePrefix  Code = "duplicate-prefix"
	CodeMissingDirectory Code = "missing-directory"
	CodeMissingText      Code = "missing-text"
	CodeEmptyEntry       Code = "empty-entry"
	CodeMissingTarget    Code = "missing-target"
	CodeBlankIcon        Code = "blank-icon"
	CodePrefixSlash      Code = "prefix-slash"
	CodeExpandFailed     Code = "expand-failed"
)

// Problem is a single finding of the resolver.
type Problem struct {
	Location string // e.g. navbar[1].children[0].link
	Code     Code
	Severity Severity
	Message  string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s (%s)", p.Location, p.Message, p.Code)
}

// ValidationError is returned when at least one error-level problem exists.
// It lists every problem found, warnings included.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	errs := e.Errors()
	parts := make([]string, 0, len(errs))
	for _, p := range errs {
		parts = append(parts, p.String())
	}
	return fmt.Sprintf("navigation has %d error(s): %s", len(errs), strings.Join(parts, "; "))
}

// Errors returns the error-level problems.
func (e *ValidationError) Errors() []Problem {
	return filterSeverity(e.Problems, SeverityError)
}

// Warnings returns the warning-level problems.
func (e *ValidationError) Warnings() []Problem {
	return filterSeverity(e.Problems, SeverityWarning)
}

// HasCode reports whether any problem carries code.
func (e *ValidationError) HasCode(code Code) bool {
	for _, p := range e.Problems {
		if p.Code == code {
			return true
		}
	}
	return false
}

func filterSeverity(in []Problem, sev Severity) []Problem {
	var out []Problem
	for _, p := range in {
		if p.Severity == sev {
			out = append(out, p)
		}
	}
	return out
}
