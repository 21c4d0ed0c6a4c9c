package spec

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for rejected clauses.
var (
	// ErrMalformedClause indicates a clause that does not match Name ':' Type.
	ErrMalformedClause = errors.New("scaffold: malformed field clause")
	// ErrUnknownType indicates a clause naming a type outside the registry.
	ErrUnknownType = errors.New("scaffold: unknown field type")
)

// Error is a field-local parse error. It wraps one of the sentinel errors.
type Error struct {
	Clause  string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("scaffold: field ")
	fmt.Fprintf(&b, "%q", e.Clause)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Unwrap returns the sentinel error.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsUnknownType reports if err was caused by an unknown field type.
func IsUnknownType(err error) bool {
	return errors.Is(err, ErrUnknownType)
}

// IsMalformed reports if err was caused by a malformed clause.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedClause)
}

// Severity of a diagnostic.
type Severity uint8

// Diagnostic severities. Errors drop the clause, warnings keep it.
const (
	SeverityWarning Severity = iota + 1
	SeverityError
)

// String implements the fmt.Stringer interface.
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic describes a problem found in one clause of a field list.
type Diagnostic struct {
	Clause   int    // index of the clause among the non-empty clauses
	Text     string // clause text
	Severity Severity
	Message  string
	Err      error // sentinel error, nil for warnings
}

// String implements the fmt.Stringer interface.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: clause %d %q: %s", d.Severity, d.Clause+1, d.Text, d.Message)
}
