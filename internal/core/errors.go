package core

import (
	"errors"
	"fmt"

	"github.com/JonMunkholm/materials/internal/schema"
)

// UnknownKindError is returned when a material type token names no kind.
type UnknownKindError = schema.UnknownKindError

// ErrPictureInvariant is returned when a picture set would hold zero
// primaries while non-empty, or more than one primary.
var ErrPictureInvariant = errors.New("picture invariant violated: exactly one primary picture required")

// ValidationError reports a field that failed validation.
type ValidationError struct {
	Field  string // Field name on the transfer object
	Value  any    // The rejected value, nil when missing
	Reason string // Human-readable reason
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %s (got %v)", e.Field, e.Reason, e.Value)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return e.Reason
}

// FieldNotApplicableError is returned when a field is read from, or written
// to, a record whose kind does not carry it.
type FieldNotApplicableError struct {
	Kind  schema.Kind
	Field string
}

func (e *FieldNotApplicableError) Error() string {
	return fmt.Sprintf("field %q is not applicable to %s", e.Field, e.Kind)
}

// NotFoundError is returned when a material or picture id is unknown.
type NotFoundError struct {
	Entity string // "material" or "picture"
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// IsNotFound reports whether err wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is a caller-correctable input error.
func IsValidation(err error) bool {
	var ve *ValidationError
	var uk *UnknownKindError
	var na *FieldNotApplicableError
	return errors.As(err, &ve) || errors.As(err, &uk) || errors.As(err, &na)
}

// RowError records why a spreadsheet row was skipped during import.
type RowError struct {
	Row   int      // 1-based position among data rows, header excluded
	Cause error    // Underlying validation or parse error
	Data  []string // Raw cells, for download and review
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Cause)
}

func (e RowError) Unwrap() error { return e.Cause }
