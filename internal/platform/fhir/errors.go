package fhir

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is reported (logged, not returned) by list extractors whose
// top-level input is not the expected JSON array.
var ErrInvalidInput = errors.New("invalid input")

// Reasons carried by a ConversionError.
const (
	ReasonMissing     = "missing"
	ReasonUnsupported = "unsupported"
	ReasonInvalid     = "invalid"
)

// ConversionError is returned by strict FHIR -> internal converters when a
// required field is absent or the resource is of the wrong type.
type ConversionError struct {
	Field  string
	Reason string
	Detail string
}

func (e *ConversionError) Error() string {
	switch e.Reason {
	case ReasonMissing:
		return fmt.Sprintf("missing required field: %s", e.Field)
	case ReasonUnsupported:
		return fmt.Sprintf("unsupported %s: %s", e.Field, e.Detail)
	default:
		if e.Detail != "" {
			return fmt.Sprintf("invalid %s: %s", e.Field, e.Detail)
		}
		return fmt.Sprintf("invalid %s", e.Field)
	}
}

// MissingField builds a ConversionError for an absent required field.
func MissingField(field string) *ConversionError {
	return &ConversionError{Field: field, Reason: ReasonMissing}
}

// UnsupportedResourceType builds a ConversionError for a resource of the wrong type.
func UnsupportedResourceType(got, want string) *ConversionError {
	return &ConversionError{
		Field:  "resourceType",
		Reason: ReasonUnsupported,
		Detail: fmt.Sprintf("%q (expected %q)", got, want),
	}
}

// AsConversionError reports whether err wraps a *ConversionError.
func AsConversionError(err error, target **ConversionError) bool {
	return errors.As(err, target)
}
