package fhir

import (
	"errors"
	"fmt"
	"testing"
)

func TestConversionError_Messages(t *testing.T) {
	tests := []struct {
		err  *ConversionError
		want string
	}{
		{MissingField("patient"), "missing required field: patient"},
		{UnsupportedResourceType("Patient", "Immunization"), `unsupported resourceType: "Patient" (expected "Immunization")`},
		{&ConversionError{Field: "date", Reason: ReasonInvalid, Detail: "expected YYYY-MM-DD"}, "invalid date: expected YYYY-MM-DD"},
		{&ConversionError{Field: "date", Reason: ReasonInvalid}, "invalid date"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestAsConversionError_Wrapped(t *testing.T) {
	err := fmt.Errorf("convert immunization: %w", MissingField("vaccineCode"))

	var ce *ConversionError
	if !AsConversionError(err, &ce) {
		t.Fatal("expected a wrapped ConversionError to be found")
	}
	if ce.Field != "vaccineCode" || ce.Reason != ReasonMissing {
		t.Errorf("unexpected error: %+v", ce)
	}
	if AsConversionError(errors.New("boom"), &ce) {
		t.Error("expected plain errors not to match")
	}
}
