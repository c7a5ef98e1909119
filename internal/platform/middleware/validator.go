package middleware

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vetfhir/vetfhir/internal/platform/fhir"
)

// RequestValidator plugs go-playground/validator into echo.Context.Validate.
// Failures are reported as *fhir.ConversionError naming the JSON field, so
// handlers can answer with an OperationOutcome.
type RequestValidator struct {
	v *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &RequestValidator{v: v}
}

// Validate implements echo.Validator. Only the first failing field is
// reported.
func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	if strings.HasPrefix(fe.Tag(), "required") {
		return fhir.MissingField(fe.Field())
	}
	return &fhir.ConversionError{
		Field:  fe.Field(),
		Reason: fhir.ReasonInvalid,
		Detail: strings.TrimSpace(fe.Tag() + " " + fe.Param()),
	}
}
