package immunization

import "fmt"

// RequiredFields lists the members a submitted Immunization must carry, in
// the order they are checked.
var RequiredFields = []string{
	"resourceType",
	"status",
	"vaccineCode",
	"patient",
	"occurrenceDateTime",
	"manufacturer",
	"lotNumber",
	"expirationDate",
}

// ValidationResult reports the first problem found, if any.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// Validate checks a raw Immunization document. A field is missing when it is
// absent, null or an empty string. Only the first failure is reported.
func Validate(data map[string]interface{}) ValidationResult {
	for _, field := range RequiredFields {
		v, ok := data[field]
		if !ok || v == nil {
			return invalid("Missing field: %s", field)
		}
		if s, isString := v.(string); isString && s == "" {
			return invalid("Missing field: %s", field)
		}
	}
	if rt, _ := data["resourceType"].(string); rt != "Immunization" {
		return invalid("Invalid resourceType: expected Immunization, got %v", data["resourceType"])
	}
	return ValidationResult{Valid: true}
}

func invalid(format string, args ...interface{}) ValidationResult {
	return ValidationResult{Valid: false, Error: fmt.Sprintf(format, args...)}
}
