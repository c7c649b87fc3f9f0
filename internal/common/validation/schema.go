// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Schema is a compiled JSON schema. It is safe for concurrent use.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

func Compile(name, source string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return &Schema{name: name, schema: s}, nil
}

// MustCompile panics on an invalid schema; use it for package-level schemas.
func MustCompile(name, source string) *Schema {
	s, err := Compile(name, source)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Name() string { return s.name }

// ValidateBytes validates a raw JSON document. Unparseable input is reported
// as a single INVALID_JSON error.
func (s *Schema) ValidateBytes(raw []byte) *ValidationResult {
	return s.validate(gojsonschema.NewBytesLoader(raw))
}

// ValidateValue validates an already decoded Go value.
func (s *Schema) ValidateValue(v interface{}) *ValidationResult {
	return s.validate(gojsonschema.NewGoLoader(v))
}

func (s *Schema) validate(doc gojsonschema.JSONLoader) *ValidationResult {
	result, err := s.schema.Validate(doc)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: err.Error(),
				Code:    "INVALID_JSON",
			}},
		}
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}

	return &ValidationResult{
		Valid:  result.Valid(),
		Errors: errs,
	}
}

func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Error joins every message; empty when the document is valid.
func (vr *ValidationResult) Error() string {
	return strings.Join(vr.GetErrorMessages(), "; ")
}
