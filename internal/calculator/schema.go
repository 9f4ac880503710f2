package calculator

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed action.schema.json
var actionSchema []byte

// Validator validates request bodies against a JSON Schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewActionValidator compiles the embedded action schema.
func NewActionValidator() (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(actionSchema))
	if err != nil {
		return nil, fmt.Errorf("compiling action schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// ValidateBytes validates raw JSON bytes.
func (v *Validator) ValidateBytes(data []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return fmt.Errorf("validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}
