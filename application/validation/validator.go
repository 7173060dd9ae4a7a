// Package validation checks decoded configuration documents against a JSON
// schema before they are bound to Go structs.
package validation

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/cdsmodel/cellbridge/domain/entities"
)

const resourceName = "config.schema.json"

// DocumentValidator validates documents against one compiled schema.
type DocumentValidator struct {
	schema *jsonschema.Schema
}

// NewDocumentValidator compiles schema.
func NewDocumentValidator(schema []byte) (*DocumentValidator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceName, bytes.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	sch, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &DocumentValidator{schema: sch}, nil
}

// Validate checks doc, which may be any value produced by a YAML or JSON
// decoder. The document is normalised through JSON first so integer and map
// types match what the schema validator expects.
func (v *DocumentValidator) Validate(doc any) (*entities.ValidationResult, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare validation object: %w", err)
	}
	var obj any
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, fmt.Errorf("failed to prepare validation object: %w", err)
	}

	result := &entities.ValidationResult{Valid: true}
	if err := v.schema.Validate(obj); err != nil {
		result.Valid = false
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return nil, err
		}
		for _, leaf := range leaves(ve) {
			result.Errors = append(result.Errors, entities.ValidationError{
				Field:   leaf.InstanceLocation,
				Message: leaf.Message,
			})
		}
	}
	return result, nil
}

// ValidateDocument compiles schema and validates doc against it.
func ValidateDocument(schema []byte, doc any) (*entities.ValidationResult, error) {
	v, err := NewDocumentValidator(schema)
	if err != nil {
		return nil, err
	}
	return v.Validate(doc)
}

// leaves flattens the cause tree to the errors that name a concrete failure.
func leaves(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var out []*jsonschema.ValidationError
	for _, c := range ve.Causes {
		out = append(out, leaves(c)...)
	}
	return out
}
