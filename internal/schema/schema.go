// Package schema validates raw artifact definition records against an
// embedded JSON schema before they are decoded.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"sigs.k8s.io/yaml"
)

// DefinitionSchemaURL identifies the embedded definition schema
const DefinitionSchemaURL = "https://forensicartifacts.github.io/schemas/definition.json"

//go:embed definition.schema.yaml
var definitionSchemaYAML []byte

// Validator checks definition records against the compiled schema
type Validator struct {
	schema *jsonschema.Schema
}

// New compiles the embedded definition schema
func New() (*Validator, error) {
	schemaJSON, err := yaml.YAMLToJSON(definitionSchemaYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to convert definition schema to JSON: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("invalid definition schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(DefinitionSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := compiler.Compile(DefinitionSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Validator{schema: schema}, nil
}

// ValidateRecord validates a single raw definition record. It has the
// signature of reader.RecordValidator.
func (v *Validator) ValidateRecord(record map[string]any) error {
	// The validator expects JSON-decoded values, so YAML ints and nested
	// maps are normalized through a JSON round trip.
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("record is not representable as JSON: %w", err)
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}

	if err := v.schema.Validate(instance); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
