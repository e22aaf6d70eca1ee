// Package writer serializes artifact definitions as YAML documents that the
// reader package reads back into equivalent definitions.
package writer

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/forensicartifacts/artifacts/pkg/artifacts"
)

// definitionDocument fixes the key order of a written definition
type definitionDocument struct {
	Name        string           `yaml:"name"`
	Doc         string           `yaml:"doc,omitempty"`
	Aliases     []string         `yaml:"aliases,omitempty"`
	Sources     []sourceDocument `yaml:"sources"`
	SupportedOS []string         `yaml:"supported_os,omitempty"`
	URLs        []string         `yaml:"urls,omitempty"`
}

type sourceDocument struct {
	Type       string         `yaml:"type"`
	Attributes map[string]any `yaml:"attributes"`
}

func newDefinitionDocument(definition *artifacts.ArtifactDefinition) definitionDocument {
	doc := definitionDocument{
		Name:        definition.Name,
		Doc:         definition.Description,
		Aliases:     definition.Aliases,
		Sources:     make([]sourceDocument, 0, len(definition.Sources)),
		SupportedOS: definition.SupportedOS,
		URLs:        definition.URLs,
	}
	for _, source := range definition.Sources {
		doc.Sources = append(doc.Sources, sourceDocument{
			Type:       source.TypeIndicator(),
			Attributes: source.AsDict(),
		})
	}
	return doc
}

// WriteDefinitions writes definitions to w as a stream of YAML documents
func WriteDefinitions(w io.Writer, definitions []*artifacts.ArtifactDefinition) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	written := 0
	for _, definition := range definitions {
		if definition == nil {
			continue
		}
		if err := encoder.Encode(newDefinitionDocument(definition)); err != nil {
			return fmt.Errorf("failed to write artifact definition %s: %w", definition.Name, err)
		}
		written++
	}

	// Closing an encoder that never started a stream is an emitter error
	if written == 0 {
		return nil
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to flush artifact definitions: %w", err)
	}
	return nil
}
