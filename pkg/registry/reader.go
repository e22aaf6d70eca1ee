package registry

import (
	"fmt"
	"iter"

	"github.com/forensicartifacts/artifacts/pkg/artifacts"
)

//go:generate mockgen -destination=mocks/mock_reader.go -package=mocks -source=reader.go DefinitionsReader

// DefinitionsReader reads artifact definitions from the file system
type DefinitionsReader interface {
	// ReadFile returns the definitions of a single file
	ReadFile(path string) iter.Seq2[*artifacts.ArtifactDefinition, error]

	// ReadDirectory returns the definitions of every definitions file in a directory
	ReadDirectory(path string) iter.Seq2[*artifacts.ArtifactDefinition, error]
}

// ReadFromFile reads the definitions in path and registers them.
// It stops at the first read or registration error; definitions registered
// before the error stay registered.
func (r *ArtifactDefinitionsRegistry) ReadFromFile(reader DefinitionsReader, path string) error {
	if err := r.registerAll(reader.ReadFile(path)); err != nil {
		return fmt.Errorf("failed to read definitions from %s: %w", path, err)
	}
	return nil
}

// ReadFromDirectory reads the definitions of every definitions file in path and registers them.
func (r *ArtifactDefinitionsRegistry) ReadFromDirectory(reader DefinitionsReader, path string) error {
	if err := r.registerAll(reader.ReadDirectory(path)); err != nil {
		return fmt.Errorf("failed to read definitions from directory %s: %w", path, err)
	}
	return nil
}

func (r *ArtifactDefinitionsRegistry) registerAll(definitions iter.Seq2[*artifacts.ArtifactDefinition, error]) error {
	count := 0
	for definition, err := range definitions {
		if err != nil {
			return err
		}
		if err := r.RegisterDefinition(definition); err != nil {
			return err
		}
		count++
	}

	r.logger.Debug("Registered artifact definitions", "count", count)
	return nil
}
