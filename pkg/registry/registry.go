// Package registry provides the in-memory catalog of artifact definitions.
//
// ArtifactDefinitionsRegistry is the single source of truth for definitions:
// it stores them by name, indexes their aliases and owns the source type
// namespace through a sources.Registrar. Registries that are not given a
// registrar share the process-wide sources.Default, so every catalog in a
// process recognizes the same source types.
package registry

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/forensicartifacts/artifacts/pkg/artifacts"
	"github.com/forensicartifacts/artifacts/pkg/sources"
)

// ArtifactDefinitionsRegistry is a catalog of artifact definitions keyed by name
type ArtifactDefinitionsRegistry struct {
	mu sync.RWMutex // Protects definitions, names, aliases

	registrar *sources.Registrar
	logger    *slog.Logger

	definitions map[string]*artifacts.ArtifactDefinition
	// names holds the registered names in registration order
	names []string
	// aliases maps an alias to the names of the definitions declaring it
	aliases map[string][]string
}

// Option is a functional option for configuring the registry
type Option func(*ArtifactDefinitionsRegistry)

// WithRegistrar sets the source type registrar used by the registry.
// The process-wide sources.Default is used when not set.
func WithRegistrar(registrar *sources.Registrar) Option {
	return func(r *ArtifactDefinitionsRegistry) {
		r.registrar = registrar
	}
}

// WithLogger sets the logger used for registration events
func WithLogger(logger *slog.Logger) Option {
	return func(r *ArtifactDefinitionsRegistry) {
		r.logger = logger
	}
}

// New creates an empty registry
func New(opts ...Option) *ArtifactDefinitionsRegistry {
	r := &ArtifactDefinitionsRegistry{
		definitions: make(map[string]*artifacts.ArtifactDefinition),
		aliases:     make(map[string][]string),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.registrar == nil {
		r.registrar = sources.Default()
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// RegisterDefinition adds a definition to the catalog.
// It returns artifacts.ErrDuplicateKey if a definition with the same name is
// already registered, in which case the catalog is left unchanged.
func (r *ArtifactDefinitionsRegistry) RegisterDefinition(definition *artifacts.ArtifactDefinition) error {
	if definition == nil {
		return artifacts.NewFormatError("artifact definition cannot be nil")
	}
	if definition.Name == "" {
		return artifacts.NewFormatError("artifact definition name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.definitions[definition.Name]; exists {
		return fmt.Errorf("artifact definition %s: %w", definition.Name, artifacts.ErrDuplicateKey)
	}

	r.definitions[definition.Name] = definition
	r.names = append(r.names, definition.Name)
	for _, alias := range definition.Aliases {
		if !slices.Contains(r.aliases[alias], definition.Name) {
			r.aliases[alias] = append(r.aliases[alias], definition.Name)
		}
	}

	r.logger.Debug("Registered artifact definition", "name", definition.Name, "sources", len(definition.Sources))
	return nil
}

// DeregisterDefinition removes the definition registered under the name of definition.
// It returns artifacts.ErrNotFound if no such definition is registered.
func (r *ArtifactDefinitionsRegistry) DeregisterDefinition(definition *artifacts.ArtifactDefinition) error {
	if definition == nil {
		return artifacts.NewFormatError("artifact definition cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	registered, exists := r.definitions[definition.Name]
	if !exists {
		return fmt.Errorf("artifact definition %s: %w", definition.Name, artifacts.ErrNotFound)
	}

	delete(r.definitions, definition.Name)
	r.names = slices.DeleteFunc(r.names, func(name string) bool { return name == definition.Name })

	// Aliases are indexed from the registered definition, which may differ from the argument
	for _, alias := range registered.Aliases {
		names := slices.DeleteFunc(r.aliases[alias], func(name string) bool { return name == definition.Name })
		if len(names) == 0 {
			delete(r.aliases, alias)
		} else {
			r.aliases[alias] = names
		}
	}

	r.logger.Debug("Deregistered artifact definition", "name", definition.Name)
	return nil
}

// GetDefinitionByName returns the definition registered under name, or nil
func (r *ArtifactDefinitionsRegistry) GetDefinitionByName(name string) *artifacts.ArtifactDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.definitions[name]
}

// GetDefinitionsByAlias returns the definitions declaring alias, in registration order
func (r *ArtifactDefinitionsRegistry) GetDefinitionsByAlias(alias string) []*artifacts.ArtifactDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := r.aliases[alias]
	result := make([]*artifacts.ArtifactDefinition, 0, len(names))
	for _, name := range names {
		result = append(result, r.definitions[name])
	}
	return result
}

// GetDefinitions returns every registered definition.
// The order is registration order but callers should not depend on it.
func (r *ArtifactDefinitionsRegistry) GetDefinitions() []*artifacts.ArtifactDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*artifacts.ArtifactDefinition, 0, len(r.names))
	for _, name := range r.names {
		result = append(result, r.definitions[name])
	}
	return result
}

// GetUndefinedArtifacts returns the sorted names referenced by registered
// definitions, through group sources, that are not registered themselves.
func (r *ArtifactDefinitionsRegistry) GetUndefinedArtifacts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	undefined := make(map[string]bool)
	for _, definition := range r.definitions {
		for _, name := range definition.ArtifactReferences() {
			if _, exists := r.definitions[name]; !exists {
				undefined[name] = true
			}
		}
	}

	result := make([]string, 0, len(undefined))
	for name := range undefined {
		result = append(result, name)
	}
	slices.Sort(result)
	return result
}

// Registrar returns the source type registrar of the registry
func (r *ArtifactDefinitionsRegistry) Registrar() *sources.Registrar {
	return r.registrar
}

// RegisterSourceType registers a source type, see sources.Registrar.RegisterSourceType
func (r *ArtifactDefinitionsRegistry) RegisterSourceType(t sources.Type) error {
	return r.registrar.RegisterSourceType(t)
}

// RegisterSourceTypes registers source types atomically, see sources.Registrar.RegisterSourceTypes
func (r *ArtifactDefinitionsRegistry) RegisterSourceTypes(types []sources.Type) error {
	return r.registrar.RegisterSourceTypes(types)
}

// DeregisterSourceType removes a source type, see sources.Registrar.DeregisterSourceType
func (r *ArtifactDefinitionsRegistry) DeregisterSourceType(t sources.Type) error {
	return r.registrar.DeregisterSourceType(t)
}

// SourceTypeIndicators returns the registered source type indicators, sorted
func (r *ArtifactDefinitionsRegistry) SourceTypeIndicators() []string {
	return r.registrar.Indicators()
}

// CreateSourceType constructs a source type, see sources.Registrar.CreateSourceType
func (r *ArtifactDefinitionsRegistry) CreateSourceType(
	indicator string,
	attributes map[string]any,
) (artifacts.SourceType, error) {
	return r.registrar.CreateSourceType(indicator, attributes)
}
