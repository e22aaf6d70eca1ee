package sources

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/forensicartifacts/artifacts/pkg/artifacts"
)

// Registrar maps type indicators to source type constructors
type Registrar struct {
	mu    sync.RWMutex // Protects types
	types map[string]Type
}

// defaultRegistrar is the process-wide registrar returned by Default
var defaultRegistrar = newBuiltinRegistrar()

// Default returns the process-wide registrar, seeded with the built-in source types
func Default() *Registrar {
	return defaultRegistrar
}

// ResetDefault restores the process-wide registrar to the built-in source types
func ResetDefault() {
	if err := defaultRegistrar.Reset(BuiltinTypes()...); err != nil {
		panic(err)
	}
}

// NewRegistrar creates an empty registrar
func NewRegistrar() *Registrar {
	return &Registrar{
		types: make(map[string]Type),
	}
}

// NewBuiltinRegistrar creates a registrar seeded with the built-in source types,
// independent of the process-wide one
func NewBuiltinRegistrar() *Registrar {
	return newBuiltinRegistrar()
}

func newBuiltinRegistrar() *Registrar {
	r := NewRegistrar()
	if err := r.RegisterSourceTypes(BuiltinTypes()); err != nil {
		panic(fmt.Sprintf("registering built-in source types: %v", err))
	}
	return r
}

// validateType checks the parts of a Type that are programmer errors
func validateType(t Type) error {
	if t.Indicator == "" {
		return fmt.Errorf("source type indicator is required")
	}
	if t.New == nil {
		return fmt.Errorf("source type %s: constructor is required", t.Indicator)
	}
	return nil
}

// RegisterSourceType registers a source type under its indicator.
// It returns artifacts.ErrDuplicateKey if the indicator is already registered,
// leaving the existing entry untouched.
func (r *Registrar) RegisterSourceType(t Type) error {
	return r.RegisterSourceTypes([]Type{t})
}

// RegisterSourceTypes registers a batch of source types atomically: every
// indicator is checked before any is inserted, so on a collision nothing
// from the batch is registered.
func (r *Registrar) RegisterSourceTypes(types []Type) error {
	for _, t := range types {
		if err := validateType(t); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(types))
	for _, t := range types {
		if _, exists := r.types[t.Indicator]; exists || seen[t.Indicator] {
			return fmt.Errorf("source type %s: %w", t.Indicator, artifacts.ErrDuplicateKey)
		}
		seen[t.Indicator] = true
	}

	for _, t := range types {
		r.types[t.Indicator] = t
	}
	return nil
}

// DeregisterSourceType removes the source type registered under the indicator of t.
// It returns artifacts.ErrNotFound if the indicator is not registered.
func (r *Registrar) DeregisterSourceType(t Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[t.Indicator]; !exists {
		return fmt.Errorf("source type %s: %w", t.Indicator, artifacts.ErrNotFound)
	}
	delete(r.types, t.Indicator)
	return nil
}

// CreateSourceType constructs a source type from its indicator and attributes.
// Unknown indicators and invalid attributes are both reported as an
// artifacts.FormatError, since they originate from definition documents.
func (r *Registrar) CreateSourceType(indicator string, attributes map[string]any) (artifacts.SourceType, error) {
	r.mu.RLock()
	t, ok := r.types[indicator]
	r.mu.RUnlock()

	if !ok {
		return nil, artifacts.NewFormatError("unsupported source type: %q", indicator)
	}

	source, err := t.New(attributes)
	if err != nil {
		var fe *artifacts.FormatError
		if errors.As(err, &fe) {
			return nil, &artifacts.FormatError{
				Artifact: fe.Artifact,
				Err:      fmt.Errorf("%s source: %w", indicator, fe.Err),
			}
		}
		return nil, artifacts.NewFormatError("%s source: %w", indicator, err)
	}
	if source == nil {
		return nil, artifacts.NewFormatError("%s source: constructor returned no source", indicator)
	}
	return source, nil
}

// Reset replaces every registered source type with types
func (r *Registrar) Reset(types ...Type) error {
	fresh := NewRegistrar()
	if err := fresh.RegisterSourceTypes(types); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = fresh.types
	return nil
}

// Len returns the number of registered source types
func (r *Registrar) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// IsRegistered reports whether a source type is registered under indicator
func (r *Registrar) IsRegistered(indicator string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[indicator]
	return ok
}

// Indicators returns the registered type indicators, sorted
func (r *Registrar) Indicators() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indicators := make([]string, 0, len(r.types))
	for indicator := range r.types {
		indicators = append(indicators, indicator)
	}
	slices.Sort(indicators)
	return indicators
}
