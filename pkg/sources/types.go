package sources

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/forensicartifacts/artifacts/pkg/artifacts"
)

// Type indicators of the built-in source types
const (
	TypeIndicatorArtifactGroup = "ARTIFACT_GROUP"
	TypeIndicatorCommand       = "COMMAND"
	TypeIndicatorDirectory     = "DIRECTORY"
	TypeIndicatorFile          = "FILE"
	TypeIndicatorPath          = "PATH"
	TypeIndicatorRegistryKey   = "REGISTRY_KEY"
	TypeIndicatorRegistryValue = "REGISTRY_VALUE"
	TypeIndicatorWMI           = "WMI"
)

// Constructor builds a source type from its attribute mapping.
// It returns an artifacts.FormatError when the attributes are invalid.
type Constructor func(attributes map[string]any) (artifacts.SourceType, error)

// Type pairs a type indicator with the constructor of its source type
type Type struct {
	// Indicator is the unique key the source type is registered under
	Indicator string

	// New constructs the source type
	New Constructor
}

// Built-in source types
var (
	ArtifactGroupType = Type{Indicator: TypeIndicatorArtifactGroup, New: NewArtifactGroupSourceType}
	CommandType       = Type{Indicator: TypeIndicatorCommand, New: NewCommandSourceType}
	DirectoryType     = Type{Indicator: TypeIndicatorDirectory, New: NewDirectorySourceType}
	FileType          = Type{Indicator: TypeIndicatorFile, New: NewFileSourceType}
	PathType          = Type{Indicator: TypeIndicatorPath, New: NewPathSourceType}
	RegistryKeyType   = Type{Indicator: TypeIndicatorRegistryKey, New: NewRegistryKeySourceType}
	RegistryValueType = Type{Indicator: TypeIndicatorRegistryValue, New: NewRegistryValueSourceType}
	WMIType           = Type{Indicator: TypeIndicatorWMI, New: NewWMISourceType}
)

// BuiltinTypes returns the source types every default registrar is seeded with
func BuiltinTypes() []Type {
	return []Type{
		ArtifactGroupType,
		CommandType,
		DirectoryType,
		FileType,
		PathType,
		RegistryKeyType,
		RegistryValueType,
		WMIType,
	}
}

// validator is implemented by source types that check their decoded attributes
type validator interface {
	validate() error
}

// construct decodes attributes into a new T and validates it
func construct[T any, P interface {
	*T
	artifacts.SourceType
	validator
}](attributes map[string]any) (artifacts.SourceType, error) {
	var source P = new(T)
	if err := DecodeAttributes(attributes, source); err != nil {
		return nil, err
	}
	if err := source.validate(); err != nil {
		return nil, err
	}
	return source, nil
}

// DecodeAttributes decodes an attribute mapping into out, a pointer to a
// struct with mapstructure tags. Keys without a matching field and values of
// the wrong shape are reported as an artifacts.FormatError. Keys are matched
// case-sensitively, so PATHS does not stand in for paths.
func DecodeAttributes(attributes map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		MatchName:   func(mapKey, fieldName string) bool { return mapKey == fieldName },
		Result:      out,
	})
	if err != nil {
		return fmt.Errorf("failed to create attribute decoder: %w", err)
	}

	if err := decoder.Decode(attributes); err != nil {
		return artifacts.NewFormatError("invalid attributes: %w", err)
	}
	return nil
}
