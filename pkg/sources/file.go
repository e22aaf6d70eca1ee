package sources

import (
	"slices"

	"github.com/forensicartifacts/artifacts/pkg/artifacts"
)

const defaultSeparator = "/"

// PathAttributes are the attributes shared by the file system source types
type PathAttributes struct {
	// Paths are the path expressions, they may contain glob and %% variables
	Paths []string `mapstructure:"paths"`

	// Separator is the path segment separator, "/" when not set
	Separator string `mapstructure:"separator"`
}

func (a *PathAttributes) validate() error {
	if len(a.Paths) == 0 {
		return artifacts.NewFormatError("missing paths value")
	}
	for i, path := range a.Paths {
		if path == "" {
			return artifacts.NewFormatError("paths[%d] cannot be empty", i)
		}
	}

	switch a.Separator {
	case "":
		a.Separator = defaultSeparator
	case "/", `\`:
	default:
		return artifacts.NewFormatError("unsupported separator: %q", a.Separator)
	}
	return nil
}

func (a *PathAttributes) asDict() map[string]any {
	result := map[string]any{"paths": slices.Clone(a.Paths)}
	if a.Separator != "" && a.Separator != defaultSeparator {
		result["separator"] = a.Separator
	}
	return result
}

// FileSourceType describes files
type FileSourceType struct {
	PathAttributes `mapstructure:",squash"`
}

// NewFileSourceType creates a FILE source type from its attributes
func NewFileSourceType(attributes map[string]any) (artifacts.SourceType, error) {
	return construct[FileSourceType](attributes)
}

// TypeIndicator implements artifacts.SourceType
func (*FileSourceType) TypeIndicator() string { return TypeIndicatorFile }

// AsDict implements artifacts.SourceType
func (s *FileSourceType) AsDict() map[string]any { return s.asDict() }

// DirectorySourceType describes directories
type DirectorySourceType struct {
	PathAttributes `mapstructure:",squash"`
}

// NewDirectorySourceType creates a DIRECTORY source type from its attributes
func NewDirectorySourceType(attributes map[string]any) (artifacts.SourceType, error) {
	return construct[DirectorySourceType](attributes)
}

// TypeIndicator implements artifacts.SourceType
func (*DirectorySourceType) TypeIndicator() string { return TypeIndicatorDirectory }

// AsDict implements artifacts.SourceType
func (s *DirectorySourceType) AsDict() map[string]any { return s.asDict() }

// PathSourceType describes paths that may be either files or directories
type PathSourceType struct {
	PathAttributes `mapstructure:",squash"`
}

// NewPathSourceType creates a PATH source type from its attributes
func NewPathSourceType(attributes map[string]any) (artifacts.SourceType, error) {
	return construct[PathSourceType](attributes)
}

// TypeIndicator implements artifacts.SourceType
func (*PathSourceType) TypeIndicator() string { return TypeIndicatorPath }

// AsDict implements artifacts.SourceType
func (s *PathSourceType) AsDict() map[string]any { return s.asDict() }
