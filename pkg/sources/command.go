package sources

import (
	"slices"
	"strings"

	"github.com/forensicartifacts/artifacts/pkg/artifacts"
)

// CommandSourceType describes the output of a command
type CommandSourceType struct {
	Cmd  string   `mapstructure:"cmd"`
	Args []string `mapstructure:"args"`
}

// NewCommandSourceType creates a COMMAND source type from its attributes
func NewCommandSourceType(attributes map[string]any) (artifacts.SourceType, error) {
	return construct[CommandSourceType](attributes)
}

func (s *CommandSourceType) validate() error {
	if s.Cmd == "" {
		return artifacts.NewFormatError("missing cmd value")
	}
	if s.Args == nil {
		s.Args = []string{}
	}
	return nil
}

// TypeIndicator implements artifacts.SourceType
func (*CommandSourceType) TypeIndicator() string { return TypeIndicatorCommand }

// AsDict implements artifacts.SourceType
func (s *CommandSourceType) AsDict() map[string]any {
	return map[string]any{
		"cmd":  s.Cmd,
		"args": slices.Clone(s.Args),
	}
}

// WMISourceType describes the result of a WMI query
type WMISourceType struct {
	Query string `mapstructure:"query"`

	// BaseObject is the WMI namespace to query, e.g. \\.\root\cimv2
	BaseObject string `mapstructure:"base_object"`
}

// NewWMISourceType creates a WMI source type from its attributes
func NewWMISourceType(attributes map[string]any) (artifacts.SourceType, error) {
	return construct[WMISourceType](attributes)
}

func (s *WMISourceType) validate() error {
	if s.Query == "" {
		return artifacts.NewFormatError("missing query value")
	}
	if s.BaseObject != "" && !strings.HasPrefix(s.BaseObject, `\\`) {
		return artifacts.NewFormatError("unsupported WMI base object: %s", s.BaseObject)
	}
	return nil
}

// TypeIndicator implements artifacts.SourceType
func (*WMISourceType) TypeIndicator() string { return TypeIndicatorWMI }

// AsDict implements artifacts.SourceType
func (s *WMISourceType) AsDict() map[string]any {
	result := map[string]any{"query": s.Query}
	if s.BaseObject != "" {
		result["base_object"] = s.BaseObject
	}
	return result
}

// ArtifactGroupSourceType groups other artifact definitions by name
type ArtifactGroupSourceType struct {
	Names []string `mapstructure:"names"`
}

// NewArtifactGroupSourceType creates an ARTIFACT_GROUP source type from its attributes
func NewArtifactGroupSourceType(attributes map[string]any) (artifacts.SourceType, error) {
	return construct[ArtifactGroupSourceType](attributes)
}

func (s *ArtifactGroupSourceType) validate() error {
	if len(s.Names) == 0 {
		return artifacts.NewFormatError("missing names value")
	}
	return nil
}

// TypeIndicator implements artifacts.SourceType
func (*ArtifactGroupSourceType) TypeIndicator() string { return TypeIndicatorArtifactGroup }

// AsDict implements artifacts.SourceType
func (s *ArtifactGroupSourceType) AsDict() map[string]any {
	return map[string]any{"names": slices.Clone(s.Names)}
}

// ArtifactReferences implements artifacts.ArtifactReferencer
func (s *ArtifactGroupSourceType) ArtifactReferences() []string {
	return slices.Clone(s.Names)
}
