package artifacts

import "slices"

// Supported operating system labels
const (
	OSDarwin  = "Darwin"
	OSESXi    = "ESXi"
	OSLinux   = "Linux"
	OSWindows = "Windows"
)

// SupportedOS lists the operating system labels a definition may declare
var SupportedOS = []string{OSDarwin, OSESXi, OSLinux, OSWindows}

// IsSupportedOS reports whether label is a known operating system label
func IsSupportedOS(label string) bool {
	return slices.Contains(SupportedOS, label)
}

// SourceType describes one mechanism by which an artifact can be found.
// Implementations validate their attributes at construction time.
type SourceType interface {
	// TypeIndicator returns the indicator the source type is registered under
	TypeIndicator() string

	// AsDict returns the canonical attribute mapping of the source
	AsDict() map[string]any
}

// ArtifactReferencer is implemented by source types that refer to other
// artifact definitions by name.
type ArtifactReferencer interface {
	ArtifactReferences() []string
}

// ArtifactDefinition is a named description of a forensic artifact
type ArtifactDefinition struct {
	// Name uniquely identifies the definition within a registry
	Name string

	// Aliases are alternate names; they are not required to be unique
	Aliases []string

	// Description is free text documentation
	Description string

	// SupportedOS lists the operating systems the definition applies to
	SupportedOS []string

	// Sources are the collection mechanisms, in document order
	Sources []SourceType

	// URLs point to external documentation
	URLs []string
}

// NewArtifactDefinition creates a definition with the given name and aliases
func NewArtifactDefinition(name string, aliases ...string) *ArtifactDefinition {
	return &ArtifactDefinition{
		Name:    name,
		Aliases: aliases,
	}
}

// AsDict returns the definition as a mapping using document key names.
// Empty optional fields are omitted.
func (d *ArtifactDefinition) AsDict() map[string]any {
	result := map[string]any{
		"name": d.Name,
	}
	if d.Description != "" {
		result["doc"] = d.Description
	}
	if len(d.Aliases) > 0 {
		result["aliases"] = slices.Clone(d.Aliases)
	}
	if len(d.SupportedOS) > 0 {
		result["supported_os"] = slices.Clone(d.SupportedOS)
	}

	sources := make([]map[string]any, 0, len(d.Sources))
	for _, source := range d.Sources {
		sources = append(sources, map[string]any{
			"type":       source.TypeIndicator(),
			"attributes": source.AsDict(),
		})
	}
	result["sources"] = sources

	if len(d.URLs) > 0 {
		result["urls"] = slices.Clone(d.URLs)
	}
	return result
}

// ArtifactReferences returns the names of artifacts referenced by the
// definition's sources, in source order.
func (d *ArtifactDefinition) ArtifactReferences() []string {
	var names []string
	for _, source := range d.Sources {
		if referencer, ok := source.(ArtifactReferencer); ok {
			names = append(names, referencer.ArtifactReferences()...)
		}
	}
	return names
}
