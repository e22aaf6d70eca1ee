package validators

import (
	"fmt"
	"slices"

	"github.com/forensicartifacts/artifacts/pkg/artifacts"
)

// Rule names reported in issues
const (
	RuleName          = "name"
	RuleDescription   = "description"
	RuleURL           = "url"
	RuleAlias         = "alias"
	RuleSupportedOS   = "supported_os"
	RuleSelfReference = "self_reference"
	RuleUndefined     = "undefined_reference"
)

// Issue is a single style problem found in a definition
type Issue struct {
	Artifact string
	Rule     string
	Message  string
}

func (i Issue) String() string {
	if i.Artifact == "" {
		return fmt.Sprintf("[%s] %s", i.Rule, i.Message)
	}
	return fmt.Sprintf("%s: [%s] %s", i.Artifact, i.Rule, i.Message)
}

// Catalog is the part of a definitions registry the linter reads
type Catalog interface {
	GetDefinitions() []*artifacts.ArtifactDefinition
	GetUndefinedArtifacts() []string
}

// LintDefinition returns the style issues of a single definition
func LintDefinition(definition *artifacts.ArtifactDefinition) []Issue {
	if definition == nil {
		return nil
	}

	var issues []Issue
	report := func(rule, format string, args ...any) {
		issues = append(issues, Issue{
			Artifact: definition.Name,
			Rule:     rule,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	if err := ValidateDefinitionName(definition.Name); err != nil {
		report(RuleName, "%v", err)
	}
	if definition.Description == "" {
		report(RuleDescription, "definition has no doc")
	}

	for _, raw := range definition.URLs {
		if err := ValidateReferenceURL(raw); err != nil {
			report(RuleURL, "%v", err)
		}
	}

	seenAliases := make(map[string]struct{}, len(definition.Aliases))
	for _, alias := range definition.Aliases {
		if alias == definition.Name {
			report(RuleAlias, "alias '%s' repeats the definition name", alias)
		}
		if _, ok := seenAliases[alias]; ok {
			report(RuleAlias, "alias '%s' is listed more than once", alias)
		}
		seenAliases[alias] = struct{}{}
	}

	seenOS := make(map[string]struct{}, len(definition.SupportedOS))
	for _, label := range definition.SupportedOS {
		if _, ok := seenOS[label]; ok {
			report(RuleSupportedOS, "operating system '%s' is listed more than once", label)
		}
		seenOS[label] = struct{}{}
	}

	if slices.Contains(definition.ArtifactReferences(), definition.Name) {
		report(RuleSelfReference, "artifact group references its own definition")
	}

	return issues
}

// Lint returns the style issues of every definition in the catalog followed
// by one issue per referenced artifact that is not defined.
func Lint(catalog Catalog) []Issue {
	var issues []Issue
	for _, definition := range catalog.GetDefinitions() {
		issues = append(issues, LintDefinition(definition)...)
	}
	for _, name := range catalog.GetUndefinedArtifacts() {
		issues = append(issues, Issue{
			Rule:    RuleUndefined,
			Message: fmt.Sprintf("artifact '%s' is referenced but not defined", name),
		})
	}
	return issues
}
