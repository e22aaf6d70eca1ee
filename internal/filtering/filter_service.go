package filtering

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/forensicartifacts/artifacts/internal/config"
	"github.com/forensicartifacts/artifacts/pkg/artifacts"
)

// FilterService coordinates name and operating system filtering of definitions
type FilterService interface {
	// ApplyFilters returns the definitions that pass the filter, in their original order
	ApplyFilters(
		ctx context.Context,
		definitions []*artifacts.ArtifactDefinition,
		filter *config.FilterConfig,
	) ([]*artifacts.ArtifactDefinition, error)
}

// defaultFilterService implements filtering coordination using name and OS filters
type defaultFilterService struct {
	nameFilter NameFilter
	osFilter   OSFilter
}

// NewDefaultFilterService creates a new defaultFilterService with default filter implementations
func NewDefaultFilterService() FilterService {
	return &defaultFilterService{
		nameFilter: NewDefaultNameFilter(),
		osFilter:   NewDefaultOSFilter(),
	}
}

// NewFilterService creates a new defaultFilterService with custom filter implementations
func NewFilterService(nameFilter NameFilter, osFilter OSFilter) FilterService {
	return &defaultFilterService{
		nameFilter: nameFilter,
		osFilter:   osFilter,
	}
}

// ApplyFilters returns the definitions that pass both filters. A nil filter
// returns definitions unchanged.
func (s *defaultFilterService) ApplyFilters(
	ctx context.Context,
	definitions []*artifacts.ArtifactDefinition,
	filter *config.FilterConfig,
) ([]*artifacts.ArtifactDefinition, error) {
	if filter == nil {
		return definitions, nil
	}

	var nameInclude, nameExclude, osInclude, osExclude []string
	if filter.Names != nil {
		nameInclude = filter.Names.Include
		nameExclude = filter.Names.Exclude
	}
	if filter.SupportedOS != nil {
		osInclude = filter.SupportedOS.Include
		osExclude = filter.SupportedOS.Exclude
	}

	for _, pattern := range slices.Concat(nameInclude, nameExclude) {
		if err := ValidatePattern(pattern); err != nil {
			return nil, err
		}
	}

	filtered := make([]*artifacts.ArtifactDefinition, 0, len(definitions))
	for _, definition := range definitions {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("filtering interrupted: %w", err)
		}
		if definition == nil {
			continue
		}

		included, reason := s.shouldIncludeWithReason(
			definition,
			nameInclude,
			nameExclude,
			osInclude,
			osExclude,
		)
		if included {
			filtered = append(filtered, definition)
		}
		slog.Debug("Filtered artifact definition",
			"name", definition.Name,
			"included", included,
			"reason", reason)
	}

	slog.Debug("Definition filtering completed",
		"included", len(filtered),
		"excluded", len(definitions)-len(filtered))

	return filtered, nil
}

// shouldIncludeWithReason determines if a definition should be included and provides detailed reasoning
func (s *defaultFilterService) shouldIncludeWithReason(
	definition *artifacts.ArtifactDefinition,
	nameInclude, nameExclude, osInclude, osExclude []string) (bool, string) {
	nameIncluded, nameReason := s.nameFilter.ShouldInclude(definition.Name, nameInclude, nameExclude)
	if !nameIncluded {
		return false, fmt.Sprintf("name filter: %s", nameReason)
	}

	osIncluded, osReason := s.osFilter.ShouldInclude(definition.SupportedOS, osInclude, osExclude)
	if !osIncluded {
		return false, fmt.Sprintf("os filter: %s", osReason)
	}

	inclusionReasons := []string{}
	if len(nameInclude) > 0 || len(nameExclude) > 0 {
		inclusionReasons = append(inclusionReasons, fmt.Sprintf("name filter: %s", nameReason))
	}
	if len(osInclude) > 0 || len(osExclude) > 0 {
		inclusionReasons = append(inclusionReasons, fmt.Sprintf("os filter: %s", osReason))
	}

	if len(inclusionReasons) == 0 {
		return true, "no filters specified, default include"
	}

	return true, "passed all filters: " + strings.Join(inclusionReasons, " AND ")
}
