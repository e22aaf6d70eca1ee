package filtering

import (
	"fmt"
	"slices"
)

// OSFilter handles filtering on the supported operating systems of a definition
type OSFilter interface {
	// ShouldInclude determines if a definition supporting supportedOS should be included
	// Returns (shouldInclude bool, reason string)
	ShouldInclude(supportedOS []string, include, exclude []string) (bool, string)
}

// DefaultOSFilter implements operating system filtering using exact label matching
type DefaultOSFilter struct{}

// NewDefaultOSFilter creates a new DefaultOSFilter
func NewDefaultOSFilter() *DefaultOSFilter {
	return &DefaultOSFilter{}
}

// ShouldInclude determines if a definition supporting supportedOS should be included.
// A definition without supported_os applies to every operating system and is always included.
func (*DefaultOSFilter) ShouldInclude(supportedOS []string, include, exclude []string) (bool, string) {
	if len(include) == 0 && len(exclude) == 0 {
		return true, "no operating system filters specified"
	}
	if len(supportedOS) == 0 {
		return true, "applies to every operating system"
	}

	for _, label := range supportedOS {
		if slices.Contains(exclude, label) {
			return false, fmt.Sprintf("excluded by operating system '%s'", label)
		}
	}

	if len(include) > 0 {
		for _, label := range supportedOS {
			if slices.Contains(include, label) {
				return true, fmt.Sprintf("included by operating system '%s'", label)
			}
		}
		return false, fmt.Sprintf("no supported operating system in include list %v (supported: %v)", include, supportedOS)
	}

	return true, fmt.Sprintf("no supported operating system in exclude list %v (supported: %v)", exclude, supportedOS)
}
