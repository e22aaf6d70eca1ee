// Package validators provides style checks for artifact definitions that go
// beyond what the reader requires for a definition to be well formed.
package validators

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	maxDefinitionNameLength = 128
)

var (
	// Names are CamelCase: an upper case letter followed by letters and digits
	definitionNamePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
)

// ValidateDefinitionName validates an artifact definition name.
//
// Format requirements:
// - Must start with an upper case ASCII letter
// - May only contain ASCII letters and digits
// - At most 128 characters
//
// Examples of valid names:
//   - WindowsRunKeys
//   - LinuxAuditLogs
//   - MacOSQuarantineEvents
//
// Examples of invalid names:
//   - windowsRunKeys (starts lower case)
//   - Windows_Run_Keys (underscores)
//   - Windows Run Keys (spaces)
func ValidateDefinitionName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("definition name cannot be empty")
	}
	if name != strings.TrimSpace(name) {
		return fmt.Errorf("definition name '%s' has leading or trailing whitespace", name)
	}
	if len(name) > maxDefinitionNameLength {
		return fmt.Errorf("definition name exceeds maximum length of %d characters", maxDefinitionNameLength)
	}
	if !definitionNamePattern.MatchString(name) {
		return fmt.Errorf(
			"definition name '%s' is invalid. Name must start with an upper case letter "+
				"and may only contain letters and digits",
			name,
		)
	}
	return nil
}

// IsValidDefinitionName checks if a definition name is valid.
// This is a convenience wrapper around ValidateDefinitionName for boolean checks.
func IsValidDefinitionName(name string) bool {
	return ValidateDefinitionName(name) == nil
}

// ValidateReferenceURL validates a URL listed in a definition's urls. Only
// absolute http and https URLs are accepted.
func ValidateReferenceURL(raw string) error {
	if strings.ContainsAny(raw, " \t\n") {
		return fmt.Errorf("url '%s' contains whitespace", raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("url '%s' is invalid: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url '%s' must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("url '%s' has no host", raw)
	}
	return nil
}
