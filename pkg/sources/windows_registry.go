package sources

import (
	"slices"
	"strings"

	"github.com/forensicartifacts/artifacts/pkg/artifacts"
)

// Windows Registry key prefixes accepted in key paths
var registryKeyRoots = []string{
	"HKEY_LOCAL_MACHINE",
	"HKEY_USERS",
	"HKEY_CLASSES_ROOT",
	"%%current_control_set%%",
}

// validateRegistryKey checks that key starts with a supported root
func validateRegistryKey(key string) error {
	for _, root := range registryKeyRoots {
		if strings.HasPrefix(key, root) {
			return nil
		}
	}

	if strings.HasPrefix(key, `HKEY_CURRENT_USER\`) {
		return artifacts.NewFormatError("%s is not supported instead use: %s",
			`HKEY_CURRENT_USER\`, `HKEY_USERS\%%users.sid%%\`)
	}
	return artifacts.NewFormatError("unsupported Registry key: %s, must start with a valid prefix", key)
}

// RegistryKeySourceType describes Windows Registry keys
type RegistryKeySourceType struct {
	Keys []string `mapstructure:"keys"`
}

// NewRegistryKeySourceType creates a REGISTRY_KEY source type from its attributes
func NewRegistryKeySourceType(attributes map[string]any) (artifacts.SourceType, error) {
	return construct[RegistryKeySourceType](attributes)
}

func (s *RegistryKeySourceType) validate() error {
	if len(s.Keys) == 0 {
		return artifacts.NewFormatError("missing keys value")
	}
	for _, key := range s.Keys {
		if err := validateRegistryKey(key); err != nil {
			return err
		}
	}
	return nil
}

// TypeIndicator implements artifacts.SourceType
func (*RegistryKeySourceType) TypeIndicator() string { return TypeIndicatorRegistryKey }

// AsDict implements artifacts.SourceType
func (s *RegistryKeySourceType) AsDict() map[string]any {
	return map[string]any{"keys": slices.Clone(s.Keys)}
}

// KeyValuePair names a Windows Registry value within a key
type KeyValuePair struct {
	Key   string `mapstructure:"key"`
	Value string `mapstructure:"value"`
}

// RegistryValueSourceType describes Windows Registry values
type RegistryValueSourceType struct {
	KeyValuePairs []KeyValuePair `mapstructure:"key_value_pairs"`
}

// NewRegistryValueSourceType creates a REGISTRY_VALUE source type from its attributes
func NewRegistryValueSourceType(attributes map[string]any) (artifacts.SourceType, error) {
	return construct[RegistryValueSourceType](attributes)
}

func (s *RegistryValueSourceType) validate() error {
	if len(s.KeyValuePairs) == 0 {
		return artifacts.NewFormatError("missing key value pairs value")
	}
	for i, pair := range s.KeyValuePairs {
		if pair.Key == "" || pair.Value == "" {
			return artifacts.NewFormatError("key_value_pairs[%d]: missing key or value", i)
		}
		if err := validateRegistryKey(pair.Key); err != nil {
			return err
		}
	}
	return nil
}

// TypeIndicator implements artifacts.SourceType
func (*RegistryValueSourceType) TypeIndicator() string { return TypeIndicatorRegistryValue }

// AsDict implements artifacts.SourceType
func (s *RegistryValueSourceType) AsDict() map[string]any {
	pairs := make([]map[string]any, 0, len(s.KeyValuePairs))
	for _, pair := range s.KeyValuePairs {
		pairs = append(pairs, map[string]any{"key": pair.Key, "value": pair.Value})
	}
	return map[string]any{"key_value_pairs": pairs}
}
