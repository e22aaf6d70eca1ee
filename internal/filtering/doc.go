// Package filtering selects artifact definitions by name and supported
// operating system.
//
// # Name Filtering
//
// Name filtering uses github.com/gobwas/glob patterns, supporting wildcards
// like '*', '?', character classes '[...]' and alternatives '{a,b}'. Examples:
//
//   - "Windows*" matches "WindowsRunKeys", "WindowsProductName"
//   - "*EventLog*" matches "SecurityEventLogEvtxFile"
//   - "{Linux,MacOS}*" matches "LinuxLastLogins", "MacOSUsers"
//
// # Operating System Filtering
//
// Operating system filtering matches the supported_os labels of a definition
// exactly. A definition without supported_os applies to every operating
// system and is never filtered out by this stage.
//
// # Filtering Logic
//
// Both filters follow the same precedence rules:
//
//  1. If exclude values are specified and match -> exclude (precedence)
//  2. If include values are specified and match -> include
//  3. If include values are specified but no match -> exclude
//  4. If only exclude values are specified and no match -> include
//  5. If no filters are specified -> include
//
// A definition must pass both filters to be kept.
//
// # Usage Example
//
//	service := NewDefaultFilterService()
//	filter := &config.FilterConfig{
//		Names: &config.NameFilterConfig{
//			Include: []string{"Windows*"},
//			Exclude: []string{"*Evtx*"},
//		},
//		SupportedOS: &config.OSFilterConfig{
//			Include: []string{"Windows"},
//		},
//	}
//
//	definitions, err := service.ApplyFilters(ctx, reg.GetDefinitions(), filter)
package filtering
