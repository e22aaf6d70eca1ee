// Package sources provides the source type variants of artifact definitions
// and the registrar that constructs them from attribute mappings.
//
// The package defines a Registrar, a table mapping type indicators to
// constructors, which is the single construction path for source types read
// from definition documents. Every construction failure, whether an unknown
// type indicator, a missing required attribute or an attribute of the wrong
// shape, is reported as an artifacts.FormatError.
//
// Architecture:
//   - Type: a type indicator paired with its Constructor
//   - Registrar: indicator to constructor table with register, deregister and create operations
//   - Default: the process-wide registrar shared by every registry that does not bring its own
//
// Built-in source types:
//   - ARTIFACT_GROUP: a group of other artifact definitions, by name
//   - COMMAND: a command and its arguments
//   - DIRECTORY, FILE, PATH: file system paths
//   - REGISTRY_KEY: Windows Registry keys
//   - REGISTRY_VALUE: Windows Registry key and value name pairs
//   - WMI: a WMI query with an optional base object
//
// The default registrar is shared intentionally so that all catalogs in a
// process agree on the recognized source types. It is mutated only through
// explicit register and deregister calls, typically once at startup. Tests
// that change it restore the built-in set with ResetDefault.
package sources
