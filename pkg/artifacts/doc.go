// Package artifacts defines the data model shared by the artifact definitions
// registry, its source type factory and the definitions reader.
//
// An ArtifactDefinition is a named, documented description of where a class of
// forensic artifact can be found. Each definition carries one or more sources,
// values implementing SourceType, which describe a single collection mechanism
// (file paths, Windows Registry keys, WMI queries and so on) identified by a
// type indicator such as "FILE" or "REGISTRY_KEY".
//
// Errors:
//
//   - FormatError (matches ErrFormat): the definition data is malformed
//   - ErrDuplicateKey: a name or type indicator is already registered
//   - ErrNotFound: a name or type indicator is not registered
//
// Format errors describe user data; the key errors describe caller mistakes
// against the catalog and are kept distinct so callers can tell them apart with
// errors.Is.
package artifacts
