// Package reader reads artifact definitions from YAML documents.
//
// A definitions file is a stream of YAML documents separated by "---", one
// artifact definition per document:
//
//	name: SecurityEventLogEvtxFile
//	doc: Windows Security Event log for Vista or later systems.
//	aliases: [SecurityEventLogEvtx]
//	sources:
//	- type: FILE
//	  attributes: {paths: ['%%environ_systemroot%%\System32\winevt\Logs\Security.evtx']}
//	supported_os: [Windows]
//	urls: ['https://artifacts-kb.readthedocs.io/en/latest/sources/windows/EventLog.html']
//
// Definitions are produced lazily as an iter.Seq2. Each record is validated in
// full before it is yielded; the first malformed record is yielded as an
// artifacts.FormatError and ends the sequence, while definitions yielded
// before it remain valid.
package reader

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/forensicartifacts/artifacts/pkg/artifacts"
	"github.com/forensicartifacts/artifacts/pkg/sources"
)

// SourceTypeFactory constructs source types from their indicator and attributes.
// It is satisfied by sources.Registrar and registry.ArtifactDefinitionsRegistry.
type SourceTypeFactory interface {
	CreateSourceType(indicator string, attributes map[string]any) (artifacts.SourceType, error)
}

// RecordValidator performs an additional check on a raw definition record
// before it is decoded
type RecordValidator func(record map[string]any) error

// definitionRecord is the document form of an artifact definition
type definitionRecord struct {
	Name        string         `mapstructure:"name"`
	Doc         string         `mapstructure:"doc"`
	Aliases     []string       `mapstructure:"aliases"`
	SupportedOS []string       `mapstructure:"supported_os"`
	Sources     []sourceRecord `mapstructure:"sources"`
	URLs        []string       `mapstructure:"urls"`
}

// sourceRecord is the document form of a source
type sourceRecord struct {
	Type       string         `mapstructure:"type"`
	Attributes map[string]any `mapstructure:"attributes"`
}

// YAMLReader reads artifact definitions from YAML documents
type YAMLReader struct {
	factory   SourceTypeFactory
	validator RecordValidator
	logger    *slog.Logger
}

// Option is a functional option for configuring the reader
type Option func(*YAMLReader)

// WithSourceTypeFactory sets the factory used to construct sources.
// The process-wide sources.Default registrar is used when not set.
func WithSourceTypeFactory(factory SourceTypeFactory) Option {
	return func(r *YAMLReader) {
		r.factory = factory
	}
}

// WithRecordValidator sets a validator run on every raw record
func WithRecordValidator(validator RecordValidator) Option {
	return func(r *YAMLReader) {
		r.validator = validator
	}
}

// WithLogger sets the logger of the reader
func WithLogger(logger *slog.Logger) Option {
	return func(r *YAMLReader) {
		r.logger = logger
	}
}

// New creates a YAML definitions reader
func New(opts ...Option) *YAMLReader {
	r := &YAMLReader{}
	for _, opt := range opts {
		opt(r)
	}

	if r.factory == nil {
		r.factory = sources.Default()
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// ReadFileObject returns the definitions of a YAML document stream.
// Documents are decoded one at a time as the sequence is consumed. The
// sequence consumes in and cannot be restarted.
func (r *YAMLReader) ReadFileObject(in io.Reader) iter.Seq2[*artifacts.ArtifactDefinition, error] {
	decoder := yaml.NewDecoder(in)

	return func(yield func(*artifacts.ArtifactDefinition, error) bool) {
		for index := 0; ; index++ {
			var values any
			err := decoder.Decode(&values)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, artifacts.NewFormatError("document %d: invalid YAML: %w", index, err))
				return
			}

			definition, err := r.readDefinition(index, values)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(definition, nil) {
				return
			}
		}
	}
}

// ReadFile returns the definitions of the YAML file at path. The file is
// opened when iteration starts and closed when it ends.
func (r *YAMLReader) ReadFile(path string) iter.Seq2[*artifacts.ArtifactDefinition, error] {
	return func(yield func(*artifacts.ArtifactDefinition, error) bool) {
		//nolint:gosec // File path comes from the caller, this is expected behavior
		file, err := os.Open(path)
		if err != nil {
			yield(nil, fmt.Errorf("failed to open definitions file: %w", err))
			return
		}
		defer func() {
			if err := file.Close(); err != nil {
				r.logger.Warn("Failed to close definitions file", "path", path, "error", err)
			}
		}()

		r.logger.Debug("Reading artifact definitions", "path", path)

		for definition, err := range r.ReadFileObject(file) {
			if err != nil {
				yield(nil, fmt.Errorf("%s: %w", path, err))
				return
			}
			if !yield(definition, nil) {
				return
			}
		}
	}
}

// ReadDirectory returns the definitions of every .yaml and .yml file in path,
// in lexical file name order. Subdirectories are not traversed.
func (r *YAMLReader) ReadDirectory(path string) iter.Seq2[*artifacts.ArtifactDefinition, error] {
	return func(yield func(*artifacts.ArtifactDefinition, error) bool) {
		entries, err := os.ReadDir(path)
		if err != nil {
			yield(nil, fmt.Errorf("failed to read definitions directory: %w", err))
			return
		}

		for _, entry := range entries {
			if entry.IsDir() || !IsDefinitionsFile(entry.Name()) {
				continue
			}
			for definition, err := range r.ReadFile(filepath.Join(path, entry.Name())) {
				if !yield(definition, err) || err != nil {
					return
				}
			}
		}
	}
}

// IsDefinitionsFile reports whether name has a YAML definitions file extension
func IsDefinitionsFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// readDefinition validates a decoded document and builds its definition
func (r *YAMLReader) readDefinition(index int, values any) (*artifacts.ArtifactDefinition, error) {
	if values == nil {
		return nil, artifacts.NewFormatError("document %d: missing artifact definition values", index)
	}
	record, ok := values.(map[string]any)
	if !ok {
		return nil, artifacts.NewFormatError("document %d: artifact definition must be a mapping", index)
	}

	// The name is taken before decoding so errors can identify the record
	name, _ := record["name"].(string)

	if r.validator != nil {
		if err := r.validator(record); err != nil {
			return nil, artifacts.AsFormatError(name, err)
		}
	}

	var rec definitionRecord
	if err := sources.DecodeAttributes(record, &rec); err != nil {
		return nil, artifacts.AsFormatError(name, fmt.Errorf("document %d: %w", index, unwrapFormat(err)))
	}

	if rec.Name == "" {
		return nil, artifacts.NewFormatError("document %d: missing name", index)
	}

	for _, label := range rec.SupportedOS {
		if !artifacts.IsSupportedOS(label) {
			return nil, &artifacts.FormatError{
				Artifact: rec.Name,
				Err:      fmt.Errorf("unsupported operating system: %s", label),
			}
		}
	}

	if len(rec.Sources) == 0 {
		return nil, &artifacts.FormatError{Artifact: rec.Name, Err: errors.New("missing sources")}
	}

	definition := &artifacts.ArtifactDefinition{
		Name:        rec.Name,
		Aliases:     rec.Aliases,
		Description: rec.Doc,
		SupportedOS: rec.SupportedOS,
		URLs:        rec.URLs,
		Sources:     make([]artifacts.SourceType, 0, len(rec.Sources)),
	}

	for i, src := range rec.Sources {
		if src.Type == "" {
			return nil, &artifacts.FormatError{
				Artifact: rec.Name,
				Err:      fmt.Errorf("source %d: missing type", i),
			}
		}

		source, err := r.factory.CreateSourceType(src.Type, src.Attributes)
		if err != nil {
			return nil, &artifacts.FormatError{
				Artifact: rec.Name,
				Err:      fmt.Errorf("source %d: %w", i, unwrapFormat(err)),
			}
		}
		definition.Sources = append(definition.Sources, source)
	}

	return definition, nil
}

// unwrapFormat returns the cause of a FormatError, or err itself
func unwrapFormat(err error) error {
	var fe *artifacts.FormatError
	if errors.As(err, &fe) {
		return fe.Err
	}
	return err
}
