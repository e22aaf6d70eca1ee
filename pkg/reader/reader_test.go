package reader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forensicartifacts/artifacts/pkg/artifacts"
	"github.com/forensicartifacts/artifacts/pkg/sources"
)

// collect consumes a sequence, returning the definitions yielded before the first error
func collect(t *testing.T, r *YAMLReader, input string) ([]*artifacts.ArtifactDefinition, error) {
	t.Helper()

	var definitions []*artifacts.ArtifactDefinition
	for definition, err := range r.ReadFileObject(strings.NewReader(input)) {
		if err != nil {
			return definitions, err
		}
		definitions = append(definitions, definition)
	}
	return definitions, nil
}

func newTestReader() *YAMLReader {
	return New(WithSourceTypeFactory(sources.NewBuiltinRegistrar()))
}

func TestYAMLReader_ReadFile(t *testing.T) {
	t.Parallel()

	r := newTestReader()

	var definitions []*artifacts.ArtifactDefinition
	for definition, err := range r.ReadFile(filepath.Join("testdata", "definitions.yaml")) {
		require.NoError(t, err)
		definitions = append(definitions, definition)
	}

	require.Len(t, definitions, 7)

	first := definitions[0]
	assert.Equal(t, "SecurityEventLogEvtxFile", first.Name)
	assert.Equal(t, []string{"SecurityEventLogEvtx"}, first.Aliases)
	assert.Equal(t, "Windows Security Event log for Vista or later systems.", first.Description)
	assert.Equal(t, []string{artifacts.OSWindows}, first.SupportedOS)
	assert.Equal(t, []string{"https://artifacts-kb.readthedocs.io/en/latest/sources/windows/EventLog.html"}, first.URLs)
	require.Len(t, first.Sources, 1)
	require.IsType(t, &sources.FileSourceType{}, first.Sources[0])
	file := first.Sources[0].(*sources.FileSourceType)
	assert.Equal(t, []string{`%%environ_systemroot%%\System32\winevt\Logs\Security.evtx`}, file.Paths)
	assert.Equal(t, `\`, file.Separator)

	names := make([]string, 0, len(definitions))
	for _, definition := range definitions {
		names = append(names, definition.Name)
	}
	assert.Equal(t, []string{
		"SecurityEventLogEvtxFile",
		"EventLogs",
		"WindowsRunKeys",
		"WindowsProductName",
		"WMIInstalledServices",
		"LinuxLastLogins",
		"LinuxLogFiles",
	}, names)

	assert.True(t, strings.HasPrefix(definitions[2].Description, "Windows Run and RunOnce keys.\n"))
	assert.IsType(t, &sources.RegistryValueSourceType{}, definitions[3].Sources[0])
	assert.IsType(t, &sources.WMISourceType{}, definitions[4].Sources[0])
	assert.IsType(t, &sources.CommandSourceType{}, definitions[5].Sources[0])
	require.Len(t, definitions[6].Sources, 2)
	assert.IsType(t, &sources.DirectorySourceType{}, definitions[6].Sources[0])
	assert.IsType(t, &sources.PathSourceType{}, definitions[6].Sources[1])
}

func TestYAMLReader_ReadFileObject_UnknownAttribute(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile(filepath.Join("testdata", "unknown_attribute.yaml"))
	require.NoError(t, err)

	definitions, err := collect(t, newTestReader(), string(data))
	require.ErrorIs(t, err, artifacts.ErrFormat)
	assert.Empty(t, definitions)

	var fe *artifacts.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "SecurityEventLogEvtx", fe.Artifact)
	assert.Contains(t, err.Error(), "broken")
}

func TestYAMLReader_ReadFile_StopsAtFirstInvalidRecord(t *testing.T) {
	t.Parallel()

	r := newTestReader()

	var (
		definitions []*artifacts.ArtifactDefinition
		errs        []error
	)
	for definition, err := range r.ReadFile(filepath.Join("testdata", "second_invalid.yaml")) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		definitions = append(definitions, definition)
	}

	require.Len(t, definitions, 1)
	assert.Equal(t, "ValidFirst", definitions[0].Name)

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], artifacts.ErrFormat)
	assert.Contains(t, errs[0].Error(), "InvalidSecond")
	assert.Contains(t, errs[0].Error(), "second_invalid.yaml")
}

func TestYAMLReader_ReadFileObject_InvalidRecords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		input            string
		expectedArtifact string
		errorContains    string
	}{
		{
			name:          "malformed YAML",
			input:         "name: [Broken\n",
			errorContains: "invalid YAML",
		},
		{
			name:          "document is not a mapping",
			input:         "- name: List\n",
			errorContains: "must be a mapping",
		},
		{
			name:          "empty document",
			input:         "---\n---\nname: Late\n",
			errorContains: "missing artifact definition values",
		},
		{
			name:          "missing name",
			input:         "doc: No name.\nsources:\n- type: FILE\n  attributes: {paths: [/etc/hosts]}\n",
			errorContains: "missing name",
		},
		{
			name:             "unknown top level key",
			input:            "name: Extra\nlabels: [System]\nsources:\n- type: FILE\n  attributes: {paths: [/etc/hosts]}\n",
			expectedArtifact: "Extra",
			errorContains:    "labels",
		},
		{
			name:             "unknown source key",
			input:            "name: Extra\nsources:\n- type: FILE\n  provides: [x]\n  attributes: {paths: [/etc/hosts]}\n",
			expectedArtifact: "Extra",
			errorContains:    "provides",
		},
		{
			name:          "record key in wrong case",
			input:         "Name: Upper\nsources:\n- type: FILE\n  attributes: {paths: [/etc/hosts]}\n",
			errorContains: "Name",
		},
		{
			name:             "source key in wrong case",
			input:            "name: Upper\nsources:\n- Type: FILE\n  Attributes: {paths: [/etc/hosts]}\n",
			expectedArtifact: "Upper",
			errorContains:    "Type",
		},
		{
			name:             "attribute key in wrong case",
			input:            "name: Upper\nsources:\n- type: FILE\n  attributes: {PATHS: [/etc/passwd]}\n",
			expectedArtifact: "Upper",
			errorContains:    "PATHS",
		},
		{
			name:             "aliases of the wrong shape",
			input:            "name: Shape\naliases: Single\nsources:\n- type: FILE\n  attributes: {paths: [/etc/hosts]}\n",
			expectedArtifact: "Shape",
		},
		{
			name:             "missing sources",
			input:            "name: NoSources\ndoc: Nothing to collect.\n",
			expectedArtifact: "NoSources",
			errorContains:    "missing sources",
		},
		{
			name:             "empty sources",
			input:            "name: NoSources\nsources: []\n",
			expectedArtifact: "NoSources",
			errorContains:    "missing sources",
		},
		{
			name:             "source without type",
			input:            "name: NoType\nsources:\n- attributes: {paths: [/etc/hosts]}\n",
			expectedArtifact: "NoType",
			errorContains:    "missing type",
		},
		{
			name:             "unsupported source type",
			input:            "name: Bogus\nsources:\n- type: BOGUS\n  attributes: {}\n",
			expectedArtifact: "Bogus",
			errorContains:    "unsupported source type",
		},
		{
			name:             "attributes not a mapping",
			input:            "name: Flat\nsources:\n- type: FILE\n  attributes: [/etc/hosts]\n",
			expectedArtifact: "Flat",
		},
		{
			name:             "missing required attribute",
			input:            "name: NoPaths\nsources:\n- type: FILE\n  attributes: {separator: /}\n",
			expectedArtifact: "NoPaths",
			errorContains:    "missing paths value",
		},
		{
			name:             "unsupported operating system",
			input:            "name: Amiga\nsupported_os: [AmigaOS]\nsources:\n- type: FILE\n  attributes: {paths: [/etc/hosts]}\n",
			expectedArtifact: "Amiga",
			errorContains:    "unsupported operating system: AmigaOS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			definitions, err := collect(t, newTestReader(), tt.input)
			assert.Empty(t, definitions)
			require.Error(t, err)
			assert.ErrorIs(t, err, artifacts.ErrFormat)

			var fe *artifacts.FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.expectedArtifact, fe.Artifact)
			if tt.errorContains != "" {
				assert.Contains(t, err.Error(), tt.errorContains)
			}
		})
	}
}

func TestYAMLReader_ReadFileObject_IsLazy(t *testing.T) {
	t.Parallel()

	input := "name: First\nsources:\n- type: FILE\n  attributes: {paths: [/a]}\n" +
		"---\nname: Second\nsources:\n- type: FILE\n  attributes: {paths: [/b]}\n"

	seq := newTestReader().ReadFileObject(strings.NewReader(input))

	var names []string
	for definition, err := range seq {
		require.NoError(t, err)
		names = append(names, definition.Name)
		break
	}
	assert.Equal(t, []string{"First"}, names)

	// The stream is consumed, a second pass continues where the first stopped
	for definition, err := range seq {
		require.NoError(t, err)
		names = append(names, definition.Name)
	}
	assert.Equal(t, []string{"First", "Second"}, names)

	for range seq {
		t.Fatal("exhausted sequence yielded a value")
	}
}

func TestYAMLReader_RecordValidator(t *testing.T) {
	t.Parallel()

	cause := errors.New("rejected by validator")
	r := New(
		WithSourceTypeFactory(sources.NewBuiltinRegistrar()),
		WithRecordValidator(func(record map[string]any) error {
			if record["name"] == "Rejected" {
				return cause
			}
			return nil
		}),
	)

	definitions, err := collect(t, r,
		"name: Accepted\nsources:\n- type: FILE\n  attributes: {paths: [/a]}\n"+
			"---\nname: Rejected\nsources:\n- type: FILE\n  attributes: {paths: [/b]}\n")

	require.Len(t, definitions, 1)
	assert.ErrorIs(t, err, artifacts.ErrFormat)
	assert.ErrorIs(t, err, cause)

	var fe *artifacts.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Rejected", fe.Artifact)
}

func TestYAMLReader_CustomSourceType(t *testing.T) {
	t.Parallel()

	registrar := sources.NewRegistrar()
	require.NoError(t, registrar.RegisterSourceType(sources.Type{
		Indicator: "TEST",
		New: func(attributes map[string]any) (artifacts.SourceType, error) {
			return sources.NewFileSourceType(attributes)
		},
	}))

	definitions, err := collect(t, New(WithSourceTypeFactory(registrar)),
		"name: Custom\nsources:\n- type: TEST\n  attributes: {paths: [/a]}\n")
	require.NoError(t, err)
	require.Len(t, definitions, 1)

	_, err = collect(t, New(WithSourceTypeFactory(registrar)),
		"name: Builtin\nsources:\n- type: FILE\n  attributes: {paths: [/a]}\n")
	assert.ErrorIs(t, err, artifacts.ErrFormat)
}

func TestYAMLReader_ReadFile_Missing(t *testing.T) {
	t.Parallel()

	for definition, err := range newTestReader().ReadFile(filepath.Join("testdata", "missing.yaml")) {
		assert.Nil(t, definition)
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.NotErrorIs(t, err, artifacts.ErrFormat)
	}
}

func TestYAMLReader_ReadDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	writeFile("b.yml", "name: B\nsources:\n- type: FILE\n  attributes: {paths: [/b]}\n")
	writeFile("a.yaml", "name: A\nsources:\n- type: FILE\n  attributes: {paths: [/a]}\n")
	writeFile("README.md", "not a definitions file")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o700))

	var names []string
	for definition, err := range newTestReader().ReadDirectory(dir) {
		require.NoError(t, err)
		names = append(names, definition.Name)
	}
	assert.Equal(t, []string{"A", "B"}, names)
}

func TestIsDefinitionsFile(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDefinitionsFile("windows.yaml"))
	assert.True(t, IsDefinitionsFile("linux.YML"))
	assert.False(t, IsDefinitionsFile("README.md"))
	assert.False(t, IsDefinitionsFile("yaml"))
}
