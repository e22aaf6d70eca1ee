package registry

import (
	"iter"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/forensicartifacts/artifacts/pkg/artifacts"
	"github.com/forensicartifacts/artifacts/pkg/reader"
	"github.com/forensicartifacts/artifacts/pkg/registry/mocks"
	"github.com/forensicartifacts/artifacts/pkg/sources"
)

var testDefinitionsFile = filepath.Join("..", "reader", "testdata", "definitions.yaml")

func newTestRegistry() *ArtifactDefinitionsRegistry {
	return New(WithRegistrar(sources.NewBuiltinRegistrar()))
}

// sequence yields the given definitions followed by err, if any
func sequence(err error, definitions ...*artifacts.ArtifactDefinition) iter.Seq2[*artifacts.ArtifactDefinition, error] {
	return func(yield func(*artifacts.ArtifactDefinition, error) bool) {
		for _, definition := range definitions {
			if !yield(definition, nil) {
				return
			}
		}
		if err != nil {
			yield(nil, err)
		}
	}
}

func fileDefinition(t *testing.T, name string, aliases ...string) *artifacts.ArtifactDefinition {
	t.Helper()

	source, err := sources.NewFileSourceType(map[string]any{"paths": []any{"/" + name}})
	require.NoError(t, err)

	definition := artifacts.NewArtifactDefinition(name, aliases...)
	definition.Sources = []artifacts.SourceType{source}
	return definition
}

func TestArtifactDefinitionsRegistry(t *testing.T) {
	t.Parallel()

	r := newTestRegistry()
	definitionsReader := reader.New(reader.WithSourceTypeFactory(r))

	for definition, err := range definitionsReader.ReadFile(testDefinitionsFile) {
		require.NoError(t, err)
		require.NoError(t, r.RegisterDefinition(definition))
	}

	assert.Len(t, r.GetDefinitions(), 7)

	definition := r.GetDefinitionByName("EventLogs")
	require.NotNil(t, definition)

	// Registering a name twice fails and leaves the catalog unchanged
	require.ErrorIs(t, r.RegisterDefinition(definition), artifacts.ErrDuplicateKey)
	assert.Len(t, r.GetDefinitions(), 7)

	require.NoError(t, r.DeregisterDefinition(definition))
	require.ErrorIs(t, r.DeregisterDefinition(definition), artifacts.ErrNotFound)
	assert.Len(t, r.GetDefinitions(), 6)
	assert.Nil(t, r.GetDefinitionByName("EventLogs"))

	definition = r.GetDefinitionByName("SecurityEventLogEvtxFile")
	require.NotNil(t, definition)
	assert.Equal(t, "SecurityEventLogEvtxFile", definition.Name)
	assert.Equal(t, []string{"SecurityEventLogEvtx"}, definition.Aliases)
	assert.Equal(t, "Windows Security Event log for Vista or later systems.", definition.Description)
}

func TestArtifactDefinitionsRegistry_RegisterDefinition(t *testing.T) {
	t.Parallel()

	r := newTestRegistry()
	first := fileDefinition(t, "First")
	second := fileDefinition(t, "Second")

	require.NoError(t, r.RegisterDefinition(first))
	assert.Len(t, r.GetDefinitions(), 1)
	require.NoError(t, r.RegisterDefinition(second))
	assert.Len(t, r.GetDefinitions(), 2)

	assert.Same(t, first, r.GetDefinitionByName("First"))
	assert.Same(t, second, r.GetDefinitionByName("Second"))
	assert.Nil(t, r.GetDefinitionByName("first"), "names are case-sensitive")

	// A different object with a registered name is rejected
	duplicate := fileDefinition(t, "First", "Alias")
	err := r.RegisterDefinition(duplicate)
	require.ErrorIs(t, err, artifacts.ErrDuplicateKey)
	assert.NotErrorIs(t, err, artifacts.ErrFormat)
	assert.Same(t, first, r.GetDefinitionByName("First"))
	assert.Empty(t, r.GetDefinitionsByAlias("Alias"))
	assert.Equal(t, []*artifacts.ArtifactDefinition{first, second}, r.GetDefinitions())
}

func TestArtifactDefinitionsRegistry_RegisterInvalidDefinition(t *testing.T) {
	t.Parallel()

	r := newTestRegistry()
	require.ErrorIs(t, r.RegisterDefinition(nil), artifacts.ErrFormat)
	require.ErrorIs(t, r.RegisterDefinition(&artifacts.ArtifactDefinition{}), artifacts.ErrFormat)
	require.ErrorIs(t, r.DeregisterDefinition(nil), artifacts.ErrFormat)
	assert.Empty(t, r.GetDefinitions())
}

func TestArtifactDefinitionsRegistry_DeregisterByName(t *testing.T) {
	t.Parallel()

	r := newTestRegistry()
	registered := fileDefinition(t, "Name", "Old")
	require.NoError(t, r.RegisterDefinition(registered))

	// Deregistration matches by name; the alias index follows the registered definition
	require.NoError(t, r.DeregisterDefinition(artifacts.NewArtifactDefinition("Name", "New")))
	assert.Empty(t, r.GetDefinitions())
	assert.Empty(t, r.GetDefinitionsByAlias("Old"))

	require.ErrorIs(t, r.DeregisterDefinition(registered), artifacts.ErrNotFound)
}

func TestArtifactDefinitionsRegistry_GetDefinitionsByAlias(t *testing.T) {
	t.Parallel()

	r := newTestRegistry()
	a := fileDefinition(t, "A", "Shared", "OnlyA")
	b := fileDefinition(t, "B", "Shared")
	require.NoError(t, r.RegisterDefinition(a))
	require.NoError(t, r.RegisterDefinition(b))

	assert.Equal(t, []*artifacts.ArtifactDefinition{a, b}, r.GetDefinitionsByAlias("Shared"))
	assert.Equal(t, []*artifacts.ArtifactDefinition{a}, r.GetDefinitionsByAlias("OnlyA"))
	assert.Empty(t, r.GetDefinitionsByAlias("A"), "names are not aliases")

	require.NoError(t, r.DeregisterDefinition(a))
	assert.Equal(t, []*artifacts.ArtifactDefinition{b}, r.GetDefinitionsByAlias("Shared"))
	assert.Empty(t, r.GetDefinitionsByAlias("OnlyA"))
}

func TestArtifactDefinitionsRegistry_RepeatedAlias(t *testing.T) {
	t.Parallel()

	r := newTestRegistry()
	d := fileDefinition(t, "Twice", "Repeated", "Repeated")
	require.NoError(t, r.RegisterDefinition(d))

	assert.Equal(t, []*artifacts.ArtifactDefinition{d}, r.GetDefinitionsByAlias("Repeated"))

	require.NoError(t, r.DeregisterDefinition(d))
	assert.Empty(t, r.GetDefinitionsByAlias("Repeated"))
}

func TestArtifactDefinitionsRegistry_GetUndefinedArtifacts(t *testing.T) {
	t.Parallel()

	r := newTestRegistry()
	require.NoError(t, r.ReadFromFile(reader.New(reader.WithSourceTypeFactory(r)), testDefinitionsFile))

	assert.Equal(t, []string{"SystemEventLogEvtxFile"}, r.GetUndefinedArtifacts())

	require.NoError(t, r.DeregisterDefinition(r.GetDefinitionByName("SecurityEventLogEvtxFile")))
	assert.Equal(t, []string{"SecurityEventLogEvtxFile", "SystemEventLogEvtxFile"}, r.GetUndefinedArtifacts())

	require.NoError(t, r.DeregisterDefinition(r.GetDefinitionByName("EventLogs")))
	assert.Empty(t, r.GetUndefinedArtifacts())
}

func TestArtifactDefinitionsRegistry_SourceTypes(t *testing.T) {
	t.Parallel()

	registrar := sources.NewBuiltinRegistrar()
	r := New(WithRegistrar(registrar))
	other := New(WithRegistrar(registrar))
	assert.Same(t, registrar, r.Registrar())

	custom := sources.Type{
		Indicator: "CUSTOM",
		New: func(attributes map[string]any) (artifacts.SourceType, error) {
			return sources.NewCommandSourceType(attributes)
		},
	}

	require.NoError(t, r.RegisterSourceType(custom))
	require.ErrorIs(t, r.RegisterSourceType(custom), artifacts.ErrDuplicateKey)
	assert.Contains(t, other.SourceTypeIndicators(), "CUSTOM")
	assert.True(t, slices.IsSorted(r.SourceTypeIndicators()))

	// Registries sharing a registrar recognize the same source types
	source, err := other.CreateSourceType("CUSTOM", map[string]any{"cmd": "id"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"cmd": "id", "args": []string{}}, source.AsDict())

	require.NoError(t, r.DeregisterSourceType(custom))
	require.ErrorIs(t, r.DeregisterSourceType(custom), artifacts.ErrNotFound)

	_, err = other.CreateSourceType("CUSTOM", map[string]any{"cmd": "id"})
	require.ErrorIs(t, err, artifacts.ErrFormat)
	assert.NotContains(t, r.SourceTypeIndicators(), "CUSTOM")

	require.NoError(t, r.RegisterSourceTypes([]sources.Type{custom}))
	assert.True(t, registrar.IsRegistered("CUSTOM"))
}

func TestNew_UsesDefaultRegistrar(t *testing.T) {
	t.Parallel()

	assert.Same(t, sources.Default(), New().Registrar())
	assert.Same(t, New().Registrar(), New().Registrar())
}

func TestArtifactDefinitionsRegistry_ReadFromFile(t *testing.T) {
	t.Parallel()

	a := &artifacts.ArtifactDefinition{Name: "A"}
	b := &artifacts.ArtifactDefinition{Name: "B"}
	readErr := artifacts.NewFormatError("bad record")

	tests := []struct {
		name          string
		setupMock     func(*mocks.MockDefinitionsReader)
		read          func(*ArtifactDefinitionsRegistry, DefinitionsReader) error
		wantErr       error
		errorContains string
		expectedNames []string
	}{
		{
			name: "file registers every definition",
			setupMock: func(m *mocks.MockDefinitionsReader) {
				m.EXPECT().ReadFile("defs.yaml").Return(sequence(nil, a, b))
			},
			read: func(r *ArtifactDefinitionsRegistry, dr DefinitionsReader) error {
				return r.ReadFromFile(dr, "defs.yaml")
			},
			expectedNames: []string{"A", "B"},
		},
		{
			name: "file read error keeps earlier definitions",
			setupMock: func(m *mocks.MockDefinitionsReader) {
				m.EXPECT().ReadFile("defs.yaml").Return(sequence(readErr, a))
			},
			read: func(r *ArtifactDefinitionsRegistry, dr DefinitionsReader) error {
				return r.ReadFromFile(dr, "defs.yaml")
			},
			wantErr:       artifacts.ErrFormat,
			errorContains: "defs.yaml",
			expectedNames: []string{"A"},
		},
		{
			name: "file with duplicate definitions",
			setupMock: func(m *mocks.MockDefinitionsReader) {
				m.EXPECT().ReadFile("defs.yaml").Return(sequence(nil, a, b, a))
			},
			read: func(r *ArtifactDefinitionsRegistry, dr DefinitionsReader) error {
				return r.ReadFromFile(dr, "defs.yaml")
			},
			wantErr:       artifacts.ErrDuplicateKey,
			expectedNames: []string{"A", "B"},
		},
		{
			name: "directory registers every definition",
			setupMock: func(m *mocks.MockDefinitionsReader) {
				m.EXPECT().ReadDirectory("defs").Return(sequence(nil, b, a))
			},
			read: func(r *ArtifactDefinitionsRegistry, dr DefinitionsReader) error {
				return r.ReadFromDirectory(dr, "defs")
			},
			expectedNames: []string{"B", "A"},
		},
		{
			name: "directory read error",
			setupMock: func(m *mocks.MockDefinitionsReader) {
				m.EXPECT().ReadDirectory("defs").Return(sequence(readErr))
			},
			read: func(r *ArtifactDefinitionsRegistry, dr DefinitionsReader) error {
				return r.ReadFromDirectory(dr, "defs")
			},
			wantErr:       artifacts.ErrFormat,
			errorContains: "directory defs",
			expectedNames: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			mockReader := mocks.NewMockDefinitionsReader(ctrl)
			tt.setupMock(mockReader)

			r := newTestRegistry()
			err := tt.read(r, mockReader)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
			} else {
				require.NoError(t, err)
			}

			names := make([]string, 0)
			for _, definition := range r.GetDefinitions() {
				names = append(names, definition.Name)
			}
			assert.Equal(t, tt.expectedNames, names)
		})
	}
}
