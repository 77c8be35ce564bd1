package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableDefinition_Timestamps(t *testing.T) {
	tests := []struct {
		name        string
		raw         map[string]any
		wantCreated string
		createdOK   bool
		wantUpdated string
		updatedOK   bool
	}{
		{
			name:        "no settings",
			raw:         nil,
			wantCreated: "created_at", createdOK: true,
			wantUpdated: "updated_at", updatedOK: true,
		},
		{
			name:        "renamed",
			raw:         map[string]any{"created_at": "created_at_test", "updated_at": "updated_at_test"},
			wantCreated: "created_at_test", createdOK: true,
			wantUpdated: "updated_at_test", updatedOK: true,
		},
		{
			name:        "explicit null disables",
			raw:         map[string]any{"created_at": nil, "fillable": []string{"code"}},
			wantCreated: "", createdOK: false,
			wantUpdated: "updated_at", updatedOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := NewTableDefinition(tt.raw)
			require.NoError(t, err)

			created, ok := def.CreatedAtColumn()
			assert.Equal(t, tt.wantCreated, created)
			assert.Equal(t, tt.createdOK, ok)

			updated, ok := def.UpdatedAtColumn()
			assert.Equal(t, tt.wantUpdated, updated)
			assert.Equal(t, tt.updatedOK, ok)
		})
	}
}

func TestTableDefinition_Lists(t *testing.T) {
	def, err := NewTableDefinition(map[string]any{
		"date_format": "U",
		"fillable":    []any{"code", "number"},
		"guarded":     []string{"id"},
		"readonly":    []string{"code"},
		"hidden":      []string{"secret"},
		"casts":       map[string]any{"number": "integer", "flag": "boolean"},
		"accessors":   []string{"label"},
	})
	require.NoError(t, err)

	assert.True(t, def.IsValid())
	format, ok := def.DateFormat()
	assert.True(t, ok)
	assert.Equal(t, "U", format)
	assert.Equal(t, []string{"code", "number"}, def.Fillable())
	assert.Equal(t, []string{"id"}, def.Guarded())
	assert.Equal(t, []string{"secret"}, def.Hidden())
	assert.Equal(t, []string{"label"}, def.Appends())
	assert.True(t, def.IsReadonly("code"))
	assert.False(t, def.IsReadonly("number"))
	assert.Equal(t, []Cast{{Key: "flag", Value: "boolean"}, {Key: "number", Value: "integer"}}, def.Casts())
}

func TestTableDefinition_AppendsAlias(t *testing.T) {
	def, err := NewTableDefinition(map[string]any{"appends": []string{"label"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"label"}, def.Appends())
}

func TestTableDefinition_Empty(t *testing.T) {
	def, err := NewTableDefinition(nil)
	require.NoError(t, err)

	assert.False(t, def.IsValid())
	_, ok := def.DateFormat()
	assert.False(t, ok)
	assert.Empty(t, def.Fillable())
	assert.Empty(t, def.Casts())
	assert.Empty(t, def.ConstantDefinitions())
}

func TestTableDefinition_Constants(t *testing.T) {
	single := map[string]any{"title": "Numbers.", "name": "code", "value": "number"}

	tests := []struct {
		name      string
		constants any
		wantLen   int
		wantErr   string
	}{
		{name: "single mapping", constants: single, wantLen: 1},
		{name: "list of mappings", constants: []any{single, map[string]any{"name": "code"}}, wantLen: 2},
		{name: "typed list", constants: []map[string]any{single}, wantLen: 1},
		{name: "scalar rejected", constants: "code", wantErr: "expected a mapping or a list"},
		{name: "scalar item rejected", constants: []any{"code"}, wantErr: "constants[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := NewTableDefinition(map[string]any{"constants": tt.constants})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, def.ConstantDefinitions(), tt.wantLen)
		})
	}
}

func TestConfig_TableDefinitionFromYAMLShape(t *testing.T) {
	values := baseValues()
	values["tables"] = map[string]any{
		"main": map[string]any{
			"lmodel": map[string]any{
				"created_at": "created_at_test",
				"updated_at": nil,
				"constants": []any{
					map[string]any{"title": "Constants for numbers.", "name": "code", "value": "number", "prefix": "NUM"},
				},
			},
		},
	}

	cfg, err := FromMap(values)
	require.NoError(t, err)

	def, err := cfg.TableDefinition("main", "lmodel")
	require.NoError(t, err)
	assert.True(t, def.IsValid())

	created, ok := def.CreatedAtColumn()
	assert.True(t, ok)
	assert.Equal(t, "created_at_test", created)

	_, ok = def.UpdatedAtColumn()
	assert.False(t, ok, "null survives the koanf round trip")

	require.Len(t, def.ConstantDefinitions(), 1)
	assert.Equal(t, "NUM", def.ConstantDefinitions()[0].Prefix)

	missing, err := cfg.TableDefinition("main", "other")
	require.NoError(t, err)
	assert.False(t, missing.IsValid())
}

func TestConstantDefinition(t *testing.T) {
	def, err := NewConstantDefinition(map[string]any{
		"title":   "Constants for numbers.",
		"name":    "code",
		"value":   "number",
		"prefix":  "NUM",
		"suffix":  "S",
		"replace": map[string]any{"SE": ">>", "Ø": "O"},
	})
	require.NoError(t, err)

	assert.True(t, def.IsValid())
	assert.Equal(t, []Replacement{
		{From: "Å", To: "AA"},
		{From: "Æ", To: "AE"},
		{From: "Ø", To: "O"},
		{From: "ß", To: "SS"},
		{From: "SE", To: ">>"},
	}, def.Replacements())

	partial, err := NewConstantDefinition(map[string]any{"name": "code"})
	require.NoError(t, err)
	assert.False(t, partial.IsValid())
}
