package builder

import (
	"testing"

	"github.com/leapstack-labs/lmodel/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseInformationBuilder(t *testing.T) {
	off := map[string]any{"addDatabaseConnection": false, "addDatabaseTable": false}

	tests := []struct {
		name   string
		values map[string]any
		table  map[string]any
		want   []string
	}{
		{
			name:   "nothing to declare",
			values: off,
			want:   nil,
		},
		{
			name: "connection and table",
			want: []string{
				"    // Database.",
				"    protected $connection = 'main';",
				"    protected $table = 'lmodel';",
				"",
			},
		},
		{
			name:   "unknown columns dropped",
			values: map[string]any{"addDatabaseConnection": false},
			table:  map[string]any{"fillable": []string{"code", "ghost"}},
			want: []string{
				"    // Database.",
				"    protected $table = 'lmodel';",
				"",
				"    // " + AttributesFillable,
				"    protected $fillable = ['code'];",
				"",
			},
		},
		{
			name:   "every attribute array",
			values: off,
			table: map[string]any{
				"fillable":  []string{"code", "number"},
				"guarded":   []string{"id"},
				"hidden":    []string{"string"},
				"casts":     map[string]any{"number": "integer", "ghost": "boolean"},
				"accessors": []string{"status"},
			},
			want: []string{
				"    // Database.",
				"    // " + AttributesFillable,
				"    protected $fillable = ['code', 'number'];",
				"",
				"    // " + AttributesGuarded,
				"    protected $guarded = ['id'];",
				"",
				"    // " + AttributesHidden,
				"    protected $hidden = ['string'];",
				"",
				"    // " + AttributesCasts,
				"    protected $casts = ['number' => 'integer'];",
				"",
				"    // " + AttributesAppends,
				"    protected $appends = ['status'];",
				"",
			},
		},
		{
			name:   "long arrays wrap one element per line",
			values: map[string]any{"addDatabaseConnection": false, "addDatabaseTable": false, "maxLineLength": 40},
			table:  map[string]any{"fillable": []string{"code", "number", "string"}},
			want: []string{
				"    // Database.",
				"    // " + AttributesFillable,
				"    protected $fillable = [",
				"        'code',",
				"        'number',",
				"        'string',",
				"    ];",
				"",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := map[string]any{}
			for k, v := range tt.values {
				values[k] = v
			}
			if tt.table != nil {
				for k, v := range withTable(tt.table) {
					values[k] = v
				}
			}
			c := newContext(t, values, nil)
			assert.Equal(t, tt.want, build(t, DatabaseInformationBuilder{}, c))
		})
	}
}

func TestDatabaseInformationBuilder_PackageSuppressesConnectionAndTable(t *testing.T) {
	c := newContext(t, withTable(map[string]any{"fillable": []string{"code"}}), nil)
	c.Package = &config.PackageDefinition{ID: "billing"}
	require.True(t, c.Config.AddDatabaseConnection())
	require.True(t, c.Config.AddDatabaseTable())

	got := build(t, DatabaseInformationBuilder{}, c)
	assert.Equal(t, []string{
		"    // Database.",
		"    // " + AttributesFillable,
		"    protected $fillable = ['code'];",
		"",
	}, got)
	for _, line := range got {
		assert.NotContains(t, line, "$connection")
		assert.NotContains(t, line, "$table")
	}
}
