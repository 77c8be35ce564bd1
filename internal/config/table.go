package config

import (
	"fmt"
	"slices"
	"sort"

	"github.com/go-viper/mapstructure/v2"
)

// tableData mirrors the YAML shape of tables.{connection}.{table}.
type tableData struct {
	CreatedAt  *string           `mapstructure:"created_at"`
	UpdatedAt  *string           `mapstructure:"updated_at"`
	DateFormat *string           `mapstructure:"date_format"`
	Fillable   []string          `mapstructure:"fillable"`
	Guarded    []string          `mapstructure:"guarded"`
	Readonly   []string          `mapstructure:"readonly"`
	Hidden     []string          `mapstructure:"hidden"`
	Casts      map[string]string `mapstructure:"casts"`
	Accessors  []string          `mapstructure:"accessors"`
	Appends    []string          `mapstructure:"appends"`
	Constants  any               `mapstructure:"constants"`
}

// Cast is one entry of the casts attribute.
type Cast struct {
	Key   string
	Value string
}

// TableDefinition is the per-table generation policy.
type TableDefinition struct {
	raw       map[string]any
	data      tableData
	present   map[string]bool
	constants []*ConstantDefinition
}

// NewTableDefinition decodes a table settings map. A nil map gives an
// empty definition with all defaults.
func NewTableDefinition(raw map[string]any) (*TableDefinition, error) {
	def := &TableDefinition{raw: raw, present: map[string]bool{}}
	if len(raw) == 0 {
		return def, nil
	}

	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &def.data,
		Metadata:         &md,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, err
	}

	// Metadata.Keys records explicit nulls too, which is how a disabled
	// timestamp column differs from an absent one.
	for _, key := range md.Keys {
		def.present[key] = true
	}

	def.constants, err = decodeConstants(def.data.Constants)
	if err != nil {
		return nil, err
	}

	return def, nil
}

// IsValid reports whether any settings exist for the table.
func (t *TableDefinition) IsValid() bool {
	return len(t.raw) > 0
}

// CreatedAtColumn returns the created-at column name and false when
// timestamp handling is disabled with an explicit null.
func (t *TableDefinition) CreatedAtColumn() (string, bool) {
	return t.timestampColumn("created_at", t.data.CreatedAt, CreatedAt)
}

// UpdatedAtColumn returns the updated-at column name and false when
// timestamp handling is disabled with an explicit null.
func (t *TableDefinition) UpdatedAtColumn() (string, bool) {
	return t.timestampColumn("updated_at", t.data.UpdatedAt, UpdatedAt)
}

func (t *TableDefinition) timestampColumn(key string, value *string, fallback string) (string, bool) {
	if !t.present[key] {
		return fallback, true
	}
	if value == nil || *value == "" {
		return "", false
	}
	return *value, true
}

// DateFormat returns the configured date storage format, if any.
func (t *TableDefinition) DateFormat() (string, bool) {
	if t.data.DateFormat == nil || *t.data.DateFormat == "" {
		return "", false
	}
	return *t.data.DateFormat, true
}

// Fillable returns the mass assignable columns.
func (t *TableDefinition) Fillable() []string { return slices.Clone(t.data.Fillable) }

// Guarded returns the columns that are not mass assignable.
func (t *TableDefinition) Guarded() []string { return slices.Clone(t.data.Guarded) }

// Readonly returns the columns documented as read-only properties.
func (t *TableDefinition) Readonly() []string { return slices.Clone(t.data.Readonly) }

// Hidden returns the columns hidden from array form.
func (t *TableDefinition) Hidden() []string { return slices.Clone(t.data.Hidden) }

// Appends returns the accessors appended to array form. "accessors" is
// the documented key, "appends" is accepted as an alias.
func (t *TableDefinition) Appends() []string {
	if len(t.data.Accessors) > 0 {
		return slices.Clone(t.data.Accessors)
	}
	return slices.Clone(t.data.Appends)
}

// Casts returns the cast entries sorted by key.
func (t *TableDefinition) Casts() []Cast {
	keys := make([]string, 0, len(t.data.Casts))
	for k := range t.data.Casts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Cast, 0, len(keys))
	for _, k := range keys {
		out = append(out, Cast{Key: k, Value: t.data.Casts[k]})
	}
	return out
}

// IsReadonly reports whether column is documented as read-only.
func (t *TableDefinition) IsReadonly(column string) bool {
	return slices.Contains(t.data.Readonly, column)
}

// ConstantDefinitions returns the constant blocks in configured order.
func (t *TableDefinition) ConstantDefinitions() []*ConstantDefinition {
	return t.constants
}

// decodeConstants accepts a single definition map or a list of them.
func decodeConstants(v any) ([]*ConstantDefinition, error) {
	switch c := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		def, err := NewConstantDefinition(c)
		if err != nil {
			return nil, err
		}
		return []*ConstantDefinition{def}, nil
	case []map[string]any:
		items := make([]any, len(c))
		for i := range c {
			items[i] = c[i]
		}
		return decodeConstants(items)
	case []any:
		defs := make([]*ConstantDefinition, 0, len(c))
		for i, item := range c {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("constants[%d]: expected a mapping, got %T", i, item)
			}
			def, err := NewConstantDefinition(m)
			if err != nil {
				return nil, fmt.Errorf("constants[%d]: %w", i, err)
			}
			defs = append(defs, def)
		}
		return defs, nil
	default:
		return nil, fmt.Errorf("constants: expected a mapping or a list, got %T", v)
	}
}
