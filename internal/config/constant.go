package config

import (
	"sort"

	"github.com/go-viper/mapstructure/v2"
)

// StandardReplacements transliterate letters that have no decomposed form.
var StandardReplacements = map[string]string{
	"Æ": "AE",
	"Ø": "OE",
	"Å": "AA",
	"ß": "SS",
}

// Replacement is one from/to pair applied to constant names.
type Replacement struct {
	From string
	To   string
}

// ConstantDefinition drives one block of class constants read from the
// rows of the table.
type ConstantDefinition struct {
	Title       string            `mapstructure:"title"`
	NameColumn  string            `mapstructure:"name"`
	ValueColumn string            `mapstructure:"value"`
	Prefix      string            `mapstructure:"prefix"`
	Suffix      string            `mapstructure:"suffix"`
	Replace     map[string]string `mapstructure:"replace"`
}

// NewConstantDefinition decodes one constants entry.
func NewConstantDefinition(raw map[string]any) (*ConstantDefinition, error) {
	var def ConstantDefinition
	if err := mapstructure.WeakDecode(raw, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

// IsValid reports whether both the name and value columns are configured.
func (d *ConstantDefinition) IsValid() bool {
	return d.NameColumn != "" && d.ValueColumn != ""
}

// Replacements returns the standard transliterations followed by the
// configured replacements, each group sorted by key. A configured key that
// matches a standard one overrides it in place.
func (d *ConstantDefinition) Replacements() []Replacement {
	out := make([]Replacement, 0, len(StandardReplacements)+len(d.Replace))
	for _, from := range sortedKeys(StandardReplacements) {
		to := StandardReplacements[from]
		if custom, ok := d.Replace[from]; ok {
			to = custom
		}
		out = append(out, Replacement{From: from, To: to})
	}
	for _, from := range sortedKeys(d.Replace) {
		if _, ok := StandardReplacements[from]; ok {
			continue
		}
		out = append(out, Replacement{From: from, To: d.Replace[from]})
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
