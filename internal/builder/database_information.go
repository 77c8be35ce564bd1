package builder

import (
	"context"
	"slices"
	"strings"
)

// Comments above each attribute array.
const (
	AttributesFillable = "The attributes that are mass assignable."
	AttributesGuarded  = "The attributes that aren't mass assignable."
	AttributesHidden   = "The attributes that should be hidden for arrays."
	AttributesCasts    = "The attributes that should be cast to native types."
	AttributesAppends  = "The accessors to append to the model's array form."
)

// DatabaseInformationBuilder declares the connection, the table and the
// attribute arrays of the model. Configured columns missing from the schema
// are dropped without error.
type DatabaseInformationBuilder struct{}

func (DatabaseInformationBuilder) Build(ctx context.Context, c *Context) ([]string, error) {
	columns, err := c.ColumnNames(ctx)
	if err != nil {
		return nil, err
	}
	def, err := c.TableDefinition()
	if err != nil {
		return nil, err
	}

	var lines []string
	if c.Config.AddDatabaseConnection() && !c.IsPackaged() {
		lines = append(lines, c.Indent(1)+"protected $connection = '"+c.Connection+"';")
	}
	if c.Config.AddDatabaseTable() && !c.IsPackaged() {
		lines = append(lines, c.Indent(1)+"protected $table = '"+c.Table+"';")
	}

	casts := make([]string, 0)
	for _, cast := range def.Casts() {
		if slices.Contains(columns, cast.Key) || slices.Contains(columns, cast.Value) {
			casts = append(casts, quote(cast.Key)+" => "+quote(cast.Value))
		}
	}

	arrays := []struct {
		property string
		comment  string
		elements []string
	}{
		{"fillable", AttributesFillable, quoteAll(inSchema(def.Fillable(), columns))},
		{"guarded", AttributesGuarded, quoteAll(inSchema(def.Guarded(), columns))},
		{"hidden", AttributesHidden, quoteAll(inSchema(def.Hidden(), columns))},
		{"casts", AttributesCasts, casts},
		{"appends", AttributesAppends, quoteAll(inSchema(def.Appends(), columns))},
	}
	for _, a := range arrays {
		if len(a.elements) == 0 {
			continue
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, c.Indent(1)+"// "+a.comment)
		lines = append(lines, c.arrayProperty(a.property, a.elements)...)
	}

	if len(lines) == 0 {
		return nil, nil
	}
	lines = slices.Insert(lines, 0, c.Indent(1)+"// Database.")
	return append(lines, ""), nil
}

// arrayProperty renders a protected array property on one line when it fits
// the configured line length, else one element per line.
func (c *Context) arrayProperty(property string, elements []string) []string {
	open := c.Indent(1) + "protected $" + property + " = ["
	single := open + strings.Join(elements, ", ") + "];"
	if len(single) <= c.Config.MaxLineLength() {
		return []string{single}
	}

	lines := make([]string, 0, len(elements)+2)
	lines = append(lines, open)
	for _, e := range elements {
		lines = append(lines, c.Indent(2)+e+",")
	}
	return append(lines, c.Indent(1)+"];")
}

func inSchema(names, columns []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if slices.Contains(columns, n) {
			out = append(out, n)
		}
	}
	return out
}

func quote(s string) string {
	return "'" + quoted.Replace(s) + "'"
}

func quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = quote(n)
	}
	return out
}
