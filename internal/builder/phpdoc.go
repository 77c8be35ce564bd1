package builder

import (
	"context"
	"strings"

	"github.com/leapstack-labs/lmodel/internal/config"
)

// commentLine keeps multi-line column comments on the property line.
var commentLine = strings.NewReplacer("\r", "", "\n", " ")

// PhpDocBuilder documents every column as a property of the model. The
// conventional timestamp columns are managed by the base class and skipped.
type PhpDocBuilder struct{}

func (PhpDocBuilder) Build(ctx context.Context, c *Context) ([]string, error) {
	cols, err := c.Database.Columns(ctx, c.Table)
	if err != nil {
		return nil, err
	}
	def, err := c.TableDefinition()
	if err != nil {
		return nil, err
	}
	mappings := c.Config.PhpDocMappings()

	lines := make([]string, 0, len(cols)+2)
	lines = append(lines, "/**")
	for _, col := range cols {
		if col.Name == config.CreatedAt || col.Name == config.UpdatedAt {
			continue
		}

		tag := "property"
		if def.IsReadonly(col.Name) {
			tag = "property-read"
		}
		typ := col.Type
		if mapped, ok := mappings[typ]; ok {
			typ = mapped
		}

		line := " * @" + tag + " " + typ + " $" + col.Name + " " + commentLine.Replace(col.Comment)
		lines = append(lines, strings.TrimRight(line, " \t"))
	}
	return append(lines, " */"), nil
}
