package builder

import (
	"context"
	"slices"

	"github.com/leapstack-labs/lmodel/internal/config"
)

// TimestampsBuilder configures automatic timestamp management. When both
// timestamp columns exist, renamed columns and the date format are declared;
// otherwise timestamps are switched off.
type TimestampsBuilder struct{}

func (TimestampsBuilder) Build(ctx context.Context, c *Context) ([]string, error) {
	columns, err := c.ColumnNames(ctx)
	if err != nil {
		return nil, err
	}
	def, err := c.TableDefinition()
	if err != nil {
		return nil, err
	}

	createdAt, createdOK := def.CreatedAtColumn()
	updatedAt, updatedOK := def.UpdatedAtColumn()
	enabled := createdOK && updatedOK &&
		slices.Contains(columns, createdAt) && slices.Contains(columns, updatedAt)

	var lines []string
	if enabled {
		if createdAt != config.CreatedAt {
			lines = append(lines, c.Indent(1)+"const CREATED_AT = '"+createdAt+"';")
		}
		if updatedAt != config.UpdatedAt {
			lines = append(lines, c.Indent(1)+"const UPDATED_AT = '"+updatedAt+"';")
		}
		if format, ok := def.DateFormat(); ok {
			lines = append(lines, c.Indent(1)+"protected $dateFormat = '"+format+"';")
		}
	} else {
		lines = append(lines, c.Indent(1)+"public $timestamps = false;")
	}

	if len(lines) == 0 {
		return nil, nil
	}
	lines = slices.Insert(lines, 0, c.Indent(1)+"// Timestamps.")
	return append(lines, ""), nil
}
