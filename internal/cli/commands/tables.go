package commands

import (
	"fmt"

	"github.com/leapstack-labs/lmodel/internal/cli/output"
	"github.com/leapstack-labs/lmodel/internal/generator"
	"github.com/spf13/cobra"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables [connection]",
		Short: "List the tables of a connection and how they would be generated",
		Long: `List every table of a connection with the routing a make run would apply:
a model in the configured namespace, a model in a matching package, or
skipped because it is ignored or is the migrations table.

Output adapts to environment:
  - Terminal: table
  - Piped/Scripted: Markdown table

Use --output json for machine readable output.`,
		Example: `  # Tables of the default connection
  lmodel tables

  # Tables of a named connection as JSON
  lmodel tables main --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			connection := generator.DefaultConnection
			if len(args) > 0 {
				connection = args[0]
			}
			return runTables(cmd, connection)
		},
	}

	return cmd
}

func runTables(cmd *cobra.Command, connectionArg string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	models := generator.NewModelsBuilder(cmdCtx.Cfg, nil, cmdCtx.Logger)
	connection, tables, err := models.Inspect(cmd.Context(), connectionArg)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(struct {
			Connection string                `json:"connection"`
			Tables     []generator.TableInfo `json:"tables"`
		}{connection, tables})
	}

	r.Header(1, fmt.Sprintf("Tables of %s (%d total)", connection, len(tables)))

	rows := make([][]string, 0, len(tables))
	for _, t := range tables {
		exists := ""
		if t.Exists {
			exists = "yes"
		}
		rows = append(rows, []string{t.Table, t.Status, t.ClassName, t.Filename, exists})
	}
	r.Table([]string{"Table", "Status", "Class", "File", "Exists"}, rows)
	return nil
}
