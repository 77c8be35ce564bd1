package commands

import (
	"fmt"

	"github.com/leapstack-labs/lmodel/internal/cli/output"
	"github.com/leapstack-labs/lmodel/internal/generator"
	"github.com/spf13/cobra"
)

// MakeOptions holds options for the make command.
type MakeOptions struct {
	Destination bool
	Console     bool
}

// NewMakeCommand creates the make command.
func NewMakeCommand() *cobra.Command {
	opts := &MakeOptions{}

	cmd := &cobra.Command{
		Use:     "make <connection> <tables>",
		Aliases: []string{"make:models"},
		Short:   "Create or update models from an existing schema",
		Long: `Create or update one model per table of a database connection.

<connection> is a configured connection name, or "default" (or ".") for the
default connection. <tables> is a comma separated list of tables, or "all"
(or ".") for every table. Ignored tables and the migrations table are skipped.

Existing model files keep their extra imports, traits and everything below
the preservation marker.`,
		Example: `  # Generate every model of the default connection
  lmodel make default all

  # Regenerate two models
  lmodel make main users,posts

  # Show where models would be written without touching the filesystem
  lmodel make main all --destination

  # Print a model instead of writing it
  lmodel make main users --console`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMake(cmd, generator.Arguments{Connection: args[0], Tables: args[1]}, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Destination, "destination", false, "Print the destination of each model instead of writing it")
	cmd.Flags().BoolVar(&opts.Console, "console", false, "Print the content of each model instead of writing it")

	return cmd
}

func runMake(cmd *cobra.Command, args generator.Arguments, opts *MakeOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	reporter := newMakeReporter(cmdCtx.Renderer)
	models := generator.NewModelsBuilder(cmdCtx.Cfg, reporter, cmdCtx.Logger)

	_, err = models.Execute(cmd.Context(), args, generator.Options{
		Destination: opts.Destination,
		Console:     opts.Console,
	})
	if err != nil {
		return err
	}
	return reporter.flush()
}

// makeResult is the JSON document written by make in JSON mode.
type makeResult struct {
	Warnings  []string     `json:"warnings,omitempty"`
	Models    []modelEntry `json:"models"`
	Generated int          `json:"generated"`
}

type modelEntry struct {
	Class   string `json:"class"`
	File    string `json:"file,omitempty"`
	Content string `json:"content,omitempty"`
	Written bool   `json:"written"`
}

var _ generator.Reporter = (*makeReporter)(nil)

// makeReporter presents generator progress through a renderer. In JSON
// mode events are collected and written as one document by flush.
type makeReporter struct {
	r      *output.Renderer
	json   bool
	result makeResult
}

func newMakeReporter(r *output.Renderer) *makeReporter {
	return &makeReporter{
		r:      r,
		json:   r.EffectiveMode() == output.ModeJSON,
		result: makeResult{Models: []modelEntry{}},
	}
}

func (m *makeReporter) Title(text string) {
	if !m.json {
		m.r.Header(1, text)
	}
}

func (m *makeReporter) Warn(text string) {
	if m.json {
		m.result.Warnings = append(m.result.Warnings, text)
		return
	}
	m.r.Warning(text)
}

func (m *makeReporter) Destination(className, filename string) {
	if m.json {
		m.entry(className).File = filename
		return
	}
	m.r.KeyValue("Destination", className+" -> "+filename)
}

func (m *makeReporter) Content(className, content string) {
	if m.json {
		m.entry(className).Content = content
		return
	}
	m.r.Println(content)
}

func (m *makeReporter) Generated(className, filename string) {
	if m.json {
		e := m.entry(className)
		e.File = filename
		e.Written = true
		return
	}
	m.r.Success(fmt.Sprintf("Model [%s] generated.", className))
}

func (m *makeReporter) Summary(count int) {
	m.result.Generated = count
	if !m.json {
		m.r.Println()
		m.r.Info(fmt.Sprintf("%d model(s) generated.", count))
	}
}

func (m *makeReporter) entry(className string) *modelEntry {
	for i := range m.result.Models {
		if m.result.Models[i].Class == className {
			return &m.result.Models[i]
		}
	}
	m.result.Models = append(m.result.Models, modelEntry{Class: className})
	return &m.result.Models[len(m.result.Models)-1]
}

func (m *makeReporter) flush() error {
	if !m.json {
		return nil
	}
	return m.r.JSON(m.result)
}
