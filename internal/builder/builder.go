// Package builder produces the sections of a model file.
//
// Each Builder emits an ordered slice of lines from a shared, read-only
// Context. A Pipeline runs one builder per Kind in a fixed order and
// concatenates their output; overrides swap the implementation used for a
// kind without touching the others.
package builder

import (
	"context"
	"strings"

	"github.com/leapstack-labs/lmodel/internal/config"
	"github.com/leapstack-labs/lmodel/internal/database"
	"github.com/leapstack-labs/lmodel/internal/naming"
	"github.com/leapstack-labs/lmodel/internal/parser"
)

// Builder emits the lines of one section of a model file.
// An empty result means the section is omitted.
type Builder interface {
	Build(ctx context.Context, c *Context) ([]string, error)
}

// Func adapts a function to the Builder interface.
type Func func(ctx context.Context, c *Context) ([]string, error)

// Build calls f.
func (f Func) Build(ctx context.Context, c *Context) ([]string, error) {
	return f(ctx, c)
}

// Kind identifies a section of the model file.
type Kind string

// Section kinds, in output order.
const (
	KindDeclareStrict       Kind = "declare-strict"
	KindNamespace           Kind = "namespace"
	KindUses                Kind = "uses"
	KindPhpDoc              Kind = "phpdoc"
	KindClassExtends        Kind = "class-extends"
	KindStatementGroupStart Kind = "statement-group-start"
	KindTrait               Kind = "trait"
	KindConstants           Kind = "constants"
	KindTimestamps          Kind = "timestamps"
	KindDatabaseInformation Kind = "database-information"
	KindPreservedLines      Kind = "preserved-lines"
	KindStatementGroupEnd   Kind = "statement-group-end"
)

// Kinds lists every section kind in output order.
var Kinds = []Kind{
	KindDeclareStrict,
	KindNamespace,
	KindUses,
	KindPhpDoc,
	KindClassExtends,
	KindStatementGroupStart,
	KindTrait,
	KindConstants,
	KindTimestamps,
	KindDatabaseInformation,
	KindPreservedLines,
	KindStatementGroupEnd,
}

// Context is everything a builder may read while generating one model.
// Builders must not modify it.
type Context struct {
	Config     *config.Config
	Connection string
	Table      string
	Database   database.Database
	File       *parser.File

	// Package is the package the table is routed to, or nil.
	Package *config.PackageDefinition
}

// Indent returns the configured indentation unit repeated n times.
func (c *Context) Indent(n int) string {
	return strings.Repeat(c.Config.Indent(), n)
}

// Namespace is the namespace the model is generated into.
func (c *Context) Namespace() string {
	if c.Package != nil {
		return c.Package.Namespace()
	}
	return c.Config.ModelNamespace(c.Connection)
}

// ClassName is the short class name of the model.
func (c *Context) ClassName() string {
	return naming.Studly(c.Table)
}

// IsPackaged reports whether the table is routed to a package.
func (c *Context) IsPackaged() bool {
	return c.Package != nil
}

// TableDefinition returns the settings of the current table.
func (c *Context) TableDefinition() (*config.TableDefinition, error) {
	return c.Config.TableDefinition(c.Connection, c.Table)
}

// ColumnNames returns the schema column names of the current table.
func (c *Context) ColumnNames(ctx context.Context) ([]string, error) {
	cols, err := c.Database.Columns(ctx, c.Table)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Name
	}
	return names, nil
}

func (c *Context) parsed() *parser.File {
	if c.File == nil {
		return &parser.File{}
	}
	return c.File
}
