// Package adapter provides the schema adapter contract used by the model
// generator.
//
// Concrete adapter implementations are in pkg/adapters/ subdirectories and
// register themselves with this package from their init() functions.
package adapter

import (
	"context"

	"github.com/leapstack-labs/lmodel/pkg/core"
)

// Adapter defines the interface that all schema adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg core.AdapterConfig) error

	// Close closes the database connection and releases resources.
	Close() error

	// Tables lists the base tables of the configured schema, sorted by name.
	Tables(ctx context.Context) ([]string, error)

	// Columns returns the columns of a table in ordinal order.
	// An unknown table yields an empty slice, not an error.
	Columns(ctx context.Context, table string) ([]core.Column, error)

	// Rows returns name/value pairs read from two columns of a table,
	// ordered by the name column.
	Rows(ctx context.Context, table, nameColumn, valueColumn string) ([]core.Row, error)
}
