// Package database exposes the schema capabilities the generator needs on
// top of a registered schema adapter.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/leapstack-labs/lmodel/pkg/adapter"
	"github.com/leapstack-labs/lmodel/pkg/core"
)

// Database answers schema questions for one connection.
type Database interface {
	// Tables lists every table of the connection, sorted.
	Tables(ctx context.Context) ([]string, error)

	// HasTable reports whether table exists.
	HasTable(ctx context.Context, table string) (bool, error)

	// Columns returns the columns of table in ordinal order, with storage
	// types lower-cased and passed through the registered type mappings.
	Columns(ctx context.Context, table string) ([]core.Column, error)

	// Rows returns name/value pairs of table ordered by the name column.
	// A name occurring twice keeps its first position and its last value.
	Rows(ctx context.Context, table, nameColumn, valueColumn string) ([]core.Row, error)

	// RegisterTypeMapping maps a storage type to another before it is
	// reported by Columns.
	RegisterTypeMapping(dbType, mappedType string)

	// Close releases the connection.
	Close() error
}

// SQLDatabase implements Database over an adapter.Adapter.
type SQLDatabase struct {
	adapter  adapter.Adapter
	logger   *slog.Logger
	mappings map[string]string
	columns  map[string][]core.Column
	tables   []string
}

// New wraps a connected adapter.
// If logger is nil, a discard logger is used.
func New(a adapter.Adapter, logger *slog.Logger) *SQLDatabase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLDatabase{
		adapter:  a,
		logger:   logger,
		mappings: make(map[string]string),
		columns:  make(map[string][]core.Column),
	}
}

// Open creates the adapter named by cfg.Type, connects it and wraps it.
func Open(ctx context.Context, cfg core.AdapterConfig, logger *slog.Logger) (*SQLDatabase, error) {
	a, err := adapter.NewAdapter(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := a.Connect(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to connect %s database: %w", cfg.Type, err)
	}
	return New(a, logger), nil
}

// Tables lists every table of the connection, sorted.
func (d *SQLDatabase) Tables(ctx context.Context) ([]string, error) {
	if d.tables != nil {
		return slices.Clone(d.tables), nil
	}

	tables, err := d.adapter.Tables(ctx)
	if err != nil {
		return nil, err
	}
	slices.Sort(tables)
	if tables == nil {
		tables = []string{}
	}

	d.tables = tables
	d.logger.Debug("loaded table list", slog.Int("count", len(tables)))
	return slices.Clone(tables), nil
}

// HasTable reports whether table exists.
func (d *SQLDatabase) HasTable(ctx context.Context, table string) (bool, error) {
	tables, err := d.Tables(ctx)
	if err != nil {
		return false, err
	}
	_, found := slices.BinarySearch(tables, table)
	return found, nil
}

// Columns returns the columns of table with mapped storage types.
func (d *SQLDatabase) Columns(ctx context.Context, table string) ([]core.Column, error) {
	raw, ok := d.columns[table]
	if !ok {
		var err error
		raw, err = d.adapter.Columns(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
		}
		d.columns[table] = raw
		d.logger.Debug("loaded columns", slog.String("table", table), slog.Int("count", len(raw)))
	}

	out := make([]core.Column, len(raw))
	for i, col := range raw {
		col.Type = d.mapType(col.Type)
		out[i] = col
	}
	return out, nil
}

func (d *SQLDatabase) mapType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if mapped, ok := d.mappings[t]; ok {
		return mapped
	}
	return t
}

// Rows returns deduplicated name/value pairs ordered by the name column.
func (d *SQLDatabase) Rows(ctx context.Context, table, nameColumn, valueColumn string) ([]core.Row, error) {
	rows, err := d.adapter.Rows(ctx, table, nameColumn, valueColumn)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(rows))
	out := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		if i, seen := index[r.Name]; seen {
			out[i].Value = r.Value
			continue
		}
		index[r.Name] = len(out)
		out = append(out, r)
	}
	return out, nil
}

// RegisterTypeMapping maps dbType to mappedType for later Columns calls.
func (d *SQLDatabase) RegisterTypeMapping(dbType, mappedType string) {
	d.mappings[strings.ToLower(dbType)] = mappedType
}

// Close releases the underlying adapter.
func (d *SQLDatabase) Close() error {
	return d.adapter.Close()
}
