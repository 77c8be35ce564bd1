package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/lmodel/pkg/core"
)

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close and Rows implementations plus helpers for catalog queries.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    core.AdapterConfig
	Logger *slog.Logger

	// Quote wraps an identifier for use in generated SQL.
	// Nil means ANSI double quotes.
	Quote func(ident string) string
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.DB.Close()
	}
	return nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// QuoteIdent quotes an identifier with the adapter's quoting rules.
func (b *BaseSQLAdapter) QuoteIdent(ident string) string {
	if b.Quote != nil {
		return b.Quote(ident)
	}
	return QuoteIdent(ident, `"`)
}

// QuoteIdent wraps ident in q, doubling any embedded occurrence of q.
func QuoteIdent(ident, q string) string {
	return q + strings.ReplaceAll(ident, q, q+q) + q
}

// QueryTables runs a catalog query whose single column is a table name.
func (b *BaseSQLAdapter) QueryTables(ctx context.Context, query string, args ...any) ([]string, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	rows, err := b.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}

	return tables, nil
}

// QueryColumns runs a catalog query returning name, type and a nullable
// comment for each column, in ordinal order.
func (b *BaseSQLAdapter) QueryColumns(ctx context.Context, query string, args ...any) ([]core.Column, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	rows, err := b.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []core.Column
	for rows.Next() {
		var col core.Column
		var comment sql.NullString
		if err := rows.Scan(&col.Name, &col.Type, &comment); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Comment = comment.String
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	return columns, nil
}

// Rows reads nameColumn and valueColumn from table ordered by nameColumn.
// NULL values are returned as empty strings.
func (b *BaseSQLAdapter) Rows(ctx context.Context, table, nameColumn, valueColumn string) ([]core.Row, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	name := b.QuoteIdent(nameColumn)
	query := fmt.Sprintf("SELECT %s, %s FROM %s ORDER BY %s", //nolint:gosec // identifiers are quoted
		name, b.QuoteIdent(valueColumn), b.QuoteIdent(table), name)

	if b.Logger != nil {
		b.Logger.Debug("reading constant rows", slog.String("table", table), slog.String("query", query))
	}

	rows, err := b.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows of %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var result []core.Row
	for rows.Next() {
		var n, v sql.NullString
		if err := rows.Scan(&n, &v); err != nil {
			return nil, fmt.Errorf("failed to scan row of %s: %w", table, err)
		}
		result = append(result, core.Row{Name: n.String, Value: v.String})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows of %s: %w", table, err)
	}

	return result, nil
}
