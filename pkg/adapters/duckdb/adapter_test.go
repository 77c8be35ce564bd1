package duckdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/lmodel/pkg/adapter"
	"github.com/leapstack-labs/lmodel/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_Connect(t *testing.T) {
	tests := []struct {
		name      string
		setupPath func(t *testing.T) string
		verify    func(t *testing.T, path string)
	}{
		{
			name: "in-memory",
			setupPath: func(_ *testing.T) string {
				return ":memory:"
			},
		},
		{
			name: "file-based",
			setupPath: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "test.duckdb")
			},
			verify: func(t *testing.T, path string) {
				_, err := os.Stat(path)
				assert.False(t, os.IsNotExist(err), "database file was not created")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			adp := New(nil)

			dbPath := tt.setupPath(t)
			require.NoError(t, adp.Connect(ctx, core.AdapterConfig{Path: dbPath}))
			defer func() { _ = adp.Close() }()

			if tt.verify != nil {
				tt.verify(t, dbPath)
			}
		})
	}
}

func TestAdapter_Close(t *testing.T) {
	tests := []struct {
		name    string
		connect bool
	}{
		{"close without connect", false},
		{"close after connect", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adp := New(nil)

			if tt.connect {
				require.NoError(t, adp.Connect(context.Background(), core.AdapterConfig{Path: ":memory:"}))
			}

			assert.NoError(t, adp.Close())
		})
	}
}

func TestAdapter_Schema(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, core.AdapterConfig{Path: ":memory:"}))
	defer func() { _ = adp.Close() }()

	for _, stmt := range []string{
		`CREATE TABLE status (id INTEGER, name VARCHAR, value INTEGER)`,
		`CREATE TABLE lmodel (id INTEGER, code VARCHAR, number INTEGER)`,
		`COMMENT ON COLUMN lmodel.code IS 'Code for constants etc.'`,
		`INSERT INTO status VALUES (1, 'b', 2), (2, 'a', 1), (3, 'c', NULL)`,
	} {
		_, err := adp.DB.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}

	t.Run("tables sorted", func(t *testing.T) {
		tables, err := adp.Tables(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"lmodel", "status"}, tables)
	})

	t.Run("columns in ordinal order", func(t *testing.T) {
		cols, err := adp.Columns(ctx, "lmodel")
		require.NoError(t, err)
		require.Len(t, cols, 3)
		assert.Equal(t, "id", cols[0].Name)
		assert.Equal(t, "INTEGER", cols[0].Type)
		assert.Equal(t, "code", cols[1].Name)
		assert.Equal(t, "Code for constants etc.", cols[1].Comment)
	})

	t.Run("unknown table has no columns", func(t *testing.T) {
		cols, err := adp.Columns(ctx, "nope")
		require.NoError(t, err)
		assert.Empty(t, cols)
	})

	t.Run("rows ordered by name", func(t *testing.T) {
		rows, err := adp.Rows(ctx, "status", "name", "value")
		require.NoError(t, err)
		assert.Equal(t, []core.Row{
			{Name: "a", Value: "1"},
			{Name: "b", Value: "2"},
			{Name: "c", Value: ""},
		}, rows)
	})
}

func TestAdapter_Registry(t *testing.T) {
	factory, ok := adapter.Get("duckdb")
	require.True(t, ok)

	_, ok = factory(nil).(*Adapter)
	assert.True(t, ok, "factory should return *Adapter")
}
