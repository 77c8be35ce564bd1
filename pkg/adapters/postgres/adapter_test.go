package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/lmodel/pkg/adapter"
	"github.com/leapstack-labs/lmodel/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   core.AdapterConfig
		expected string
	}{
		{
			name: "basic connection",
			config: core.AdapterConfig{
				Host:     "localhost",
				Port:     5432,
				Database: "testdb",
				Username: "user",
				Password: "pass",
			},
			expected: "host=localhost port=5432 dbname=testdb sslmode=disable user=user password=pass",
		},
		{
			name: "with custom sslmode",
			config: core.AdapterConfig{
				Host:     "prod.example.com",
				Port:     5432,
				Database: "proddb",
				Username: "admin",
				Options:  map[string]string{"sslmode": "require"},
			},
			expected: "host=prod.example.com port=5432 dbname=proddb sslmode=require user=admin",
		},
		{
			name: "defaults",
			config: core.AdapterConfig{
				Database: "mydb",
			},
			expected: "host=localhost port=5432 dbname=mydb sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildPostgresDSN(tt.config))
		})
	}
}

func TestNew(t *testing.T) {
	adp := New(nil)

	assert.NotNil(t, adp)
	assert.Nil(t, adp.DB, "DB should be nil before Connect")
	assert.False(t, adp.IsConnected())
	assert.Equal(t, "postgres", adp.DialectName())

	var _ adapter.Adapter = (*Adapter)(nil)
}

func TestAdapter_NotConnected(t *testing.T) {
	tests := []struct {
		name      string
		operation func(ctx context.Context, adp *Adapter) error
	}{
		{
			name: "tables without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				_, err := adp.Tables(ctx)
				return err
			},
		},
		{
			name: "columns without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				_, err := adp.Columns(ctx, "users")
				return err
			},
		},
		{
			name: "rows without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				_, err := adp.Rows(ctx, "users", "code", "id")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.operation(context.Background(), New(nil))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not established")
		})
	}
}

func TestAdapter_Columns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT").
		WithArgs("app", "lmodel").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "udt_name", "col_description"}).
			AddRow("id", "int4", nil).
			AddRow("code", "varchar", "Code for constants etc.").
			AddRow("created_at", "timestamptz", nil))

	adp := New(nil)
	adp.DB = db
	adp.Cfg = core.AdapterConfig{Schema: "app"}

	cols, err := adp.Columns(context.Background(), "lmodel")
	require.NoError(t, err)

	assert.Equal(t, []core.Column{
		{Name: "id", Type: "integer"},
		{Name: "code", Type: "varchar", Comment: "Code for constants etc."},
		{Name: "created_at", Type: "timestamp"},
	}, cols)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_TablesDefaultSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT table_name").
		WithArgs("public").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("lmodel"))

	adp := New(nil)
	adp.DB = db

	tables, err := adp.Tables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"lmodel"}, tables)
}

func TestAdapter_Registry(t *testing.T) {
	for _, name := range []string{"postgres", "pgsql"} {
		t.Run(name, func(t *testing.T) {
			factory, ok := adapter.Get(name)
			require.True(t, ok)

			pg, ok := factory(nil).(*Adapter)
			assert.True(t, ok, "factory should return *Adapter")
			assert.NotNil(t, pg)
		})
	}
}

func TestAdapter_Close(t *testing.T) {
	assert.NoError(t, New(nil).Close())
}
