package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
path: app/Models
namespace: App\Models
addConnectionToNamespace: false
maxLineLength: 80
connections:
  main:
    driver: sqlite
    path: database/app.sqlite
  remote:
    driver: postgres
    host: ${LMODEL_TEST_HOST}
    username: app
    password: ${LMODEL_TEST_PASSWORD}
    database: app
ignored:
  main: [sessions]
`

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("path", "", "")
	flags.String("namespace", "", "")
	flags.BoolP("verbose", "v", false, "")
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "lmodel.yaml", sampleConfig)

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, cfgPath, GetConfigFileUsed())
	assert.Equal(t, filepath.Join(dir, "app/Models"), cfg.Path())
	assert.Equal(t, `App\Models`, cfg.Namespace())
	assert.False(t, cfg.AddConnectionToNamespace())
	assert.Equal(t, 80, cfg.MaxLineLength())
	assert.True(t, cfg.DeclareStrict(), "defaults survive")
	assert.Equal(t, []string{"main", "remote"}, cfg.Connections())
	assert.True(t, cfg.IsIgnored("main", "sessions"))

	main, err := cfg.Connection("main")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", main.Type)
	assert.Equal(t, filepath.Join(dir, "database/app.sqlite"), main.Path)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_SearchesUpward(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "lmodel.yml", "path: models\nnamespace: App\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "lmodel.yml", filepath.Base(GetConfigFileUsed()))
	assert.Equal(t, "App", cfg.Namespace())
	assert.Equal(t, "models", filepath.Base(cfg.Path()))
}

func TestLoadConfig_NoFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Empty(t, GetConfigFileUsed())
	assert.Empty(t, cfg.Path())
	assert.Error(t, cfg.Validate())
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "lmodel.yaml", sampleConfig)
	t.Setenv("LMODEL_NAMESPACE", `Env\Models`)
	t.Setenv("LMODEL_MAXLINELENGTH", "100")
	t.Setenv("LMODEL_CONNECTIONS__MAIN__DRIVER", "duckdb")

	t.Run("env over file", func(t *testing.T) {
		cfg, err := LoadConfig(cfgPath, newFlags(t))
		require.NoError(t, err)
		assert.Equal(t, `Env\Models`, cfg.Namespace())
		assert.Equal(t, 100, cfg.MaxLineLength())

		main, err := cfg.Connection("main")
		require.NoError(t, err)
		assert.Equal(t, "duckdb", main.Type)
	})

	t.Run("flags over env", func(t *testing.T) {
		cwd, err := os.Getwd()
		require.NoError(t, err)

		cfg, err := LoadConfig(cfgPath, newFlags(t, "--namespace", `Flag\Models`, "--path", "out"))
		require.NoError(t, err)
		assert.Equal(t, `Flag\Models`, cfg.Namespace())
		assert.Equal(t, filepath.Join(cwd, "out"), cfg.Path(), "flag paths are relative to the working directory")
	})

	t.Run("unchanged flags are ignored", func(t *testing.T) {
		cfg, err := LoadConfig(cfgPath, newFlags(t, "-v"))
		require.NoError(t, err)
		assert.Equal(t, `Env\Models`, cfg.Namespace())
		assert.Equal(t, filepath.Join(dir, "app/Models"), cfg.Path())
	})
}

func TestLoadConfig_ExpandsConnectionEnvVars(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), "lmodel.yaml", sampleConfig)
	t.Setenv("LMODEL_TEST_HOST", "db.internal")
	t.Setenv("LMODEL_TEST_PASSWORD", "s3cret")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	remote, err := cfg.Connection("remote")
	require.NoError(t, err)
	assert.Equal(t, "db.internal", remote.Host)
	assert.Equal(t, "s3cret", remote.Password)
	assert.Equal(t, "app", remote.Username)
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"LMODEL_PATH", "path"},
		{"LMODEL_DECLARESTRICT", "declareStrict"},
		{"LMODEL_ADDCONNECTIONTONAMESPACE", "addConnectionToNamespace"},
		{"LMODEL_CONNECTIONS__MAIN__PASSWORD", "connections.main.password"},
		{"LMODEL_TABLES__MAIN__USERS__DATE_FORMAT", "tables.main.users.date_format"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, envKey(tt.in))
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("LMODEL_TEST_USER", "admin")

	assert.Equal(t, "admin@host", expandEnvVars("${LMODEL_TEST_USER}@host"))
	assert.Equal(t, "${LMODEL_TEST_UNSET}", expandEnvVars("${LMODEL_TEST_UNSET}"))
	assert.Equal(t, "plain", expandEnvVars("plain"))
}

func TestIsRelativePath(t *testing.T) {
	assert.True(t, isRelativePath("database/app.sqlite"))
	assert.False(t, isRelativePath(""))
	assert.False(t, isRelativePath("/var/db.sqlite"))
	assert.False(t, isRelativePath(":memory:"))
	assert.False(t, isRelativePath("file:app.db?mode=ro"))
	assert.False(t, isRelativePath("${DB_PATH}"))
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := slog.New(slog.DiscardHandler)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

func TestGetConfig(t *testing.T) {
	assert.Nil(t, GetConfig(context.Background()))

	cfg, err := LoadConfig(writeConfig(t, t.TempDir(), "lmodel.yaml", sampleConfig), nil)
	require.NoError(t, err)
	assert.Same(t, cfg, GetConfig(WithConfig(context.Background(), cfg)))
}
