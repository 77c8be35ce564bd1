package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/lmodel/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCmd()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"make", "tables", "init", "version", "completion"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"config", "verbose", "output", "path", "namespace"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRootCmd_VersionWithoutConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := runRoot(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "lmodel v"+Version)
}

func TestRootCmd_Completion(t *testing.T) {
	out, _, err := runRoot(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "lmodel")

	_, _, err = runRoot(t, "completion", "tcsh")
	require.Error(t, err)
}

func TestRootCmd_MakeEndToEnd(t *testing.T) {
	dir := t.TempDir()
	dbPath := testutil.NewFixtureDB(t)
	config := "namespace: App\\Models\n" +
		"path: models\n" +
		"connections:\n" +
		"  main:\n" +
		"    driver: sqlite\n" +
		"    path: " + dbPath + "\n" +
		"ignored:\n" +
		"  main: [goose_db_version]\n"
	cfgPath := filepath.Join(dir, "lmodel.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(config), 0o600))

	t.Run("config flag", func(t *testing.T) {
		out, _, err := runRoot(t, "--config", cfgPath, "make", "default", "ltest")
		require.NoError(t, err)
		assert.Contains(t, out, "1 model(s) generated.")

		b, err := os.ReadFile(filepath.Join(dir, "models", "Main", "Ltest.php"))
		require.NoError(t, err)
		assert.Contains(t, string(b), "namespace App\\Models\\Main;")
	})

	t.Run("namespace flag overrides file", func(t *testing.T) {
		out, _, err := runRoot(t, "--config", cfgPath, "--namespace", `Other\Models`, "make", "main", "ltest", "--console")
		require.NoError(t, err)
		assert.Contains(t, out, "namespace Other\\Models\\Main;")
	})

	t.Run("verbose logs to stderr", func(t *testing.T) {
		_, errOut, err := runRoot(t, "--config", cfgPath, "-v", "make", "main", "all")
		require.NoError(t, err)
		assert.Contains(t, errOut, "using config file")
		assert.Contains(t, errOut, "table ignored")
	})

	t.Run("quiet by default", func(t *testing.T) {
		_, errOut, err := runRoot(t, "--config", cfgPath, "make", "main", "ltest")
		require.NoError(t, err)
		assert.False(t, strings.Contains(errOut, "level=DEBUG"), errOut)
	})
}

func TestRootCmd_ConfigError(t *testing.T) {
	_, _, err := runRoot(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "tables")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}
