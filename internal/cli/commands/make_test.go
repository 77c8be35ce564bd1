package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeCommand_Writes(t *testing.T) {
	cfg, dir := newTestConfig(t)

	out, err := execute(t, cfg, NewMakeCommand(), "main", "lmodel,status")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# Create/update model(s) from existing schema\n\n"), out)
	assert.Contains(t, out, `Model [App\Models\Main\Lmodel] generated.`)
	assert.Contains(t, out, `Model [App\Models\Main\Status] generated.`)
	assert.True(t, strings.HasSuffix(out, "\n2 model(s) generated.\n"), out)

	for _, name := range []string{"Lmodel.php", "Status.php"} {
		b, err := os.ReadFile(filepath.Join(dir, "Main", name))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(b), "<?php\n\ndeclare(strict_types=1);\n"))
	}
}

func TestMakeCommand_Alias(t *testing.T) {
	cfg, dir := newTestConfig(t)

	_, err := executeAs(t, cfg, NewMakeCommand(), "make:models", "default", "ltest")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "Main", "Ltest.php"))
	require.NoError(t, err)
}

func TestMakeCommand_Destination(t *testing.T) {
	cfg, dir := newTestConfig(t)

	out, err := execute(t, cfg, NewMakeCommand(), "main", "lmodel", "--destination")
	require.NoError(t, err)

	want := `- **Destination:** App\Models\Main\Lmodel -> ` + filepath.Join(dir, "Main", "Lmodel.php") + "\n"
	assert.Equal(t, want, out, "previews print neither title nor summary")

	_, err = os.Stat(filepath.Join(dir, "Main"))
	assert.True(t, os.IsNotExist(err), "previews write nothing")
}

func TestMakeCommand_Console(t *testing.T) {
	cfg, _ := newTestConfig(t)

	out, err := execute(t, cfg, NewMakeCommand(), "main", "ltest", "--console")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<?php\n"), out)
	assert.Contains(t, out, "class Ltest extends Model\n{\n")
}

func TestMakeCommand_JSON(t *testing.T) {
	type result struct {
		Warnings []string `json:"warnings"`
		Models   []struct {
			Class   string `json:"class"`
			File    string `json:"file"`
			Content string `json:"content"`
			Written bool   `json:"written"`
		} `json:"models"`
		Generated int `json:"generated"`
	}

	t.Run("write", func(t *testing.T) {
		cfg, dir := newTestConfig(t)

		out, err := execute(t, cfg, NewMakeCommand(), "main", "all", "-o", "json")
		require.NoError(t, err)

		var got result
		require.NoError(t, json.Unmarshal([]byte(out), &got), out)
		assert.Equal(t, 3, got.Generated)
		assert.Equal(t, []string{"Table goose_db_version ignored."}, got.Warnings)
		require.Len(t, got.Models, 3)
		assert.Equal(t, `App\Models\Main\Lmodel`, got.Models[0].Class)
		assert.Equal(t, filepath.Join(dir, "Main", "Lmodel.php"), got.Models[0].File)
		assert.True(t, got.Models[0].Written)
		assert.Empty(t, got.Models[0].Content)
	})

	t.Run("preview", func(t *testing.T) {
		cfg, _ := newTestConfig(t)

		out, err := execute(t, cfg, NewMakeCommand(), "main", "lmodel", "--destination", "--console", "--output", "json")
		require.NoError(t, err)

		var got result
		require.NoError(t, json.Unmarshal([]byte(out), &got), out)
		assert.Zero(t, got.Generated)
		require.Len(t, got.Models, 1)
		assert.False(t, got.Models[0].Written)
		assert.NotEmpty(t, got.Models[0].File)
		assert.True(t, strings.HasPrefix(got.Models[0].Content, "<?php"))
	})
}

func TestMakeCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing tables argument", []string{"main"}, "accepts 2 arg(s)"},
		{"unknown connection", []string{"nope", "all"}, "Connection nope not found. Available connections: main."},
		{"unknown table", []string{"main", "lmodel,nope"}, "Table nope not found."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, _ := newTestConfig(t)

			_, err := execute(t, cfg, NewMakeCommand(), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
