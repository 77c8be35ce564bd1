// Package config loads the lmodel configuration for the CLI.
//
// Settings are layered with koanf, lowest to highest priority: built-in
// defaults, the YAML config file, LMODEL_* environment variables and
// explicitly set command line flags. The merged result is wrapped in an
// immutable internal/config.Config.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	intconfig "github.com/leapstack-labs/lmodel/internal/config"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// EnvPrefix prefixes every environment variable read by the loader.
// Nested keys are separated by a double underscore, so
// LMODEL_CONNECTIONS__MAIN__PASSWORD sets connections.main.password.
const EnvPrefix = "LMODEL_"

// FileNames are the config file names searched for, in order.
var FileNames = []string{intconfig.DefaultConfigFile, "lmodel.yml"}

// flagKeys maps command line flags to the configuration keys they override.
var flagKeys = map[string]string{
	"path":      intconfig.KeyPath,
	"namespace": intconfig.KeyNamespace,
}

// connectionEnvFields are the connection settings that may reference
// environment variables as ${VAR}.
var connectionEnvFields = []string{"host", "username", "password", "database", "path", "schema"}

var configFileUsed string

// configExistsIn returns the config file in dir, if any.
func configExistsIn(dir string) string {
	for _, name := range FileNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// findConfigUpward searches upward from startDir for a config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findConfigUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if found := configExistsIn(dir); found != "" {
			return found
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// findConfigFile finds the config file to use.
// Priority: explicit path > lmodel.yaml > lmodel.yml, searched upward from CWD.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findConfigUpward(cwd)
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
//
// Relative paths in the config file are resolved against the directory of
// the file; relative paths given as flags are resolved against the working
// directory.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*intconfig.Config, error) {
	k := koanf.New(".")
	configFileUsed = ""

	// 1. Load defaults
	if err := k.Load(confmap.Provider(intconfig.Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	projectRoot, _ := os.Getwd()
	if found := findConfigFile(cfgFile); found != "" {
		if err := k.Load(file.Provider(found), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", found, err)
		}
		configFileUsed = found
		if abs, err := filepath.Abs(found); err == nil {
			projectRoot = filepath.Dir(abs)
		}
	}

	// 3. Load environment variables (LMODEL_ prefix)
	// Transform: LMODEL_MAXLINELENGTH -> maxLineLength, LMODEL_A__B -> a.b
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// Config file and env paths are anchored at the project root.
	if err := resolvePaths(k, projectRoot); err != nil {
		return nil, err
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			val := posflag.FlagVal(flags, f)
			if key == intconfig.KeyPath {
				if abs, err := filepath.Abs(f.Value.String()); err == nil {
					val = abs
				}
			}
			return key, val
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Expand environment variables in connection credentials
	if err := expandConnectionEnvVars(k); err != nil {
		return nil, err
	}

	return intconfig.New(k), nil
}

// envKey maps an environment variable name to a configuration key.
func envKey(s string) string {
	parts := strings.Split(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__")
	parts[0] = intconfig.CanonicalKey(parts[0])
	return strings.Join(parts, ".")
}

// resolvePaths anchors the model path and file based connection paths at root.
func resolvePaths(k *koanf.Koanf, root string) error {
	keys := []string{intconfig.KeyPath}
	for _, name := range k.MapKeys(intconfig.KeyConnections) {
		keys = append(keys, intconfig.KeyConnections+"."+name+".path")
	}

	for _, key := range keys {
		p := k.String(key)
		if !isRelativePath(p) {
			continue
		}
		if err := k.Set(key, filepath.Join(root, p)); err != nil {
			return fmt.Errorf("failed to resolve %s: %w", key, err)
		}
	}
	return nil
}

// isRelativePath reports whether p is a relative filesystem path. DSN style
// values such as ":memory:" or "file:x.db?mode=ro" are left alone.
func isRelativePath(p string) bool {
	if p == "" || filepath.IsAbs(p) || strings.Contains(p, "${") {
		return false
	}
	return !strings.Contains(p, ":")
}

func expandConnectionEnvVars(k *koanf.Koanf) error {
	for _, name := range k.MapKeys(intconfig.KeyConnections) {
		for _, field := range connectionEnvFields {
			key := intconfig.KeyConnections + "." + name + "." + field
			raw, ok := k.Get(key).(string)
			if !ok {
				continue
			}
			if expanded := expandEnvVars(raw); expanded != raw {
				if err := k.Set(key, expanded); err != nil {
					return fmt.Errorf("failed to expand %s: %w", key, err)
				}
			}
		}
	}
	return nil
}

// configKey is used to store the loaded config in context.
type configKey struct{}

// WithConfig returns a copy of ctx carrying cfg.
func WithConfig(ctx context.Context, cfg *intconfig.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// GetConfig retrieves the config stored by WithConfig, or nil.
func GetConfig(ctx context.Context) *intconfig.Config {
	if c, ok := ctx.Value(configKey{}).(*intconfig.Config); ok {
		return c
	}
	return nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR}
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if not found
	})
}
