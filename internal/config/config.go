// Package config holds the resolved, immutable settings of one generation run.
//
// A Config wraps a koanf instance assembled by the CLI loader (or by FromMap
// in tests). It is never mutated after construction and is passed explicitly
// to every component that needs it.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"github.com/leapstack-labs/lmodel/internal/naming"
	"github.com/leapstack-labs/lmodel/pkg/core"
)

// Config is a read-only view over the generation settings.
type Config struct {
	k *koanf.Koanf
}

// New wraps a copy of k so later changes to k do not leak into the Config.
func New(k *koanf.Koanf) *Config {
	return &Config{k: k.Copy()}
}

// FromMap builds a Config from defaults overlaid with values.
// Keys may be nested maps or dotted paths.
func FromMap(values map[string]any) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load values: %w", err)
	}
	return &Config{k: k}, nil
}

// Validate checks that every required key is present and that the
// string settings which drive output are not blank.
func (c *Config) Validate() error {
	for _, key := range RequiredKeys {
		if !c.k.Exists(key) {
			return &ConfigError{Key: key, Message: "not set."}
		}
	}

	for _, key := range []string{KeyPath, KeyNamespace, KeyExtends} {
		if strings.TrimSpace(c.k.String(key)) == "" {
			return &ConfigError{Key: key, Message: "not set."}
		}
	}

	if c.k.Exists(KeyMaxLineLength) && c.k.Int(KeyMaxLineLength) <= 0 {
		return &ConfigError{Key: KeyMaxLineLength, Message: "must be a positive integer."}
	}

	return nil
}

// DeclareStrict reports whether generated files start with a strict types pragma.
func (c *Config) DeclareStrict() bool {
	return c.k.Bool(KeyDeclareStrict)
}

// Path is the directory models are written to.
func (c *Config) Path() string {
	return c.k.String(KeyPath)
}

// Namespace is the configured model namespace without surrounding separators.
func (c *Config) Namespace() string {
	return strings.Trim(c.k.String(KeyNamespace), `\`)
}

// AddConnectionToNamespace reports whether the connection name becomes a
// namespace and directory segment.
func (c *Config) AddConnectionToNamespace() bool {
	return c.k.Bool(KeyAddConnectionToNamespace)
}

// AddDatabaseConnection reports whether models declare their connection.
func (c *Config) AddDatabaseConnection() bool {
	return c.k.Bool(KeyAddDatabaseConnection)
}

// AddDatabaseTable reports whether models declare their table.
func (c *Config) AddDatabaseTable() bool {
	return c.k.Bool(KeyAddDatabaseTable)
}

// Extends is the fully qualified base class of generated models.
func (c *Config) Extends() string {
	return strings.TrimLeft(c.k.String(KeyExtends), `\`)
}

// Indent is the indentation unit. A null or empty setting means four spaces.
func (c *Config) Indent() string {
	if s := c.k.String(KeyIndent); s != "" {
		return s
	}
	return DefaultIndent
}

// MaxLineLength is the longest single line attribute array that is kept on
// one line.
func (c *Config) MaxLineLength() int {
	if n := c.k.Int(KeyMaxLineLength); n > 0 {
		return n
	}
	return DefaultMaxLineLength
}

// TypeMappings are the configured storage type overrides, applied to
// column types as they are read.
func (c *Config) TypeMappings() map[string]string {
	return c.stringMap(KeyDoctrine)
}

// PhpDocMappings are the built-in property type mappings merged with
// configured ones. Configured entries win.
func (c *Config) PhpDocMappings() map[string]string {
	out := make(map[string]string, len(DefaultPhpDocMappings))
	for k, v := range DefaultPhpDocMappings {
		out[k] = v
	}
	for k, v := range c.stringMap(KeyPhpDoc) {
		out[strings.ToLower(k)] = v
	}
	return out
}

// BuilderOverrides maps a builder kind to the registered builder replacing it.
func (c *Config) BuilderOverrides() map[string]string {
	return c.stringMap(KeyBuilders)
}

// IgnoredTables lists the tables of connection that are never generated.
func (c *Config) IgnoredTables(connection string) []string {
	return c.k.Strings(KeyIgnored + "." + connection)
}

// IsIgnored reports whether table is on the ignore list of connection.
func (c *Config) IsIgnored(connection, table string) bool {
	for _, t := range c.IgnoredTables(connection) {
		if t == table {
			return true
		}
	}
	return false
}

// MigrationsTable is the migration bookkeeping table that is never generated.
func (c *Config) MigrationsTable() string {
	if s := c.k.String(KeyMigrationsTable); s != "" {
		return s
	}
	return DefaultMigrationsTable
}

// Connections returns the configured connection names, sorted.
func (c *Config) Connections() []string {
	names := c.k.MapKeys(KeyConnections)
	sort.Strings(names)
	return names
}

// DefaultConnection is the connection selected by the "default" sentinel.
// Without an explicit setting a single configured connection is the default.
func (c *Config) DefaultConnection() string {
	if s := c.k.String(KeyDefaultConnection); s != "" {
		return s
	}
	if names := c.Connections(); len(names) == 1 {
		return names[0]
	}
	return ""
}

// Connection returns the adapter settings of a named connection.
func (c *Config) Connection(name string) (core.AdapterConfig, error) {
	var cfg core.AdapterConfig
	key := KeyConnections + "." + name
	if !c.k.Exists(key) {
		return cfg, NewConfigError("Connection %s not found. Available connections: %s.", name, strings.Join(c.Connections(), ", "))
	}
	if err := c.k.Unmarshal(key, &cfg); err != nil {
		return cfg, &ConfigError{Key: key, Message: err.Error()}
	}
	if cfg.Type == "" {
		return cfg, &ConfigError{Key: key + ".driver", Message: "not set."}
	}
	return cfg, nil
}

// ModelNamespace is the default namespace of models generated for connection.
func (c *Config) ModelNamespace(connection string) string {
	if c.AddConnectionToNamespace() {
		return naming.JoinNamespace(c.Namespace(), naming.Studly(connection))
	}
	return c.Namespace()
}

// ModelDirectory is the default directory of models generated for connection.
func (c *Config) ModelDirectory(connection string) string {
	dir := strings.TrimRight(c.Path(), "/")
	if c.AddConnectionToNamespace() {
		dir += "/" + naming.Studly(connection)
	}
	return dir
}

// TableDefinition returns the per-table settings of table on connection.
// A table without settings yields an empty, invalid definition.
func (c *Config) TableDefinition(connection, table string) (*TableDefinition, error) {
	raw, _ := c.k.Get(KeyTables + "." + connection + "." + table).(map[string]any)
	def, err := NewTableDefinition(raw)
	if err != nil {
		return nil, &ConfigError{Key: KeyTables + "." + connection + "." + table, Message: err.Error()}
	}
	return def, nil
}

// PackageDefinitions loads every configured package, sorted by id.
func (c *Config) PackageDefinitions() (*PackageDefinitions, error) {
	ids := c.k.MapKeys(KeyPackages)
	sort.Strings(ids)

	defs := make([]*PackageDefinition, 0, len(ids))
	for _, id := range ids {
		var raw packageData
		if err := c.k.Unmarshal(KeyPackages+"."+id, &raw); err != nil {
			return nil, &ConfigError{Key: KeyPackages + "." + id, Message: err.Error()}
		}
		def, err := NewPackageDefinition(id, raw.Package, raw.Relative, raw.Patterns)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return &PackageDefinitions{defs: defs}, nil
}

// All returns a copy of the flattened settings, for diagnostics.
func (c *Config) All() map[string]any {
	return c.k.All()
}

func (c *Config) stringMap(key string) map[string]string {
	out := c.k.StringMap(key)
	if out == nil {
		out = map[string]string{}
	}
	return out
}
