package config

import "strings"

// Default configuration values.
const (
	DefaultIndent          = "    "
	DefaultMaxLineLength   = 120
	DefaultExtends         = `Illuminate\Database\Eloquent\Model`
	DefaultMigrationsTable = "migrations"
	DefaultConfigFile      = "lmodel.yaml"

	// Conventional timestamp column names.
	CreatedAt = "created_at"
	UpdatedAt = "updated_at"
)

// Configuration keys.
const (
	KeyDeclareStrict            = "declareStrict"
	KeyPath                     = "path"
	KeyNamespace                = "namespace"
	KeyAddConnectionToNamespace = "addConnectionToNamespace"
	KeyAddDatabaseConnection    = "addDatabaseConnection"
	KeyAddDatabaseTable         = "addDatabaseTable"
	KeyExtends                  = "extends"
	KeyIndent                   = "indent"
	KeyMaxLineLength            = "maxLineLength"
	KeyDoctrine                 = "doctrine"
	KeyPhpDoc                   = "phpdoc"
	KeyBuilders                 = "builders"
	KeyIgnored                  = "ignored"
	KeyPackages                 = "packages"
	KeyTables                   = "tables"
	KeyConnections              = "connections"
	KeyDefaultConnection        = "defaultConnection"
	KeyMigrationsTable          = "migrationsTable"
)

// RequiredKeys must be present after defaults are applied.
var RequiredKeys = []string{
	KeyDeclareStrict,
	KeyPath,
	KeyNamespace,
	KeyAddConnectionToNamespace,
	KeyAddDatabaseConnection,
	KeyAddDatabaseTable,
	KeyExtends,
}

// DefaultPhpDocMappings maps storage types to documented property types.
var DefaultPhpDocMappings = map[string]string{
	"varchar":   "string",
	"longblob":  "string",
	"longtext":  "string",
	"datetime":  "string",
	"date":      "string",
	"text":      "string",
	"integer":   "int",
	"tinyint":   "int",
	"bigint":    "int",
	"smallint":  "int",
	"timestamp": "int",
}

// DefaultTypeMappings are registered on every database before user mappings.
var DefaultTypeMappings = map[string]string{
	"enum": "string",
}

// Defaults returns the default values loaded beneath every configuration.
// path and namespace have no default and must be configured.
func Defaults() map[string]any {
	return map[string]any{
		KeyDeclareStrict:            true,
		KeyAddConnectionToNamespace: true,
		KeyAddDatabaseConnection:    true,
		KeyAddDatabaseTable:         true,
		KeyExtends:                  DefaultExtends,
		KeyMaxLineLength:            DefaultMaxLineLength,
		KeyMigrationsTable:          DefaultMigrationsTable,
	}
}

// keyNames maps lower-cased top level keys back to their canonical form.
// Environment variables cannot carry camelCase.
var keyNames = func() map[string]string {
	m := make(map[string]string)
	for _, k := range []string{
		KeyDeclareStrict, KeyPath, KeyNamespace, KeyAddConnectionToNamespace,
		KeyAddDatabaseConnection, KeyAddDatabaseTable, KeyExtends, KeyIndent,
		KeyMaxLineLength, KeyDoctrine, KeyPhpDoc, KeyBuilders, KeyIgnored,
		KeyPackages, KeyTables, KeyConnections, KeyDefaultConnection, KeyMigrationsTable,
	} {
		m[strings.ToLower(k)] = k
	}
	return m
}()

// CanonicalKey restores the canonical spelling of a top level key.
// Unknown keys are returned unchanged.
func CanonicalKey(key string) string {
	if k, ok := keyNames[strings.ToLower(key)]; ok {
		return k
	}
	return key
}
