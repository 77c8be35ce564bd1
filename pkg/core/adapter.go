// Package core holds the value types shared between the schema adapters and
// the model generator.
package core

// AdapterConfig holds configuration for connecting to a database.
type AdapterConfig struct {
	Type     string            `koanf:"driver"`
	Path     string            `koanf:"path"`
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	Database string            `koanf:"database"`
	Username string            `koanf:"username"`
	Password string            `koanf:"password"`
	Schema   string            `koanf:"schema"`
	Options  map[string]string `koanf:"options"`
}

// Column represents a column in a database table.
type Column struct {
	Name    string
	Type    string
	Comment string
}

// Row is a single name/value pair read from a table for constant generation.
type Row struct {
	Name  string
	Value string
}
