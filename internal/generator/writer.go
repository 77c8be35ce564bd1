package generator

import (
	"os"
	"path/filepath"
)

// Writer persists generated model content.
type Writer interface {
	Write(filename, content string) error
}

// FileWriter writes models to the local filesystem, creating parent
// directories as needed.
type FileWriter struct{}

// Write replaces filename with content.
func (FileWriter) Write(filename, content string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return &WriteError{Filename: filename, Err: err}
	}
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		return &WriteError{Filename: filename, Err: err}
	}
	return nil
}
