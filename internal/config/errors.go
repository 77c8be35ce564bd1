package config

import (
	"errors"
	"fmt"
)

// ErrConfig is matched by every ConfigError.
var ErrConfig = errors.New("configuration error")

// ConfigError reports a missing or invalid setting, or a connection, table
// or package name that cannot be resolved.
type ConfigError struct {
	// Key is the offending configuration key, if any.
	Key     string
	Message string
}

// Error returns the error string.
func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("[%s] %s", e.Key, e.Message)
	}
	return e.Message
}

// Is reports whether the target error matches ConfigError.
// This allows errors.Is(err, ErrConfig) to return true.
func (e *ConfigError) Is(err error) bool {
	return err == ErrConfig
}

// NewConfigError returns a ConfigError with a formatted message.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}
