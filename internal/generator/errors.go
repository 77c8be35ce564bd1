package generator

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is.
var (
	ErrBuilder = errors.New("builder error")
	ErrWrite   = errors.New("write error")
)

// BuilderError reports a model that cannot be built, such as a table
// missing from the schema.
type BuilderError struct {
	Message string
}

func (e *BuilderError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrBuilder) match any BuilderError.
func (e *BuilderError) Is(target error) bool {
	return target == ErrBuilder
}

// WriteError reports a model file that could not be written.
type WriteError struct {
	Filename string
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("Could not write file \"%s\": %v", e.Filename, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrWrite) match any WriteError.
func (e *WriteError) Is(target error) bool {
	return target == ErrWrite
}
