// Package parser recovers the facts a regeneration needs from a previously
// generated model file: namespace, class, imports, traits and the
// hand-written region after the preservation marker.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// PreservedMarker opens the region of a model file that is carried over
// verbatim on every regeneration.
const PreservedMarker = "/* ---- Everything after this line will be preserved. ---- */"

// blockEnd is the line closing the class body.
const blockEnd = "}"

const (
	namespaceKeyword = "namespace "
	classKeyword     = "class "
	useKeyword       = "use "
)

// maxLineSize bounds a single line of a model file.
const maxLineSize = 1024 * 1024

// ErrParse is the sentinel matched by every ParseError.
var ErrParse = errors.New("parse error")

// ParseError reports a file that exists but is not a recognizable model.
type ParseError struct {
	File    string
	Message string
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

// Is makes errors.Is(err, ErrParse) match any ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// File holds what was recovered from an existing model file.
// The zero value describes a file that does not exist yet.
type File struct {
	Namespace string
	Class     string
	Uses      []string
	Traits    []string
	Preserved []string
}

// ClassName is the fully qualified class name, or "" for an empty File.
func (f *File) ClassName() string {
	if f.Class == "" {
		return ""
	}
	if f.Namespace == "" {
		return f.Class
	}
	return f.Namespace + `\` + f.Class
}

// Exists reports whether the File was read from a model on disk.
func (f *File) Exists() bool {
	return f.Class != ""
}

// Parse reads filename. A missing or empty file yields an empty File.
func Parse(filename string) (*File, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseContent(filename, string(content))
}

// ParseContent parses the content of a model file. filename is only used
// in error messages.
func ParseContent(filename, content string) (*File, error) {
	f := &File{}
	if strings.TrimSpace(content) == "" {
		return f, nil
	}

	lines, err := splitLines(content)
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", filename, err)
	}

	classLine := -1
	for i, line := range lines {
		switch {
		case f.Namespace == "" && strings.HasPrefix(line, namespaceKeyword):
			f.Namespace = statement(line, namespaceKeyword)
		case classLine < 0 && strings.HasPrefix(line, classKeyword):
			f.Class = className(line)
			classLine = i
		case strings.HasPrefix(line, useKeyword):
			f.Uses = appendUnique(f.Uses, statement(line, useKeyword))
		}
	}

	if f.Namespace == "" {
		return nil, &ParseError{File: filename, Message: "no namespace"}
	}
	if f.Class == "" {
		return nil, &ParseError{File: filename, Message: "no class"}
	}

	f.Traits = scanTraits(lines[classLine+1:])
	f.Preserved = scanPreserved(lines)
	return f, nil
}

func splitLines(content string) ([]string, error) {
	content = strings.ReplaceAll(content, "\r", "")

	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// statement returns the text between keyword and the terminating semicolon.
func statement(line, keyword string) string {
	s := strings.TrimPrefix(line, keyword)
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func className(line string) string {
	s := strings.TrimPrefix(line, classKeyword)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// scanTraits collects the indented use statements of the class body that
// precede the preservation marker. A statement may list several traits.
func scanTraits(body []string) []string {
	var traits []string
	for _, line := range body {
		if strings.Contains(line, PreservedMarker) || line == blockEnd {
			break
		}
		if line == "" || (line[0] != ' ' && line[0] != '\t') {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, useKeyword) || !strings.HasSuffix(trimmed, ";") {
			continue
		}
		for _, name := range strings.Split(statement(trimmed, useKeyword), ",") {
			if name = strings.TrimSpace(name); name != "" {
				traits = appendUnique(traits, name)
			}
		}
	}
	return traits
}

// scanPreserved returns every line strictly between the marker line and the
// line closing the class body.
func scanPreserved(lines []string) []string {
	var preserved []string
	inside := false
	for _, line := range lines {
		if line == blockEnd {
			inside = false
		}
		if inside {
			preserved = append(preserved, line)
		}
		if strings.Contains(line, PreservedMarker) {
			inside = true
		}
	}
	return preserved
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
