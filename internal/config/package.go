package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/leapstack-labs/lmodel/internal/naming"
)

// packageData mirrors the YAML shape of packages.{id}.
type packageData struct {
	Package  string   `koanf:"package"`
	Relative string   `koanf:"relative"`
	Patterns []string `koanf:"patterns"`
}

// PackageDefinition routes matching tables into an external code package.
type PackageDefinition struct {
	ID       string
	Root     string
	Relative string
	Patterns []*regexp.Regexp

	namespace string
}

// NewPackageDefinition validates the package directory, reads the first
// autoload.psr-4 entry of its composer.json and compiles the patterns.
func NewPackageDefinition(id, root, relative string, patterns []string) (*PackageDefinition, error) {
	key := KeyPackages + "." + id
	if root == "" {
		return nil, &ConfigError{Key: key + ".package", Message: "Package absolute path is not specified."}
	}
	if relative == "" {
		return nil, &ConfigError{Key: key + ".relative", Message: "Package relative path is not specified."}
	}

	root = strings.TrimRight(root, "/")
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, &ConfigError{Key: key + ".package", Message: fmt.Sprintf("Path %q does not exist.", root)}
	}

	composer := filepath.Join(root, "composer.json")
	prefix, dir, err := readPSR4(composer)
	if err != nil {
		return nil, &ConfigError{Key: key, Message: err.Error()}
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, &ConfigError{Key: key + ".patterns", Message: fmt.Sprintf("invalid pattern %q: %v", p, err)}
		}
		compiled = append(compiled, re)
	}

	relative = strings.Trim(relative, "/")
	sub := strings.Trim(strings.TrimPrefix(relative, strings.Trim(dir, "/")), "/")

	return &PackageDefinition{
		ID:        id,
		Root:      root,
		Relative:  relative,
		Patterns:  compiled,
		namespace: naming.JoinNamespace(prefix, strings.ReplaceAll(sub, "/", `\`)),
	}, nil
}

// readPSR4 returns the first namespace prefix and directory listed under
// autoload.psr-4. Object order matters, so the document is streamed.
func readPSR4(path string) (prefix, dir string, err error) {
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", "", fmt.Errorf("composer.json not found in %q", filepath.Dir(path))
		}
		return "", "", err
	}
	defer func() { _ = f.Close() }()

	var doc struct {
		Autoload struct {
			PSR4 json.RawMessage `json:"psr-4"`
		} `json:"autoload"`
	}
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return "", "", fmt.Errorf("could not parse %s: %w", path, err)
	}
	if len(doc.Autoload.PSR4) == 0 {
		return "", "", fmt.Errorf("could not find autoload.psr-4 in %s", path)
	}

	dec := json.NewDecoder(bytes.NewReader(doc.Autoload.PSR4))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return "", "", fmt.Errorf("autoload.psr-4 in %s is not an object", path)
	}
	if !dec.More() {
		return "", "", fmt.Errorf("autoload.psr-4 in %s is empty", path)
	}

	tok, err := dec.Token()
	if err != nil {
		return "", "", fmt.Errorf("could not read autoload.psr-4 in %s: %w", path, err)
	}
	prefix, _ = tok.(string)

	// The directory may be a string or a list of strings.
	var value any
	if err := dec.Decode(&value); err != nil {
		return "", "", fmt.Errorf("could not read autoload.psr-4 in %s: %w", path, err)
	}
	switch v := value.(type) {
	case string:
		dir = v
	case []any:
		if len(v) > 0 {
			dir, _ = v[0].(string)
		}
	}

	return prefix, dir, nil
}

// Matches reports whether any pattern matches table.
func (p *PackageDefinition) Matches(table string) bool {
	for _, re := range p.Patterns {
		if re.MatchString(table) {
			return true
		}
	}
	return false
}

// Namespace is the namespace of models generated into the package.
func (p *PackageDefinition) Namespace() string {
	return p.namespace
}

// Directory is the absolute directory models are generated into.
func (p *PackageDefinition) Directory() string {
	return filepath.Join(p.Root, p.Relative)
}

// Filename is the model file of table inside the package.
func (p *PackageDefinition) Filename(table string) string {
	return filepath.Join(p.Directory(), naming.Studly(table)+".php")
}

// PackageDefinitions is the ordered set of configured packages.
type PackageDefinitions struct {
	defs []*PackageDefinition
}

// Match returns the first package whose patterns match table, or nil.
func (d *PackageDefinitions) Match(table string) *PackageDefinition {
	if d == nil {
		return nil
	}
	for _, def := range d.defs {
		if def.Matches(table) {
			return def
		}
	}
	return nil
}

// All returns the packages in evaluation order.
func (d *PackageDefinitions) All() []*PackageDefinition {
	if d == nil {
		return nil
	}
	return d.defs
}
