package builder

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/leapstack-labs/lmodel/internal/config"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// separators are replaced by an underscore in constant names.
var separators = strings.NewReplacer(
	"-", "_", ".", "_", ",", "_", ";", "_", ":", "_", " ", "_", "?", "_",
	"'", "_", `"`, "_", "#", "_", "%", "_", "&", "_", "/", "_", `\`, "_",
	"(", "_", ")", "_",
)

var numeric = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

var quoted = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// ConstantsBuilder emits one block of class constants per constant
// definition of the table, read from the table's own rows.
type ConstantsBuilder struct{}

func (ConstantsBuilder) Build(ctx context.Context, c *Context) ([]string, error) {
	def, err := c.TableDefinition()
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, cd := range def.ConstantDefinitions() {
		block, err := buildConstants(ctx, c, cd)
		if err != nil {
			return nil, err
		}
		lines = append(lines, block...)
	}
	return lines, nil
}

func buildConstants(ctx context.Context, c *Context, cd *config.ConstantDefinition) ([]string, error) {
	if !cd.IsValid() {
		return nil, nil
	}

	rows, err := c.Database.Rows(ctx, c.Table, cd.NameColumn, cd.ValueColumn)
	if err != nil {
		return nil, fmt.Errorf("failed to read constants of %s: %w", c.Table, err)
	}

	quote := false
	for _, row := range rows {
		if !IsNumeric(row.Value) {
			quote = true
			break
		}
	}

	replacements := cd.Replacements()
	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, strings.TrimRight(c.Indent(1)+"// "+cd.Title, " "))
	for _, row := range rows {
		name := cd.Prefix + ConstantName(row.Name, replacements) + cd.Suffix
		lines = append(lines, c.Indent(1)+"public const "+name+" = "+ConstantValue(row.Value, quote)+";")
	}
	return append(lines, ""), nil
}

// ConstantName turns a row value into a constant identifier: upper-cased,
// separators replaced by underscores, replacements applied in order and
// remaining diacritics removed.
func ConstantName(name string, replacements []config.Replacement) string {
	name = separators.Replace(strings.ToUpper(name))
	for _, r := range replacements {
		name = strings.ReplaceAll(name, strings.ToUpper(r.From), strings.ToUpper(r.To))
	}
	return foldDiacritics(name)
}

func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// IsNumeric reports whether v can be emitted as a numeric literal.
func IsNumeric(v string) bool {
	return numeric.MatchString(strings.TrimSpace(v))
}

// ConstantValue renders v as a literal, single-quoted when quote is set.
func ConstantValue(v string, quote bool) string {
	if quote {
		return "'" + quoted.Replace(v) + "'"
	}
	return strings.TrimSpace(v)
}
