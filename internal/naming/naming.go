// Package naming converts table and type names into the identifiers used in
// generated model files.
package naming

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Studly converts a snake, kebab or space separated name into StudlyCase.
// Letters after the first of each word keep their case: "user_profiles"
// becomes "UserProfiles", "api_URL" becomes "ApiURL".
func Studly(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})

	caser := cases.Title(language.Und, cases.NoLower)

	var b strings.Builder
	for _, w := range words {
		b.WriteString(caser.String(w))
	}
	return b.String()
}

// ShortName strips the namespace from a fully qualified type name.
func ShortName(fqn string) string {
	fqn = strings.TrimRight(fqn, `\`)
	if i := strings.LastIndexByte(fqn, '\\'); i >= 0 {
		return fqn[i+1:]
	}
	return fqn
}

// JoinNamespace joins namespace segments with a backslash, dropping empty
// segments and stray separators.
func JoinNamespace(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Trim(p, `\`); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, `\`)
}
