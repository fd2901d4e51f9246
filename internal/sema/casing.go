package sema

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titleCaser and lowerCaser normalize just the leading rune's case; used to
// check that a declared identifier already matches the case convention
// spec.md §3 requires (UpperCamelCase for type names, lowerCamelCase for
// members) rather than to rewrite it.
var (
	titleCaser = cases.Title(language.Und, cases.NoLower)
	lowerCaser = cases.Lower(language.Und)
)

// isUpperCamel reports whether name starts with an upper-case letter, per
// spec.md's UpperCamelCase rule for type names. Underscore rejection is
// checked separately by hasUnderscore.
func isUpperCamel(name string) bool {
	if name == "" {
		return false
	}
	return titleCaser.String(name[:1]) == name[:1] && name[:1] != lowerCaser.String(name[:1])
}

// isLowerCamel reports whether name starts with a lower-case letter, per
// spec.md's lowerCamelCase rule for member names.
func isLowerCamel(name string) bool {
	if name == "" {
		return false
	}
	return lowerCaser.String(name[:1]) == name[:1] && name[:1] != titleCaser.String(name[:1])
}

func hasUnderscore(name string) bool {
	return strings.Contains(name, "_")
}

// upperFirst returns name with its leading rune upper-cased, used to build
// accessor names (hasX/getX/addX/isX) from a lowerCamelCase member name.
func upperFirst(name string) string {
	if name == "" {
		return name
	}
	return titleCaser.String(name[:1]) + name[1:]
}
