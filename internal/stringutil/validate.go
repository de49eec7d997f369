// Package stringutil provides identifier checks for CSDL names.
package stringutil

import "regexp"

// maxIdentifierLength is the CSDL limit for a simple identifier.
const maxIdentifierLength = 128

var (
	simpleIdentifierRegex = regexp.MustCompile(`^[\p{L}\p{Nl}_][\p{L}\p{Nl}\p{Nd}\p{Mn}\p{Mc}\p{Pc}\p{Cf}]*$`)
	namespaceRegex        = regexp.MustCompile(`^[\p{L}\p{Nl}_][\p{L}\p{Nl}\p{Nd}\p{Mn}\p{Mc}\p{Pc}\p{Cf}]*(\.[\p{L}\p{Nl}_][\p{L}\p{Nl}\p{Nd}\p{Mn}\p{Mc}\p{Pc}\p{Cf}]*)*$`)
)

// IsSimpleIdentifier reports whether s is a valid CSDL simple identifier:
// a letter or underscore followed by letters, digits or connectors, at most
// 128 characters.
func IsSimpleIdentifier(s string) bool {
	return len([]rune(s)) <= maxIdentifierLength && simpleIdentifierRegex.MatchString(s)
}

// IsNamespace reports whether s is a dot-separated sequence of simple
// identifiers. The whole namespace may be at most 511 characters.
func IsNamespace(s string) bool {
	if len([]rune(s)) > 511 || !namespaceRegex.MatchString(s) {
		return false
	}
	start := 0
	for i, r := range s + "." {
		if r == '.' {
			if len([]rune(s[start:i])) > maxIdentifierLength {
				return false
			}
			start = i + 1
		}
	}
	return true
}
