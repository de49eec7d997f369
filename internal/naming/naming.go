package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || r == '/' || r == ' '
}

// ToPascalCase converts a string to PascalCase.
// Separators (underscore, hyphen, dot, slash, space) trigger capitalization
// of the next letter and are dropped.
// Example: "user_profile" -> "UserProfile"
// Example: "People.Person.ListPerson" -> "PeoplePersonListPerson"
func ToPascalCase(s string) string {
	if s == "" {
		return ""
	}

	// Casers carry state and are not shared between calls.
	titleCaser := cases.Title(language.Und, cases.NoLower)

	var result strings.Builder
	result.Grow(len(s))
	capitalizeNext := true

	for _, r := range s {
		if isSeparator(r) {
			capitalizeNext = true
			continue
		}
		if capitalizeNext {
			result.WriteString(titleCaser.String(string(r)))
			capitalizeNext = false
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// ToCamelCase converts a string to camelCase.
// Example: "PersonDetail" -> "personDetail"
func ToCamelCase(s string) string {
	return lowerFirst(ToPascalCase(s))
}

// ToSnakeCase converts a string to snake_case.
// A word boundary is a separator, a lower-to-upper transition, or the last
// capital of an acronym followed by a lowercase letter.
// Example: "People.Person.ListPerson" -> "people_person_list_person"
// Example: "APIClient" -> "api_client"
func ToSnakeCase(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)
	var result strings.Builder
	result.Grow(len(s) + 4)
	pendingSep := false

	for i, r := range runes {
		if isSeparator(r) {
			pendingSep = result.Len() > 0
			continue
		}
		if unicode.IsUpper(r) && i > 0 && result.Len() > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				pendingSep = true
			}
		}
		if pendingSep {
			result.WriteByte('_')
			pendingSep = false
		}
		result.WriteRune(unicode.ToLower(r))
	}

	return result.String()
}

// ToKebabCase converts a string to kebab-case.
// Example: "PersonDetail" -> "person-detail"
func ToKebabCase(s string) string {
	return strings.ReplaceAll(ToSnakeCase(s), "_", "-")
}

func lowerFirst(s string) string {
	if s == "" {
		return ""
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
