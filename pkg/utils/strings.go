package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func Capitalize(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}

// SplitQuoted splits a command line into fields, keeping double-quoted
// runs together. Quotes are stripped from the resulting fields; an
// unterminated quote extends to the end of the input.
func SplitQuoted(s string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false
	hasField := false

	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			hasField = true
		case !inQuotes && (r == ' ' || r == '\t'):
			if hasField {
				fields = append(fields, current.String())
				current.Reset()
				hasField = false
			}
		default:
			current.WriteRune(r)
			hasField = true
		}
	}
	if hasField {
		fields = append(fields, current.String())
	}
	return fields
}
