package records

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Column pairs an attribute key with its display label.
type Column struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// NewColumn creates a Column whose label is derived from key.
func NewColumn(key string) Column {
	return Column{Key: key, Label: Label(key)}
}

// Label derives a display label from an attribute key.
//
//	extra_field_484    -> Extra Field 484
//	description_extra1 -> Description Extra 1
func Label(key string) string {
	var words []string
	for _, part := range strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' || r == ' ' }) {
		words = append(words, splitTrailingDigits(part)...)
	}
	return titleCaser.String(strings.Join(words, " "))
}

// splitTrailingDigits turns "extra1" into ["extra", "1"].
func splitTrailingDigits(s string) []string {
	i := len(s)
	for i > 0 && unicode.IsDigit(rune(s[i-1])) {
		i--
	}
	if i == 0 || i == len(s) {
		return []string{s}
	}
	return []string{s[:i], s[i:]}
}
