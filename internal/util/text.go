package util

import (
	"strings"
	"unicode"

	"github.com/spf13/cast"
)

// NormalizeKey lower-cases a header and removes every whitespace rune,
// so "Frame No." and "frameno." compare equal.
func NormalizeKey(input string) string {
	out := strings.Builder{}
	out.Grow(len(input))
	for _, r := range strings.ToLower(input) {
		if unicode.IsSpace(r) {
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}

// Str renders a cell value as trimmed text. nil becomes "".
func Str(v any) string {
	if v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// ContainsFold reports whether needle occurs in the trimmed text of v, ignoring case.
func ContainsFold(v any, needle string) bool {
	return strings.Contains(strings.ToLower(Str(v)), strings.ToLower(needle))
}

func StringPtr(v string) *string { return &v }
