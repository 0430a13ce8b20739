// Package sanitizer normalizes user input before validation and storage.
// All functions are idempotent and never return errors; invalid input
// collapses to the empty string.
package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeEmail lowercases so the unique index on users.email treats
// Foo@Bar.com and foo@bar.com as the same address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeLocation keeps the display casing; location matching is done
// case-insensitively at query time.
func NormalizeLocation(location string) string {
	return TrimAndNormalize(location)
}
