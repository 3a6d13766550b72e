package store

import (
	"fmt"
	"strings"
	"unicode"
)

// DeriveSlug maps a title to a URL-safe identifier: lowercase, drop
// everything outside [a-z0-9\s-], collapse whitespace and hyphen runs to a
// single hyphen, trim leading/trailing hyphens. Idempotent.
func DeriveSlug(title string) string {
	s := strings.ToLower(title)

	var out []rune
	lastDash := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			out = append(out, r)
			lastDash = false
		case r == '-' || unicode.IsSpace(r):
			if !lastDash && len(out) > 0 {
				out = append(out, '-')
				lastDash = true
			}
		default:
			// stripped entirely, no separator
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	return string(out)
}

// UniqueSlug derives a slug from title and, on collision, appends -2, -3, …
// until taken reports it free. Collisions never overwrite an existing post.
func UniqueSlug(title string, taken func(string) bool) string {
	base := DeriveSlug(title)
	if base == "" {
		base = "untitled"
	}
	if !taken(base) {
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if !taken(candidate) {
			return candidate
		}
	}
}
