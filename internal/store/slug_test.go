package store

import (
	"strings"
	"testing"
)

func TestDeriveSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Vue 3: Composition API!", "vue-3-composition-api"},
		{"CSS Grid Layout Guide", "css-grid-layout-guide"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"already-a-slug", "already-a-slug"},
		{"Multiple --- hyphens", "multiple-hyphens"},
		{"C++ & Go?", "c-go"},
		{"100% Pure", "100-pure"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tt := range tests {
		if got := DeriveSlug(tt.title); got != tt.want {
			t.Errorf("DeriveSlug(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestDeriveSlugCharset(t *testing.T) {
	titles := []string{
		"Vue 3: Composition API!",
		"Hello,   World -- again",
		"-leading-hyphen story-",
		"UPPER lower 42",
	}
	for _, title := range titles {
		got := DeriveSlug(title)
		if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") {
			t.Errorf("DeriveSlug(%q) = %q: leading/trailing hyphen", title, got)
		}
		for _, r := range got {
			if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
				t.Errorf("DeriveSlug(%q) = %q: bad rune %q", title, got, r)
			}
		}
		if again := DeriveSlug(got); again != got {
			t.Errorf("DeriveSlug not idempotent: %q -> %q -> %q", title, got, again)
		}
	}
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{
		"go-tips":   true,
		"go-tips-2": true,
	}
	isTaken := func(s string) bool { return taken[s] }

	if got := UniqueSlug("Fresh Title", isTaken); got != "fresh-title" {
		t.Errorf("got %q, want fresh-title", got)
	}
	if got := UniqueSlug("Go Tips", isTaken); got != "go-tips-3" {
		t.Errorf("got %q, want go-tips-3", got)
	}
	if got := UniqueSlug("!!!", isTaken); got != "untitled" {
		t.Errorf("got %q, want untitled", got)
	}
}
