package engine

import (
	"testing"
	"unicode/utf8"
)

func TestHighlight(t *testing.T) {
	tests := []struct {
		name string
		text string
		term string
		want string
	}{
		{"empty term passes through", "JavaScript Guide", "", "JavaScript Guide"},
		{"case-insensitive match keeps original casing", "JavaScript Guide", "script", "Java<mark>Script</mark> Guide"},
		{"match at start", "CSS Grid", "css", "<mark>CSS</mark> Grid"},
		{"match at end", "Learning Go", "go", "Learning <mark>Go</mark>"},
		{"multiple matches", "go go go", "go", "<mark>go</mark> <mark>go</mark> <mark>go</mark>"},
		{"adjacent non-overlapping matches", "aaaa", "aa", "<mark>aa</mark><mark>aa</mark>"},
		{"no match", "Flexbox", "grid", "Flexbox"},
		{"escapes outside matches", "<b>bold</b> guide", "guide", "&lt;b&gt;bold&lt;/b&gt; <mark>guide</mark>"},
		{"escapes inside matches", "x<y", "x<y", "<mark>x&lt;y</mark>"},
		{"empty text", "", "go", ""},
		// lowercasing İ shrinks it from two bytes to one; the span must
		// still land on the original rune boundaries
		{"shrinking rune before match", "İstanbul Guide", "stanbul", "İ<mark>stanbul</mark> Guide"},
		{"shrinking rune inside match", "İstanbul Guide", "istanbul", "<mark>İstanbul</mark> Guide"},
		// lowercasing Ⱥ grows it from two bytes to three
		{"growing rune before match", "Ⱥ Guide", "guide", "Ⱥ <mark>Guide</mark>"},
		{"growing rune matched", "Ⱥ Guide", "ⱥ", "<mark>Ⱥ</mark> Guide"},
		{"kelvin sign", "300K warm", "k", "300<mark>K</mark> warm"},
		{"multibyte no match", "Ⱥ Guide", "zzz", "Ⱥ Guide"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(Highlight(tt.text, tt.term)); got != tt.want {
				t.Errorf("Highlight(%q, %q) = %q, want %q", tt.text, tt.term, got, tt.want)
			}
		})
	}
}

func TestHighlightOutputIsValidUTF8(t *testing.T) {
	texts := []string{"İstanbul Guide", "Ⱥ Guide", "ǈungla", "ﬁle ﬁnder", "日本語 guide", "300K warm"}
	terms := []string{"", "i", "stanbul", "guide", "ⱥ", "k", "語", "ﬁ"}
	for _, text := range texts {
		for _, term := range terms {
			got := string(Highlight(text, term))
			if !utf8.ValidString(got) {
				t.Errorf("Highlight(%q, %q) produced invalid UTF-8: %q", text, term, got)
			}
		}
	}
}
