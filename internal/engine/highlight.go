package engine

import (
	"html"
	"html/template"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Highlight wraps every case-insensitive occurrence of term in the given
// text with <mark>, matching greedily left to right without overlaps. Text
// outside the matched spans is untouched apart from HTML escaping, which is
// applied to the whole output so stored content can never smuggle markup
// through a search result.
func Highlight(text, term string) template.HTML {
	if term == "" {
		return template.HTML(html.EscapeString(text))
	}

	lowerTerm := strings.ToLower(term)

	// Lowercase rune by rune while recording, for each lowered byte, the
	// original offset of the rune it came from. Lowercasing can change a
	// rune's byte length (İ, Ⱥ, K), so offsets into the lowered string
	// cannot index the original one directly.
	var lb strings.Builder
	lb.Grow(len(text))
	starts := make([]int, 0, len(text)+1)
	for o, r := range text {
		lr := unicode.ToLower(r)
		for k := 0; k < utf8.RuneLen(lr); k++ {
			starts = append(starts, o)
		}
		lb.WriteRune(lr)
	}
	starts = append(starts, len(text))
	lowerText := lb.String()

	var b strings.Builder
	i := 0    // search position in lowerText
	last := 0 // original bytes emitted so far
	for {
		j := strings.Index(lowerText[i:], lowerTerm)
		if j < 0 {
			b.WriteString(html.EscapeString(text[last:]))
			break
		}
		j += i
		end := j + len(lowerTerm)

		// a match that starts or ends inside a lowered rune has no clean
		// counterpart in the original text; skip past it
		if (j > 0 && starts[j-1] == starts[j]) ||
			(end < len(lowerText) && starts[end-1] == starts[end]) {
			i = j + 1
			continue
		}

		b.WriteString(html.EscapeString(text[last:starts[j]]))
		b.WriteString("<mark>")
		b.WriteString(html.EscapeString(text[starts[j]:starts[end]]))
		b.WriteString("</mark>")
		last = starts[end]
		i = end
	}
	return template.HTML(b.String())
}
