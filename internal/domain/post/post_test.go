package post

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestMatches(t *testing.T) {
	p := Post{
		Title:   "CSS Grid Layout Guide",
		Author:  "Miguel",
		Excerpt: "Master modern layouts",
		Tags:    []string{"css", "frontend"},
	}

	tests := []struct {
		term string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"grid", true},
		{"GRID", true},
		{"layouts", true}, // excerpt
		{"front", true},   // tag substring
		{"miguel", true},  // author
		{"python", false},
		{"grids", false},
	}
	for _, tt := range tests {
		if got := p.Matches(tt.term); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.term, got, tt.want)
		}
	}
}

func TestHasTag(t *testing.T) {
	p := Post{Tags: []string{"CSS", "JavaScript"}}
	if !p.HasTag("css") || !p.HasTag("  JAVASCRIPT ") {
		t.Error("tag membership should be case-insensitive and trimmed")
	}
	if p.HasTag("java") {
		t.Error("membership is exact, not substring")
	}
}

func TestNormalizeAliasing(t *testing.T) {
	tests := []struct {
		name     string
		in       Post
		wantID   string
		wantSlug string
	}{
		{"slug fills id", Post{Slug: "x", Title: "X"}, "x", "x"},
		{"id fills slug", Post{ID: "y", Title: "Y"}, "y", "y"},
		{"both kept", Post{ID: "a", Slug: "b", Title: "T"}, "a", "b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Normalize()
			if tt.in.ID != tt.wantID || tt.in.Slug != tt.wantSlug {
				t.Errorf("id %q slug %q, want %q %q", tt.in.ID, tt.in.Slug, tt.wantID, tt.wantSlug)
			}
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	p := Post{Title: "T", Tags: []string{" CSS ", "css", "", "Grid", "GRID", "js"}}
	p.Normalize()
	want := []string{"CSS", "Grid", "js"}
	if !reflect.DeepEqual(p.Tags, want) {
		t.Errorf("tags = %v, want %v", p.Tags, want)
	}
}

func TestNormalizeSynthesizesExcerpt(t *testing.T) {
	p := Post{Slug: "x", Title: "Advanced TypeScript Patterns"}
	p.Normalize()
	want := "Learn about advanced typescript patterns in this comprehensive guide."
	if p.Excerpt != want {
		t.Errorf("excerpt = %q, want %q", p.Excerpt, want)
	}

	q := Post{Slug: "y", Title: "Y", Excerpt: "hand written"}
	q.Normalize()
	if q.Excerpt != "hand written" {
		t.Errorf("explicit excerpt overwritten: %q", q.Excerpt)
	}
}

func TestDateJSON(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2024-01-15"` {
		t.Errorf("marshal = %s", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip = %v, want %v", back, d)
	}

	var zero Date
	if err := json.Unmarshal([]byte(`""`), &zero); err != nil {
		t.Fatal(err)
	}
	if !zero.IsZero() {
		t.Error("empty string should decode to the zero date")
	}

	if err := json.Unmarshal([]byte(`"15/01/2024"`), &back); err == nil {
		t.Error("slash-separated date should fail")
	}
}

func TestDateDisplay(t *testing.T) {
	d, err := ParseDate("2024-01-05")
	if err != nil {
		t.Fatal(err)
	}
	if got := d.Display(); got != "January 5, 2024" {
		t.Errorf("Display() = %q", got)
	}
}

func TestParseDateRFC3339(t *testing.T) {
	d, err := ParseDate("2024-01-05T10:30:00Z")
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != "2024-01-05" {
		t.Errorf("String() = %q", d.String())
	}
}
