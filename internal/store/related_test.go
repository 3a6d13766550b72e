package store

import "testing"

func TestRelated(t *testing.T) {
	st := writeStore(t, fiveDoc)
	if _, err := st.Load(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		slug  string
		limit int
		want  []string
	}{
		{"excludes self", "a", 3, []string{"b", "c", "d"}},
		{"self in the middle", "c", 3, []string{"a", "b", "d"}},
		{"limit larger than collection", "e", 10, []string{"a", "b", "c", "d"}},
		{"limit one", "a", 1, []string{"b"}},
		{"zero limit", "a", 0, nil},
		{"unknown slug still fills", "zzz", 2, []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := st.Related(tt.slug, tt.limit)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d posts, want %d", len(got), len(tt.want))
			}
			for i, w := range tt.want {
				if got[i].Slug != w {
					t.Errorf("related[%d] = %s, want %s", i, got[i].Slug, w)
				}
			}
			for _, p := range got {
				if p.Slug == tt.slug {
					t.Errorf("related contains the post itself")
				}
			}
		})
	}
}

func TestRelatedDeterministic(t *testing.T) {
	st := writeStore(t, fiveDoc)
	if _, err := st.Load(); err != nil {
		t.Fatal(err)
	}

	first := st.Related("b", 3)
	second := st.Related("b", 3)
	for i := range first {
		if first[i].Slug != second[i].Slug {
			t.Fatalf("two identical calls disagree at %d: %s vs %s", i, first[i].Slug, second[i].Slug)
		}
	}
}
