package post

import (
	"fmt"
	"strings"
	"time"
)

const (
	BlockSection    = "section"
	BlockConclusion = "conclusion"
)

// ContentBlock is one structured unit of a post body. Type selects the
// rendering rule; Code and List are optional extras on section blocks.
type ContentBlock struct {
	Type    string   `json:"type,omitempty"`
	Title   string   `json:"title,omitempty"`
	Content string   `json:"content"`
	Code    string   `json:"code,omitempty"`
	List    []string `json:"list,omitempty"`
}

type Post struct {
	ID      string         `json:"id"`
	Slug    string         `json:"slug"`
	Title   string         `json:"title"`
	Author  string         `json:"author"`
	Date    Date           `json:"date"`
	Excerpt string         `json:"excerpt"`
	Tags    []string       `json:"tags"`
	Content []ContentBlock `json:"content,omitempty"`
}

func (p *Post) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Author = strings.TrimSpace(p.Author)
	p.Excerpt = strings.TrimSpace(p.Excerpt)
	p.Slug = strings.TrimSpace(p.Slug)
	p.ID = strings.TrimSpace(p.ID)

	// id 和 slug 互为别名，缺一个就用另一个补上
	if p.ID == "" {
		p.ID = p.Slug
	}
	if p.Slug == "" {
		p.Slug = p.ID
	}

	p.Tags = dedupeTags(p.Tags)
	if p.Excerpt == "" {
		p.Excerpt = SynthesizeExcerpt(p.Title)
	}
}

// dedupeTags keeps insertion order and the first-seen casing; membership is
// case-insensitive.
func dedupeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

func (p Post) HasTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range p.Tags {
		if strings.ToLower(t) == tag {
			return true
		}
	}
	return false
}

// Matches reports whether term occurs case-insensitively in the post's
// title, excerpt, any tag, or author. The empty term matches everything.
func (p Post) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Title), term) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Excerpt), term) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), term) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(p.Author), term)
}

func SynthesizeExcerpt(title string) string {
	return fmt.Sprintf("Learn about %s in this comprehensive guide.", strings.ToLower(strings.TrimSpace(title)))
}

const dateLayout = "2006-01-02"

// Date is a calendar date stored as an ISO 8601 string in the content store.
type Date struct {
	time.Time
}

func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{t}, nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q", s)
}

func Today() Date {
	y, m, d := time.Now().Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// Display renders the long form used on pages, e.g. "January 2, 2006".
func (d Date) Display() string {
	return d.Format("January 2, 2006")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
