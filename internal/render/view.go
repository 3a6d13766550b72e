package render

import (
	"html/template"
	"time"

	"techblog/internal/domain/config"
	"techblog/internal/domain/post"
	"techblog/internal/engine"
)

type PostPage struct {
	Site    config.SiteConfig
	Post    post.Post
	Content PageContent

	Prev *post.Post
	Next *post.Post

	PageTitle string
}

type HomePage struct {
	Site  config.SiteConfig
	Posts []post.Post

	// PostsData is the serialized post collection embedded in the page so
	// the client engine can query without a further round trip.
	PostsData template.JS

	// SearchDebounceMS is the quiet window the client engine applies to
	// search input, from query.search_debounce_ms.
	SearchDebounceMS int

	Generated time.Time
	PageTitle string
}

type TagStat struct {
	Name  string
	Count int
}

type TagsPage struct {
	Site  config.SiteConfig
	Tags  []TagStat
	Posts []post.Post

	PostsData        template.JS
	SearchDebounceMS int

	PageTitle string
}

// SearchResult is one engine result with the active term highlighted for
// display.
type SearchResult struct {
	Post    post.Post
	Title   template.HTML
	Excerpt template.HTML
}

type SearchPage struct {
	Site    config.SiteConfig
	Term    string
	Tag     string
	Results []SearchResult
	Tags    []TagStat

	PageTitle string
}

// BuildSearchResults pairs each result with its highlighted title and
// excerpt.
func BuildSearchResults(v engine.View) []SearchResult {
	out := make([]SearchResult, 0, len(v.Results))
	for _, p := range v.Results {
		out = append(out, SearchResult{
			Post:    p,
			Title:   engine.Highlight(p.Title, v.Term),
			Excerpt: engine.Highlight(p.Excerpt, v.Term),
		})
	}
	return out
}

type AboutPage struct {
	Site      config.SiteConfig
	PageTitle string
}

type NotFoundPage struct {
	Site config.SiteConfig
	Path string
}
