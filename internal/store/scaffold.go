package store

import (
	"strings"

	"techblog/internal/domain/post"
)

// Scaffold builds a new post the way the add-post surface expects: slug
// derived from the title (made unique against the store), excerpt
// synthesized when absent, today's date, and three placeholder content
// blocks to fill in.
func (s *Store) Scaffold(title, author, excerpt string, tags []string) post.Post {
	title = strings.TrimSpace(title)
	slug := UniqueSlug(title, s.HasSlug)
	if author == "" {
		author = s.opt.DefaultAuthor
	}
	if strings.TrimSpace(excerpt) == "" {
		excerpt = post.SynthesizeExcerpt(title)
	}

	return post.Post{
		ID:      slug,
		Slug:    slug,
		Title:   title,
		Author:  author,
		Date:    post.Today(),
		Excerpt: excerpt,
		Tags:    tags,
		Content: []post.ContentBlock{
			{
				Type:    post.BlockSection,
				Title:   "Introduction",
				Content: "Add your introduction content here...",
			},
			{
				Type:    post.BlockSection,
				Title:   "Main Content",
				Content: "Add your main content here...",
				Code:    "// Add code examples here",
			},
			{
				Type:    post.BlockConclusion,
				Content: "Add your conclusion here...",
			},
		},
	}
}
