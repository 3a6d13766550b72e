package render

import (
	"fmt"
	"html"
	"html/template"
	"strings"

	"techblog/internal/domain/post"
	"techblog/internal/store"
)

// PageContent is the rendered body of one post plus its related-posts
// block, ready for the page-shell template to wrap.
type PageContent struct {
	Body    template.HTML
	Related []post.Post
}

// RenderPost renders a post's content blocks against a store snapshot. Pure
// over the snapshot: no side effects, deterministic output.
func RenderPost(md *MarkdownRenderer, p post.Post, st *store.Store, relatedLimit int) (PageContent, error) {
	body, err := RenderBlocks(md, p.Content)
	if err != nil {
		return PageContent{}, fmt.Errorf("render post %s: %w", p.Slug, err)
	}
	return PageContent{
		Body:    body,
		Related: st.Related(p.Slug, relatedLimit),
	}, nil
}

// RenderBlocks emits HTML for an ordered block sequence.
//
//	section:    optional <h2> title, body, escaped <pre><code>, <ul> list
//	conclusion: fixed "Conclusion" heading plus body
//	anything else: body as a bare paragraph
func RenderBlocks(md *MarkdownRenderer, blocks []post.ContentBlock) (template.HTML, error) {
	var b strings.Builder

	for i, blk := range blocks {
		switch blk.Type {
		case post.BlockSection:
			if t := strings.TrimSpace(blk.Title); t != "" {
				b.WriteString("<h2>")
				b.WriteString(html.EscapeString(t))
				b.WriteString("</h2>\n")
			}
			if err := writeBody(&b, md, blk.Content); err != nil {
				return "", fmt.Errorf("block %d: %w", i, err)
			}
			if blk.Code != "" {
				// code 永远按字面量转义输出
				b.WriteString("<pre><code>")
				b.WriteString(html.EscapeString(blk.Code))
				b.WriteString("</code></pre>\n")
			}
			if len(blk.List) > 0 {
				b.WriteString("<ul>\n")
				for _, item := range blk.List {
					b.WriteString("<li>")
					b.WriteString(html.EscapeString(item))
					b.WriteString("</li>\n")
				}
				b.WriteString("</ul>\n")
			}

		case post.BlockConclusion:
			b.WriteString("<h2>Conclusion</h2>\n")
			if err := writeBody(&b, md, blk.Content); err != nil {
				return "", fmt.Errorf("block %d: %w", i, err)
			}

		default:
			if err := writeBody(&b, md, blk.Content); err != nil {
				return "", fmt.Errorf("block %d: %w", i, err)
			}
		}
	}

	return template.HTML(b.String()), nil
}

func writeBody(b *strings.Builder, md *MarkdownRenderer, body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}
	out, err := md.Render([]byte(body))
	if err != nil {
		return err
	}
	b.Write(out)
	return nil
}
