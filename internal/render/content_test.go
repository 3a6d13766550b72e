package render

import (
	"strings"
	"testing"

	"techblog/internal/domain/post"
)

func renderBlocks(t *testing.T, blocks []post.ContentBlock) string {
	t.Helper()
	out, err := RenderBlocks(NewMarkdownRenderer(), blocks)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func TestRenderSection(t *testing.T) {
	got := renderBlocks(t, []post.ContentBlock{{
		Type:    post.BlockSection,
		Title:   "Getting Started",
		Content: "Install the **latest** release.",
		Code:    `const x = 1;`,
		List:    []string{"fast", "simple"},
	}})

	for _, want := range []string{
		"<h2>Getting Started</h2>",
		"<strong>latest</strong>",
		"<pre><code>const x = 1;</code></pre>",
		"<li>fast</li>",
		"<li>simple</li>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRenderSectionEscapesTitleAndCode(t *testing.T) {
	got := renderBlocks(t, []post.ContentBlock{{
		Type:  post.BlockSection,
		Title: `<script>alert("t")</script>`,
		Code:  `if (a < b) document.write("<img>");`,
	}})

	if strings.Contains(got, "<script>") || strings.Contains(got, "<img>") {
		t.Fatalf("markup leaked through:\n%s", got)
	}
	for _, want := range []string{
		"&lt;script&gt;",
		"a &lt; b",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing escaped form %q:\n%s", want, got)
		}
	}
}

func TestRenderListItemsEscaped(t *testing.T) {
	got := renderBlocks(t, []post.ContentBlock{{
		Type: post.BlockSection,
		List: []string{`<a href="x">link</a>`},
	}})
	if strings.Contains(got, "<a ") {
		t.Fatalf("list item markup leaked:\n%s", got)
	}
}

func TestRenderConclusion(t *testing.T) {
	got := renderBlocks(t, []post.ContentBlock{{
		Type:    post.BlockConclusion,
		Title:   "ignored",
		Content: "Wrapping up.",
	}})
	if !strings.Contains(got, "<h2>Conclusion</h2>") {
		t.Errorf("conclusion heading missing:\n%s", got)
	}
	if strings.Contains(got, "ignored") {
		t.Errorf("conclusion blocks must use the fixed heading:\n%s", got)
	}
}

func TestRenderDefaultParagraph(t *testing.T) {
	got := renderBlocks(t, []post.ContentBlock{{
		Content: "Just a plain paragraph.",
	}})
	if !strings.Contains(got, "<p>Just a plain paragraph.</p>") {
		t.Errorf("default block should render as a paragraph:\n%s", got)
	}
	if strings.Contains(got, "<h2>") {
		t.Errorf("default block grew a heading:\n%s", got)
	}
}

func TestRenderEmptyBlockList(t *testing.T) {
	if got := renderBlocks(t, nil); got != "" {
		t.Errorf("nil blocks produced output %q", got)
	}
}

func TestMarkdownBlocksRawHTML(t *testing.T) {
	md := NewMarkdownRenderer()
	out, err := md.Render([]byte(`hello <script>alert(1)</script> world`))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Fatalf("raw html survived rendering: %s", out)
	}
}

func TestMarkdownGFMTable(t *testing.T) {
	md := NewMarkdownRenderer()
	out, err := md.Render([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "<table>") {
		t.Errorf("table extension not active: %s", out)
	}
}
