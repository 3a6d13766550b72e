package serve

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"techblog/internal/domain/config"
)

const testDoc = `{
  "posts": [
    {"slug": "grid-guide", "title": "Grid Guide", "date": "2024-01-02", "excerpt": "layout tricks", "tags": ["CSS"],
     "content": [{"type": "section", "title": "Intro", "content": "Use **grid**."}]},
    {"slug": "event-loop", "title": "Event Loop", "date": "2024-01-01", "excerpt": "timing", "tags": ["JavaScript"]}
  ]
}`

var testTemplates = map[string]string{
	"home.tmpl":   `<title>{{.PageTitle}}</title>{{range .Posts}}<a href="{{postURL .}}">{{.Title}}</a>{{end}}`,
	"post.tmpl":   `<h1>{{.Post.Title}}</h1>{{.Content.Body}}`,
	"tags.tmpl":   `{{range .Tags}}<span>{{.Name}}:{{.Count}}</span>{{end}}`,
	"search.tmpl": `<p>{{.PageTitle}}</p>{{range .Results}}<h3>{{.Title}}</h3>{{end}}`,
	"about.tmpl":  `<title>{{.Site.Title}}</title>`,
	"404.tmpl":    `<title>Not Found</title><p>{{.Path}}</p>`,
}

func newTestServer(t *testing.T) (*Server, http.Handler, string) {
	t.Helper()
	root := t.TempDir()

	if err := os.WriteFile(filepath.Join(root, "posts.json"), []byte(testDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	tplDir := filepath.Join(root, "themes", "default", "templates")
	if err := os.MkdirAll(tplDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, body := range testTemplates {
		if err := os.WriteFile(filepath.Join(tplDir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cssDir := filepath.Join(root, "themes", "default", "static", "css")
	if err := os.MkdirAll(cssDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cssDir, "style.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Build.PostsFile = filepath.Join(root, "posts.json")
	cfg.Build.ThemeDir = filepath.Join(root, "themes")
	cfg.Build.IndexPath = filepath.Join(root, ".techblog", "index.db")

	s, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	s.rebuild()
	return s, s.routes(), root
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHome(t *testing.T) {
	_, h, _ := newTestServer(t)

	rec := get(t, h, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "/posts/grid-guide.html") || !strings.Contains(body, "Event Loop") {
		t.Errorf("home body:\n%s", body)
	}
}

func TestPostPage(t *testing.T) {
	_, h, _ := newTestServer(t)

	for _, path := range []string{"/posts/grid-guide", "/posts/grid-guide.html"} {
		rec := get(t, h, path)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s = %d", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "<strong>grid</strong>") {
			t.Errorf("GET %s missing rendered body:\n%s", path, rec.Body.String())
		}
	}

	rec := get(t, h, "/posts/missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown slug = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/posts/missing") {
		t.Errorf("404 page should echo the path:\n%s", rec.Body.String())
	}
}

func TestTagsPage(t *testing.T) {
	_, h, _ := newTestServer(t)

	body := get(t, h, "/tags").Body.String()
	for _, want := range []string{"CSS:1", "JavaScript:1"} {
		if !strings.Contains(body, want) {
			t.Errorf("tags page missing %q:\n%s", want, body)
		}
	}
}

func TestSearchPage(t *testing.T) {
	_, h, _ := newTestServer(t)

	tests := []struct {
		path      string
		wantTitle string
		wantBody  string
	}{
		{"/search?q=grid", "Search Results for", "<mark>Grid</mark>"},
		{"/tag/css", "Posts tagged", "Grid Guide"},
		{"/tag/CSS", "Posts tagged", "Grid Guide"},
		{"/search", "All Posts", "Event Loop"},
		{"/search?q=zzz", "Search Results for", ""},
	}
	for _, tt := range tests {
		rec := get(t, h, tt.path)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s = %d", tt.path, rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, tt.wantTitle) {
			t.Errorf("GET %s missing title %q:\n%s", tt.path, tt.wantTitle, body)
		}
		if tt.wantBody != "" && !strings.Contains(body, tt.wantBody) {
			t.Errorf("GET %s missing %q:\n%s", tt.path, tt.wantBody, body)
		}
	}

	if body := get(t, h, "/search?q=zzz").Body.String(); strings.Contains(body, "<h3>") {
		t.Errorf("no-match search still lists results:\n%s", body)
	}
}

func TestPostsJSON(t *testing.T) {
	_, h, _ := newTestServer(t)

	rec := get(t, h, "/posts.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"grid-guide"`) {
		t.Errorf("payload missing post:\n%s", rec.Body.String())
	}
}

func TestStaticAssets(t *testing.T) {
	_, h, _ := newTestServer(t)

	rec := get(t, h, "/css/style.css")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "body{}" {
		t.Errorf("asset body = %q", rec.Body.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	_, h, _ := newTestServer(t)

	if rec := get(t, h, "/does/not/exist"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestRebuildDegradesOnBrokenStore(t *testing.T) {
	s, h, root := newTestServer(t)

	if err := os.WriteFile(filepath.Join(root, "posts.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	s.rebuild()

	rec := get(t, h, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("home after broken store = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "Grid Guide") {
		t.Errorf("stale posts survived a failed reload:\n%s", rec.Body.String())
	}

	// posts are back once the file is fixed
	if err := os.WriteFile(filepath.Join(root, "posts.json"), []byte(testDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	s.rebuild()
	if !strings.Contains(get(t, h, "/").Body.String(), "Grid Guide") {
		t.Errorf("reload after fix did not restore posts")
	}
}
