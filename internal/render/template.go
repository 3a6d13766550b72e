package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"techblog/internal/domain/post"
)

type TemplateRenderer struct {
	tpl *template.Template
}

func NewTemplateRenderer(themeDir, themeName string) (*TemplateRenderer, error) {
	pattern := filepath.Join(themeDir, themeName, "templates", "*.tmpl")
	tpl, err := template.New("").Funcs(templateFuncs()).ParseGlob(pattern)
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{tpl: tpl}, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"date": func(d post.Date) string {
			if d.IsZero() {
				return ""
			}
			return d.Display()
		},
		"nowYear": func() int {
			return time.Now().Year()
		},
		"postURL": func(p interface{}) string {
			switch v := p.(type) {
			case post.Post:
				return fmt.Sprintf("/posts/%s.html", v.Slug)
			case *post.Post:
				if v == nil {
					return ""
				}
				return fmt.Sprintf("/posts/%s.html", v.Slug)
			default:
				return ""
			}
		},
		"tagURL": func(tag string) string {
			return fmt.Sprintf("/tag/%s", tag)
		},
		"lower": strings.ToLower,
		"add":   func(a, b int) int { return a + b },
		"sub":   func(a, b int) int { return a - b },
	}
}

func (r *TemplateRenderer) RenderHome(ctx context.Context, page HomePage) ([]byte, error) {
	return r.exec("home.tmpl", page)
}

func (r *TemplateRenderer) RenderPost(ctx context.Context, page PostPage) ([]byte, error) {
	return r.exec("post.tmpl", page)
}

func (r *TemplateRenderer) RenderTags(ctx context.Context, page TagsPage) ([]byte, error) {
	return r.exec("tags.tmpl", page)
}

func (r *TemplateRenderer) RenderSearch(ctx context.Context, page SearchPage) ([]byte, error) {
	return r.exec("search.tmpl", page)
}

func (r *TemplateRenderer) RenderAbout(ctx context.Context, page AboutPage) ([]byte, error) {
	return r.exec("about.tmpl", page)
}

func (r *TemplateRenderer) RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error) {
	return r.exec("404.tmpl", page)
}

func (r *TemplateRenderer) exec(name string, data interface{}) ([]byte, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func CheckThemeTemplates(themeDir string) error {
	required := []string{
		"home.tmpl",
		"post.tmpl",
		"tags.tmpl",
		"search.tmpl",
		"about.tmpl",
		"404.tmpl",
	}
	for _, name := range required {
		if _, err := os.Stat(filepath.Join(themeDir, name)); err != nil {
			return fmt.Errorf("missing template: %s", name)
		}
	}
	return nil
}
