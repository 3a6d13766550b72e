package build

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"techblog/internal/app"
	domainbuild "techblog/internal/domain/build"
	"techblog/internal/domain/config"
	"techblog/internal/domain/post"
	"techblog/internal/domain/site"
	"techblog/internal/engine"
	"techblog/internal/index"
	"techblog/internal/render"
	"techblog/internal/store"
)

type Builder struct {
	Cfg config.Config

	// Force renders even when the input fingerprint is unchanged.
	Force bool

	routes app.RouteBuilder
}

type Result struct {
	Posts   int
	Tags    int
	Skipped bool
}

// Run executes one full build: load the content store, rebuild the derived
// index, render every page into the public dir, and stage the serialized
// store for the client-side engine. A failing step aborts with the post or
// file that failed; output written before the failure is left in place.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	st, err := store.New(store.Options{
		Path:          b.Cfg.Build.PostsFile,
		DefaultAuthor: b.Cfg.Site.Author,
	})
	if err != nil {
		return nil, err
	}
	posts, err := st.Load()
	if err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}

	fp, err := b.fingerprint()
	if err != nil {
		return nil, fmt.Errorf("fingerprint: %w", err)
	}
	if !b.Force && fp.RenderHash == b.storedFingerprint() {
		log.Printf("[build] inputs unchanged, skipping render")
		return &Result{Posts: len(posts), Skipped: true}, nil
	}

	idx, err := index.Open(index.OpenOptions{Path: b.Cfg.Build.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	defer idx.Close()

	if err := idx.Rebuild(posts); err != nil {
		return nil, fmt.Errorf("rebuild index: %w", err)
	}

	md := render.NewMarkdownRenderer()
	themeDir := b.Cfg.Build.ThemeDir
	themeName := b.Cfg.Build.Theme
	tpl, err := render.NewTemplateRenderer(themeDir, themeName)
	if err != nil {
		return nil, fmt.Errorf("load theme(%s/%s): %w", themeDir, themeName, err)
	}

	outDir := b.Cfg.Build.PublicDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir public: %w", err)
	}

	data, err := postsJSON(posts)
	if err != nil {
		return nil, fmt.Errorf("serialize posts: %w", err)
	}

	tags, err := tagStats(idx)
	if err != nil {
		return nil, fmt.Errorf("collect tags: %w", err)
	}

	for _, rt := range b.routes.Plan(posts) {
		if err := b.buildRoute(ctx, rt, st, md, tpl, outDir, posts, tags, data); err != nil {
			return nil, fmt.Errorf("build %s: %w", rt, err)
		}
	}

	if err := b.copyStaticAssets(outDir); err != nil {
		return nil, fmt.Errorf("copy static assets: %w", err)
	}

	if err := b.writeFingerprint(fp); err != nil {
		log.Printf("[warn] write fingerprint: %v", err)
	}

	log.Printf("[build] %d posts, %d tags -> %s", len(posts), len(tags), outDir)
	return &Result{Posts: len(posts), Tags: len(tags)}, nil
}

// fingerprint hashes the build inputs: content store bytes, theme
// templates, and the config fields that affect output.
func (b *Builder) fingerprint() (domainbuild.Fingerprint, error) {
	var fp domainbuild.Fingerprint

	content, err := os.ReadFile(b.Cfg.Build.PostsFile)
	if err != nil {
		return fp, err
	}
	fp.ContentHash = domainbuild.HashBytes(content)

	themeHash, err := hashDir(filepath.Join(b.Cfg.Build.ThemeDir, b.Cfg.Build.Theme))
	if err != nil {
		return fp, err
	}
	fp.ThemeHash = themeHash

	cfgBytes, err := json.Marshal(struct {
		Site  config.SiteConfig
		Query config.QueryConfig
		Theme string
	}{b.Cfg.Site, b.Cfg.Query, b.Cfg.Build.Theme})
	if err != nil {
		return fp, err
	}
	fp.ConfigHash = domainbuild.HashBytes(cfgBytes)

	fp.ComputeRenderHash()
	return fp, nil
}

func (b *Builder) fingerprintPath() string {
	return filepath.Join(filepath.Dir(b.Cfg.Build.IndexPath), "fingerprint")
}

func (b *Builder) storedFingerprint() string {
	data, err := os.ReadFile(b.fingerprintPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (b *Builder) writeFingerprint(fp domainbuild.Fingerprint) error {
	path := b.fingerprintPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(fp.RenderHash+"\n"), 0o644)
}

func hashDir(root string) (string, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return "", nil
	}
	h := make([]byte, 0, 1024)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		h = append(h, []byte(domainbuild.HashBytes(data))...)
		return nil
	})
	if err != nil {
		return "", err
	}
	return domainbuild.HashBytes(h), nil
}

func (b *Builder) buildRoute(
	ctx context.Context,
	rt site.Route,
	st *store.Store,
	md *render.MarkdownRenderer,
	tpl render.Renderer,
	outDir string,
	posts []post.Post,
	tags []render.TagStat,
	data []byte,
) error {
	switch rt.Kind {
	case site.RoutePost:
		return b.buildPost(ctx, rt, st, md, tpl, outDir, posts)
	case site.RouteIndex:
		return b.buildHome(ctx, rt, tpl, outDir, posts, data)
	case site.RouteTags:
		return b.buildTags(ctx, rt, tpl, outDir, posts, tags, data)
	case site.RouteSearch:
		return b.buildSearch(ctx, rt, tpl, outDir, posts, tags)
	case site.RouteAbout:
		return b.buildAbout(ctx, rt, tpl, outDir)
	case site.RouteNotFound:
		return b.buildNotFound(ctx, rt, tpl, outDir)
	case site.RouteData:
		// the run-time data handoff: the full store next to the pages
		return writeFile(outDir, rt.OutPath, data)
	default:
		return fmt.Errorf("unknown route kind %q", rt.Kind)
	}
}

func (b *Builder) buildPost(
	ctx context.Context,
	rt site.Route,
	st *store.Store,
	md *render.MarkdownRenderer,
	tpl render.Renderer,
	outDir string,
	posts []post.Post,
) error {
	p, err := st.FindBySlug(rt.Slug)
	if err != nil {
		return err
	}

	content, err := render.RenderPost(md, p, st, b.Cfg.Query.RelatedLimit)
	if err != nil {
		return err
	}

	page := render.PostPage{
		Site:      b.Cfg.Site,
		Post:      p,
		Content:   content,
		PageTitle: p.Title,
	}
	for i := range posts {
		if posts[i].Slug != p.Slug {
			continue
		}
		if i > 0 {
			page.Prev = &posts[i-1]
		}
		if i < len(posts)-1 {
			page.Next = &posts[i+1]
		}
		break
	}

	htmlBytes, err := tpl.RenderPost(ctx, page)
	if err != nil {
		return fmt.Errorf("render %s: %w", p.Slug, err)
	}
	return writeFile(outDir, rt.OutPath, htmlBytes)
}

func (b *Builder) buildHome(
	ctx context.Context,
	rt site.Route,
	tpl render.Renderer,
	outDir string,
	posts []post.Post,
	data []byte,
) error {
	page := render.HomePage{
		Site:             b.Cfg.Site,
		Posts:            posts,
		PostsData:        template.JS(data),
		SearchDebounceMS: b.Cfg.Query.SearchDebounceMS,
		Generated:        b.Cfg.Build.Now,
		PageTitle:        "Latest Posts",
	}
	htmlBytes, err := tpl.RenderHome(ctx, page)
	if err != nil {
		return err
	}
	return writeFile(outDir, rt.OutPath, htmlBytes)
}

func (b *Builder) buildTags(
	ctx context.Context,
	rt site.Route,
	tpl render.Renderer,
	outDir string,
	posts []post.Post,
	tags []render.TagStat,
	data []byte,
) error {
	page := render.TagsPage{
		Site:             b.Cfg.Site,
		Tags:             tags,
		Posts:            posts,
		PostsData:        template.JS(data),
		SearchDebounceMS: b.Cfg.Query.SearchDebounceMS,
		PageTitle:        "Browse by Tags",
	}
	htmlBytes, err := tpl.RenderTags(ctx, page)
	if err != nil {
		return err
	}
	return writeFile(outDir, rt.OutPath, htmlBytes)
}

// buildSearch emits the search page with a neutral query: every post
// listed, no term, no tag filter. Querying happens client side.
func (b *Builder) buildSearch(
	ctx context.Context,
	rt site.Route,
	tpl render.Renderer,
	outDir string,
	posts []post.Post,
	tags []render.TagStat,
) error {
	eng := engine.New(posts, engine.Options{})
	defer eng.Close()
	view := eng.View()

	page := render.SearchPage{
		Site:      b.Cfg.Site,
		Term:      view.Term,
		Tag:       view.Tag,
		Results:   render.BuildSearchResults(view),
		Tags:      tags,
		PageTitle: "All Posts",
	}
	htmlBytes, err := tpl.RenderSearch(ctx, page)
	if err != nil {
		return err
	}
	return writeFile(outDir, rt.OutPath, htmlBytes)
}

func (b *Builder) buildAbout(ctx context.Context, rt site.Route, tpl render.Renderer, outDir string) error {
	page := render.AboutPage{
		Site:      b.Cfg.Site,
		PageTitle: "About",
	}
	htmlBytes, err := tpl.RenderAbout(ctx, page)
	if err != nil {
		return err
	}
	return writeFile(outDir, rt.OutPath, htmlBytes)
}

func (b *Builder) buildNotFound(ctx context.Context, rt site.Route, tpl render.Renderer, outDir string) error {
	page := render.NotFoundPage{
		Site: b.Cfg.Site,
	}
	htmlBytes, err := tpl.RenderNotFound(ctx, page)
	if err != nil {
		return err
	}
	return writeFile(outDir, rt.OutPath, htmlBytes)
}

func (b *Builder) copyStaticAssets(outDir string) error {
	staticDir := filepath.Join(b.Cfg.Build.ThemeDir, b.Cfg.Build.Theme, "static")
	if _, err := os.Stat(staticDir); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(staticDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(staticDir, path)
		if err != nil {
			return err
		}
		return copyFile(path, filepath.Join(outDir, rel))
	})
}

func tagStats(idx *index.Store) ([]render.TagStat, error) {
	names, err := idx.AllTags()
	if err != nil {
		return nil, err
	}
	counts, err := idx.TagCounts()
	if err != nil {
		return nil, err
	}
	out := make([]render.TagStat, 0, len(names))
	for _, name := range names {
		out = append(out, render.TagStat{Name: name, Count: counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func postsJSON(posts []post.Post) ([]byte, error) {
	return json.Marshal(posts)
}

func writeFile(root, rel string, data []byte) error {
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	// Close flushes; a failure here means the asset did not land whole
	return out.Close()
}
