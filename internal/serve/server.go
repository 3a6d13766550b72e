package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"techblog/internal/domain/config"
	"techblog/internal/domain/post"
	"techblog/internal/engine"
	"techblog/internal/index"
	"techblog/internal/render"
	"techblog/internal/store"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server renders pages on demand from the in-memory store snapshot and
// rebuilds that snapshot whenever the content store file changes.
type Server struct {
	cfg config.Config

	st  *store.Store
	idx *index.Store
	md  *render.MarkdownRenderer
	tpl render.Renderer

	mu    sync.RWMutex
	posts []post.Post

	sseMu     sync.Mutex
	sseConns  map[chan string]struct{}
	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

func New(cfg config.Config) (*Server, error) {
	st, err := store.New(store.Options{
		Path:          cfg.Build.PostsFile,
		DefaultAuthor: cfg.Site.Author,
	})
	if err != nil {
		return nil, err
	}
	tpl, err := render.NewTemplateRenderer(cfg.Build.ThemeDir, cfg.Build.Theme)
	if err != nil {
		return nil, fmt.Errorf("serve: failed to create template renderer: %w", err)
	}
	idx, err := index.Open(index.OpenOptions{Path: cfg.Build.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("serve: failed to open index: %w", err)
	}

	return &Server{
		cfg:      cfg,
		st:       st,
		idx:      idx,
		md:       render.NewMarkdownRenderer(),
		tpl:      tpl,
		sseConns: make(map[chan string]struct{}),
	}, nil
}

func (s *Server) Close() error {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	if s.idx != nil {
		return s.idx.Close()
	}
	return nil
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.rebuild()

	if err := s.startWatch(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	log.Printf("[serve] listening on %s", addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHome)
	r.Get("/posts/{slug}", s.handlePost)
	r.Get("/posts/{slug}.html", s.handlePost)
	r.Get("/tags", s.handleTags)
	r.Get("/tag/{tag}", s.handleTag)
	r.Get("/search", s.handleSearch)
	r.Get("/about", s.handleAbout)
	r.Get("/posts.json", s.handlePostsJSON)

	// dev SSE
	r.Get("/dev/events", s.handleSSE)

	staticDir := filepath.Join(s.cfg.Build.ThemeDir, s.cfg.Build.Theme, "static")
	fileServer := http.FileServer(http.Dir(staticDir))
	r.Handle("/css/*", fileServer)
	r.Handle("/js/*", fileServer)
	r.Handle("/images/*", fileServer)
	r.Handle("/favicon.ico", fileServer)

	r.NotFound(s.handleNotFound)
	return r
}

// rebuild reloads the content store. A load failure is not fatal here: the
// snapshot empties out and every page degrades to its "no posts" state
// until the file is fixed.
func (s *Server) rebuild() {
	posts, err := s.st.Load()
	if err != nil {
		log.Printf("[warn] store load: %v", err)
		posts = nil
	}

	if err := s.idx.Rebuild(posts); err != nil {
		log.Printf("[warn] index rebuild: %v", err)
	}

	s.mu.Lock()
	s.posts = posts
	s.mu.Unlock()

	log.Printf("[serve] snapshot: %d posts", len(posts))
	s.broadcastSSE("reload")
}

func (s *Server) snapshot() []post.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.posts
}

// newView runs one query against the current snapshot. Each request gets
// its own engine; the engine's lifecycle is a single page view.
func (s *Server) newView(term, tag string) engine.View {
	eng := engine.New(s.snapshot(), engine.Options{})
	defer eng.Close()
	if tag != "" {
		eng.SetTag(tag)
	}
	return eng.SetSearchTermNow(term)
}

func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w

		go s.watchLoop(ctx)

		// watch the directory: the store writes via temp file + rename,
		// which drops a watch placed on the file itself
		err = w.Add(filepath.Dir(s.cfg.Build.PostsFile))
	})
	return err
}

func (s *Server) watchLoop(ctx context.Context) {
	log.Printf("[serve] watching %s ...", s.cfg.Build.PostsFile)
	debounce := time.NewTicker(time.Hour)
	debounce.Stop()

	trigger := func() {
		select {
		case <-debounce.C:
		default:
		}
		debounce.Reset(200 * time.Millisecond)
	}

	base := filepath.Base(s.cfg.Build.PostsFile)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				trigger()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[warn] watcher error: %v", err)
		case <-debounce.C:
			s.rebuild()
		}
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	posts := s.snapshot()

	data, err := json.Marshal(posts)
	if err != nil {
		http.Error(w, "serialize posts", http.StatusInternalServerError)
		return
	}

	page := render.HomePage{
		Site:             s.cfg.Site,
		Posts:            posts,
		PostsData:        template.JS(data),
		SearchDebounceMS: s.cfg.Query.SearchDebounceMS,
		Generated:        time.Now(),
		PageTitle:        "Latest Posts",
	}
	htmlBytes, err := s.tpl.RenderHome(r.Context(), page)
	if err != nil {
		log.Printf("render home error: %v", err)
		http.Error(w, "render home error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	p, err := s.st.FindBySlug(slug)
	if err != nil {
		s.handleNotFound(w, r)
		return
	}

	content, err := render.RenderPost(s.md, p, s.st, s.cfg.Query.RelatedLimit)
	if err != nil {
		log.Printf("render post error: %v", err)
		http.Error(w, "render post error", http.StatusInternalServerError)
		return
	}

	page := render.PostPage{
		Site:      s.cfg.Site,
		Post:      p,
		Content:   content,
		PageTitle: p.Title,
	}
	posts := s.snapshot()
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

	htmlBytes, err := s.tpl.RenderPost(r.Context(), page)
	if err != nil {
		log.Printf("render post error: %v", err)
		http.Error(w, "render post error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.tagStats()
	if err != nil {
		http.Error(w, "tags query error", http.StatusInternalServerError)
		return
	}

	posts := s.snapshot()
	data, err := json.Marshal(posts)
	if err != nil {
		http.Error(w, "serialize posts", http.StatusInternalServerError)
		return
	}

	page := render.TagsPage{
		Site:             s.cfg.Site,
		Tags:             tags,
		Posts:            posts,
		PostsData:        template.JS(data),
		SearchDebounceMS: s.cfg.Query.SearchDebounceMS,
		PageTitle:        "Browse by Tags",
	}
	htmlBytes, err := s.tpl.RenderTags(r.Context(), page)
	if err != nil {
		log.Printf("render tags error: %v", err)
		http.Error(w, "render tags error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handleTag(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")
	s.renderSearch(w, r, "", tag)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	tag := r.URL.Query().Get("tag")
	s.renderSearch(w, r, q, tag)
}

func (s *Server) renderSearch(w http.ResponseWriter, r *http.Request, term, tag string) {
	view := s.newView(term, tag)

	tags, err := s.tagStats()
	if err != nil {
		http.Error(w, "tags query error", http.StatusInternalServerError)
		return
	}

	page := render.SearchPage{
		Site:    s.cfg.Site,
		Term:    view.Term,
		Tag:     view.Tag,
		Results: render.BuildSearchResults(view),
		Tags:    tags,
	}
	switch {
	case view.Term != "":
		page.PageTitle = fmt.Sprintf("Search Results for %q", view.Term)
	case view.Tag != engine.TagAll:
		page.PageTitle = fmt.Sprintf("Posts tagged %q", view.Tag)
	default:
		page.PageTitle = "All Posts"
	}

	htmlBytes, err := s.tpl.RenderSearch(r.Context(), page)
	if err != nil {
		log.Printf("render search error: %v", err)
		http.Error(w, "render search error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	page := render.AboutPage{
		Site:      s.cfg.Site,
		PageTitle: "About",
	}
	htmlBytes, err := s.tpl.RenderAbout(r.Context(), page)
	if err != nil {
		http.Error(w, "render about error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handlePostsJSON(w http.ResponseWriter, r *http.Request) {
	data, err := json.Marshal(s.snapshot())
	if err != nil {
		http.Error(w, "serialize posts", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(data)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	page := render.NotFoundPage{
		Site: s.cfg.Site,
		Path: r.URL.Path,
	}
	htmlBytes, err := s.tpl.RenderNotFound(r.Context(), page)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(htmlBytes)
}

func (s *Server) tagStats() ([]render.TagStat, error) {
	names, err := s.idx.AllTags()
	if err != nil {
		return nil, err
	}
	counts, err := s.idx.TagCounts()
	if err != nil {
		return nil, err
	}
	out := make([]render.TagStat, 0, len(names))
	for _, name := range names {
		out = append(out, render.TagStat{Name: name, Count: counts[name]})
	}
	return out, nil
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan string, 8)

	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseConns, ch)
		close(ch)
		s.sseMu.Unlock()
	}()
	fmt.Fprintf(w, "data: %s\n\n", "hello")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) broadcastSSE(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	for ch := range s.sseConns {
		select {
		case ch <- msg:
		default:
		}
	}
}

func writeHTML(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}
