package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	domainerr "techblog/internal/domain/errors"
	"techblog/internal/domain/post"
)

// document is the on-disk shape of the content store.
type document struct {
	Posts []post.Post `json:"posts"`
}

type Options struct {
	Path          string // e.g. "./posts.json"
	DefaultAuthor string
}

// Store holds the ordered post collection backed by a single JSON document.
// The collection is immutable after Load except through Prepend.
type Store struct {
	opt Options

	mu    sync.RWMutex
	posts []post.Post
}

func New(opt Options) (*Store, error) {
	if opt.Path == "" {
		return nil, fmt.Errorf("store: missing path")
	}
	return &Store{opt: opt}, nil
}

// Load reads and validates the whole document. The returned order is the
// canonical one: newest first by date, file order preserved on ties.
func (s *Store) Load() ([]post.Post, error) {
	data, err := os.ReadFile(s.opt.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domainerr.ErrStoreLoad, s.opt.Path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domainerr.ErrStoreLoad, s.opt.Path, err)
	}

	seen := make(map[string]struct{}, len(doc.Posts))
	for i := range doc.Posts {
		p := &doc.Posts[i]
		p.Normalize()
		if p.Author == "" {
			p.Author = s.opt.DefaultAuthor
		}
		if err := validate(*p); err != nil {
			return nil, fmt.Errorf("%w: post %d (%s): %v", domainerr.ErrStoreLoad, i, p.Slug, err)
		}
		if _, dup := seen[p.Slug]; dup {
			return nil, fmt.Errorf("%w: duplicate slug %q", domainerr.ErrStoreLoad, p.Slug)
		}
		seen[p.Slug] = struct{}{}
	}

	sort.SliceStable(doc.Posts, func(i, j int) bool {
		return doc.Posts[i].Date.After(doc.Posts[j].Date.Time)
	})

	s.mu.Lock()
	s.posts = doc.Posts
	s.mu.Unlock()
	return s.All(), nil
}

func validate(p post.Post) error {
	if p.Title == "" {
		return fmt.Errorf("title must not be empty")
	}
	if p.Slug == "" {
		return fmt.Errorf("slug must not be empty")
	}
	if p.Date.IsZero() {
		return fmt.Errorf("date is missing or invalid")
	}
	return nil
}

// All returns a copy of the posts in canonical order.
func (s *Store) All() []post.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]post.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

func (s *Store) FindBySlug(slug string) (post.Post, error) {
	slug = strings.TrimSpace(slug)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return post.Post{}, fmt.Errorf("%w: %s", domainerr.ErrNotFound, slug)
}

// HasSlug is the uniqueness check used by UniqueSlug.
func (s *Store) HasSlug(slug string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.Slug == slug {
			return true
		}
	}
	return false
}

// Prepend inserts p at the front of the collection and persists the full
// updated document. The in-memory collection only changes after the write
// succeeds, so a failed write leaves both file and memory intact.
func (s *Store) Prepend(p post.Post) ([]post.Post, error) {
	p.Normalize()
	if p.Author == "" {
		p.Author = s.opt.DefaultAuthor
	}
	if p.Slug == "" || s.HasSlug(p.Slug) {
		p.Slug = UniqueSlug(p.Title, s.HasSlug)
		p.ID = p.Slug
	}
	if err := validate(p); err != nil {
		return nil, fmt.Errorf("%w: %v", domainerr.ErrPersist, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]post.Post, 0, len(s.posts)+1)
	next = append(next, p)
	next = append(next, s.posts...)

	if err := writeDocument(s.opt.Path, document{Posts: next}); err != nil {
		return nil, err
	}

	s.posts = next
	out := make([]post.Post, len(next))
	copy(out, next)
	return out, nil
}

// writeDocument writes via a temp file plus rename so a failure mid-write
// never corrupts the existing document.
func writeDocument(path string, doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", domainerr.ErrPersist, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".posts-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", domainerr.ErrPersist, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", domainerr.ErrPersist, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", domainerr.ErrPersist, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", domainerr.ErrPersist, err)
	}
	return nil
}
