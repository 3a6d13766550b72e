package engine

import (
	"strings"
	"sync"
	"time"

	"techblog/internal/domain/post"
)

// TagAll is the reserved tag meaning "no tag filter".
const TagAll = "all"

// View is the current query state and its result set. It is a value; the
// engine hands out copies, never its internal slices.
type View struct {
	Term    string
	Tag     string
	Results []post.Post
}

type Options struct {
	// Debounce is the quiet window for search-term changes. Zero applies
	// terms immediately. Tag changes are never debounced.
	Debounce time.Duration

	// OnChange, when set, receives every published view.
	OnChange func(View)
}

// Engine holds the current view over an in-memory post snapshot and
// recomputes the filtered set on every query change. An empty snapshot is a
// valid state: every query then yields an empty result set, never an error.
type Engine struct {
	opt Options

	mu      sync.Mutex
	posts   []post.Post
	byTag   map[string][]post.Post
	term    string
	tag     string
	results []post.Post
	timer   *time.Timer

	// gen stamps every scheduled or applied term change. A debounce
	// callback that lost the mutex race to a newer change sees a stale
	// stamp and drops its term instead of publishing it.
	gen uint64
}

func New(posts []post.Post, opt Options) *Engine {
	e := &Engine{
		opt: opt,
		tag: TagAll,
	}
	e.load(posts)
	return e
}

// Replace swaps in a fresh store snapshot and recomputes the current view.
// The serve path calls this after a rebuild.
func (e *Engine) Replace(posts []post.Post) {
	e.mu.Lock()
	e.load(posts)
	v := e.viewLocked()
	e.mu.Unlock()
	e.publish(v)
}

func (e *Engine) load(posts []post.Post) {
	e.posts = posts
	e.byTag = make(map[string][]post.Post)
	for _, p := range posts {
		for _, t := range p.Tags {
			key := strings.ToLower(t)
			e.byTag[key] = append(e.byTag[key], p)
		}
	}
	e.recomputeLocked()
}

// SetTag switches the tag filter and re-applies the current search term on
// top of the new base. Applies immediately.
func (e *Engine) SetTag(tag string) View {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		tag = TagAll
	}

	e.mu.Lock()
	e.tag = tag
	e.recomputeLocked()
	v := e.viewLocked()
	e.mu.Unlock()

	e.publish(v)
	return v
}

// SetSearchTerm schedules a recomputation after the quiet window. Each call
// cancels any pending one, so only the latest term within the window is
// ever published.
func (e *Engine) SetSearchTerm(term string) {
	if e.opt.Debounce <= 0 {
		e.SetSearchTermNow(term)
		return
	}

	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
	}
	e.gen++
	gen := e.gen
	e.timer = time.AfterFunc(e.opt.Debounce, func() {
		e.applyDebounced(term, gen)
	})
	e.mu.Unlock()
}

// SetSearchTermNow applies the term without waiting, cancelling anything
// pending.
func (e *Engine) SetSearchTermNow(term string) View {
	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++
	v := e.applyTermLocked(term)
	e.mu.Unlock()

	e.publish(v)
	return v
}

// applyDebounced is the timer callback. Stop on an already-fired timer is a
// no-op, so the callback may run after a newer change; the stamp check keeps
// the stale term from winning.
func (e *Engine) applyDebounced(term string, gen uint64) {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return
	}
	e.timer = nil
	v := e.applyTermLocked(term)
	e.mu.Unlock()

	e.publish(v)
}

func (e *Engine) applyTermLocked(term string) View {
	e.term = strings.TrimSpace(term)
	e.recomputeLocked()
	return e.viewLocked()
}

func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

// Close cancels any pending debounce timer; a callback that already fired
// is invalidated by the stamp bump.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Engine) recomputeLocked() {
	base := e.posts
	if e.tag != TagAll {
		base = e.byTag[e.tag]
	}

	if e.term == "" {
		e.results = base
		return
	}

	out := make([]post.Post, 0, len(base))
	for _, p := range base {
		if p.Matches(e.term) {
			out = append(out, p)
		}
	}
	e.results = out
}

func (e *Engine) viewLocked() View {
	results := make([]post.Post, len(e.results))
	copy(results, e.results)
	return View{
		Term:    e.term,
		Tag:     e.tag,
		Results: results,
	}
}

func (e *Engine) publish(v View) {
	if e.opt.OnChange != nil {
		e.opt.OnChange(v)
	}
}
