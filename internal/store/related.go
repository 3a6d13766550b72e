package store

import "techblog/internal/domain/post"

// Related returns up to limit related posts for the given slug: the first
// posts in store order with the post itself excluded. Relevance here is
// positional (newest first), not content based.
func (s *Store) Related(slug string, limit int) []post.Post {
	if limit <= 0 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]post.Post, 0, limit)
	for _, p := range s.posts {
		if p.Slug == slug || p.ID == slug {
			continue
		}
		out = append(out, p)
		if len(out) >= limit {
			break
		}
	}
	return out
}
