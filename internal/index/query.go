package index

import (
	"encoding/json"
	"strings"

	domainerr "techblog/internal/domain/errors"
	"techblog/internal/domain/post"

	bolt "go.etcd.io/bbolt"
)

var ErrNotFound = domainerr.ErrNotFound

func (s *Store) GetPost(slug string) (post.Post, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return post.Post{}, ErrNotFound
	}
	var p post.Post
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bMeta)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(slug))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &p)
	})
	return p, err
}

// List returns every indexed post, newest first, insertion order on ties.
func (s *Store) List() ([]post.Post, error) {
	var out []post.Post
	err := s.db.View(func(tx *bolt.Tx) error {
		idx := tx.Bucket(bIdxDate)
		metaB := tx.Bucket(bMeta)
		if idx == nil || metaB == nil {
			return nil
		}
		cur := idx.Cursor()
		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			slug := slugFromTimeSeqSlugKey(k)
			if slug == "" {
				continue
			}
			v := metaB.Get([]byte(slug))
			if v == nil {
				continue
			}
			var p post.Post
			if err := json.Unmarshal(v, &p); err != nil {
				continue
			}
			out = append(out, p)
		}
		return nil
	})
	return out, err
}

// ListByTag returns the posts carrying tag, matched case-insensitively,
// in the same order List uses.
func (s *Store) ListByTag(tag string) ([]post.Post, error) {
	tag = strings.TrimSpace(strings.ToLower(tag))
	if tag == "" {
		return nil, nil
	}
	var out []post.Post
	err := s.db.View(func(tx *bolt.Tx) error {
		parent := tx.Bucket(bIdxTag)
		metaB := tx.Bucket(bMeta)
		if parent == nil || metaB == nil {
			return nil
		}
		sb := parent.Bucket([]byte(tag))
		if sb == nil {
			return nil
		}
		cur := sb.Cursor()
		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			slug := slugFromTimeSeqSlugKey(k)
			if slug == "" {
				continue
			}
			v := metaB.Get([]byte(slug))
			if v == nil {
				continue
			}
			var p post.Post
			if err := json.Unmarshal(v, &p); err != nil {
				continue
			}
			out = append(out, p)
		}
		return nil
	})
	return out, err
}

// AllTags returns the distinct tags, lexicographically sorted by their
// lowercased form, each in the casing of its first occurrence.
func (s *Store) AllTags() ([]string, error) {
	var tags []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bTagNames)
		if b == nil {
			return nil
		}
		// bbolt 的 key 本来就是字节序遍历，小写 key 即字典序
		return b.ForEach(func(k, v []byte) error {
			tags = append(tags, string(v))
			return nil
		})
	})
	return tags, err
}

// TagCounts maps each tag (display casing) to the number of posts carrying it.
func (s *Store) TagCounts() (map[string]int, error) {
	counts := make(map[string]int)
	err := s.db.View(func(tx *bolt.Tx) error {
		parent := tx.Bucket(bIdxTag)
		namesB := tx.Bucket(bTagNames)
		if parent == nil || namesB == nil {
			return nil
		}
		return parent.ForEachBucket(func(k []byte) error {
			sb := parent.Bucket(k)
			if sb == nil {
				return nil
			}
			name := string(k)
			if v := namesB.Get(k); v != nil {
				name = string(v)
			}
			counts[name] = sb.Stats().KeyN
			return nil
		})
	})
	return counts, err
}
