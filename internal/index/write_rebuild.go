package index

import (
	"encoding/json"
	"strings"

	"techblog/internal/domain/post"

	bolt "go.etcd.io/bbolt"
)

// Rebuild replaces the whole index with the given posts. The slice must
// already be in the store's canonical order; its positions become the
// tie-break sequence in the date index.
func (s *Store) Rebuild(posts []post.Post) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		_ = tx.DeleteBucket(bMeta)
		_ = tx.DeleteBucket(bIdxDate)
		_ = tx.DeleteBucket(bIdxTag)
		_ = tx.DeleteBucket(bTagNames)

		metaB, _ := tx.CreateBucket(bMeta)
		dateB, _ := tx.CreateBucket(bIdxDate)
		tagB, _ := tx.CreateBucket(bIdxTag)
		namesB, _ := tx.CreateBucket(bTagNames)

		for i, p := range posts {
			if strings.TrimSpace(p.Slug) == "" {
				continue
			}
			pb, err := json.Marshal(p)
			if err != nil {
				return err
			}
			if err := metaB.Put([]byte(p.Slug), pb); err != nil {
				return err
			}

			key := makeTimeSeqSlugKey(p.Date.UnixNano(), uint32(i), p.Slug)
			if err := dateB.Put(key, []byte{1}); err != nil {
				return err
			}

			for _, tag := range p.Tags {
				if tag == "" {
					continue
				}
				lower := strings.ToLower(tag)

				sb, err := tagB.CreateBucketIfNotExists([]byte(lower))
				if err != nil {
					return err
				}
				if err := sb.Put(key, []byte{1}); err != nil {
					return err
				}

				// 第一次出现的写法作为展示用的大小写
				if namesB.Get([]byte(lower)) == nil {
					if err := namesB.Put([]byte(lower), []byte(tag)); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}
