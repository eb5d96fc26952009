// Package store provides an on-disk content cache backed by BoltDB, so
// repeated runs against the same folder skip re-downloading unchanged
// documents. The vector index itself is never persisted; it is rebuilt
// from (possibly cached) content on every run.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"docqa/internal/port"
)

var bucketContent = []byte("content")

type BoltContentCache struct {
	db  *bbolt.DB
	ttl time.Duration
}

type storedContent struct {
	Text      string `json:"t"`
	FetchedAt int64  `json:"at"`
}

var _ port.ContentCache = (*BoltContentCache)(nil)

// NewBoltContentCache opens (or creates) a content cache at path.
func NewBoltContentCache(path string, ttl time.Duration) (*BoltContentCache, error) {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketContent)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create content bucket: %w", err)
	}

	return &BoltContentCache{db: db, ttl: ttl}, nil
}

// Get returns cached content for a document ID. Expired or unreadable
// entries count as misses; a cache never fails a build.
func (c *BoltContentCache) Get(docID string) (string, bool) {
	var stored storedContent
	found := false

	err := c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketContent)
		if b == nil {
			return nil
		}
		data := b.Get([]byte(docID))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &stored); err != nil {
			return nil // skip corrupted entry
		}
		found = true
		return nil
	})
	if err != nil || !found {
		return "", false
	}

	if time.Since(time.Unix(stored.FetchedAt, 0)) > c.ttl {
		_ = c.db.Update(func(tx *bbolt.Tx) error {
			if b := tx.Bucket(bucketContent); b != nil {
				return b.Delete([]byte(docID))
			}
			return nil
		})
		return "", false
	}

	return stored.Text, true
}

func (c *BoltContentCache) Put(docID, text string) {
	stored := storedContent{Text: text, FetchedAt: time.Now().Unix()}
	data, err := json.Marshal(stored)
	if err != nil {
		return
	}

	_ = c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketContent)
		if b == nil {
			return nil
		}
		return b.Put([]byte(docID), data)
	})
}

// Invalidate drops every cached entry.
func (c *BoltContentCache) Invalidate() {
	_ = c.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketContent); err != nil && err != bbolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketContent)
		return err
	})
}

func (c *BoltContentCache) Close() error {
	return c.db.Close()
}
