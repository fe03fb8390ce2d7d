package moderation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheItem struct {
	result    Classification
	expiresAt time.Time
}

// CachedClassifier remembers successful classifications of identical text for
// a while, so resubmitting the same content does not spend quota twice.
// Errors are never cached.
type CachedClassifier struct {
	next  Classifier
	cache *lru.Cache[string, cacheItem]
	ttl   time.Duration
	now   func() time.Time
}

// NewCachedClassifier wraps next with an LRU of the given size.
func NewCachedClassifier(next Classifier, size int, ttl time.Duration) (*CachedClassifier, error) {
	if size <= 0 {
		size = 500
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	l, err := lru.New[string, cacheItem](size)
	if err != nil {
		return nil, fmt.Errorf("create classification cache: %w", err)
	}
	return &CachedClassifier{next: next, cache: l, ttl: ttl, now: time.Now}, nil
}

func (c *CachedClassifier) Classify(ctx context.Context, text string) (*Classification, error) {
	key := cacheKey(text)
	if item, ok := c.cache.Get(key); ok {
		if c.now().Before(item.expiresAt) {
			return item.result.clone(), nil
		}
		c.cache.Remove(key)
	}

	res, err := c.next.Classify(ctx, text)
	if err != nil || res == nil {
		return res, err
	}
	c.cache.Add(key, cacheItem{result: *res.clone(), expiresAt: c.now().Add(c.ttl)})
	return res, nil
}

func (r Classification) clone() *Classification {
	cats := make(map[string]bool, len(r.Categories))
	for k, v := range r.Categories {
		cats[k] = v
	}
	return &Classification{Flagged: r.Flagged, Categories: cats}
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
