// Package cache provides the optional Redis-backed read-through cache used by
// the news-feed path. The cache is a pure accelerator: every method is safe to
// call on a nil *FeedCache, in which case it degrades to a no-op so callers
// never need to branch on whether caching is enabled.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/plumage/go-tweet-backend/internal/domain"
)

// FeedCache stores the rendered news feed of a user as a JSON blob keyed by
// the feed owner's ID. Entries expire after TTL and are explicitly invalidated
// whenever fan-out delivers new entries to the owner.
type FeedCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// New returns a FeedCache over the given client. A nil client yields a nil
// cache, which all methods tolerate.
func New(client *redis.Client, ttl time.Duration) *FeedCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &FeedCache{Client: client, TTL: ttl}
}

func feedKey(ownerID string) string { return "feed:" + ownerID }

// GetFeed returns the cached feed for ownerID, or (nil, false) on a miss or
// any transport/decoding error. Errors are deliberately swallowed: a broken
// cache must never break reads.
func (c *FeedCache) GetFeed(ctx context.Context, ownerID string) ([]domain.NewsFeed, bool) {
	if c == nil || c.Client == nil {
		return nil, false
	}
	raw, err := c.Client.Get(ctx, feedKey(ownerID)).Bytes()
	if err != nil {
		return nil, false
	}
	var items []domain.NewsFeed
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

// SetFeed stores the feed for ownerID with the configured TTL. Failures are
// ignored for the same reason as GetFeed.
func (c *FeedCache) SetFeed(ctx context.Context, ownerID string, items []domain.NewsFeed) {
	if c == nil || c.Client == nil {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	c.Client.Set(ctx, feedKey(ownerID), raw, c.TTL)
}

// Invalidate drops the cached feeds of the given owners. Used by fan-out after
// inserting fresh entries so the next read reflects them.
func (c *FeedCache) Invalidate(ctx context.Context, ownerIDs ...string) {
	if c == nil || c.Client == nil || len(ownerIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(ownerIDs))
	for _, id := range ownerIDs {
		keys = append(keys, feedKey(id))
	}
	c.Client.Del(ctx, keys...)
}
