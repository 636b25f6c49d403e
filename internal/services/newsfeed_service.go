// Package services – NewsFeedService
//
// This file implements NewsFeedService, the fan-out-on-write engine. When a
// tweet is created the engine materializes one feed entry per recipient (the
// author plus every current follower), so that reading a feed is a single
// indexed scan over precomputed rows rather than a join across the whole
// friendship graph.
//
// Delivery is batched: follower IDs are enumerated in stable pages and each
// page is inserted in one statement. The (owner_id, tweet_id) unique index on
// the feed table makes redelivery harmless, so a crashed or retried fan-out
// never duplicates entries.
//
// Observability: public methods are OpenTelemetry-instrumented, and delivery
// volume is exported through Prometheus counters.
package services

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"

	"github.com/plumage/go-tweet-backend/internal/cache"
	"github.com/plumage/go-tweet-backend/internal/domain"
	"github.com/plumage/go-tweet-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// defaultFanoutBatch bounds a delivery page when no batch size is configured.
const defaultFanoutBatch = 500

var (
	fanoutEntriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsfeed_fanout_entries_total",
		Help: "Feed entries inserted by fan-out (duplicates excluded).",
	})
	fanoutBatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsfeed_fanout_batches_total",
		Help: "Follower pages processed by fan-out.",
	})
)

// NewsFeedService owns the precomputed per-user feed: fan-out delivery on the
// write path and (optionally cached) listing on the read path.
type NewsFeedService struct {
	DB *gorm.DB

	// Cache is the optional Redis feed cache; nil disables caching.
	Cache *cache.FeedCache

	// BatchSize caps how many followers are enumerated and inserted per page.
	BatchSize int
}

func (s *NewsFeedService) batch() int {
	if s.BatchSize > 0 {
		return s.BatchSize
	}
	return defaultFanoutBatch
}

// FanoutToFollowers delivers tweet to the author's own feed and to the feed
// of every follower present at delivery time. Entries carry the tweet's own
// creation timestamp, so feed ordering matches tweet ordering regardless of
// when delivery ran. Returns the number of entries actually inserted.
func (s *NewsFeedService) FanoutToFollowers(ctx context.Context, tweet *domain.Tweet) (int64, error) {
	tr := otel.Tracer("services/NewsFeedService")
	ctx, span := tr.Start(ctx, "FanoutToFollowers",
		trace.WithAttributes(
			attribute.String("tweet.id", tweet.ID),
			attribute.String("user.id", tweet.UserID),
		),
	)
	defer span.End()

	// The author always sees their own tweet, follower or not.
	inserted, err := repo.InsertFeedEntries(ctx, s.DB, []string{tweet.UserID}, tweet)
	if err != nil {
		return 0, err
	}
	s.Cache.Invalidate(ctx, tweet.UserID)

	offset := 0
	for {
		ids, err := repo.ListFollowerIDsPage(ctx, s.DB, tweet.UserID, offset, s.batch())
		if err != nil {
			return inserted, err
		}
		if len(ids) == 0 {
			break
		}
		n, err := repo.InsertFeedEntries(ctx, s.DB, ids, tweet)
		if err != nil {
			return inserted, err
		}
		inserted += n
		fanoutBatchesTotal.Inc()
		s.Cache.Invalidate(ctx, ids...)

		if len(ids) < s.batch() {
			break
		}
		offset += len(ids)
	}

	fanoutEntriesTotal.Add(float64(inserted))
	span.SetAttributes(attribute.Int64("fanout.inserted", inserted))
	return inserted, nil
}

// ListFeed returns userID's feed, newest tweets first. When a cache is
// configured the result is served read-through: a hit skips the database,
// a miss populates the cache for subsequent reads.
func (s *NewsFeedService) ListFeed(ctx context.Context, userID string) ([]domain.NewsFeed, error) {
	tr := otel.Tracer("services/NewsFeedService")
	ctx, span := tr.Start(ctx, "ListFeed",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	if items, ok := s.Cache.GetFeed(ctx, userID); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return items, nil
	}

	items, err := repo.ListFeed(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	s.Cache.SetFeed(ctx, userID, items)
	return items, nil
}
