// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// materialized news feed (NewsFeed model).
//
// The feed is written by the fan-out engine (one row per recipient per
// tweet) and read back as a single indexed scan per user. Batch inserts go
// through ON CONFLICT DO NOTHING against the (owner_id, tweet_id) unique
// index, so a retried or partially repeated fan-out never duplicates rows —
// each row insert is atomic even though the batch as a whole is not.
package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plumage/go-tweet-backend/internal/domain"
)

// InsertFeedEntries materializes one feed entry per recipient for the given
// tweet, copying the tweet's creation time into every row so ordering stays
// comparable across fan-outs. Duplicate (owner, tweet) pairs are skipped.
// Returns the number of rows actually inserted.
func InsertFeedEntries(ctx context.Context, db *gorm.DB, recipientIDs []string, tweet *domain.Tweet) (int64, error) {
	if len(recipientIDs) == 0 {
		return 0, nil
	}
	rows := make([]domain.NewsFeed, 0, len(recipientIDs))
	for _, owner := range recipientIDs {
		rows = append(rows, domain.NewsFeed{
			ID:        uuid.NewString(),
			OwnerID:   owner,
			TweetID:   tweet.ID,
			CreatedAt: tweet.CreatedAt,
		})
	}
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows)
	return res.RowsAffected, res.Error
}

// ListFeed returns all feed entries owned by userID, most recent tweet
// first (created_at descending, id as the deterministic tiebreak), each
// joined with its tweet and the tweet's author for rendering.
func ListFeed(ctx context.Context, db *gorm.DB, userID string) ([]domain.NewsFeed, error) {
	var out []domain.NewsFeed
	err := db.WithContext(ctx).
		Preload("Tweet").
		Preload("Tweet.User").
		Where("owner_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&out).Error
	return out, err
}

// CountFeed returns the number of feed entries owned by userID.
func CountFeed(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var cnt int64
	err := db.WithContext(ctx).
		Model(&domain.NewsFeed{}).
		Where("owner_id = ?", userID).
		Count(&cnt).Error
	return cnt, err
}
