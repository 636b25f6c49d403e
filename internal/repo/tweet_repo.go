// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Tweet
// model. Tweets are immutable: there is no update or delete here.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plumage/go-tweet-backend/internal/domain"
)

// CreateTweet inserts a new Tweet row authored by userID. The tweet ID is a
// randomly generated UUID and CreatedAt is set to UTC; callers that fan the
// tweet out copy that timestamp into each feed entry.
func CreateTweet(ctx context.Context, db *gorm.DB, userID, content string) (*domain.Tweet, error) {
	t := &domain.Tweet{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// GetTweet fetches a single tweet by ID with its author preloaded, or
// ErrNotFound if missing.
func GetTweet(ctx context.Context, db *gorm.DB, id string) (*domain.Tweet, error) {
	var t domain.Tweet
	err := db.WithContext(ctx).
		Preload("User").
		First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTweetsByUser returns all tweets authored by userID, ordered by
// creation time descending (id breaks ties deterministically). The author
// is preloaded for rendering. Returns an empty slice when there are none.
func ListTweetsByUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.Tweet, error) {
	var out []domain.Tweet
	err := db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&out).Error
	return out, err
}

// CountTweets returns the total number of tweets (used by tests/stats).
func CountTweets(ctx context.Context, db *gorm.DB) (int64, error) {
	var cnt int64
	err := db.WithContext(ctx).Model(&domain.Tweet{}).Count(&cnt).Error
	return cnt, err
}
