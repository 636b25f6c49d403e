// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Comment
// model.
//
// Error semantics:
//   - When a comment is not found, functions return gorm.ErrRecordNotFound
//     (exported in this package as ErrNotFound).
//   - Ownership checks belong to the service layer; UpdateCommentContent and
//     DeleteComment assume the caller already authorized the mutation.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plumage/go-tweet-backend/internal/domain"
)

// CreateComment inserts a new Comment row by userID on tweetID.
func CreateComment(ctx context.Context, db *gorm.DB, userID, tweetID, content string) (*domain.Comment, error) {
	now := time.Now().UTC()
	c := &domain.Comment{
		ID:        uuid.NewString(),
		UserID:    userID,
		TweetID:   tweetID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// GetComment fetches a single comment by ID with its author preloaded, or
// ErrNotFound if missing.
func GetComment(ctx context.Context, db *gorm.DB, id string) (*domain.Comment, error) {
	var c domain.Comment
	err := db.WithContext(ctx).
		Preload("User").
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCommentContent replaces the content of the comment identified by id
// and refreshes updated_at. No other column is touched: user_id, tweet_id,
// and created_at are immutable after creation. Returns ErrNotFound when no
// row was affected.
func UpdateCommentContent(ctx context.Context, db *gorm.DB, id, content string) error {
	res := db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"content":    content,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteComment removes the comment identified by id. Returns ErrNotFound
// when no row was affected.
func DeleteComment(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListComments returns the comments on tweetID in chronological order
// (created_at ascending, id as the deterministic tiebreak), optionally
// filtered to a single author when userID is non-empty. Authors are
// preloaded for rendering.
func ListComments(ctx context.Context, db *gorm.DB, tweetID, userID string) ([]domain.Comment, error) {
	q := db.WithContext(ctx).
		Preload("User").
		Where("tweet_id = ?", tweetID)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var out []domain.Comment
	err := q.Order("created_at asc, id asc").Find(&out).Error
	return out, err
}
