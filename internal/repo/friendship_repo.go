// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the directed
// follow graph (Friendship model).
//
// Error semantics:
//   - Creation never errors on an existing edge; the unique pair index plus
//     ON CONFLICT DO NOTHING makes it idempotent, and the returned bool
//     reports whether a row was actually inserted.
//   - Deletion reports the number of rows removed (0 or 1) instead of
//     treating a missing edge as an error.
//
// Functions:
//
//   - CreateFriendship(ctx, db, fromUserID, toUserID) -> (created bool, error)
//   - DeleteFriendship(ctx, db, fromUserID, toUserID) -> (deleted int64, error)
//   - FriendshipExists(ctx, db, fromUserID, toUserID) -> (bool, error)
//   - ListFollowers(ctx, db, userID)  -> edges where to_user_id = userID
//   - ListFollowings(ctx, db, userID) -> edges where from_user_id = userID
//   - CountFriendships(ctx, db) -> total edge count (used by tests/stats)
//
// Listings are ordered by created_at descending with id as a deterministic
// secondary key, and preload the counterpart user for rendering.
package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plumage/go-tweet-backend/internal/domain"
)

// CreateFriendship inserts the directed edge fromUserID -> toUserID. If the
// edge already exists (including a concurrent insert racing this one) the
// statement inserts nothing and created is false; the loser of such a race
// observes the duplicate rather than an error.
func CreateFriendship(ctx context.Context, db *gorm.DB, fromUserID, toUserID string) (bool, error) {
	f := &domain.Friendship{
		ID:         uuid.NewString(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
	}
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(f)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteFriendship removes the directed edge fromUserID -> toUserID and
// returns how many rows were deleted (0 when no edge existed; not an error).
func DeleteFriendship(ctx context.Context, db *gorm.DB, fromUserID, toUserID string) (int64, error) {
	res := db.WithContext(ctx).
		Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
		Delete(&domain.Friendship{})
	return res.RowsAffected, res.Error
}

// FriendshipExists reports whether fromUserID currently follows toUserID.
func FriendshipExists(ctx context.Context, db *gorm.DB, fromUserID, toUserID string) (bool, error) {
	var cnt int64
	err := db.WithContext(ctx).
		Model(&domain.Friendship{}).
		Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
		Count(&cnt).Error
	return cnt > 0, err
}

// ListFollowers returns every edge pointing at userID (their followers),
// most recent follow first, with the follower user preloaded.
func ListFollowers(ctx context.Context, db *gorm.DB, userID string) ([]domain.Friendship, error) {
	var out []domain.Friendship
	err := db.WithContext(ctx).
		Preload("FromUser").
		Where("to_user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&out).Error
	return out, err
}

// ListFollowings returns every edge originating at userID (who they follow),
// most recent follow first, with the followed user preloaded.
func ListFollowings(ctx context.Context, db *gorm.DB, userID string) ([]domain.Friendship, error) {
	var out []domain.Friendship
	err := db.WithContext(ctx).
		Preload("ToUser").
		Where("from_user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&out).Error
	return out, err
}

// ListFollowerIDsPage returns a page of follower user IDs for toUserID,
// ordered by edge creation ascending so fan-out pagination is stable while
// new followers append. Used by the fan-out engine to enumerate recipients
// in batches.
func ListFollowerIDsPage(ctx context.Context, db *gorm.DB, toUserID string, offset, limit int) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).
		Model(&domain.Friendship{}).
		Where("to_user_id = ?", toUserID).
		Order("created_at asc, id asc").
		Offset(offset).
		Limit(limit).
		Pluck("from_user_id", &ids).Error
	return ids, err
}

// CountFriendships returns the total number of follow edges.
func CountFriendships(ctx context.Context, db *gorm.DB) (int64, error) {
	var cnt int64
	err := db.WithContext(ctx).Model(&domain.Friendship{}).Count(&cnt).Error
	return cnt, err
}
