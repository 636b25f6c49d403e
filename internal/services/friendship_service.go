// Package services – FriendshipService
//
// This file implements FriendshipService, which owns the directed follower
// graph. Follow is idempotent: the composite unique index on
// (from_user_id, to_user_id) turns a repeated follow into a no-op, and the
// service reports the collision so the transport can mark the response as a
// duplicate. Unfollow mirrors this by reporting how many edges were removed.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// carry both endpoints of the edge.
package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/plumage/go-tweet-backend/internal/domain"
	"github.com/plumage/go-tweet-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// FollowEdge pairs the user on the far side of a friendship edge with the
// moment the edge was created, for follower/following listings.
type FollowEdge struct {
	User      *domain.User
	CreatedAt time.Time
}

// FriendshipService coordinates follow/unfollow and follower listings.
type FriendshipService struct {
	DB *gorm.DB
}

// Follow makes actorID follow targetID. It reports duplicate=true when the
// edge already existed; either way the edge exists on return.
func (s *FriendshipService) Follow(ctx context.Context, actorID, targetID string) (duplicate bool, err error) {
	tr := otel.Tracer("services/FriendshipService")
	ctx, span := tr.Start(ctx, "Follow",
		trace.WithAttributes(
			attribute.String("from.id", actorID),
			attribute.String("to.id", targetID),
		),
	)
	defer span.End()

	if actorID == targetID {
		return false, ErrSelfFollow
	}
	if ok, err := repo.UserExists(ctx, s.DB, targetID); err != nil {
		return false, err
	} else if !ok {
		return false, ErrUserNotFound
	}

	created, err := repo.CreateFriendship(ctx, s.DB, actorID, targetID)
	if err != nil {
		return false, err
	}
	return !created, nil
}

// Unfollow removes the actorID -> targetID edge and returns how many rows
// were deleted (0 when no such edge existed). Unfollowing a stranger is not
// an error.
func (s *FriendshipService) Unfollow(ctx context.Context, actorID, targetID string) (int64, error) {
	tr := otel.Tracer("services/FriendshipService")
	ctx, span := tr.Start(ctx, "Unfollow",
		trace.WithAttributes(
			attribute.String("from.id", actorID),
			attribute.String("to.id", targetID),
		),
	)
	defer span.End()

	if actorID == targetID {
		return 0, ErrSelfUnfollow
	}
	if ok, err := repo.UserExists(ctx, s.DB, targetID); err != nil {
		return 0, err
	} else if !ok {
		return 0, ErrUserNotFound
	}

	return repo.DeleteFriendship(ctx, s.DB, actorID, targetID)
}

// ListFollowers returns the users following userID, newest edge first.
func (s *FriendshipService) ListFollowers(ctx context.Context, userID string) ([]FollowEdge, error) {
	tr := otel.Tracer("services/FriendshipService")
	ctx, span := tr.Start(ctx, "ListFollowers",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	if ok, err := repo.UserExists(ctx, s.DB, userID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrUserNotFound
	}

	edges, err := repo.ListFollowers(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	out := make([]FollowEdge, 0, len(edges))
	for i := range edges {
		out = append(out, FollowEdge{User: edges[i].FromUser, CreatedAt: edges[i].CreatedAt})
	}
	return out, nil
}

// ListFollowings returns the users userID follows, newest edge first.
func (s *FriendshipService) ListFollowings(ctx context.Context, userID string) ([]FollowEdge, error) {
	tr := otel.Tracer("services/FriendshipService")
	ctx, span := tr.Start(ctx, "ListFollowings",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	if ok, err := repo.UserExists(ctx, s.DB, userID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrUserNotFound
	}

	edges, err := repo.ListFollowings(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	out := make([]FollowEdge, 0, len(edges))
	for i := range edges {
		out = append(out, FollowEdge{User: edges[i].ToUser, CreatedAt: edges[i].CreatedAt})
	}
	return out, nil
}

// IsFollowing reports whether the fromID -> toID edge exists.
func (s *FriendshipService) IsFollowing(ctx context.Context, fromID, toID string) (bool, error) {
	tr := otel.Tracer("services/FriendshipService")
	ctx, span := tr.Start(ctx, "IsFollowing",
		trace.WithAttributes(
			attribute.String("from.id", fromID),
			attribute.String("to.id", toID),
		),
	)
	defer span.End()

	return repo.FriendshipExists(ctx, s.DB, fromID, toID)
}
