// Handler wiring.
//
// This file declares the service contracts consumed by the HTTP layer and the
// Handlers aggregate that binds them. Handlers are transport-thin: they
// validate input, call application services, and translate results into HTTP
// responses. Depending on narrow interfaces (rather than concrete services)
// keeps transport concerns separate from business logic and lets tests swap
// in stubs.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plumage/go-tweet-backend/internal/domain"
	"github.com/plumage/go-tweet-backend/internal/http/middleware"
	"github.com/plumage/go-tweet-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// AccountService defines registration and profile operations.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AccountService interface {
	// Register creates an account and returns the stored user.
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	// GetProfile returns the public profile of a user.
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
}

// FriendshipService defines directed follow-graph operations.
type FriendshipService interface {
	// Follow creates the actor -> target edge; duplicate=true if it existed.
	Follow(ctx context.Context, actorID, targetID string) (duplicate bool, err error)
	// Unfollow removes the edge and reports how many rows were deleted.
	Unfollow(ctx context.Context, actorID, targetID string) (int64, error)
	// ListFollowers returns users following userID, newest edge first.
	ListFollowers(ctx context.Context, userID string) ([]services.FollowEdge, error)
	// ListFollowings returns users userID follows, newest edge first.
	ListFollowings(ctx context.Context, userID string) ([]services.FollowEdge, error)
}

// TweetService defines tweet creation and listing operations.
type TweetService interface {
	// Create persists a tweet and triggers feed delivery.
	Create(ctx context.Context, userID, content string) (*domain.Tweet, error)
	// Get returns a single tweet with its author.
	Get(ctx context.Context, tweetID string) (*domain.Tweet, error)
	// ListByUser returns a user's tweets, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Tweet, error)
}

// NewsFeedService defines feed retrieval operations.
type NewsFeedService interface {
	// ListFeed returns userID's materialized feed, newest first.
	ListFeed(ctx context.Context, userID string) ([]domain.NewsFeed, error)
}

// CommentService defines comment lifecycle operations.
type CommentService interface {
	Create(ctx context.Context, userID, tweetID, content string) (*domain.Comment, error)
	Update(ctx context.Context, actorID, commentID, content string) (*domain.Comment, error)
	Delete(ctx context.Context, actorID, commentID string) error
	List(ctx context.Context, tweetID, userID string) ([]domain.Comment, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for accounts, friendships, tweets,
// comments, and news feeds.
type Handlers struct {
	accountSvc AccountService
	friendSvc  FriendshipService
	tweetSvc   TweetService
	feedSvc    NewsFeedService
	commentSvc CommentService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(accountSvc AccountService, friendSvc FriendshipService, tweetSvc TweetService, feedSvc NewsFeedService, commentSvc CommentService) *Handlers {
	return &Handlers{
		accountSvc: accountSvc,
		friendSvc:  friendSvc,
		tweetSvc:   tweetSvc,
		feedSvc:    feedSvc,
		commentSvc: commentSvc,
	}
}

// userID extracts the authenticated actor from the Gin context (set by the
// Identity middleware). Routes behind RequireUser never see an empty result.
func userID(c *gin.Context) string {
	return middleware.UserID(c)
}

// failService translates common service-layer errors into HTTP responses.
// Returns true when the error was handled; callers fall through to their own
// default for anything else.
func failService(c *gin.Context, err error) bool {
	if ve, isVE := services.AsValidationError(err); isVE {
		failFields(c, ve.Fields, ve.Error())
		return true
	}
	switch {
	case errors.Is(err, services.ErrSelfFollow),
		errors.Is(err, services.ErrSelfUnfollow):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTweetNotFound),
		errors.Is(err, services.ErrCommentNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrNotCommentOwner):
		fail(c, http.StatusForbidden, ErrCodeForbidden, err.Error())
	default:
		return false
	}
	return true
}
