// Package services – TweetService
//
// This file implements TweetService, the application-level component that
// owns tweet creation and listing. Creation validates and normalizes the
// content, persists the tweet, and then hands it to the fan-out engine.
//
// Fan-out is best-effort relative to the tweet write: once the tweet row is
// committed the tweet exists, and a delivery failure is logged rather than
// surfaced to the author. The feed table's dedup index makes any later
// redelivery of the same tweet safe.
package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/plumage/go-tweet-backend/internal/domain"
	"github.com/plumage/go-tweet-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/unicode/norm"
)

// Fanout delivers a freshly created tweet to recipient feeds.
type Fanout interface {
	FanoutToFollowers(ctx context.Context, tweet *domain.Tweet) (int64, error)
}

// TweetService coordinates tweet persistence and feed delivery.
type TweetService struct {
	DB   *gorm.DB
	Feed Fanout

	// MaxContentRunes caps tweet length; zero falls back to the domain limit.
	MaxContentRunes int
}

func (s *TweetService) maxRunes() int {
	if s.MaxContentRunes > 0 {
		return s.MaxContentRunes
	}
	return domain.MaxContentRunes
}

// Create validates content, persists a tweet for userID, and triggers
// fan-out. The returned tweet has its author preloaded for rendering.
func (s *TweetService) Create(ctx context.Context, userID, content string) (*domain.Tweet, error) {
	tr := otel.Tracer("services/TweetService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	content = norm.NFC.String(content)
	if strings.TrimSpace(content) == "" {
		return nil, NewValidationError("content", "This field is required.")
	}
	if utf8.RuneCountInString(content) > s.maxRunes() {
		return nil, NewValidationError("content", "Ensure this field has no more than 140 characters.")
	}

	if ok, err := repo.UserExists(ctx, s.DB, userID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrUserNotFound
	}

	tweet, err := repo.CreateTweet(ctx, s.DB, userID, content)
	if err != nil {
		return nil, err
	}

	// Delivery failures must not fail the create: the tweet is committed.
	if s.Feed != nil {
		if _, ferr := s.Feed.FanoutToFollowers(ctx, tweet); ferr != nil {
			log.Warn().Err(ferr).
				Str("tweet_id", tweet.ID).
				Str("user_id", userID).
				Msg("newsfeed fan-out failed; tweet persisted without full delivery")
		}
	}

	return repo.GetTweet(ctx, s.DB, tweet.ID)
}

// Get returns a single tweet with its author preloaded.
func (s *TweetService) Get(ctx context.Context, tweetID string) (*domain.Tweet, error) {
	tr := otel.Tracer("services/TweetService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("tweet.id", tweetID)),
	)
	defer span.End()

	t, err := repo.GetTweet(ctx, s.DB, tweetID)
	if err != nil {
		return nil, ErrTweetNotFound
	}
	return t, nil
}

// ListByUser returns userID's tweets, newest first.
func (s *TweetService) ListByUser(ctx context.Context, userID string) ([]domain.Tweet, error) {
	tr := otel.Tracer("services/TweetService")
	ctx, span := tr.Start(ctx, "ListByUser",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	if ok, err := repo.UserExists(ctx, s.DB, userID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrUserNotFound
	}
	return repo.ListTweetsByUser(ctx, s.DB, userID)
}
