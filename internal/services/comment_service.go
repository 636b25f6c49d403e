// Package services – CommentService
//
// This file implements CommentService, which owns comments attached to
// tweets. Creation validates the target tweet and the content; updates are
// restricted to the comment owner and may only touch the content column, so
// authorship and the tweet binding are immutable after creation.
package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/plumage/go-tweet-backend/internal/domain"
	"github.com/plumage/go-tweet-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/unicode/norm"
)

// CommentService coordinates comment persistence and ownership checks.
type CommentService struct {
	DB *gorm.DB

	// MaxContentRunes caps comment length; zero falls back to the domain limit.
	MaxContentRunes int
}

func (s *CommentService) maxRunes() int {
	if s.MaxContentRunes > 0 {
		return s.MaxContentRunes
	}
	return domain.MaxContentRunes
}

func (s *CommentService) validateContent(content string) (string, *ValidationError) {
	content = norm.NFC.String(content)
	if strings.TrimSpace(content) == "" {
		return "", NewValidationError("content", "This field is required.")
	}
	if utf8.RuneCountInString(content) > s.maxRunes() {
		return "", NewValidationError("content", "Ensure this field has no more than 140 characters.")
	}
	return content, nil
}

// Create attaches a new comment by userID to tweetID. A missing tweet is a
// validation failure on tweet_id rather than a lookup error, so the caller
// sees it alongside any content problems.
func (s *CommentService) Create(ctx context.Context, userID, tweetID, content string) (*domain.Comment, error) {
	tr := otel.Tracer("services/CommentService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("tweet.id", tweetID),
		),
	)
	defer span.End()

	ve := &ValidationError{}
	if strings.TrimSpace(tweetID) == "" {
		ve.Add("tweet_id", "This field is required.")
	} else if _, err := repo.GetTweet(ctx, s.DB, tweetID); err != nil {
		if err == repo.ErrNotFound {
			ve.Add("tweet_id", "tweet does not exist")
		} else {
			return nil, err
		}
	}
	content, cve := s.validateContent(content)
	if cve != nil {
		for f, m := range cve.Fields {
			ve.Add(f, m)
		}
	}
	if !ve.Empty() {
		return nil, ve
	}

	c, err := repo.CreateComment(ctx, s.DB, userID, tweetID, content)
	if err != nil {
		return nil, err
	}
	return repo.GetComment(ctx, s.DB, c.ID)
}

// Update replaces the content of an existing comment. Only the owner may
// update, and only the content (plus updated_at) changes.
func (s *CommentService) Update(ctx context.Context, actorID, commentID, content string) (*domain.Comment, error) {
	tr := otel.Tracer("services/CommentService")
	ctx, span := tr.Start(ctx, "Update",
		trace.WithAttributes(
			attribute.String("user.id", actorID),
			attribute.String("comment.id", commentID),
		),
	)
	defer span.End()

	existing, err := repo.GetComment(ctx, s.DB, commentID)
	if err != nil {
		return nil, ErrCommentNotFound
	}
	if existing.UserID != actorID {
		return nil, ErrNotCommentOwner
	}

	content, ve := s.validateContent(content)
	if ve != nil {
		return nil, ve
	}

	if err := repo.UpdateCommentContent(ctx, s.DB, commentID, content); err != nil {
		return nil, err
	}
	return repo.GetComment(ctx, s.DB, commentID)
}

// Delete removes an existing comment. Only the owner may delete.
func (s *CommentService) Delete(ctx context.Context, actorID, commentID string) error {
	tr := otel.Tracer("services/CommentService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(
			attribute.String("user.id", actorID),
			attribute.String("comment.id", commentID),
		),
	)
	defer span.End()

	existing, err := repo.GetComment(ctx, s.DB, commentID)
	if err != nil {
		return ErrCommentNotFound
	}
	if existing.UserID != actorID {
		return ErrNotCommentOwner
	}
	return repo.DeleteComment(ctx, s.DB, commentID)
}

// List returns the comments of a tweet in chronological order, optionally
// narrowed to a single author. tweetID is mandatory.
func (s *CommentService) List(ctx context.Context, tweetID, userID string) ([]domain.Comment, error) {
	tr := otel.Tracer("services/CommentService")
	ctx, span := tr.Start(ctx, "List",
		trace.WithAttributes(
			attribute.String("tweet.id", tweetID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	if strings.TrimSpace(tweetID) == "" {
		return nil, NewValidationError("tweet_id", "This field is required.")
	}
	return repo.ListComments(ctx, s.DB, tweetID, userID)
}
