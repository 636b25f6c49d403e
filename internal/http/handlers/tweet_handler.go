// Tweet HTTP handlers.
//
// This file exposes REST endpoints for tweets:
//   - POST /tweets/           (create; triggers news-feed fan-out)
//   - GET  /tweets/?user_id=  (list a user's tweets, ETag support)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// result exists for (user, key), the handler returns that recorded tweet and
// sets `Idempotency-Replayed: true`.
package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/plumage/go-tweet-backend/internal/domain"
	"github.com/plumage/go-tweet-backend/internal/http/middleware"
	"github.com/plumage/go-tweet-backend/internal/repo"
	"github.com/plumage/go-tweet-backend/internal/services"
)

//
// DTOs
//

// CreateTweetRequest is the JSON payload for posting a tweet.
type CreateTweetRequest struct {
	// Content is the tweet body, 1-140 characters.
	Content string `json:"content" example:"hello world"`
}

// ListTweetsResponse wraps a user's tweets, newest first.
type ListTweetsResponse struct {
	Tweets []domain.Tweet `json:"tweets"`
}

// tweetDB exposes the concrete service DB when available, for best-effort
// extras (ETag stats, idempotency records) that plain stubs don't need.
func (h *Handlers) tweetDB() *gorm.DB {
	if svc, isConcrete := h.tweetSvc.(*services.TweetService); isConcrete {
		return svc.DB
	}
	return nil
}

//
// Handlers
//

// CreateTweet godoc
// @ID          createTweet
// @Summary     Post a tweet
// @Description Persists a tweet for the current user and fans it out to every
// @Description follower's news feed. Supports idempotent retries via the
// @Description Idempotency-Key header (same key → same tweet).
// @Tags        Tweets
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  true  "Acting user ID"
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"
// @Param       body             body    handlers.CreateTweetRequest  true  "Tweet payload"
//
// @Success     201  {object}  domain.Tweet
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failure"
// @Failure     403  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /tweets/ [post]
func (h *Handlers) CreateTweet(c *gin.Context) {
	ctx := c.Request.Context()
	currentUser := userID(c)

	var req CreateTweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failFields(c, map[string]string{"content": "This field is required."}, "invalid JSON body")
		return
	}

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" {
		if db := h.tweetDB(); db != nil {
			if rec, err := repo.GetIdempotency(ctx, db, currentUser, idemKey, time.Now().UTC()); err == nil && rec != nil {
				if prev, err2 := repo.GetTweet(ctx, db, rec.TweetID); err2 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusCreated, prev)
					return
				}
			}
		}
	}

	tweet, err := h.tweetSvc.Create(ctx, currentUser, req.Content)
	if err != nil {
		if !failService(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" {
		if db := h.tweetDB(); db != nil {
			_, _ = repo.CreateIdempotency(ctx, db, currentUser, idemKey, tweet.ID, http.StatusCreated, 24*time.Hour)
		}
	}

	ok(c, http.StatusCreated, tweet)
}

// ListTweets godoc
// @ID          listTweets
// @Summary     List a user's tweets
// @Description Returns all tweets by user_id, newest first. Supports weak ETag
// @Description via If-None-Match and may return 304.
// @Tags        Tweets
// @Produce     json
//
// @Param       user_id        query   string  true  "Author whose tweets to list"
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {object}  handlers.ListTweetsResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string "Not Modified"
// @Failure     400  {object}  handlers.ErrorResponse  "user_id missing"
// @Failure     404  {object}  handlers.ErrorResponse  "User missing"
// @Router      /tweets/ [get]
func (h *Handlers) ListTweets(c *gin.Context) {
	ctx := c.Request.Context()

	author := strings.TrimSpace(c.Query("user_id"))
	if author == "" {
		failFields(c, map[string]string{"user_id": "This field is required."}, "user_id query parameter required")
		return
	}

	// ETag pre-check (best effort).
	if db := h.tweetDB(); db != nil {
		count, maxTS, err := repo.TweetStats(ctx, db, author)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"tweets:%s:%d:%d"`, author, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, err := h.tweetSvc.ListByUser(ctx, author)
	if err != nil {
		if !failService(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, ListTweetsResponse{Tweets: items})
}
