// News feed HTTP handlers.
//
// This file exposes the feed read endpoint:
//   - GET /newsfeeds/   (the current user's materialized feed, ETag support)
//
// The feed is precomputed at tweet-creation time by the fan-out engine, so
// this handler only performs an indexed scan (optionally short-circuited by
// the Redis cache in the service layer) — never a graph traversal.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/plumage/go-tweet-backend/internal/domain"
	"github.com/plumage/go-tweet-backend/internal/repo"
	"github.com/plumage/go-tweet-backend/internal/services"
)

// ListNewsFeedResponse wraps the current user's feed, newest tweet first.
type ListNewsFeedResponse struct {
	NewsFeeds []domain.NewsFeed `json:"newsfeeds"`
}

func (h *Handlers) feedDB() *gorm.DB {
	if svc, isConcrete := h.feedSvc.(*services.NewsFeedService); isConcrete {
		return svc.DB
	}
	return nil
}

// ListNewsFeed godoc
// @ID          listNewsFeed
// @Summary     Read the current user's news feed
// @Description Returns the precomputed feed entries of the acting user, newest
// @Description tweet first, each joined with its tweet and author. Supports
// @Description weak ETag via If-None-Match and may return 304.
// @Tags        NewsFeeds
// @Produce     json
//
// @Param       X-User-ID      header  string  true  "Acting user ID"
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {object}  handlers.ListNewsFeedResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string "Not Modified"
// @Failure     403  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /newsfeeds/ [get]
func (h *Handlers) ListNewsFeed(c *gin.Context) {
	ctx := c.Request.Context()
	currentUser := userID(c)

	// ETag pre-check (best effort).
	if db := h.feedDB(); db != nil {
		count, maxTS, err := repo.FeedStats(ctx, db, currentUser)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"newsfeeds:%s:%d:%d"`, currentUser, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, err := h.feedSvc.ListFeed(ctx, currentUser)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListNewsFeedResponse{NewsFeeds: items})
}
