// Comment HTTP handlers.
//
// This file exposes REST endpoints for comments on tweets:
//   - POST   /comments/                       (create)
//   - PUT    /comments/{comment_id}/          (owner-only content update)
//   - DELETE /comments/{comment_id}/          (owner-only delete)
//   - GET    /comments/?tweet_id=&user_id=    (chronological listing)
//
// Update requests may carry extra fields; everything except content is
// silently ignored so authorship and the tweet binding stay immutable.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/plumage/go-tweet-backend/internal/domain"
)

//
// DTOs
//

// CreateCommentRequest is the JSON payload for creating a comment.
type CreateCommentRequest struct {
	// TweetID identifies the tweet being commented on.
	TweetID string `json:"tweet_id" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	// Content is the comment body, 1-140 characters.
	Content string `json:"content" example:"nice one"`
}

// UpdateCommentRequest is the JSON payload for editing a comment. Only
// Content is honored; other fields present in the body are discarded.
type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// DeleteCommentResponse acknowledges a successful delete.
type DeleteCommentResponse struct {
	Success bool `json:"success"`
}

// ListCommentsResponse wraps a tweet's comments in chronological order.
type ListCommentsResponse struct {
	Comments []domain.Comment `json:"comments"`
}

//
// Handlers
//

// CreateComment godoc
// @ID          createComment
// @Summary     Comment on a tweet
// @Description Attaches a comment by the current user to the given tweet.
// @Tags        Comments
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Acting user ID"
// @Param       body       body    handlers.CreateCommentRequest  true  "Comment payload"
//
// @Success     201  {object}  domain.Comment
// @Failure     400  {object}  handlers.ErrorResponse  "Missing/invalid tweet_id or content"
// @Failure     403  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Router      /comments/ [post]
func (h *Handlers) CreateComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failFields(c, map[string]string{
			"tweet_id": "This field is required.",
			"content":  "This field is required.",
		}, "invalid JSON body")
		return
	}

	comment, err := h.commentSvc.Create(c.Request.Context(), userID(c), req.TweetID, req.Content)
	if err != nil {
		if !failService(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, comment)
}

// UpdateComment godoc
// @ID          updateComment
// @Summary     Edit a comment
// @Description Replaces the content of a comment owned by the current user.
// @Description Any other field supplied in the body is ignored.
// @Tags        Comments
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID   header  string  true  "Acting user ID"
// @Param       comment_id  path    string  true  "Comment ID"
// @Param       body        body    handlers.UpdateCommentRequest  true  "New content"
//
// @Success     200  {object}  domain.Comment
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failure"
// @Failure     403  {object}  handlers.ErrorResponse  "Not the owner"
// @Failure     404  {object}  handlers.ErrorResponse  "Comment missing"
// @Router      /comments/{comment_id}/ [put]
func (h *Handlers) UpdateComment(c *gin.Context) {
	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failFields(c, map[string]string{"content": "This field is required."}, "invalid JSON body")
		return
	}

	comment, err := h.commentSvc.Update(c.Request.Context(), userID(c), c.Param("comment_id"), req.Content)
	if err != nil {
		if !failService(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, comment)
}

// DeleteComment godoc
// @ID          deleteComment
// @Summary     Delete a comment
// @Description Removes a comment owned by the current user.
// @Tags        Comments
// @Produce     json
//
// @Param       X-User-ID   header  string  true  "Acting user ID"
// @Param       comment_id  path    string  true  "Comment ID"
//
// @Success     200  {object}  handlers.DeleteCommentResponse
// @Failure     403  {object}  handlers.ErrorResponse  "Not the owner"
// @Failure     404  {object}  handlers.ErrorResponse  "Comment missing"
// @Router      /comments/{comment_id}/ [delete]
func (h *Handlers) DeleteComment(c *gin.Context) {
	if err := h.commentSvc.Delete(c.Request.Context(), userID(c), c.Param("comment_id")); err != nil {
		if !failService(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, DeleteCommentResponse{Success: true})
}

// ListComments godoc
// @ID          listComments
// @Summary     List comments on a tweet
// @Description Returns comments for tweet_id in chronological order, optionally
// @Description filtered to a single author via user_id.
// @Tags        Comments
// @Produce     json
//
// @Param       tweet_id  query  string  true   "Tweet whose comments to list"
// @Param       user_id   query  string  false  "Filter to this author"
//
// @Success     200  {object}  handlers.ListCommentsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "tweet_id missing"
// @Router      /comments/ [get]
func (h *Handlers) ListComments(c *gin.Context) {
	tweetID := strings.TrimSpace(c.Query("tweet_id"))
	author := strings.TrimSpace(c.Query("user_id"))

	items, err := h.commentSvc.List(c.Request.Context(), tweetID, author)
	if err != nil {
		if !failService(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, ListCommentsResponse{Comments: items})
}
