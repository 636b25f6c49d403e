// Friendship HTTP handlers.
//
// This file exposes REST endpoints for the follow graph:
//   - POST /friendships/{user_id}/follow/      (idempotent follow)
//   - POST /friendships/{user_id}/unfollow/    (unfollow, reports deleted count)
//   - GET  /friendships/{user_id}/followers/   (newest follower first)
//   - GET  /friendships/{user_id}/followings/  (newest edge first)
//
// Follow is idempotent: re-following an existing edge succeeds and flags the
// response with duplicate=true instead of erroring.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/plumage/go-tweet-backend/internal/domain"
	"github.com/plumage/go-tweet-backend/internal/services"
)

//
// DTOs
//

// FollowResponse reports the outcome of a follow request.
type FollowResponse struct {
	// Success is always true on a 201 response.
	Success bool `json:"success"`
	// Duplicate is true when the edge already existed.
	Duplicate bool `json:"duplicate"`
}

// UnfollowResponse reports how many edges an unfollow removed (0 or 1).
type UnfollowResponse struct {
	Success bool  `json:"success"`
	Deleted int64 `json:"deleted"`
}

// FollowEdgeView renders one follower/following edge for listings.
type FollowEdgeView struct {
	User      *domain.User `json:"user"`
	CreatedAt time.Time    `json:"created_at"`
}

// ListFollowersResponse wraps the followers of a user.
type ListFollowersResponse struct {
	Followers []FollowEdgeView `json:"followers"`
}

// ListFollowingsResponse wraps the users someone follows.
type ListFollowingsResponse struct {
	Followings []FollowEdgeView `json:"followings"`
}

func edgeViews(edges []services.FollowEdge) []FollowEdgeView {
	out := make([]FollowEdgeView, 0, len(edges))
	for _, e := range edges {
		out = append(out, FollowEdgeView{User: e.User, CreatedAt: e.CreatedAt})
	}
	return out
}

//
// Handlers
//

// Follow godoc
// @ID          follow
// @Summary     Follow a user
// @Description Creates a follow edge from the current user to {user_id}. Idempotent.
// @Tags        Friendships
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Acting user ID"
// @Param       user_id    path    string  true  "User to follow"
//
// @Success     201  {object}  handlers.FollowResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Self-follow"
// @Failure     403  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     404  {object}  handlers.ErrorResponse  "Target user missing"
// @Router      /friendships/{user_id}/follow/ [post]
func (h *Handlers) Follow(c *gin.Context) {
	dup, err := h.friendSvc.Follow(c.Request.Context(), userID(c), c.Param("user_id"))
	if err != nil {
		if !failService(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, FollowResponse{Success: true, Duplicate: dup})
}

// Unfollow godoc
// @ID          unfollow
// @Summary     Unfollow a user
// @Description Removes the follow edge from the current user to {user_id}. Removing a
// @Description nonexistent edge succeeds with deleted=0.
// @Tags        Friendships
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Acting user ID"
// @Param       user_id    path    string  true  "User to unfollow"
//
// @Success     200  {object}  handlers.UnfollowResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Self-unfollow"
// @Failure     403  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Router      /friendships/{user_id}/unfollow/ [post]
func (h *Handlers) Unfollow(c *gin.Context) {
	deleted, err := h.friendSvc.Unfollow(c.Request.Context(), userID(c), c.Param("user_id"))
	if err != nil {
		if !failService(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, UnfollowResponse{Success: true, Deleted: deleted})
}

// ListFollowers godoc
// @ID          listFollowers
// @Summary     List a user's followers
// @Description Returns users following {user_id}, most recent follower first.
// @Tags        Friendships
// @Produce     json
//
// @Param       user_id  path  string  true  "User whose followers to list"
//
// @Success     200  {object}  handlers.ListFollowersResponse
// @Failure     404  {object}  handlers.ErrorResponse  "User missing"
// @Router      /friendships/{user_id}/followers/ [get]
func (h *Handlers) ListFollowers(c *gin.Context) {
	edges, err := h.friendSvc.ListFollowers(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		if !failService(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, ListFollowersResponse{Followers: edgeViews(edges)})
}

// ListFollowings godoc
// @ID          listFollowings
// @Summary     List who a user follows
// @Description Returns users {user_id} follows, most recent edge first.
// @Tags        Friendships
// @Produce     json
//
// @Param       user_id  path  string  true  "User whose followings to list"
//
// @Success     200  {object}  handlers.ListFollowingsResponse
// @Failure     404  {object}  handlers.ErrorResponse  "User missing"
// @Router      /friendships/{user_id}/followings/ [get]
func (h *Handlers) ListFollowings(c *gin.Context) {
	edges, err := h.friendSvc.ListFollowings(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		if !failService(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, ListFollowingsResponse{Followings: edgeViews(edges)})
}
