// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides identity propagation and the authentication gate. The
// service trusts an upstream gateway to authenticate callers and inject the
// acting user's ID via the X-User-ID header; Identity() lifts that header
// into the Gin context and RequireUser() rejects requests that arrive
// without one.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// HeaderUserID carries the authenticated caller's user ID, injected by
	// the upstream gateway after it has verified the session.
	HeaderUserID = "X-User-ID"

	// userIDKey is the Gin context key under which the acting user is stored.
	userIDKey = "userID"
)

// Identity copies the injected caller identity from X-User-ID into the Gin
// context. It never rejects: anonymous requests simply carry no identity,
// and RequireUser() decides per-route whether that is acceptable.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := strings.TrimSpace(c.GetHeader(HeaderUserID)); uid != "" {
			c.Set(userIDKey, uid)
		}
		c.Next()
	}
}

// RequireUser aborts with 403 when no caller identity is present. Placed on
// every route that acts on behalf of a user.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    "unauthenticated",
				"message": "authentication required",
			})
			return
		}
		c.Next()
	}
}

// UserID returns the acting user's ID from the Gin context, or "" when the
// request is anonymous.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
