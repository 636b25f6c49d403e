package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newAuthRouter(requireUser bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Identity())
	h := func(c *gin.Context) { c.String(http.StatusOK, UserID(c)) }
	if requireUser {
		r.GET("/who", RequireUser(), h)
	} else {
		r.GET("/who", h)
	}
	return r
}

func TestIdentity_PropagatesHeader(t *testing.T) {
	r := newAuthRouter(false)

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set(HeaderUserID, "u-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Body.String() != "u-123" {
		t.Fatalf("got %d %q; want 200 u-123", w.Code, w.Body.String())
	}
}

func TestIdentity_AnonymousIsEmpty(t *testing.T) {
	r := newAuthRouter(false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/who", nil))

	if w.Code != http.StatusOK || w.Body.String() != "" {
		t.Fatalf("got %d %q; want 200 with empty identity", w.Code, w.Body.String())
	}
}

func TestRequireUser(t *testing.T) {
	r := newAuthRouter(true)

	// Anonymous request is rejected.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/who", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("anonymous status = %d; want 403", w.Code)
	}

	// Whitespace-only header counts as anonymous.
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set(HeaderUserID, "   ")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("blank header status = %d; want 403", w.Code)
	}

	// Identified request passes.
	req = httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set(HeaderUserID, "u-1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("identified status = %d; want 200", w.Code)
	}
}
