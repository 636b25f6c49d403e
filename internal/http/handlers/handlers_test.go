package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/plumage/go-tweet-backend/internal/domain"
	"github.com/plumage/go-tweet-backend/internal/http/middleware"
	"github.com/plumage/go-tweet-backend/internal/services"
)

// ---- configurable stubs for the five service contracts ----
//
// Each stub delegates to an optional func field; nil fields behave as no-ops.
// Tests only populate the method they exercise.

type stubAccountSvc struct {
	register   func(ctx context.Context, username, email, password string) (*domain.User, error)
	getProfile func(ctx context.Context, userID string) (*domain.User, error)
}

func (s stubAccountSvc) Register(ctx context.Context, u, e, p string) (*domain.User, error) {
	if s.register != nil {
		return s.register(ctx, u, e, p)
	}
	return &domain.User{ID: "u-stub", Username: u, Email: e}, nil
}

func (s stubAccountSvc) GetProfile(ctx context.Context, id string) (*domain.User, error) {
	if s.getProfile != nil {
		return s.getProfile(ctx, id)
	}
	return &domain.User{ID: id}, nil
}

type stubFriendSvc struct {
	follow     func(ctx context.Context, actorID, targetID string) (bool, error)
	unfollow   func(ctx context.Context, actorID, targetID string) (int64, error)
	followers  func(ctx context.Context, userID string) ([]services.FollowEdge, error)
	followings func(ctx context.Context, userID string) ([]services.FollowEdge, error)
}

func (s stubFriendSvc) Follow(ctx context.Context, a, t string) (bool, error) {
	if s.follow != nil {
		return s.follow(ctx, a, t)
	}
	return false, nil
}

func (s stubFriendSvc) Unfollow(ctx context.Context, a, t string) (int64, error) {
	if s.unfollow != nil {
		return s.unfollow(ctx, a, t)
	}
	return 0, nil
}

func (s stubFriendSvc) ListFollowers(ctx context.Context, id string) ([]services.FollowEdge, error) {
	if s.followers != nil {
		return s.followers(ctx, id)
	}
	return nil, nil
}

func (s stubFriendSvc) ListFollowings(ctx context.Context, id string) ([]services.FollowEdge, error) {
	if s.followings != nil {
		return s.followings(ctx, id)
	}
	return nil, nil
}

type stubTweetSvc struct {
	create func(ctx context.Context, userID, content string) (*domain.Tweet, error)
	get    func(ctx context.Context, tweetID string) (*domain.Tweet, error)
	list   func(ctx context.Context, userID string) ([]domain.Tweet, error)
}

func (s stubTweetSvc) Create(ctx context.Context, uid, content string) (*domain.Tweet, error) {
	if s.create != nil {
		return s.create(ctx, uid, content)
	}
	return &domain.Tweet{ID: "t-stub", UserID: uid, Content: content}, nil
}

func (s stubTweetSvc) Get(ctx context.Context, id string) (*domain.Tweet, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return &domain.Tweet{ID: id}, nil
}

func (s stubTweetSvc) ListByUser(ctx context.Context, uid string) ([]domain.Tweet, error) {
	if s.list != nil {
		return s.list(ctx, uid)
	}
	return nil, nil
}

type stubFeedSvc struct {
	list func(ctx context.Context, userID string) ([]domain.NewsFeed, error)
}

func (s stubFeedSvc) ListFeed(ctx context.Context, uid string) ([]domain.NewsFeed, error) {
	if s.list != nil {
		return s.list(ctx, uid)
	}
	return nil, nil
}

type stubCommentSvc struct {
	create func(ctx context.Context, userID, tweetID, content string) (*domain.Comment, error)
	update func(ctx context.Context, actorID, commentID, content string) (*domain.Comment, error)
	del    func(ctx context.Context, actorID, commentID string) error
	list   func(ctx context.Context, tweetID, userID string) ([]domain.Comment, error)
}

func (s stubCommentSvc) Create(ctx context.Context, uid, tid, content string) (*domain.Comment, error) {
	if s.create != nil {
		return s.create(ctx, uid, tid, content)
	}
	return &domain.Comment{ID: "c-stub", UserID: uid, TweetID: tid, Content: content}, nil
}

func (s stubCommentSvc) Update(ctx context.Context, actor, id, content string) (*domain.Comment, error) {
	if s.update != nil {
		return s.update(ctx, actor, id, content)
	}
	return &domain.Comment{ID: id, Content: content}, nil
}

func (s stubCommentSvc) Delete(ctx context.Context, actor, id string) error {
	if s.del != nil {
		return s.del(ctx, actor, id)
	}
	return nil
}

func (s stubCommentSvc) List(ctx context.Context, tid, uid string) ([]domain.Comment, error) {
	if s.list != nil {
		return s.list(ctx, tid, uid)
	}
	return nil, nil
}

// ---- helpers ----

type stubs struct {
	account stubAccountSvc
	friend  stubFriendSvc
	tweet   stubTweetSvc
	feed    stubFeedSvc
	comment stubCommentSvc
}

// newTestRouter mounts the handler under test behind the Identity middleware
// so X-User-ID flows through exactly as it does in the real pipeline.
func newTestRouter(s stubs, register func(r *gin.Engine, h *Handlers)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(s.account, s.friend, s.tweet, s.feed, s.comment)
	r := gin.New()
	r.Use(middleware.Identity())
	register(r, h)
	return r
}

func perform(t *testing.T, r *gin.Engine, method, path, actor string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Buffer
	if body != "" {
		rd = bytes.NewBufferString(body)
	} else {
		rd = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set(middleware.HeaderUserID, actor)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeErr(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("json: %v (body %q)", err, w.Body.String())
	}
	return er
}

func TestFailService_UnknownErrorFallsThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	if failService(c, context.DeadlineExceeded) {
		t.Fatalf("unmapped error should not be handled")
	}
}
