package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/plumage/go-tweet-backend/internal/config"
	"github.com/plumage/go-tweet-backend/internal/domain"
	"github.com/plumage/go-tweet-backend/internal/http/middleware"
)

// --- test DB helper (pure-Go sqlite, no CGO) ---
func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.User{}, &domain.Friendship{}, &domain.Tweet{},
		&domain.Comment{}, &domain.NewsFeed{}, &domain.Idempotency{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func testConfig(base string) config.Config {
	return config.Config{
		APIBasePath: base,
		RateRPS:     100,
		RateBurst:   50,
		FanoutBatch: 100,
		CORS:        config.CORSConfig{},
		Security:    config.SecurityConfig{EnableHSTS: false},
		OTEL:        config.OTELConfig{ServiceName: "test-svc"},
	}
}

func TestRegisterRoutes_CORSAllowAll_Health_Metrics_Fallbacks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	db := newTestDB(t, "routerdb")

	RegisterRoutes(r, db, nil, testConfig("/api"))

	// /health works
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	// CORS (AllowAllOrigins) → header "*"
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}

	// /metrics is wired
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || len(w.Body.Bytes()) == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}

	// NoRoute → 404
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/nope", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope expected 404, got %d", w.Code)
	}

	// NoMethod → 405 (POST /health)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health expected 405, got %d", w.Code)
	}

	// Wrong method on a contract route → 405 too (GET on follow)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/friendships/u1/follow/", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET follow expected 405, got %d", w.Code)
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	db := newTestDB(t, "routerdb_cors")

	cfg := testConfig("/api")
	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{"http://example.com"}}
	RegisterRoutes(r, db, nil, cfg)

	// Any request runs through CORS middleware; header should reflect origin.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://example.com")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// tiny cap to trigger MaxBytesReader
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("0123456789AB")) // 12 bytes
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 from limitBody, got %d", w.Code)
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// "/" and "" should mount at root
	root1 := groupWithPrefix(r, "/")
	root1.GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	root2 := groupWithPrefix(r, "")
	root2.GET("/two", func(c *gin.Context) { c.String(http.StatusOK, "two") })

	// non-root prefix
	api := groupWithPrefix(r, "/api")
	api.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for path, want := range map[string]string{"/one": "one", "/two": "two", "/api/ping": "pong"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK || rec.Body.String() != want {
			t.Fatalf("GET %s got %d %q", path, rec.Code, rec.Body.String())
		}
	}
}

// Smoke test that a request traverses idempotency + ratelimit + otel + security headers pipeline.
func TestPipeline_Smoke(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	db := newTestDB(t, "routerdb_smoke")

	cfg := testConfig("/api")
	cfg.Security = config.SecurityConfig{EnableHSTS: true, HSTSMaxAge: time.Hour}
	RegisterRoutes(r, db, nil, cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	// simulate https so HSTS could be eligible if middleware checks scheme
	req.URL.Scheme = "https"
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("pipeline GET /health = %d", w.Code)
	}
	// RequestID header should be present (from RequestID middleware)
	if rid := w.Header().Get("X-Request-ID"); rid == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
}

func TestRegisterRoutes_IdempotencyCallback_MissAndHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	db := newTestDB(t, "routerdb_idem")
	RegisterRoutes(r, db, nil, testConfig("/api"))

	const uid = "u1"
	const key = "key-hit"

	// --- MISS: record does not exist (executes 'rec == nil' branch) ---
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/health", bytes.NewBufferString("{}"))
	req.Header.Set(middleware.HeaderUserID, uid)
	req.Header.Set(middleware.HeaderIdempotencyKey, key)
	r.ServeHTTP(w, req)
	// NoMethod is expected for POST /health, but middleware ran.

	// --- seed an idempotency record so the callback returns non-nil ---
	seed := &domain.Idempotency{
		ID:        "idem-seed-1",
		UserID:    uid,
		Key:       key,
		TweetID:   "t-1",
		Status:    201,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := db.Create(seed).Error; err != nil {
		t.Fatalf("seed idempotency: %v", err)
	}

	// --- HIT: record exists (executes 'return true, nil' branch) ---
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/health", bytes.NewBufferString("{}"))
	req.Header.Set(middleware.HeaderUserID, uid)
	req.Header.Set(middleware.HeaderIdempotencyKey, key)
	r.ServeHTTP(w, req)
	// again, 405 is fine; goal is to drive the middleware branch.
}

// --- full-stack contract test over real routes ---

func doJSON(t *testing.T, r *gin.Engine, method, path, actor string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set(middleware.HeaderUserID, actor)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w, out
}

func signup(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()
	w, body := doJSON(t, r, http.MethodPost, "/api/accounts/signup/", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup %s = %d (%s)", username, w.Code, w.Body.String())
	}
	id, _ := body["id"].(string)
	if id == "" {
		t.Fatalf("signup %s returned no id: %v", username, body)
	}
	return id
}

func TestAPI_EndToEndFeedScenario(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	db := newTestDB(t, "routerdb_e2e")
	RegisterRoutes(r, db, nil, testConfig("/api"))

	u1 := signup(t, r, "poster")
	u2 := signup(t, r, "reader")

	feedLen := func(actor string) int {
		w, body := doJSON(t, r, http.MethodGet, "/api/newsfeeds/", actor, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("GET /newsfeeds/ as %s = %d", actor, w.Code)
		}
		items, _ := body["newsfeeds"].([]any)
		return len(items)
	}

	// Unauthenticated feed read is rejected.
	if w, _ := doJSON(t, r, http.MethodGet, "/api/newsfeeds/", "", nil); w.Code != http.StatusForbidden {
		t.Fatalf("anonymous feed read = %d; want 403", w.Code)
	}

	// U1 (no followers) posts: own feed 1, U2's 0.
	if w, _ := doJSON(t, r, http.MethodPost, "/api/tweets/", u1, map[string]string{"content": "first"}); w.Code != http.StatusCreated {
		t.Fatalf("tweet 1 = %d", w.Code)
	}
	if n := feedLen(u1); n != 1 {
		t.Fatalf("u1 feed = %d; want 1", n)
	}
	if n := feedLen(u2); n != 0 {
		t.Fatalf("u2 feed = %d; want 0", n)
	}

	// U2 follows U1; second tweet lands in both feeds.
	if w, body := doJSON(t, r, http.MethodPost, "/api/friendships/"+u1+"/follow/", u2, nil); w.Code != http.StatusCreated {
		t.Fatalf("follow = %d (%v)", w.Code, body)
	}
	if w, _ := doJSON(t, r, http.MethodPost, "/api/tweets/", u1, map[string]string{"content": "second"}); w.Code != http.StatusCreated {
		t.Fatalf("tweet 2 = %d", w.Code)
	}
	if n := feedLen(u1); n != 2 {
		t.Fatalf("u1 feed = %d; want 2", n)
	}
	if n := feedLen(u2); n != 1 {
		t.Fatalf("u2 feed = %d; want only the post-follow tweet", n)
	}

	// Duplicate follow reports duplicate over the wire.
	if w, body := doJSON(t, r, http.MethodPost, "/api/friendships/"+u1+"/follow/", u2, nil); w.Code != http.StatusCreated || body["duplicate"] != true {
		t.Fatalf("repeat follow = %d %v; want 201 duplicate=true", w.Code, body)
	}

	// Self-follow → 400; anonymous follow → 403.
	if w, _ := doJSON(t, r, http.MethodPost, "/api/friendships/"+u1+"/follow/", u1, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("self follow = %d; want 400", w.Code)
	}
	if w, _ := doJSON(t, r, http.MethodPost, "/api/friendships/"+u1+"/follow/", "", nil); w.Code != http.StatusForbidden {
		t.Fatalf("anonymous follow = %d; want 403", w.Code)
	}

	// Unfollow reports deleted=1, then 0.
	if w, body := doJSON(t, r, http.MethodPost, "/api/friendships/"+u1+"/unfollow/", u2, nil); w.Code != http.StatusOK || body["deleted"] != float64(1) {
		t.Fatalf("unfollow = %d %v; want 200 deleted=1", w.Code, body)
	}
	if w, body := doJSON(t, r, http.MethodPost, "/api/friendships/"+u1+"/unfollow/", u2, nil); w.Code != http.StatusOK || body["deleted"] != float64(0) {
		t.Fatalf("repeat unfollow = %d %v; want 200 deleted=0", w.Code, body)
	}
}

func TestAPI_TweetAndCommentContract(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	db := newTestDB(t, "routerdb_contract")
	RegisterRoutes(r, db, nil, testConfig("/api"))

	author := signup(t, r, "author")
	commenter := signup(t, r, "commenter")

	// Create tweet; response embeds the author.
	w, tweet := doJSON(t, r, http.MethodPost, "/api/tweets/", author, map[string]string{"content": "hello"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create tweet = %d (%s)", w.Code, w.Body.String())
	}
	tweetID, _ := tweet["id"].(string)
	if tweetID == "" {
		t.Fatalf("tweet has no id: %v", tweet)
	}
	if user, _ := tweet["user"].(map[string]any); user == nil || user["username"] != "author" {
		t.Fatalf("tweet missing nested user: %v", tweet)
	}

	// Empty content → 400 with a field error.
	if w, body := doJSON(t, r, http.MethodPost, "/api/tweets/", author, map[string]string{"content": ""}); w.Code != http.StatusBadRequest {
		t.Fatalf("empty tweet = %d (%v)", w.Code, body)
	}

	// Listing requires user_id.
	if w, _ := doJSON(t, r, http.MethodGet, "/api/tweets/", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("list without user_id = %d; want 400", w.Code)
	}
	w, body := doJSON(t, r, http.MethodGet, "/api/tweets/?user_id="+author, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list tweets = %d", w.Code)
	}
	if items, _ := body["tweets"].([]any); len(items) != 1 {
		t.Fatalf("tweets = %v; want 1 item", body)
	}

	// Comment lifecycle.
	w, comment := doJSON(t, r, http.MethodPost, "/api/comments/", commenter, map[string]string{
		"tweet_id": tweetID, "content": "nice",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create comment = %d (%s)", w.Code, w.Body.String())
	}
	commentID, _ := comment["id"].(string)

	// Non-owner update → 403.
	if w, _ := doJSON(t, r, http.MethodPut, "/api/comments/"+commentID+"/", author, map[string]string{"content": "hijack"}); w.Code != http.StatusForbidden {
		t.Fatalf("non-owner update = %d; want 403", w.Code)
	}
	// Owner update → 200 with new content.
	w, updated := doJSON(t, r, http.MethodPut, "/api/comments/"+commentID+"/", commenter, map[string]string{"content": "edited"})
	if w.Code != http.StatusOK || updated["content"] != "edited" {
		t.Fatalf("owner update = %d %v", w.Code, updated)
	}

	// Missing tweet_id on listing → 400.
	if w, _ := doJSON(t, r, http.MethodGet, "/api/comments/", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("list comments without tweet_id = %d; want 400", w.Code)
	}
	w, body = doJSON(t, r, http.MethodGet, "/api/comments/?tweet_id="+tweetID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list comments = %d", w.Code)
	}
	if items, _ := body["comments"].([]any); len(items) != 1 {
		t.Fatalf("comments = %v; want 1 item", body)
	}

	// Delete: non-owner 403, owner 200 {success}.
	if w, _ := doJSON(t, r, http.MethodDelete, "/api/comments/"+commentID+"/", author, nil); w.Code != http.StatusForbidden {
		t.Fatalf("non-owner delete = %d; want 403", w.Code)
	}
	if w, body := doJSON(t, r, http.MethodDelete, "/api/comments/"+commentID+"/", commenter, nil); w.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("owner delete = %d %v", w.Code, body)
	}
}

func TestAPI_IdempotentTweetCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	db := newTestDB(t, "routerdb_idem_tweet")
	RegisterRoutes(r, db, nil, testConfig("/api"))

	author := signup(t, r, "retrier")

	post := func() (*httptest.ResponseRecorder, map[string]any) {
		var buf bytes.Buffer
		_ = json.NewEncoder(&buf).Encode(map[string]string{"content": "exactly once"})
		req := httptest.NewRequest(http.MethodPost, "/api/tweets/", &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.HeaderUserID, author)
		req.Header.Set(middleware.HeaderIdempotencyKey, "retry-key-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		body := map[string]any{}
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		return w, body
	}

	w1, first := post()
	if w1.Code != http.StatusCreated {
		t.Fatalf("first create = %d", w1.Code)
	}
	w2, second := post()
	if w2.Code != http.StatusCreated {
		t.Fatalf("retry create = %d", w2.Code)
	}
	if w2.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatalf("retry should be flagged as replayed")
	}
	if first["id"] != second["id"] {
		t.Fatalf("retry created a second tweet: %v vs %v", first["id"], second["id"])
	}

	// Still exactly one tweet in the author's listing.
	w, body := doJSON(t, r, http.MethodGet, "/api/tweets/?user_id="+author, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	if items, _ := body["tweets"].([]any); len(items) != 1 {
		t.Fatalf("tweets = %d; want exactly 1", len(items))
	}
}
