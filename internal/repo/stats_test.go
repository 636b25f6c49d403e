package repo

import (
	"context"
	"testing"
	"time"

	"github.com/plumage/go-tweet-backend/internal/domain"
)

func TestFeedStats(t *testing.T) {
	db := newRepoDB(t, &domain.NewsFeed{})
	ctx := context.Background()

	count, maxTS, err := FeedStats(ctx, db, "u1")
	if err != nil {
		t.Fatalf("empty FeedStats: %v", err)
	}
	if count != 0 || maxTS != nil {
		t.Fatalf("empty feed: count=%d maxTS=%v", count, maxTS)
	}

	t1 := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	for i, ts := range []time.Time{t1, t2} {
		row := domain.NewsFeed{ID: string(rune('a' + i)), OwnerID: "u1", TweetID: string(rune('x' + i)), CreatedAt: ts}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	count, maxTS, err = FeedStats(ctx, db, "u1")
	if err != nil {
		t.Fatalf("FeedStats: %v", err)
	}
	if count != 2 || maxTS == nil || !maxTS.Equal(t2) {
		t.Fatalf("count=%d maxTS=%v, want 2, %v", count, maxTS, t2)
	}
}

func TestTweetStats(t *testing.T) {
	db := newRepoDB(t, &domain.Tweet{})
	ctx := context.Background()

	count, maxTS, err := TweetStats(ctx, db, "u1")
	if err != nil || count != 0 || maxTS != nil {
		t.Fatalf("empty TweetStats: count=%d maxTS=%v err=%v", count, maxTS, err)
	}

	t1 := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	row := domain.Tweet{ID: "t1", UserID: "u1", Content: "x", CreatedAt: t1}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	count, maxTS, err = TweetStats(ctx, db, "u1")
	if err != nil || count != 1 || maxTS == nil || !maxTS.Equal(t1) {
		t.Fatalf("TweetStats: count=%d maxTS=%v err=%v", count, maxTS, err)
	}
}
