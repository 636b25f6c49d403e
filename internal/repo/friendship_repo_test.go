package repo

import (
	"context"
	"testing"
	"time"

	"github.com/plumage/go-tweet-backend/internal/domain"
)

func TestCreateFriendship_IdempotentPair(t *testing.T) {
	db := newRepoDB(t, &domain.Friendship{})
	ctx := context.Background()

	created, err := CreateFriendship(ctx, db, "a", "b")
	if err != nil {
		t.Fatalf("first follow: %v", err)
	}
	if !created {
		t.Fatalf("first follow should create an edge")
	}

	// Same pair again: no error, no new row, duplicate reported.
	created, err = CreateFriendship(ctx, db, "a", "b")
	if err != nil {
		t.Fatalf("duplicate follow: %v", err)
	}
	if created {
		t.Fatalf("duplicate follow must not create a second edge")
	}

	total, err := CountFriendships(ctx, db)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 1 {
		t.Fatalf("edge count = %d, want 1", total)
	}

	// Reverse direction is a distinct edge.
	created, err = CreateFriendship(ctx, db, "b", "a")
	if err != nil || !created {
		t.Fatalf("reverse follow: created=%v err=%v", created, err)
	}
}

func TestDeleteFriendship_ReportsCount(t *testing.T) {
	db := newRepoDB(t, &domain.Friendship{})
	ctx := context.Background()

	// Deleting a non-existent edge is not an error, count is 0.
	n, err := DeleteFriendship(ctx, db, "a", "b")
	if err != nil {
		t.Fatalf("delete missing edge: %v", err)
	}
	if n != 0 {
		t.Fatalf("deleted = %d, want 0", n)
	}

	if _, err := CreateFriendship(ctx, db, "a", "b"); err != nil {
		t.Fatalf("follow: %v", err)
	}
	before, _ := CountFriendships(ctx, db)

	n, err = DeleteFriendship(ctx, db, "a", "b")
	if err != nil || n != 1 {
		t.Fatalf("delete existing edge: n=%d err=%v", n, err)
	}
	after, _ := CountFriendships(ctx, db)
	if after != before-1 {
		t.Fatalf("edge count %d -> %d, want net -1", before, after)
	}
}

func TestFriendshipExists(t *testing.T) {
	db := newRepoDB(t, &domain.Friendship{})
	ctx := context.Background()

	ok, err := FriendshipExists(ctx, db, "a", "b")
	if err != nil || ok {
		t.Fatalf("exists before follow: ok=%v err=%v", ok, err)
	}
	if _, err := CreateFriendship(ctx, db, "a", "b"); err != nil {
		t.Fatalf("follow: %v", err)
	}
	ok, err = FriendshipExists(ctx, db, "a", "b")
	if err != nil || !ok {
		t.Fatalf("exists after follow: ok=%v err=%v", ok, err)
	}
	// Directionality: b -> a does not exist.
	ok, _ = FriendshipExists(ctx, db, "b", "a")
	if ok {
		t.Fatalf("reverse edge should not exist")
	}
}

func TestListFollowers_OrderAndPreload(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.Friendship{})
	ctx := context.Background()

	for _, u := range []domain.User{
		{ID: "star", Username: "star", NameKey: "star", Email: "star@example.com", PasswordHash: "x"},
		{ID: "f1", Username: "f1", NameKey: "f1", Email: "f1@example.com", PasswordHash: "x"},
		{ID: "f2", Username: "f2", NameKey: "f2", Email: "f2@example.com", PasswordHash: "x"},
		{ID: "f3", Username: "f3", NameKey: "f3", Email: "f3@example.com", PasswordHash: "x"},
	} {
		if err := db.Create(&u).Error; err != nil {
			t.Fatalf("seed user %s: %v", u.ID, err)
		}
	}

	// E1, E2, E3 created in order; listing must return [E3, E2, E1].
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, from := range []string{"f1", "f2", "f3"} {
		edge := domain.Friendship{
			ID:         from + "-edge",
			FromUserID: from,
			ToUserID:   "star",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(&edge).Error; err != nil {
			t.Fatalf("seed edge %s: %v", from, err)
		}
	}

	followers, err := ListFollowers(ctx, db, "star")
	if err != nil {
		t.Fatalf("ListFollowers: %v", err)
	}
	if len(followers) != 3 {
		t.Fatalf("followers = %d, want 3", len(followers))
	}
	want := []string{"f3", "f2", "f1"}
	for i, w := range want {
		if followers[i].FromUserID != w {
			t.Fatalf("followers[%d] = %s, want %s", i, followers[i].FromUserID, w)
		}
		if followers[i].FromUser == nil || followers[i].FromUser.Username != w {
			t.Fatalf("followers[%d] user not preloaded: %+v", i, followers[i].FromUser)
		}
	}
}

func TestListFollowings_OrderDescending(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.Friendship{})
	ctx := context.Background()

	for _, u := range []domain.User{
		{ID: "me", Username: "me", NameKey: "me", Email: "me@example.com", PasswordHash: "x"},
		{ID: "t1", Username: "t1", NameKey: "t1", Email: "t1@example.com", PasswordHash: "x"},
		{ID: "t2", Username: "t2", NameKey: "t2", Email: "t2@example.com", PasswordHash: "x"},
	} {
		if err := db.Create(&u).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, to := range []string{"t1", "t2"} {
		edge := domain.Friendship{
			ID:         "e" + to,
			FromUserID: "me",
			ToUserID:   to,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(&edge).Error; err != nil {
			t.Fatalf("seed edge: %v", err)
		}
	}

	followings, err := ListFollowings(ctx, db, "me")
	if err != nil {
		t.Fatalf("ListFollowings: %v", err)
	}
	if len(followings) != 2 || followings[0].ToUserID != "t2" || followings[1].ToUserID != "t1" {
		t.Fatalf("unexpected order: %#v", followings)
	}
	if followings[0].ToUser == nil || followings[0].ToUser.Username != "t2" {
		t.Fatalf("followed user not preloaded")
	}
}

func TestListFollowerIDsPage_StablePagination(t *testing.T) {
	db := newRepoDB(t, &domain.Friendship{})
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		edge := domain.Friendship{
			ID:         string(rune('a' + i)),
			FromUserID: string(rune('a' + i)),
			ToUserID:   "star",
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		}
		if err := db.Create(&edge).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	page1, err := ListFollowerIDsPage(ctx, db, "star", 0, 2)
	if err != nil {
		t.Fatalf("page1: %v", err)
	}
	page2, err := ListFollowerIDsPage(ctx, db, "star", 2, 2)
	if err != nil {
		t.Fatalf("page2: %v", err)
	}
	page3, err := ListFollowerIDsPage(ctx, db, "star", 4, 2)
	if err != nil {
		t.Fatalf("page3: %v", err)
	}
	got := append(append(append([]string{}, page1...), page2...), page3...)
	want := []string{"a", "b", "c", "d", "e"}
	if len(got) != len(want) {
		t.Fatalf("paged ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("paged ids = %v, want %v", got, want)
		}
	}
}
