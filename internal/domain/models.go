// Package domain defines the persistence models for users, friendships,
// tweets, comments, and materialized news-feed entries. These types are
// mapped with GORM and form the core data layer of the application.
package domain

import (
	"time"
)

// MaxContentRunes is the inclusive upper bound on tweet and comment content
// length, counted in runes after NFC normalization.
const MaxContentRunes = 140

// User represents a registered account. Other rows reference users by ID
// only; authentication/session state lives outside this service.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Username: display form as entered at signup.
//   - NameKey: case-folded username used to enforce case-insensitive
//     uniqueness (see services.AccountService).
//   - Email: stored case-folded; unique.
//   - PasswordHash: bcrypt hash, never serialized.
type User struct {
	ID           string    `json:"id"       gorm:"type:char(36);primaryKey"`
	Username     string    `json:"username" gorm:"type:varchar(20);not null"`
	NameKey      string    `json:"-"        gorm:"type:varchar(20);not null;uniqueIndex:ux_users_name_key"`
	Email        string    `json:"email"    gorm:"type:varchar(254);not null;uniqueIndex:ux_users_email"`
	PasswordHash string    `json:"-"        gorm:"type:varchar(128);not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Friendship is a directed follow edge from one user to another. The
// composite unique index makes edge creation idempotent: a concurrent or
// repeated follow of the same pair inserts nothing.
type Friendship struct {
	ID         string    `json:"id"           gorm:"type:char(36);primaryKey"`
	FromUserID string    `json:"from_user_id" gorm:"type:char(36);not null;index:idx_friendships_from;uniqueIndex:ux_friendships_pair,priority:1"`
	ToUserID   string    `json:"to_user_id"   gorm:"type:char(36);not null;index:idx_friendships_to;uniqueIndex:ux_friendships_pair,priority:2"`
	CreatedAt  time.Time `json:"created_at"   gorm:"index"`

	// FromUser/ToUser are preloaded when listings need user snapshots.
	FromUser *User `json:"-" gorm:"foreignKey:FromUserID;references:ID"`
	ToUser   *User `json:"-" gorm:"foreignKey:ToUserID;references:ID"`
}

// TableName returns the database table name for Friendship.
func (Friendship) TableName() string { return "friendships" }

// Tweet is an immutable post by one author. There is no update or delete
// operation; rows only accumulate.
type Tweet struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"    gorm:"type:char(36);not null;index:idx_tweets_user,priority:1"`
	Content   string    `json:"content"    gorm:"type:varchar(140);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_tweets_user,priority:2"`

	// User is the author, embedded in API representations.
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

// TableName returns the database table name for Tweet.
func (Tweet) TableName() string { return "tweets" }

// Comment is a user-authored reply attached to a tweet. Only Content is
// mutable, and only by the comment's owner; UpdatedAt tracks the last edit.
type Comment struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"    gorm:"type:char(36);not null;index"`
	TweetID   string    `json:"tweet_id"   gorm:"type:char(36);not null;index:idx_comments_tweet,priority:1"`
	Content   string    `json:"content"    gorm:"type:varchar(140);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_comments_tweet,priority:2"`
	UpdatedAt time.Time `json:"updated_at"`

	// User is the comment author, embedded in API representations.
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	// Tweet is the parent post. Comments are cascade-deleted with it.
	Tweet *Tweet `json:"-" gorm:"foreignKey:TweetID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Comment.
func (Comment) TableName() string { return "comments" }

// NewsFeed is a materialized per-recipient pointer to a tweet, written at
// fan-out time. CreatedAt is copied from the tweet so entries fanned out at
// different wall-clock moments order consistently. The composite unique
// index deduplicates (owner, tweet), which keeps fan-out retries safe.
type NewsFeed struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	OwnerID   string    `json:"-"          gorm:"type:char(36);not null;index:idx_newsfeeds_owner,priority:1;uniqueIndex:ux_newsfeeds_owner_tweet,priority:1"`
	TweetID   string    `json:"-"          gorm:"type:char(36);not null;uniqueIndex:ux_newsfeeds_owner_tweet,priority:2"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_newsfeeds_owner,priority:2"`

	// Tweet is joined in for rendering; feed reads never touch the graph.
	Tweet *Tweet `json:"tweet,omitempty" gorm:"foreignKey:TweetID;references:ID"`
}

// TableName returns the database table name for NewsFeed.
func (NewsFeed) TableName() string { return "newsfeeds" }
