package domain

import (
	"time"
)

// Tweet is append-only: it's created once and never updated in place.
// The pair (created_at, id) is the feed's total order, with the id breaking
// ties between tweets that share a timestamp, so it carries a composite index.
type Tweet struct {
	ID      int    `json:"id" gorm:"index:idx_tweets_feed,priority:2"`
	UserID  int    `json:"user_id" gorm:"notNull;index"`
	User    User   `json:"user"`
	Content string `json:"content"`

	CreatedAt time.Time `json:"created_at" gorm:"index:idx_tweets_feed,priority:1"`
	UpdatedAt time.Time `json:"updated_at"`

	Likes []Like `json:"-" gorm:"foreignKey:TweetID"`
}

// TweetService is a set of methods to manipulate and work with the Tweet model.
type TweetService interface {
	Create(tweet *Tweet) error
	ByID(id int) (*Tweet, error)
	Feed(filter FeedFilter, cursor *Cursor, limit, viewerID int) (*FeedPage, error)
}
