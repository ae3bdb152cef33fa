package domain

import (
	"time"
)

// Like represents a many-to-many relationship between a User and a Tweet.
// At most one Like may exist per (user, tweet) pair. That invariant lives in
// the schema as a composite unique index, not in application logic, so a race
// between two concurrent toggles can never leave two rows behind.
// Likes are hard-deleted on un-like.
type Like struct {
	ID      int   `json:"id"`
	UserID  int   `json:"user_id" gorm:"notNull;uniqueIndex:idx_likes_user_tweet"`
	TweetID int   `json:"tweet_id" gorm:"notNull;uniqueIndex:idx_likes_user_tweet"`
	Tweet   Tweet `json:"tweet"`

	CreatedAt time.Time `json:"created_at"`
}

// LikeService is a set of methods to manipulate and work with the Like model.
type LikeService interface {
	// Toggle flips the like state of (userID, tweetID) and reports the
	// resulting state along with the tweet's like count.
	Toggle(userID, tweetID int) (liked bool, likeCount int, err error)
}
