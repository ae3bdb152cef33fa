package domain

import (
	"time"
)

const (
	// DefaultFeedLimit is the page size used when a feed request doesn't
	// specify one.
	DefaultFeedLimit = 10
	// MaxFeedLimit caps the page size a single feed request may ask for.
	MaxFeedLimit = 100
)

// FeedFilter narrows a feed query. The zero value means the global feed.
// OnlyFollowing restricts the feed to tweets authored by users the viewer
// follows, AuthorID to tweets of a single user. They are mutually exclusive.
type FeedFilter struct {
	OnlyFollowing bool
	AuthorID      int
}

// Cursor identifies the last row a previous feed page returned. The next
// page resumes strictly after it in (created_at, id) descending order, so a
// cursor stays usable even if the row it points at has since been deleted.
type Cursor struct {
	ID        int       `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSummary is the slice of a user shown on every tweet in a feed.
type UserSummary struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// TweetView is a tweet shaped for display, annotated for the requesting
// viewer. IsLiked is always false for anonymous viewers.
type TweetView struct {
	ID        int         `json:"id"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	LikeCount int         `json:"like_count"`
	IsLiked   bool        `json:"is_liked"`
	User      UserSummary `json:"user"`
}

// FeedPage is one page of a feed. NextCursor is set iff more matching rows
// exist beyond this page.
type FeedPage struct {
	Tweets     []TweetView `json:"tweets"`
	NextCursor *Cursor     `json:"next_cursor,omitempty"`
}
