package domain

import "time"

// Follow represents a self-referential many-to-many relationship between two
// users. The FollowerID is the ID of the user that follows, the FollowedID is
// the ID of the user being followed. At most one Follow may exist per pair,
// enforced by a composite unique index. Follows are hard-deleted on unfollow.
type Follow struct {
	ID         int  `json:"id"`
	FollowerID int  `json:"follower_id" gorm:"notNull;uniqueIndex:idx_follows_pair"`
	Follower   User `json:"follower"`
	FollowedID int  `json:"followed_id" gorm:"notNull;uniqueIndex:idx_follows_pair"`
	Followed   User `json:"followed"`

	CreatedAt time.Time `json:"created_at"`
}

// FollowService is a set of methods to manipulate and work with the Follow model.
type FollowService interface {
	// Toggle flips whether followerID follows followedID and reports the
	// resulting state.
	Toggle(followerID, followedID int) (following bool, err error)
}
