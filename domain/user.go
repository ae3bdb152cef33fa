package domain

import (
	"time"
)

type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email" gorm:"uniqueIndex"`
	Image string `json:"image,omitempty"`

	// Password and Remember only ever hold transient input. What gets
	// persisted are their hashed counterparts.
	Password     string `json:"password,omitempty" gorm:"-"`
	PasswordHash string `json:"-"`
	Remember     string `json:"-" gorm:"-"`
	RememberHash string `json:"-" gorm:"index"`

	// NoPasswordNeeded is set for users created through an OAuth provider,
	// who have no local password.
	NoPasswordNeeded bool `json:"-" gorm:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Tweets    []Tweet  `json:"tweets,omitempty"`
	Followers []Follow `json:"-" gorm:"foreignKey:FollowedID"`
	Followeds []Follow `json:"-" gorm:"foreignKey:FollowerID"`
}

// UserService is a set of methods to manipulate and work with the User model.
// It also covers the database-facing half of the authentication system.
type UserService interface {
	ByID(id int) (*User, error)
	ByEmail(email string) (*User, error)
	ByRemember(token string) (*User, error)
	Create(user *User) error
	Update(user *User) error
	Authenticate(email, password string) (*User, error)
	Profile(id, viewerID int) (*Profile, error)
}

// Profile is the public projection of a user, annotated for the viewer
// requesting it. IsFollowing is always false for anonymous viewers.
type Profile struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Image          string `json:"image,omitempty"`
	FollowersCount int    `json:"followers_count"`
	FollowsCount   int    `json:"follows_count"`
	TweetsCount    int    `json:"tweets_count"`
	IsFollowing    bool   `json:"is_following"`
}
