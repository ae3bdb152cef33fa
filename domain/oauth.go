package domain

import (
	"time"
)

// OAuth links a local User to an identity at an external provider.
type OAuth struct {
	ID             int    `json:"id"`
	UserID         int    `json:"user_id" gorm:"notNull;index"`
	User           *User  `json:"user,omitempty"`
	Provider       string `json:"provider" gorm:"uniqueIndex:idx_oauths_provider_user"`
	ProviderUserID int    `json:"provider_user_id" gorm:"uniqueIndex:idx_oauths_provider_user"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OAuthService is a set of methods to manipulate and work with the OAuth model.
type OAuthService interface {
	ByProviderUserID(provider string, providerUserID int) (*OAuth, error)
	Create(oauth *OAuth) error
}
