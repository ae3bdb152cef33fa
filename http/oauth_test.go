package http

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chirp/domain"
	"chirp/errs"
)

func TestUserForGithubIdentity(t *testing.T) {
	gh := &githubUser{ID: 5, Login: "bob", Email: "bob@example.com", AvatarURL: "https://example.com/bob.png"}

	t.Run("returning identity maps to its linked user", func(t *testing.T) {
		server := newTestServer()
		server.oas.ByProviderUserIDFn = func(provider string, providerUserID int) (*domain.OAuth, error) {
			assert.Equal(t, githubProvider, provider)
			assert.Equal(t, gh.ID, providerUserID)
			return &domain.OAuth{UserID: 3}, nil
		}
		server.us.ByIDFn = func(id int) (*domain.User, error) {
			assert.Equal(t, 3, id)
			return &domain.User{ID: 3, Name: "bob"}, nil
		}

		user, err := server.userForGithubIdentity(gh)
		require.NoError(t, err)
		assert.Equal(t, 3, user.ID)
	})

	t.Run("unknown email creates a passwordless user and links it", func(t *testing.T) {
		server := newTestServer()
		server.oas.ByProviderUserIDFn = func(string, int) (*domain.OAuth, error) {
			return nil, errs.Errorf(errs.ENOTFOUND, "No account is linked to this identity.")
		}
		server.us.ByEmailFn = func(string) (*domain.User, error) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The user does not exist.")
		}
		var createdUser *domain.User
		server.us.CreateFn = func(user *domain.User) error {
			user.ID = 8
			createdUser = user
			return nil
		}
		var linked *domain.OAuth
		server.oas.CreateFn = func(oauth *domain.OAuth) error {
			linked = oauth
			return nil
		}

		user, err := server.userForGithubIdentity(gh)
		require.NoError(t, err)
		assert.Equal(t, 8, user.ID)
		require.NotNil(t, createdUser)
		assert.True(t, createdUser.NoPasswordNeeded)
		assert.Equal(t, "bob@example.com", createdUser.Email)
		require.NotNil(t, linked)
		assert.Equal(t, 8, linked.UserID)
		assert.Equal(t, githubProvider, linked.Provider)
	})

	t.Run("a failing user lookup does not mint a new account", func(t *testing.T) {
		server := newTestServer()
		server.oas.ByProviderUserIDFn = func(string, int) (*domain.OAuth, error) {
			return nil, errs.Errorf(errs.ENOTFOUND, "No account is linked to this identity.")
		}
		server.us.ByEmailFn = func(string) (*domain.User, error) {
			return nil, errors.New("pq: connection refused")
		}
		created := false
		server.us.CreateFn = func(*domain.User) error {
			created = true
			return nil
		}

		_, err := server.userForGithubIdentity(gh)
		require.Error(t, err)
		assert.False(t, created)
	})
}
