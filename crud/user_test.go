package crud

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chirp/auth"
	"chirp/domain"
	"chirp/errs"
)

func newTestUserService() *UserService {
	return NewUserService(testDB, "test-pepper", "test-hmac-key")
}

func TestUserCreateAndAuthenticate(t *testing.T) {
	resetTables(t)
	us := newTestUserService()

	user := &domain.User{
		Name:     "Alice",
		Email:    "  Alice@Example.COM ",
		Password: "correct horse",
	}
	require.NoError(t, us.Create(user))
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Empty(t, user.Password, "the plaintext password must be cleared")
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEmpty(t, user.Remember)
	assert.NotEmpty(t, user.RememberHash)

	t.Run("correct credentials", func(t *testing.T) {
		found, err := us.Authenticate("alice@example.com", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := us.Authenticate("alice@example.com", "wrong horse")
		require.Error(t, err)
		assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := us.Authenticate("nobody@example.com", "correct horse")
		require.Error(t, err)
		assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
	})
}

func TestUserCreateValidation(t *testing.T) {
	resetTables(t)
	us := newTestUserService()
	require.NoError(t, us.Create(&domain.User{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	}))

	cases := []struct {
		name string
		user domain.User
	}{
		{"missing password", domain.User{Name: "Bob", Email: "bob@example.com"}},
		{"short password", domain.User{Name: "Bob", Email: "bob@example.com", Password: "short"}},
		{"missing email", domain.User{Name: "Bob", Password: "correct horse"}},
		{"malformed email", domain.User{Name: "Bob", Email: "not-an-email", Password: "correct horse"}},
		{"taken email", domain.User{Name: "Bob", Email: "ALICE@example.com", Password: "correct horse"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := us.Create(&tc.user)
			require.Error(t, err)
			assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
		})
	}
}

func TestUserByEmail(t *testing.T) {
	resetTables(t)
	us := newTestUserService()
	user := &domain.User{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	}
	require.NoError(t, us.Create(user))

	found, err := us.ByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = us.ByEmail("nobody@example.com")
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestUserByRemember(t *testing.T) {
	resetTables(t)
	us := newTestUserService()
	user := &domain.User{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	}
	require.NoError(t, us.Create(user))

	found, err := us.ByRemember(user.Remember)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	unknown, err := auth.MakeRememberToken()
	require.NoError(t, err)
	_, err = us.ByRemember(unknown)
	assert.Error(t, err)
}

func TestUserProfile(t *testing.T) {
	resetTables(t)
	us := newTestUserService()
	alice := seedUser(t, "alice")
	bob := seedUser(t, "bob")
	carol := seedUser(t, "carol")

	// Alice has two followers and follows one user herself.
	seedFollow(t, bob, alice)
	seedFollow(t, carol, alice)
	seedFollow(t, alice, bob)
	seedTweet(t, alice, "one", time.Now().UTC())
	seedTweet(t, alice, "two", time.Now().UTC())

	t.Run("counts and viewer follow state", func(t *testing.T) {
		profile, err := us.Profile(alice.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, profile.ID)
		assert.Equal(t, "alice", profile.Name)
		assert.Equal(t, 2, profile.FollowersCount)
		assert.Equal(t, 1, profile.FollowsCount)
		assert.Equal(t, 2, profile.TweetsCount)
		assert.True(t, profile.IsFollowing)
	})

	t.Run("non-following viewer", func(t *testing.T) {
		profile, err := us.Profile(bob.ID, carol.ID)
		require.NoError(t, err)
		assert.False(t, profile.IsFollowing)
	})

	t.Run("anonymous viewer", func(t *testing.T) {
		profile, err := us.Profile(alice.ID, 0)
		require.NoError(t, err)
		assert.False(t, profile.IsFollowing)
	})

	t.Run("own profile is never following itself", func(t *testing.T) {
		profile, err := us.Profile(alice.ID, alice.ID)
		require.NoError(t, err)
		assert.False(t, profile.IsFollowing)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := us.Profile(999999, 0)
		require.Error(t, err)
		assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
	})
}
