package crud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chirp/domain"
	"chirp/errs"
)

func TestFollowToggle(t *testing.T) {
	resetTables(t)
	fs := NewFollowService(testDB)
	alice := seedUser(t, "alice")
	bob := seedUser(t, "bob")

	following, err := fs.Toggle(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)
	assert.Equal(t, int64(1), countRows(t, &domain.Follow{}))

	following, err = fs.Toggle(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
	assert.Equal(t, int64(0), countRows(t, &domain.Follow{}))
}

func TestFollowToggleIsDirectional(t *testing.T) {
	resetTables(t)
	fs := NewFollowService(testDB)
	alice := seedUser(t, "alice")
	bob := seedUser(t, "bob")

	_, err := fs.Toggle(alice.ID, bob.ID)
	require.NoError(t, err)

	// Bob following Alice back is a second, independent edge.
	following, err := fs.Toggle(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, following)
	assert.Equal(t, int64(2), countRows(t, &domain.Follow{}))
}

func TestFollowToggleValidation(t *testing.T) {
	resetTables(t)
	fs := NewFollowService(testDB)
	alice := seedUser(t, "alice")

	t.Run("rejects self-follow", func(t *testing.T) {
		_, err := fs.Toggle(alice.ID, alice.ID)
		require.Error(t, err)
		assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
		assert.Equal(t, int64(0), countRows(t, &domain.Follow{}))
	})

	t.Run("rejects missing target", func(t *testing.T) {
		_, err := fs.Toggle(alice.ID, 999999)
		require.Error(t, err)
		assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
	})

	t.Run("rejects missing follower id", func(t *testing.T) {
		_, err := fs.Toggle(0, alice.ID)
		require.Error(t, err)
		assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
	})
}
