package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chirp/domain"
	"chirp/errs"
)

func TestToggleFollowHandler(t *testing.T) {
	server := newTestServer()
	alice := &domain.User{ID: 1, Name: "alice", Remember: "alice-token"}
	server.signInAs(alice)

	t.Run("requires auth", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, httptest.NewRequest("POST", "/follow/2", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("reports the new state", func(t *testing.T) {
		server.fs.ToggleFn = func(followerID, followedID int) (bool, error) {
			assert.Equal(t, alice.ID, followerID)
			assert.Equal(t, 2, followedID)
			return true, nil
		}
		w := httptest.NewRecorder()
		server.ServeHTTP(w, authedRequest("POST", "/follow/2", alice))
		require.Equal(t, http.StatusOK, w.Code)

		var got FollowResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.True(t, got.IsFollowing)
	})

	t.Run("self-follow", func(t *testing.T) {
		server.fs.ToggleFn = func(followerID, followedID int) (bool, error) {
			return false, errs.Errorf(errs.EINVALID, "You cannot follow yourself.")
		}
		w := httptest.NewRecorder()
		server.ServeHTTP(w, authedRequest("POST", "/follow/1", alice))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "You cannot follow yourself.", decodeError(t, w))
	})
}
