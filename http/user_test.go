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

func TestGetProfileHandler(t *testing.T) {
	server := newTestServer()
	alice := &domain.User{ID: 1, Name: "alice", Remember: "alice-token"}
	server.signInAs(alice)

	t.Run("anonymous viewer", func(t *testing.T) {
		server.us.ProfileFn = func(id, viewerID int) (*domain.Profile, error) {
			assert.Equal(t, 9, id)
			assert.Equal(t, 0, viewerID)
			return &domain.Profile{ID: 9, Name: "bob", FollowersCount: 2, TweetsCount: 5}, nil
		}
		w := httptest.NewRecorder()
		server.ServeHTTP(w, httptest.NewRequest("GET", "/profiles/9", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var got domain.Profile
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, "bob", got.Name)
		assert.Equal(t, 2, got.FollowersCount)
		assert.False(t, got.IsFollowing)
	})

	t.Run("authed viewer is passed through", func(t *testing.T) {
		server.us.ProfileFn = func(id, viewerID int) (*domain.Profile, error) {
			assert.Equal(t, alice.ID, viewerID)
			return &domain.Profile{ID: 9, Name: "bob", IsFollowing: true}, nil
		}
		w := httptest.NewRecorder()
		server.ServeHTTP(w, authedRequest("GET", "/profiles/9", alice))
		require.Equal(t, http.StatusOK, w.Code)

		var got domain.Profile
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.True(t, got.IsFollowing)
	})

	t.Run("missing user", func(t *testing.T) {
		server.us.ProfileFn = func(id, viewerID int) (*domain.Profile, error) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The user does not exist.")
		}
		w := httptest.NewRecorder()
		server.ServeHTTP(w, httptest.NewRequest("GET", "/profiles/404", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "The user does not exist.", decodeError(t, w))
	})
}
