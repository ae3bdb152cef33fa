package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chirp/domain"
	"chirp/errs"
)

func TestCreateTweetHandler(t *testing.T) {
	server := newTestServer()
	alice := &domain.User{ID: 1, Name: "alice", Remember: "alice-token"}
	server.signInAs(alice)

	t.Run("requires auth", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/tweet", jsonBody(t, map[string]string{"content": "hello"}))
		server.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("authorship comes from the session, not the body", func(t *testing.T) {
		var created *domain.Tweet
		server.ts.CreateFn = func(tweet *domain.Tweet) error {
			tweet.ID = 42
			tweet.CreatedAt = time.Now().UTC()
			created = tweet
			return nil
		}

		w := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/tweet", jsonBody(t, map[string]interface{}{
			"content": "hello",
			"user_id": 999,
		}))
		r.AddCookie(&http.Cookie{Name: rememberCookie, Value: alice.Remember})
		server.ServeHTTP(w, r)

		require.Equal(t, http.StatusCreated, w.Code)
		require.NotNil(t, created)
		assert.Equal(t, alice.ID, created.UserID)

		var got domain.Tweet
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, 42, got.ID)
		assert.Equal(t, "hello", got.Content)
	})

	t.Run("id and timestamp cannot be forged", func(t *testing.T) {
		var gotID int
		var gotCreatedAt time.Time
		server.ts.CreateFn = func(tweet *domain.Tweet) error {
			gotID = tweet.ID
			gotCreatedAt = tweet.CreatedAt
			tweet.ID = 43
			tweet.CreatedAt = time.Now().UTC()
			return nil
		}

		w := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/tweet", jsonBody(t, map[string]interface{}{
			"content":    "hello",
			"id":         777,
			"created_at": "2009-01-01T00:00:00Z",
		}))
		r.AddCookie(&http.Cookie{Name: rememberCookie, Value: alice.Remember})
		server.ServeHTTP(w, r)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Zero(t, gotID, "the store assigns the id")
		assert.True(t, gotCreatedAt.IsZero(), "the store assigns the timestamp")
	})

	t.Run("service rejection becomes a 400", func(t *testing.T) {
		server.ts.CreateFn = func(tweet *domain.Tweet) error {
			return errs.Errorf(errs.EINVALID, "A tweet requires content.")
		}
		w := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/tweet", jsonBody(t, map[string]string{"content": ""}))
		r.AddCookie(&http.Cookie{Name: rememberCookie, Value: alice.Remember})
		server.ServeHTTP(w, r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "A tweet requires content.", decodeError(t, w))
	})

	t.Run("invalid json body", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/tweet", strings.NewReader("{not json"))
		r.AddCookie(&http.Cookie{Name: rememberCookie, Value: alice.Remember})
		server.ServeHTTP(w, r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFeedParams(t *testing.T) {
	server := newTestServer()

	var gotFilter domain.FeedFilter
	var gotCursor *domain.Cursor
	var gotLimit, gotViewer int
	server.ts.FeedFn = func(filter domain.FeedFilter, cursor *domain.Cursor, limit, viewerID int) (*domain.FeedPage, error) {
		gotFilter, gotCursor, gotLimit, gotViewer = filter, cursor, limit, viewerID
		return &domain.FeedPage{}, nil
	}

	t.Run("defaults", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, httptest.NewRequest("GET", "/feed", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, domain.FeedFilter{}, gotFilter)
		assert.Nil(t, gotCursor)
		assert.Equal(t, domain.DefaultFeedLimit, gotLimit)
		assert.Equal(t, 0, gotViewer, "anonymous viewer")
	})

	t.Run("explicit limit and cursor", func(t *testing.T) {
		createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		target := "/feed?limit=25&cursor_id=17&cursor_created_at=" + createdAt.Format(time.RFC3339Nano)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, httptest.NewRequest("GET", target, nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 25, gotLimit)
		require.NotNil(t, gotCursor)
		assert.Equal(t, 17, gotCursor.ID)
		assert.True(t, gotCursor.CreatedAt.Equal(createdAt))
	})

	t.Run("malformed limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, httptest.NewRequest("GET", "/feed?limit=abc", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("half a cursor", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, httptest.NewRequest("GET", "/feed?cursor_id=17", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed cursor timestamp", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, httptest.NewRequest("GET", "/feed?cursor_id=17&cursor_created_at=yesterday", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("out-of-range limit is the service's call", func(t *testing.T) {
		server.ts.FeedFn = func(filter domain.FeedFilter, cursor *domain.Cursor, limit, viewerID int) (*domain.FeedPage, error) {
			return nil, errs.Errorf(errs.EINVALID, "The limit must be between 1 and 100.")
		}
		w := httptest.NewRecorder()
		server.ServeHTTP(w, httptest.NewRequest("GET", "/feed?limit=101", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFollowingFeedHandler(t *testing.T) {
	server := newTestServer()
	alice := &domain.User{ID: 1, Name: "alice", Remember: "alice-token"}
	server.signInAs(alice)

	t.Run("requires auth", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, httptest.NewRequest("GET", "/feed/following", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("passes the viewer and the following filter", func(t *testing.T) {
		server.ts.FeedFn = func(filter domain.FeedFilter, cursor *domain.Cursor, limit, viewerID int) (*domain.FeedPage, error) {
			assert.True(t, filter.OnlyFollowing)
			assert.Equal(t, alice.ID, viewerID)
			return &domain.FeedPage{}, nil
		}
		w := httptest.NewRecorder()
		server.ServeHTTP(w, authedRequest("GET", "/feed/following", alice))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestProfileFeedHandler(t *testing.T) {
	server := newTestServer()
	server.ts.FeedFn = func(filter domain.FeedFilter, cursor *domain.Cursor, limit, viewerID int) (*domain.FeedPage, error) {
		assert.Equal(t, 9, filter.AuthorID)
		assert.False(t, filter.OnlyFollowing)
		return &domain.FeedPage{
			Tweets: []domain.TweetView{{ID: 3, Content: "hi", User: domain.UserSummary{ID: 9, Name: "bob"}}},
		}, nil
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/profiles/9/feed", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var page domain.FeedPage
	require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
	require.Len(t, page.Tweets, 1)
	assert.Equal(t, "bob", page.Tweets[0].User.Name)
	assert.Nil(t, page.NextCursor)
}

// The feed page's json must omit next_cursor on the last page and carry it
// otherwise, since clients key their "load more" button off its presence.
func TestFeedNextCursorSerialization(t *testing.T) {
	server := newTestServer()

	t.Run("present", func(t *testing.T) {
		server.ts.FeedFn = func(domain.FeedFilter, *domain.Cursor, int, int) (*domain.FeedPage, error) {
			return &domain.FeedPage{
				Tweets:     []domain.TweetView{{ID: 1}},
				NextCursor: &domain.Cursor{ID: 1, CreatedAt: time.Now().UTC()},
			}, nil
		}
		w := httptest.NewRecorder()
		server.ServeHTTP(w, httptest.NewRequest("GET", "/feed", nil))
		var raw map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(w.Body).Decode(&raw))
		assert.Contains(t, raw, "next_cursor")
	})

	t.Run("omitted on the last page", func(t *testing.T) {
		server.ts.FeedFn = func(domain.FeedFilter, *domain.Cursor, int, int) (*domain.FeedPage, error) {
			return &domain.FeedPage{Tweets: []domain.TweetView{{ID: 1}}}, nil
		}
		w := httptest.NewRecorder()
		server.ServeHTTP(w, httptest.NewRequest("GET", "/feed", nil))
		var raw map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(w.Body).Decode(&raw))
		assert.NotContains(t, raw, "next_cursor")
	})
}
