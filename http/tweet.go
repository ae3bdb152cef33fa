package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"chirp/domain"
	"chirp/errs"
)

func (s *Server) registerTweetRoutes(r *mux.Router) {
	// Create a new tweet.
	r.HandleFunc("/tweet", s.requireAuth(s.rateLimit("tweet", s.handleCreateTweet))).Methods("POST")

	// The feeds. The global and the per-profile feed are readable anonymously,
	// the following-only feed needs a viewer to filter by.
	r.HandleFunc("/feed", s.handleFeed).Methods("GET")
	r.HandleFunc("/feed/following", s.requireAuth(s.handleFollowingFeed)).Methods("GET")
	r.HandleFunc("/profiles/{user_id:[0-9]+}/feed", s.handleProfileFeed).Methods("GET")
}

// CreateTweetRequest is the body of "POST /tweet". Only the content comes
// from the client. Authorship is taken from the session, and the id and
// timestamp are assigned by the store; letting a client pick created_at would
// let it place the tweet anywhere in the feed order.
type CreateTweetRequest struct {
	Content string `json:"content"`
}

// handleCreateTweet handles the route "POST /tweet".
// It reads the content from the json body and appends a new tweet owned by
// the authed user.
func (s *Server) handleCreateTweet(w http.ResponseWriter, r *http.Request) {
	var req CreateTweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := s.getUserFromContext(r.Context())
	tweet := domain.Tweet{
		UserID:  user.ID,
		Content: req.Content,
	}

	if err := s.ts.Create(&tweet); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&tweet); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleFeed handles the route "GET /feed", the global feed.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	s.serveFeed(w, r, domain.FeedFilter{})
}

// handleFollowingFeed handles the route "GET /feed/following", the feed of
// tweets authored by users the viewer follows.
func (s *Server) handleFollowingFeed(w http.ResponseWriter, r *http.Request) {
	s.serveFeed(w, r, domain.FeedFilter{OnlyFollowing: true})
}

// handleProfileFeed handles the route "GET /profiles/{user_id}/feed", the
// feed of tweets authored by a single user.
func (s *Server) handleProfileFeed(w http.ResponseWriter, r *http.Request) {
	authorId, err := strconv.Atoi(mux.Vars(r)["user_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	s.serveFeed(w, r, domain.FeedFilter{AuthorID: authorId})
}

// serveFeed parses the shared pagination params, resolves the viewer and
// returns one feed page. Anonymous viewers are fine: they just get
// is_liked=false everywhere.
func (s *Server) serveFeed(w http.ResponseWriter, r *http.Request, filter domain.FeedFilter) {
	cursor, limit, err := parseFeedParams(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	viewerId := 0
	if user := s.getUserFromContext(r.Context()); user != nil {
		viewerId = user.ID
	}

	page, err := s.ts.Feed(filter, cursor, limit, viewerId)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(page); err != nil {
		errs.LogError(r, err)
		return
	}
}

// parseFeedParams reads the limit and cursor query params. The limit defaults
// to domain.DefaultFeedLimit when absent; range checking is the service's
// job. A cursor needs both of its halves, cursor_id and cursor_created_at
// (RFC3339Nano).
func parseFeedParams(r *http.Request) (*domain.Cursor, int, error) {
	query := r.URL.Query()

	limit := domain.DefaultFeedLimit
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, 0, errs.Errorf(errs.EINVALID, "Invalid limit format.")
		}
		limit = parsed
	}

	rawId, rawCreatedAt := query.Get("cursor_id"), query.Get("cursor_created_at")
	if rawId == "" && rawCreatedAt == "" {
		return nil, limit, nil
	}
	if rawId == "" || rawCreatedAt == "" {
		return nil, 0, errs.Errorf(errs.EINVALID, "A cursor needs both cursor_id and cursor_created_at.")
	}

	id, err := strconv.Atoi(rawId)
	if err != nil {
		return nil, 0, errs.Errorf(errs.EINVALID, "Invalid cursor_id format.")
	}
	createdAt, err := time.Parse(time.RFC3339Nano, rawCreatedAt)
	if err != nil {
		return nil, 0, errs.Errorf(errs.EINVALID, "Invalid cursor_created_at format, want RFC3339.")
	}
	return &domain.Cursor{ID: id, CreatedAt: createdAt}, limit, nil
}
