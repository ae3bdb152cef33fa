package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"chirp/errs"
)

// registerLikeRoutes is a helper for registering all Like routes.
func (s *Server) registerLikeRoutes(r *mux.Router) {
	// Toggle the like state of a tweet.
	r.HandleFunc("/like/{tweet_id:[0-9]+}", s.requireAuth(s.rateLimit("like", s.handleToggleLike))).Methods("POST")
}

// LikeResponse reports the like state of a tweet after a toggle, with enough
// information for a client to patch its cached feed pages without a refetch.
type LikeResponse struct {
	IsLiked   bool `json:"is_liked"`
	LikeCount int  `json:"like_count"`
}

// handleToggleLike handles the route "POST /like/{tweet_id}".
// It flips the like state of (authed user, tweet) and reports the result.
func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	tweetId, err := strconv.Atoi(mux.Vars(r)["tweet_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	user := s.getUserFromContext(r.Context())
	liked, count, err := s.ls.Toggle(user.ID, tweetId)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	response := LikeResponse{IsLiked: liked, LikeCount: count}
	if err := json.NewEncoder(w).Encode(&response); err != nil {
		errs.LogError(r, err)
		return
	}
}
