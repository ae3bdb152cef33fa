package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"chirp/errs"
)

// registerFollowRoutes is a helper for registering all Follow routes.
func (s *Server) registerFollowRoutes(r *mux.Router) {
	// Toggle whether the authed user follows another user.
	r.HandleFunc("/follow/{user_id:[0-9]+}", s.requireAuth(s.rateLimit("follow", s.handleToggleFollow))).Methods("POST")
}

// FollowResponse reports the follow state after a toggle. The follower-count
// delta is implied: +1 when is_following turned true, -1 when it turned false.
type FollowResponse struct {
	IsFollowing bool `json:"is_following"`
}

// handleToggleFollow handles the route "POST /follow/{user_id}".
// It flips whether the authed user follows the given user and reports the result.
func (s *Server) handleToggleFollow(w http.ResponseWriter, r *http.Request) {
	followedId, err := strconv.Atoi(mux.Vars(r)["user_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	follower := s.getUserFromContext(r.Context())
	following, err := s.fs.Toggle(follower.ID, followedId)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	response := FollowResponse{IsFollowing: following}
	if err := json.NewEncoder(w).Encode(&response); err != nil {
		errs.LogError(r, err)
		return
	}
}
