package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"chirp/errs"
)

func (s *Server) registerUserRoutes(r *mux.Router) {
	// Get the public profile of a user. Readable anonymously.
	r.HandleFunc("/profiles/{user_id:[0-9]+}", s.handleGetProfile).Methods("GET")
}

// handleGetProfile handles the route "GET /profiles/{user_id}".
// It returns the user's public profile with follower / follows / tweet
// counts, annotated with whether the authed viewer follows them.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userId, err := strconv.Atoi(mux.Vars(r)["user_id"])
	if userId <= 0 || err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	viewerId := 0
	if viewer := s.getUserFromContext(r.Context()); viewer != nil {
		viewerId = viewer.ID
	}

	profile, err := s.us.Profile(userId, viewerId)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(profile); err != nil {
		errs.LogError(r, err)
		return
	}
}
