package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"chirp/auth"
	"chirp/domain"
	"chirp/errs"
)

// oauthStateCookie carries the anti-forgery state between the redirect to the
// provider and its callback.
const oauthStateCookie = "oauth_state"

// githubProvider is the provider name stored on OAuth records.
const githubProvider = "github"

func (s *Server) registerOAuthRoutes(r *mux.Router) {
	r.HandleFunc("/oauth/github", s.handleGithubLogin).Methods("GET")
	r.HandleFunc("/oauth/github/callback", s.handleGithubCallback).Methods("GET")
}

// handleGithubLogin handles the route "GET /oauth/github".
// It sends the user to Github's consent screen with a fresh state token.
func (s *Server) handleGithubLogin(w http.ResponseWriter, r *http.Request) {
	state, err := auth.MakeRememberToken()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		Secure:   s.isProd,
	})
	http.Redirect(w, r, s.github.AuthCodeURL(state), http.StatusFound)
}

// githubUser is the slice of Github's user payload we care about.
type githubUser struct {
	ID        int    `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// handleGithubCallback handles the route "GET /oauth/github/callback".
// It verifies the state, exchanges the code for a token, fetches the Github
// identity, links it to a local user (creating one on first login) and signs
// the user in.
func (s *Server) handleGithubCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.FormValue("state") {
		errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "OAuth state mismatch."))
		return
	}

	token, err := s.github.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "OAuth code exchange failed."))
		return
	}

	client := s.github.Client(r.Context(), token)
	resp, err := client.Get("https://api.github.com/user")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	defer resp.Body.Close()

	var ghUser githubUser
	if err := json.NewDecoder(resp.Body).Decode(&ghUser); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user, err := s.userForGithubIdentity(&ghUser)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.signIn(w, r.Context(), user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	http.Redirect(w, r, s.clientURL, http.StatusFound)
}

// userForGithubIdentity resolves the local user behind a Github identity.
// A returning identity maps straight to its linked user. A new identity gets
// linked to the user owning the same email address, or to a freshly created
// passwordless user.
func (s *Server) userForGithubIdentity(ghUser *githubUser) (*domain.User, error) {
	existing, err := s.oas.ByProviderUserID(githubProvider, ghUser.ID)
	if err == nil {
		return s.us.ByID(existing.UserID)
	}
	if errs.ErrorCode(err) != errs.ENOTFOUND {
		return nil, err
	}

	name := ghUser.Name
	if name == "" {
		name = ghUser.Login
	}
	user, err := s.us.ByEmail(ghUser.Email)
	if err != nil {
		// Only an actual miss means "new user". A failing store must not
		// silently mint a duplicate account.
		if errs.ErrorCode(err) != errs.ENOTFOUND {
			return nil, err
		}
		user = &domain.User{
			Name:             name,
			Email:            ghUser.Email,
			Image:            ghUser.AvatarURL,
			NoPasswordNeeded: true,
		}
		if err := s.us.Create(user); err != nil {
			return nil, err
		}
	}

	oauth := &domain.OAuth{
		UserID:         user.ID,
		Provider:       githubProvider,
		ProviderUserID: ghUser.ID,
	}
	if err := s.oas.Create(oauth); err != nil {
		return nil, err
	}
	return user, nil
}
