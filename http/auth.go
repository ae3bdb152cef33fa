package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"chirp/auth"
	"chirp/domain"
	"chirp/errs"
)

// rememberCookie is the name of the session cookie carrying the remember token.
const rememberCookie = "remember_token"

func (s *Server) registerAuthRoutes(r *mux.Router) {
	r.HandleFunc("/register", s.handleRegister).Methods("POST")
	r.HandleFunc("/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/logout", s.requireAuth(s.handleLogout)).Methods("POST")
	r.HandleFunc("/me", s.requireAuth(s.handleMe)).Methods("GET")
}

// handleRegister handles the route "POST /register".
// It creates a new user record and signs the user in.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var user domain.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	if err := s.us.Create(&user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.signIn(w, r.Context(), &user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&user); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleLogin handles the route "POST /login".
// It authenticates the submitted credentials and signs the user in.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds domain.User
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user, err := s.us.Authenticate(creds.Email, creds.Password)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.signIn(w, r.Context(), user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(&user); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleLogout handles the route "POST /logout".
// It rotates the user's remember token, so any other sessions using the old
// token are invalidated too, and expires the cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	user := s.getUserFromContext(r.Context())

	token, err := auth.MakeRememberToken()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	user.Remember = token
	if err := s.us.Update(user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	cookie := http.Cookie{
		Name:     rememberCookie,
		Value:    "",
		Expires:  time.Now(),
		HttpOnly: true,
		Secure:   s.isProd,
	}
	http.SetCookie(w, &cookie)

	response := map[string]string{"message": "successfully logged out"}
	if err := json.NewEncoder(w).Encode(&response); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleMe handles the route "GET /me".
// It returns the authenticated user.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := s.getUserFromContext(r.Context())
	if err := json.NewEncoder(w).Encode(&user); err != nil {
		errs.LogError(r, err)
		return
	}
}

// signIn is used to sign the given user in via cookies.
func (s *Server) signIn(w http.ResponseWriter, ctx context.Context, user *domain.User) error {
	if user.Remember == "" {
		token, err := auth.MakeRememberToken()
		if err != nil {
			return err
		}
		user.Remember = token
		if err := s.us.Update(user); err != nil {
			return err
		}
	}

	cookie := http.Cookie{
		Name:     rememberCookie,
		Value:    user.Remember,
		HttpOnly: true,
		Secure:   s.isProd,
	}
	http.SetCookie(w, &cookie)
	return nil
}

// The checkUser middleware tries to identify the requesting user by the
// remember token cookie. Requests without a valid cookie pass through
// anonymously; handlers that need an identity use requireAuth on top.
func (s *Server) checkUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(rememberCookie)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.us.ByRemember(cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		r = r.WithContext(s.setUserInContext(r.Context(), user))
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects requests that checkUser left anonymous.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.getUserFromContext(r.Context())
		if user == nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "You must be logged in."))
			return
		}
		next.ServeHTTP(w, r)
	}
}

func (s *Server) setUserInContext(ctx context.Context, user *domain.User) context.Context {
	return auth.SetUser(ctx, user)
}

func (s *Server) getUserFromContext(ctx context.Context) *domain.User {
	return auth.GetUser(ctx)
}
