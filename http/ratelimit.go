package http

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"chirp/auth"
	"chirp/errs"
)

const (
	// mutationLimit is how many mutations a single caller may issue per
	// resource within one window.
	mutationLimit = 60
	// mutationWindow is the fixed rate limiting window.
	mutationWindow = time.Minute
)

// rateLimit wraps a mutation handler with a redis-backed fixed-window rate
// limiter, keyed by resource and caller. It fails open: if redis is down or
// not configured, requests pass through. Outside production it's disabled
// entirely so dev and the test suite are never throttled.
func (s *Server) rateLimit(resource string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.rdb == nil || !s.isProd {
			next.ServeHTTP(w, r)
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", resource, callerKey(r))
		count, err := s.rdb.Incr(r.Context(), key).Result()
		if err != nil {
			errs.LogError(r, err)
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			if err := s.rdb.Expire(r.Context(), key, mutationWindow).Err(); err != nil {
				errs.LogError(r, err)
			}
		}
		if count > mutationLimit {
			errs.ReturnError(w, r, errs.Errorf(errs.ERATELIMIT, "Too many requests, slow down."))
			return
		}
		next.ServeHTTP(w, r)
	}
}

// callerKey identifies the caller for rate limiting purposes: the user ID
// when authenticated, the remote IP otherwise.
func callerKey(r *http.Request) string {
	if user := auth.GetUser(r.Context()); user != nil {
		return fmt.Sprintf("user:%d", user.ID)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
