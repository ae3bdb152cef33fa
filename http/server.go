package http

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"

	"chirp/domain"
	"chirp/metrics"
)

// Server provides most of the http functionality of this app, namely routing,
// request handling, and middleware. It also performs authentication and
// authorization before handing things over to one of the crud services.
type Server struct {
	router    *mux.Router
	isProd    bool
	clientURL string
	github    *oauth2.Config
	rdb       *redis.Client
	us        domain.UserService
	ts        domain.TweetService
	fs        domain.FollowService
	ls        domain.LikeService
	oas       domain.OAuthService
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the app services passed in.
// rdb may be nil, in which case rate limiting is disabled.
func NewServer(
	isProd bool,
	clientURL string,
	csrfKey string,
	github *oauth2.Config,
	rdb *redis.Client,
	us domain.UserService,
	ts domain.TweetService,
	fs domain.FollowService,
	ls domain.LikeService,
	oas domain.OAuthService,
) *Server {

	// Construct a new Server with a gorilla router and the services passed in.
	s := &Server{
		router:    mux.NewRouter(),
		isProd:    isProd,
		clientURL: clientURL,
		github:    github,
		rdb:       rdb,
		us:        us,
		ts:        ts,
		fs:        fs,
		ls:        ls,
		oas:       oas,
	}

	// Register routes of the auth system.
	s.registerAuthRoutes(s.router)
	s.registerOAuthRoutes(s.router)

	// Register routes of the crud system.
	s.registerTweetRoutes(s.router)
	s.registerFollowRoutes(s.router)
	s.registerLikeRoutes(s.router)
	s.registerUserRoutes(s.router)

	// Expose Prometheus metrics.
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Set up middleware that needs to run on every request. CSRF protection
	// only runs in production, where the client talks to us with cookies over
	// https; dev and the test suite exercise the routes directly.
	if isProd {
		csrfMw := csrf.Protect([]byte(csrfKey), csrf.Secure(true), csrf.Path("/"))
		s.router.Use(csrfMw)
	}
	s.router.Use(setContentTypeJSON, s.recordMetrics, s.checkUser)
	return s
}

// ServeHTTP makes the Server a http.Handler, which also gives the test suite
// a way to drive it without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code a handler writes.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// The recordMetrics middleware counts every request and records its latency,
// labeled by route template, method and status.
func (s *Server) recordMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unknown"
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		metrics.HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) {
	log.Fatal(http.ListenAndServe(":"+strconv.Itoa(port), s))
}
