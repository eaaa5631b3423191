// Package devserver is an in-memory game server for local play and tests.
// It answers the same routes and error bodies as the real game server.
package devserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/DoyleJ11/langman/internal/transport"
)

type Options struct {
	// SigningKey signs access tokens. A random key is used when empty.
	SigningKey []byte
	LoginTTL   time.Duration
	GameTTL    time.Duration
	BcryptCost int
	Logger     *zap.Logger
	Now        func() time.Time
}

type Server struct {
	store  *store
	tokens *issuer
	log    *zap.Logger

	mu            sync.Mutex
	calls         map[string]int
	rejectGuesses int
}

func New(opts Options) (*Server, error) {
	if opts.LoginTTL <= 0 {
		opts.LoginTTL = 24 * time.Hour
	}
	if opts.GameTTL <= 0 {
		opts.GameTTL = time.Hour
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	key := opts.SigningKey
	if len(key) == 0 {
		var err error
		if key, err = randomKey(); err != nil {
			return nil, err
		}
	}
	return &Server{
		store: newStore(opts.BcryptCost, opts.Now),
		tokens: &issuer{
			key:      key,
			loginTTL: opts.LoginTTL,
			gameTTL:  opts.GameTTL,
			now:      opts.Now,
		},
		log:   opts.Logger,
		calls: make(map[string]int),
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests(r))

	r.Get("/healthz", Healthz)
	r.Post(transport.PathAuth, s.register)
	r.Put(transport.PathAuth, s.login)
	r.Post(transport.PathGames, s.createGame)
	r.Get(transport.PathGames+"/{gameID}", s.fetchGame)
	r.Put(transport.PathGames+"/{gameID}", s.guess)
	r.Delete(transport.PathGames+"/{gameID}", s.deleteGame)
	return r
}

// RejectGuesses makes the next n guesses fail the claims check, as if the
// game token had gone stale.
func (s *Server) RejectGuesses(n int) {
	s.mu.Lock()
	s.rejectGuesses = n
	s.mu.Unlock()
}

// Calls reports how many requests hit route, written as "METHOD pattern",
// e.g. "PUT /api/games/{gameID}".
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

func (s *Server) takeRejection() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rejectGuesses > 0 {
		s.rejectGuesses--
		return true
	}
	return false
}

// logRequests counts each request against its route pattern before serving
// it, then logs the outcome.
func (s *Server) logRequests(routes chi.Routes) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rctx := chi.NewRouteContext()
			pattern := r.URL.Path
			if routes.Match(rctx, r.Method, r.URL.Path) {
				pattern = rctx.RoutePattern()
			}
			route := r.Method + " " + pattern
			s.mu.Lock()
			s.calls[route]++
			s.mu.Unlock()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			s.log.Debug("request",
				zap.String("route", route),
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeMessage writes an error body in the {"message": ...} form.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
