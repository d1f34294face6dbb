// internal/httpserver/server.go
//
// HTTP wiring for the game backend.
// Responsibilities:
//   - Router + middleware (request IDs, timeouts, panic recovery, JSON
//     content type, credentialed CORS).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game endpoints (optional auth): /game/new, /game/event, /game/state,
//     /game/ws, /game/qr.
//   - Daily challenge endpoints (optional auth) under /daily.
//   - Auth + profile/stat endpoints (require auth): /auth/*, /stats/me,
//     /games/mine.
//
// Guests play with an anonymous-ID cookie; their history is claimed by the
// account on signup/login.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gridle-game/gridle/internal/store"
	"github.com/gridle-game/gridle/internal/words"
)

// Config carries the server's externally supplied settings.
type Config struct {
	// ClientOrigin is the single origin allowed by CORS (credentials on).
	ClientOrigin string
	// BaseURL is the public URL games are shared under (QR codes).
	BaseURL string
	// JWTSecret signs HS256 auth tokens.
	JWTSecret string
	// CookieName holds the auth token cookie name.
	CookieName string
	// DailySalt keys the daily challenge word schedule.
	DailySalt string
	// SecureCookies marks cookies Secure+SameSite=None (production).
	SecureCookies bool
}

func (c *Config) withDefaults() {
	if c.ClientOrigin == "" {
		c.ClientOrigin = "http://localhost:5173"
	}
	if c.BaseURL == "" {
		c.BaseURL = c.ClientOrigin
	}
	if c.JWTSecret == "" {
		c.JWTSecret = "dev_secret_change_me"
	}
	if c.CookieName == "" {
		c.CookieName = "gridle_token"
	}
	if c.DailySalt == "" {
		c.DailySalt = "local_dev_salt"
	}
}

// Server bundles router, session store, relay hub and DB handle.
type Server struct {
	r     *chi.Mux
	store store.Store
	db    *sql.DB
	cfg   Config
	hub   *relayHub
	daily *dailyRuns

	// retainFinished is how long a finished session stays readable
	// (/game/state, open websockets) before it is evicted.
	retainFinished time.Duration
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, cfg Config) *Server {
	cfg.withDefaults()
	s := &Server{
		r:              chi.NewRouter(),
		store:          st,
		db:             db,
		cfg:            cfg,
		hub:            newRelayHub(),
		daily:          newDailyRuns(),
		retainFinished: 10 * time.Minute,
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFor(cfg.ClientOrigin))

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"gridle","endpoints":["/health","POST /game/new","POST /game/event","GET /game/state","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Game endpoints — optional auth, guests welcome.
	s.r.With(s.withOptionalAuth()).Post("/game/new", s.handleNewGame)
	s.r.With(s.withOptionalAuth()).Post("/game/event", s.handleGameEvent)
	s.r.Get("/game/state", s.handleGameState)
	s.r.Get("/game/ws", s.handleGameWS)
	s.r.Get("/game/qr", s.handleGameQR)

	// Daily challenge — optional auth; progress persisted on finish.
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats.
	s.mountAuthRoutes()

	// JSON 404 for easier debugging.
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		a, g := words.Stats()
		_ = json.NewEncoder(w).Encode(map[string]int{"answers": a, "allowed": g})
	})

	return s
}

// evict drops a session from the memory store and its relay from the hub.
func (s *Server) evict(id string) {
	_ = s.store.Delete(context.Background(), id)
	s.hub.unregister(id)
}

// scheduleEviction keeps a finished session readable for a grace period,
// then evicts it so the store and relay hub do not grow without bound.
// Finished games survive as rows in the games table.
func (s *Server) scheduleEviction(id string) {
	time.AfterFunc(s.retainFinished, func() { s.evict(id) })
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router for tests.
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFor enables credentialed CORS for a single origin.
func corsFor(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------- small util --------------------------------

// ConfigFromEnv builds a Config from GRIDLE_* environment variables. Values
// left empty fall back to the dev defaults in withDefaults; flags may still
// override individual fields before New is called.
func ConfigFromEnv() Config {
	return Config{
		ClientOrigin:  getEnv("GRIDLE_CLIENT_ORIGIN", ""),
		BaseURL:       getEnv("GRIDLE_BASE_URL", ""),
		JWTSecret:     getEnv("GRIDLE_JWT_SECRET", ""),
		CookieName:    getEnv("GRIDLE_COOKIE_NAME", ""),
		DailySalt:     getEnv("GRIDLE_DAILY_SALT", ""),
		SecureCookies: os.Getenv("GRIDLE_SECURE_COOKIES") == "true",
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
