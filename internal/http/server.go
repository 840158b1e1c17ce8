// Package http exposes the tracker as a JSON API.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

// UserStore is the slice of persistence the auth handlers need.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*core.User, error)
	GetUserByUsername(ctx context.Context, username string) (*core.User, error)
}

type Server struct {
	http.Server
	tracker   *services.Tracker
	users     UserStore
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server. Every /api route except register and login requires a
// resolved user identity.
func NewServer(addr string, tracker *services.Tracker, users UserStore, jwtSecret string, tokenTTL time.Duration) *Server {
	s := &Server{
		Server:    http.Server{Addr: addr},
		tracker:   tracker,
		users:     users,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}

	r := chi.NewRouter()
	r.Use(s.withRequestLog)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.withAuth)
			r.Post("/transactions", s.handleCreateTransaction)
			r.Get("/transactions", s.handleRecentTransactions)
			r.Get("/categories", s.handleListCategories)
			r.Get("/dashboard", s.handleDashboard)
			r.Get("/spending/last24h", s.handleSpendingLast24h)
		})
	})

	s.Handler = r
	return s
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Encode response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
