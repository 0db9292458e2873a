// Package http exposes the mirror service API consumed by storefront clients.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/salesmatrix/sales-matrix/internal/repository"
	"github.com/salesmatrix/sales-matrix/internal/server/ws"
	"github.com/salesmatrix/sales-matrix/internal/service"
)

// Server bundles the handlers of the mirror API.
type Server struct {
	dir      service.DirectoryService
	users    repository.UserRepository
	products repository.ProductRepository
	presence repository.PresenceRepository
	codes    *service.PasscodeService
	ai       *service.AIService
	hub      *ws.Hub
	log      *zap.Logger
}

// New constructs the API server.
func New(
	dir service.DirectoryService,
	users repository.UserRepository,
	products repository.ProductRepository,
	presence repository.PresenceRepository,
	codes *service.PasscodeService,
	ai *service.AIService,
	hub *ws.Hub,
	log *zap.Logger,
) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		dir:      dir,
		users:    users,
		products: products,
		presence: presence,
		codes:    codes,
		ai:       ai,
		hub:      hub,
		log:      log,
	}
}

// Router assembles the route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)

		r.Get("/users", s.handleListUsers)
		r.Put("/users/{username}", s.handleSaveUser)

		r.Get("/products", s.handleListProducts)
		r.Put("/products/{id}", s.handleSaveProduct)

		r.Post("/presence/{username}", s.handleSetPresence)
		r.Get("/presence/{username}", s.handleGetPresence)

		r.Post("/send-otp", s.handleSendOTP)
		r.Post("/resend-otp", s.handleSendOTP)
		r.Post("/verify-otp", s.handleVerifyOTP)

		r.Post("/ai", s.handleAI)
	})

	if s.hub != nil {
		r.Get("/ws/chat", s.hub.Serve)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decode(r *http.Request, dest any) error {
	return json.NewDecoder(r.Body).Decode(dest)
}
