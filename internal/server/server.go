package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/truthguard/truthguard/internal/audit"
	"github.com/truthguard/truthguard/internal/model"
	"github.com/truthguard/truthguard/internal/pipeline"
)

// Server exposes the validation pipeline over HTTP
type Server struct {
	validator  *pipeline.Validator
	auditor    *audit.Store
	router     chi.Router
	httpServer *http.Server
	addr       string
}

// New creates a server. The audit store may be nil; the audit endpoint then
// returns 404 for every id.
func New(addr string, validator *pipeline.Validator, auditor *audit.Store) *Server {
	s := &Server{
		validator: validator,
		auditor:   auditor,
		addr:      addr,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Get("/audit/{id}", s.handleAuditTrail)
	})

	return r
}

// Router returns the router, mainly for tests
func (s *Server) Router() chi.Router { return s.router }

// validateResponse is the wire shape of a validation result
type validateResponse struct {
	model.ValidationResult
	InteractionID string `json:"interaction_id,omitempty"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req model.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if strings.TrimSpace(req.ResponseText) == "" {
		writeError(w, http.StatusBadRequest, "response_text is required")
		return
	}

	result, id, err := s.validator.Validate(r.Context(), req)
	if err != nil {
		if result == nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		// The decision completed but persistence failed: surface the
		// failure without discarding the decision
		log.Printf("audit write failed: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(validateResponse{ValidationResult: *result})
		return
	}

	writeJSON(w, http.StatusOK, validateResponse{ValidationResult: *result, InteractionID: id})
}

func (s *Server) handleAuditTrail(w http.ResponseWriter, r *http.Request) {
	if s.auditor == nil {
		writeError(w, http.StatusNotFound, "audit store not configured")
		return
	}

	id := chi.URLParam(r, "id")
	trail, err := s.auditor.Trail(r.Context(), id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, trail)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Start begins listening on the configured address
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("truthguard server listening on %s", s.addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
