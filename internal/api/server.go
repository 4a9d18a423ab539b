// Package api exposes the scanner over HTTP for the frontend.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openquant/bwb-scanner/internal/chain"
	"github.com/openquant/bwb-scanner/internal/models"
	"github.com/openquant/bwb-scanner/internal/scanner"
)

// Server wraps the HTTP surface of the scanner: a scan endpoint plus health
// and readiness probes.
type Server struct {
	router      *chi.Mux
	server      *http.Server
	scanner     *scanner.Scanner
	provider    chain.Provider
	logger      *logrus.Logger
	port        int
	corsOrigins []string
}

// Config holds the server settings.
type Config struct {
	Port        int
	CORSOrigins []string
}

// ScanRequest is the body of POST /scan. Expiry is optional; when empty all
// expiries of the ticker are scanned.
type ScanRequest struct {
	Ticker string `json:"ticker"`
	Expiry string `json:"expiry,omitempty"`
}

// ScanResponse is the response envelope: the ranked positions plus summary
// statistics over them.
type ScanResponse struct {
	Results []models.BWBPosition `json:"results"`
	Summary scanner.Summary      `json:"summary"`
}

// NewServer creates the API server. The provider supplies the chain snapshot
// for each scan request.
func NewServer(cfg Config, sc *scanner.Scanner, provider chain.Provider, logger *logrus.Logger) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		scanner:     sc,
		provider:    provider,
		logger:      logger,
		port:        cfg.Port,
		corsOrigins: cfg.CORSOrigins,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(s.corsMiddleware)

	s.router.Get("/", s.handleRoot)
	s.router.Post("/scan", s.handleScan)
	s.router.Get("/health", s.handleHealth)
}

// corsMiddleware applies the configured origin policy. A wildcard origin
// list allows any origin without credentials; explicit lists echo the
// matching origin and permit credentials.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if s.allowAllOrigins() {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowAllOrigins() bool {
	for _, o := range s.corsOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

func (s *Server) originAllowed(origin string) bool {
	for _, o := range s.corsOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Infof("Starting scanner API on port %d", s.port)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"message": "BWB Scanner API ready"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"service":   "bwb-scanner-api",
		"timestamp": time.Now().Unix(),
	}
	s.writeJSON(w, health)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if req.Ticker == "" {
		http.Error(w, "ticker is required", http.StatusBadRequest)
		return
	}

	log := s.logger.WithFields(logrus.Fields{
		"request_id": uuid.New().String(),
		"ticker":     req.Ticker,
		"expiry":     req.Expiry,
	})

	rows, err := s.provider.Chain(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to load options chain")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var results []models.BWBPosition
	if req.Expiry != "" {
		results = s.scanner.Scan(rows, req.Ticker, req.Expiry)
	} else {
		results = s.scanner.ScanAll(rows, req.Ticker)
	}

	log.WithField("found", len(results)).Info("Scan complete")

	s.writeJSON(w, ScanResponse{
		Results: results,
		Summary: scanner.Summarize(results),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}
