// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/okian/creatorscore/internal/adapters/providers"
	service "github.com/okian/creatorscore/internal/app"
	"github.com/okian/creatorscore/internal/domain/model"
	"github.com/okian/creatorscore/internal/domain/ratio"
	"github.com/okian/creatorscore/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Lookups against the upstream providers.
	CreatorScore(ctx context.Context, id model.Identifier) (model.Score, error)
	Valuation(ctx context.Context, id model.Identifier) (model.Valuation, error)
	Credentials(ctx context.Context, id model.Identifier) (providers.CredentialScan, error)
	Analyze(ctx context.Context, id model.Identifier) (service.Report, error)

	// What-if operations on caller-supplied numbers.
	AnalyzeValues(valuation, score float64) (ratio.Analysis, error)
	Simulate(valuation, score, hypotheticalScore float64) (ratio.Simulation, error)
	Sweep(valuation, score, from, to float64, steps int) ([]ratio.SweepPoint, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	creatorHandler *CreatorHandler
	whatIfHandler  *WhatIfHandler
	webhookHandler *WebhookHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		creatorHandler: NewCreatorHandler(deps, log),
		whatIfHandler:  NewWhatIfHandler(deps),
		webhookHandler: NewWebhookHandler(log),
	}
}

// NewRouter builds the chi router with the shared middleware stack.
func NewRouter(corsOrigins []string, log logger.Logger) *chi.Mux {
	if log == nil {
		log = logger.Nop()
	}
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Route("/api", func(r chi.Router) {
		r.Get("/creator-score", MetricsMiddleware(s.creatorHandler.HandleScore, "creator_score"))
		r.Get("/valuation", MetricsMiddleware(s.creatorHandler.HandleValuation, "valuation"))
		r.Get("/credentials", MetricsMiddleware(s.creatorHandler.HandleCredentials, "credentials"))
		r.Get("/analysis", MetricsMiddleware(s.creatorHandler.HandleAnalysis, "analysis"))

		r.Post("/analyze", MetricsMiddleware(s.whatIfHandler.HandleAnalyze, "analyze"))
		r.Post("/simulate", MetricsMiddleware(s.whatIfHandler.HandleSimulate, "simulate"))
		r.Get("/simulate/sweep", MetricsMiddleware(s.whatIfHandler.HandleSweep, "sweep"))

		r.Post("/webhook", MetricsMiddleware(s.webhookHandler.HandleWebhook, "webhook"))
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeLookupError translates service errors into status codes.
func writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "not_configured", err)
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrUnavailable), errors.Is(err, service.ErrLookupFailed):
		writeError(w, http.StatusBadGateway, "upstream_error", err)
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "timeout", err)
	case errors.Is(err, ratio.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, "invalid_data", err)
	default:
		writeError(w, http.StatusBadGateway, "upstream_error", err)
	}
}
