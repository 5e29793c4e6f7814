package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/creatorscore/internal/app"
	"github.com/okian/creatorscore/internal/domain/model"
	"github.com/okian/creatorscore/pkg/logger"
)

// CreatorHandler serves lookups keyed by ?fid= or ?wallet=.
type CreatorHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewCreatorHandler creates a new creator handler.
func NewCreatorHandler(deps Dependencies, log logger.Logger) *CreatorHandler {
	return &CreatorHandler{deps: deps, logger: log}
}

// identifier parses the creator query parameters, writing a 400 on failure.
func identifier(w http.ResponseWriter, r *http.Request, op string) (model.Identifier, bool) {
	q := r.URL.Query()
	id, err := model.ParseIdentifier(q.Get("fid"), q.Get("wallet"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return model.Identifier{}, false
	}
	return id, true
}

// HandleScore handles GET /api/creator-score.
func (h *CreatorHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.creator_score"
	id, ok := identifier(w, r, op)
	if !ok {
		return
	}
	score, err := h.deps.CreatorScore(r.Context(), id)
	if err != nil {
		h.fail(r.Context(), w, op, id, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"identifier":    id,
		"creator_score": score,
	})
}

// HandleValuation handles GET /api/valuation.
func (h *CreatorHandler) HandleValuation(w http.ResponseWriter, r *http.Request) {
	const op = "api.valuation"
	id, ok := identifier(w, r, op)
	if !ok {
		return
	}
	v, err := h.deps.Valuation(r.Context(), id)
	if err != nil {
		h.fail(r.Context(), w, op, id, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"identifier": id,
		"market_cap": v,
	})
}

// HandleCredentials handles GET /api/credentials. A scan that found no market cap
// is still a 200; the body says which slugs were tried.
func (h *CreatorHandler) HandleCredentials(w http.ResponseWriter, r *http.Request) {
	const op = "api.credentials"
	id, ok := identifier(w, r, op)
	if !ok {
		return
	}
	scan, err := h.deps.Credentials(r.Context(), id)
	if err != nil {
		h.fail(r.Context(), w, op, id, err)
		return
	}
	writeJSON(w, http.StatusOK, scan)
}

// HandleAnalysis handles GET /api/analysis.
func (h *CreatorHandler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "api.analysis"
	id, ok := identifier(w, r, op)
	if !ok {
		return
	}
	report, err := h.deps.Analyze(r.Context(), id)
	if err != nil {
		h.fail(r.Context(), w, op, id, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *CreatorHandler) fail(ctx context.Context, w http.ResponseWriter, op string, id model.Identifier, err error) {
	if !errors.Is(err, service.ErrNotFound) {
		h.logger.Warn(ctx, "lookup failed",
			logger.String("op", op),
			logger.String("identifier", id.String()),
			logger.Error(err),
		)
	}
	writeLookupError(w, err)
}
