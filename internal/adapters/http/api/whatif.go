package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/creatorscore/internal/domain/ratio"
)

const (
	maxBodyBytes      = 1 << 16
	defaultSweepSteps = 21
)

// WhatIfHandler serves computations on caller-supplied numbers.
type WhatIfHandler struct {
	deps Dependencies
}

// NewWhatIfHandler creates a new what-if handler.
func NewWhatIfHandler(deps Dependencies) *WhatIfHandler {
	return &WhatIfHandler{deps: deps}
}

// analyzeRequest mirrors the OpenAPI schema for POST /api/analyze.
type analyzeRequest struct {
	Valuation *float64 `json:"valuation"`
	Score     *float64 `json:"score"`
}

func (a analyzeRequest) validate() error {
	switch {
	case a.Valuation == nil:
		return errors.New("missing valuation")
	case a.Score == nil:
		return errors.New("missing score")
	}
	return nil
}

// simulateRequest mirrors the OpenAPI schema for POST /api/simulate.
type simulateRequest struct {
	analyzeRequest
	HypotheticalScore *float64 `json:"hypothetical_score"`
}

func (s simulateRequest) validate() error {
	if err := s.analyzeRequest.validate(); err != nil {
		return err
	}
	if s.HypotheticalScore == nil {
		return errors.New("missing hypothetical_score")
	}
	return nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return nil
}

// HandleAnalyze handles POST /api/analyze.
func (h *WhatIfHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze"
	var req analyzeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	a, err := h.deps.AnalyzeValues(*req.Valuation, *req.Score)
	if err != nil {
		writeComputeError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// HandleSimulate handles POST /api/simulate.
func (h *WhatIfHandler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	const op = "api.simulate"
	var req simulateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	sim, err := h.deps.Simulate(*req.Valuation, *req.Score, *req.HypotheticalScore)
	if err != nil {
		writeComputeError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"simulation":       sim,
		"category_changed": sim.CategoryChanged(),
	})
}

// HandleSweep handles GET /api/simulate/sweep. from defaults to 0, to to twice
// the score and steps to 21.
func (h *WhatIfHandler) HandleSweep(w http.ResponseWriter, r *http.Request) {
	const op = "api.sweep"
	q := r.URL.Query()

	valuation, err := floatParam(q.Get("valuation"), nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, fmt.Errorf("valuation: %w", err)))
		return
	}
	score, err := floatParam(q.Get("score"), nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, fmt.Errorf("score: %w", err)))
		return
	}
	zero, double := 0.0, 2*score
	from, err := floatParam(q.Get("from"), &zero)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, fmt.Errorf("from: %w", err)))
		return
	}
	to, err := floatParam(q.Get("to"), &double)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, fmt.Errorf("to: %w", err)))
		return
	}
	steps := defaultSweepSteps
	if raw := q.Get("steps"); raw != "" {
		steps, err = strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, fmt.Errorf("steps: %w", err)))
			return
		}
	}

	points, err := h.deps.Sweep(valuation, score, from, to, steps)
	if err != nil {
		writeComputeError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"valuation": valuation,
		"score":     score,
		"points":    points,
	})
}

func floatParam(raw string, def *float64) (float64, error) {
	if raw == "" {
		if def == nil {
			return 0, errors.New("required")
		}
		return *def, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func writeComputeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ratio.ErrInvalidInput) || errors.Is(err, ratio.ErrInvalidSweep) {
		writeError(w, http.StatusBadRequest, "invalid_input", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, err))
}
