// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/creatorscore/internal/adapters/providers"
	"github.com/okian/creatorscore/internal/domain/model"
	"github.com/okian/creatorscore/internal/domain/ratio"
	"github.com/okian/creatorscore/pkg/logger"
	"github.com/okian/creatorscore/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Names of the report halves, used in Report.Missing and metrics.
const (
	PartScore     = "creator_score"
	PartValuation = "market_cap"
)

const defaultFetchTimeout = 20 * time.Second

// Report is the full view of one creator.
type Report struct {
	Identifier model.Identifier  `json:"identifier"`
	Score      *model.Score      `json:"creator_score,omitempty"`
	Valuation  *model.Valuation  `json:"market_cap,omitempty"`
	Analysis   *ratio.Analysis   `json:"analysis,omitempty"`
	Thresholds ratio.Thresholds  `json:"thresholds"`
	Missing    []string          `json:"missing,omitempty"`
	Warnings   map[string]string `json:"warnings,omitempty"`
}

// Complete reports whether both halves were found.
func (r Report) Complete() bool { return r.Analysis != nil }

// Service answers creator lookups and what-if questions.
type Service struct {
	mu sync.RWMutex

	engine       *ratio.Engine
	scores       providers.ScoreProvider
	valuations   providers.ValuationProvider
	credentials  providers.CredentialScanner
	fetchTimeout time.Duration

	// Counters
	started     bool
	lookups     atomic.Int64
	incomplete  atomic.Int64
	sweeps      atomic.Int64
	categories  map[ratio.Category]int64
	verdicts    map[ratio.Verdict]int64
	startedAt   time.Time
	lastLookups map[string]time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEngine sets the ratio engine.
func WithEngine(e *ratio.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithScoreProvider sets where creator scores come from.
func WithScoreProvider(p providers.ScoreProvider) Option {
	return func(s *Service) {
		s.scores = p
	}
}

// WithValuationProvider sets where market caps come from.
func WithValuationProvider(p providers.ValuationProvider) Option {
	return func(s *Service) {
		s.valuations = p
	}
}

// WithCredentialScanner sets the raw credential source used by Credentials.
func WithCredentialScanner(c providers.CredentialScanner) Option {
	return func(s *Service) {
		s.credentials = c
	}
}

// WithFetchTimeout bounds each score or valuation lookup.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		engine:       ratio.NewEngine(),
		fetchTimeout: defaultFetchTimeout,
		categories:   make(map[ratio.Category]int64),
		verdicts:     make(map[ratio.Verdict]int64),
		lastLookups:  make(map[string]time.Time),
		logger:       logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start marks the service as running.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.started = true
	s.startedAt = time.Now()

	t := s.engine.Thresholds()
	s.logger.Info(ctx, "creator score service started",
		logger.String("thresholds", t.Version),
		logger.Float64("low", t.Low),
		logger.Float64("high", t.High),
		logger.Bool("score_provider", s.scores != nil),
		logger.Bool("valuation_provider", s.valuations != nil),
		logger.Duration("fetch_timeout", s.fetchTimeout),
	)
	return nil
}

// Stop marks the service as stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "creator score service stopped")
}

// Thresholds returns the active calibration.
func (s *Service) Thresholds() ratio.Thresholds { return s.engine.Thresholds() }

// CreatorScore fetches the creator score of id.
func (s *Service) CreatorScore(ctx context.Context, id model.Identifier) (model.Score, error) {
	if s.scores == nil {
		return model.Score{}, fmt.Errorf("creator score: %w", ErrNotConfigured)
	}
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	s.touch(PartScore)
	sc, err := s.scores.FetchScore(ctx, id)
	if err != nil {
		return model.Score{}, fmt.Errorf("creator score %s: %w", id, err)
	}
	return sc, nil
}

// Valuation fetches the market cap of id.
func (s *Service) Valuation(ctx context.Context, id model.Identifier) (model.Valuation, error) {
	if s.valuations == nil {
		return model.Valuation{}, fmt.Errorf("market cap: %w", ErrNotConfigured)
	}
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	s.touch(PartValuation)
	v, err := s.valuations.FetchValuation(ctx, id)
	if err != nil {
		return model.Valuation{}, fmt.Errorf("market cap %s: %w", id, err)
	}
	return v, nil
}

// Credentials returns the raw credential scan of id, including which slugs were tried.
func (s *Service) Credentials(ctx context.Context, id model.Identifier) (providers.CredentialScan, error) {
	if s.credentials == nil {
		return providers.CredentialScan{}, fmt.Errorf("credentials: %w", ErrNotConfigured)
	}
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	s.touch("credentials")
	return s.credentials.ScanCredentials(ctx, id)
}

// Analyze fetches score and valuation concurrently and classifies their ratio.
// A half that is absent is listed in Report.Missing; an error is returned only
// when neither half could be fetched because of upstream failures.
func (s *Service) Analyze(ctx context.Context, id model.Identifier) (Report, error) {
	s.lookups.Add(1)
	report := Report{Identifier: id, Thresholds: s.engine.Thresholds()}

	var (
		g                errgroup.Group
		score            model.Score
		valuation        model.Valuation
		scoreErr, valErr error
	)
	// Each half keeps its own error and returns nil so a failure never
	// cancels the other half; partial reports are built below.
	g.Go(func() error {
		score, scoreErr = s.CreatorScore(ctx, id)
		return nil
	})
	g.Go(func() error {
		valuation, valErr = s.Valuation(ctx, id)
		return nil
	})
	_ = g.Wait()

	if scoreErr != nil && valErr != nil && !missing(scoreErr) && !missing(valErr) {
		return report, fmt.Errorf("%w: %w", ErrLookupFailed, errors.Join(scoreErr, valErr))
	}

	if scoreErr == nil {
		report.Score = &score
	} else {
		s.markMissing(ctx, &report, PartScore, scoreErr)
	}
	if valErr == nil {
		report.Valuation = &valuation
	} else {
		s.markMissing(ctx, &report, PartValuation, valErr)
	}

	if report.Score == nil || report.Valuation == nil {
		s.incomplete.Add(1)
		return report, nil
	}

	a, err := s.engine.Analyze(valuation.Value, score.Points)
	if err != nil {
		return report, fmt.Errorf("analyze %s: %w", id, err)
	}
	report.Analysis = &a
	s.recordAnalysis(a)

	s.logger.Debug(ctx, "creator analyzed",
		logger.String("identifier", id.String()),
		logger.Float64("score", score.Points),
		logger.Float64("valuation", valuation.Value),
		logger.String("category", string(a.Category)),
	)
	return report, nil
}

// AnalyzeValues classifies a caller-supplied valuation and score.
func (s *Service) AnalyzeValues(valuation, score float64) (ratio.Analysis, error) {
	a, err := s.engine.Analyze(valuation, score)
	if err != nil {
		return ratio.Analysis{}, err
	}
	s.recordAnalysis(a)
	return a, nil
}

// Simulate compares the current ratio with the one at a hypothetical score.
func (s *Service) Simulate(valuation, score, hypotheticalScore float64) (ratio.Simulation, error) {
	sim, err := s.engine.Simulate(valuation, score, hypotheticalScore)
	if err != nil {
		return ratio.Simulation{}, err
	}
	s.mu.Lock()
	s.verdicts[sim.Change]++
	s.mu.Unlock()
	metrics.RecordSimulation(string(sim.Change))
	return sim, nil
}

// Sweep simulates evenly spaced hypothetical scores across [from, to].
func (s *Service) Sweep(valuation, score, from, to float64, steps int) ([]ratio.SweepPoint, error) {
	points, err := s.engine.Sweep(valuation, score, from, to, steps)
	if err != nil {
		return nil, err
	}
	s.sweeps.Add(1)
	metrics.RecordSweep()
	return points, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make(map[string]int64, len(s.categories))
	for c, n := range s.categories {
		categories[string(c)] = n
	}
	verdicts := make(map[string]int64, len(s.verdicts))
	for v, n := range s.verdicts {
		verdicts[string(v)] = n
	}
	last := make(map[string]time.Time, len(s.lastLookups))
	for k, t := range s.lastLookups {
		last[k] = t
	}

	t := s.engine.Thresholds()
	stats := map[string]interface{}{
		"started":              s.started,
		"thresholdsVersion":    t.Version,
		"lowThreshold":         t.Low,
		"highThreshold":        t.High,
		"lookups":              s.lookups.Load(),
		"incompleteReports":    s.incomplete.Load(),
		"sweeps":               s.sweeps.Load(),
		"analysesByCategory":   categories,
		"simulationsByVerdict": verdicts,
		"lastLookup":           last,
	}
	if s.started {
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
	}
	return stats
}

func (s *Service) recordAnalysis(a ratio.Analysis) {
	s.mu.Lock()
	s.categories[a.Category]++
	s.mu.Unlock()
	metrics.RecordAnalysis(string(a.Category))
}

func (s *Service) markMissing(ctx context.Context, r *Report, part string, err error) {
	r.Missing = append(r.Missing, part)
	metrics.RecordIncompleteReport(part)
	if missing(err) {
		return
	}
	if r.Warnings == nil {
		r.Warnings = map[string]string{}
	}
	r.Warnings[part] = err.Error()
	s.logger.Warn(ctx, "lookup failed",
		logger.String("identifier", r.Identifier.String()),
		logger.String("part", part),
		logger.Error(err),
	)
}

func (s *Service) touch(kind string) {
	s.mu.Lock()
	s.lastLookups[kind] = time.Now().UTC()
	s.mu.Unlock()
}
