package smoke

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/creatorscore/internal/domain/ratio"
	"github.com/okian/creatorscore/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const (
	maxReportedErrors = 10
	ratioTolerance    = 1e-9
)

// Run checks the service health, reads its thresholds, sends every generated case
// to /api/simulate and compares each answer with a local engine.
func Run(ctx context.Context, cfg Config, log logger.Logger) (Stats, error) {
	cfg.withDefaults()
	if log == nil {
		log = logger.Nop()
	}
	start := time.Now()
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	if err := client.do(ctx, http.MethodGet, "/healthz", nil, nil); err != nil {
		return Stats{}, fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	thresholds, err := client.thresholds(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	engine := ratio.NewEngine(ratio.WithThresholds(thresholds))

	cases := generateCases(cfg.Cases, cfg.Seed)
	log.Info(ctx, "starting smoke run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("cases", len(cases)),
		logger.Int("workers", cfg.Workers),
		logger.String("thresholds", thresholds.Version),
	)

	var (
		stats = Stats{Cases: len(cases)}
		ok    atomic.Int64
		bad   atomic.Int64
		diff  atomic.Int64
		mu    sync.Mutex
	)
	report := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		if len(stats.Errors) < maxReportedErrors {
			stats.Errors = append(stats.Errors, fmt.Sprintf(format, args...))
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, tc := range cases {
		g.Go(func() error {
			got, err := client.simulate(gctx, tc)
			if err != nil {
				bad.Add(1)
				report("%+v: %v", tc, err)
				return nil
			}
			want, err := engine.Simulate(tc.Valuation, tc.Score, tc.HypotheticalScore)
			if err != nil {
				bad.Add(1)
				report("%+v: local engine: %v", tc, err)
				return nil
			}
			if msg := compare(want, got); msg != "" {
				diff.Add(1)
				report("%+v: %s", tc, msg)
				return nil
			}
			ok.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	stats.Succeeded = ok.Load()
	stats.Failed = bad.Load()
	stats.Mismatched = diff.Load()
	stats.Duration = time.Since(start)

	log.Info(ctx, "smoke run finished",
		logger.Int64("succeeded", stats.Succeeded),
		logger.Int64("failed", stats.Failed),
		logger.Int64("mismatched", stats.Mismatched),
		logger.Duration("duration", stats.Duration),
	)

	if stats.Failed > 0 || stats.Mismatched > 0 {
		return stats, fmt.Errorf("%w: %d failed, %d mismatched", ErrMismatch, stats.Failed, stats.Mismatched)
	}
	return stats, nil
}

// compare returns a description of the first difference, or "".
func compare(want, got ratio.Simulation) string {
	switch {
	case want.Change != got.Change:
		return fmt.Sprintf("change %s, server said %s", want.Change, got.Change)
	case want.Original.Category != got.Original.Category:
		return fmt.Sprintf("original category %s, server said %s", want.Original.Category, got.Original.Category)
	case want.Simulated.Category != got.Simulated.Category:
		return fmt.Sprintf("simulated category %s, server said %s", want.Simulated.Category, got.Simulated.Category)
	case !sameRatio(float64(want.Simulated.Ratio), float64(got.Simulated.Ratio)):
		return fmt.Sprintf("simulated ratio %v, server said %v", want.Simulated.Ratio, got.Simulated.Ratio)
	}
	return ""
}

func sameRatio(a, b float64) bool {
	if math.IsInf(a, 1) || math.IsInf(b, 1) {
		return math.IsInf(a, 1) && math.IsInf(b, 1)
	}
	return math.Abs(a-b) <= ratioTolerance*math.Max(math.Abs(a), math.Abs(b))
}
