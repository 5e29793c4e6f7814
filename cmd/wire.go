package main

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/okian/creatorscore/internal/adapters/http/api"
	"github.com/okian/creatorscore/internal/adapters/http/manifest"
	"github.com/okian/creatorscore/internal/adapters/http/site"
	"github.com/okian/creatorscore/internal/adapters/http/swagger"
	"github.com/okian/creatorscore/internal/adapters/providers"
	service "github.com/okian/creatorscore/internal/app"
	"github.com/okian/creatorscore/internal/config"
	"github.com/okian/creatorscore/internal/domain/ratio"
	"github.com/okian/creatorscore/pkg/logger"
)

const mockDelay = 150 * time.Millisecond

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// clientOptions translates the upstream section of the config.
func clientOptions(cfg *config.Config, log logger.Logger) []providers.ClientOption {
	return []providers.ClientOption{
		providers.WithTimeout(ms(cfg.UpstreamTimeoutMS)),
		providers.WithRetries(cfg.UpstreamRetries, ms(cfg.UpstreamBackoffMS)),
		providers.WithRateLimit(cfg.UpstreamRateLimit, cfg.UpstreamRateBurst),
		providers.WithBreaker(cfg.BreakerMaxFailures, ms(cfg.BreakerOpenMS)),
		providers.WithLogger(log),
	}
}

// buildService wires the upstream clients into fallback chains.
// Talent is tried first for both halves; Zora (through Neynar for FIDs) backs
// up the market cap; the mock provider closes both chains when enabled.
func buildService(cfg *config.Config, log logger.Logger) *service.Service {
	opts := clientOptions(cfg, log)

	talent := providers.NewTalentClient(
		providers.NewClient("talent", cfg.TalentBaseURL, providers.TalentAPIKeyHeader, cfg.TalentAPIKey, opts...),
		cfg.CredentialSlugs,
	)
	neynar := providers.NewNeynarClient(
		providers.NewClient("neynar", cfg.NeynarBaseURL, providers.NeynarAPIKeyHeader, cfg.NeynarAPIKey, opts...),
	)
	zora := providers.NewZoraClient(
		providers.NewClient("zora", cfg.ZoraBaseURL, providers.ZoraAPIKeyHeader, cfg.ZoraAPIKey, opts...),
		neynar,
	)

	scores := providers.ScoreChain{talent}
	valuations := providers.ValuationChain{talent, zora}
	if cfg.MockFallback {
		mock := providers.NewMockProvider(mockDelay)
		scores = append(scores, mock)
		valuations = append(valuations, mock)
	}

	engine := ratio.NewEngine(
		ratio.WithThresholds(cfg.Thresholds()),
		ratio.WithRelativeEpsilon(cfg.RatioEpsilon),
	)

	return service.New(
		service.WithLogger(log),
		service.WithEngine(engine),
		service.WithScoreProvider(scores),
		service.WithValuationProvider(valuations),
		service.WithCredentialScanner(talent),
		service.WithFetchTimeout(ms(cfg.FetchTimeoutMS)),
	)
}

// buildRouter mounts every HTTP surface. The site catch-all goes last.
func buildRouter(ctx context.Context, cfg *config.Config, svc *service.Service, log logger.Logger) chi.Router {
	r := api.NewRouter(cfg.CORSOrigins, log)
	api.NewServer(svc, svc, log).Register(ctx, r)
	swagger.Register(ctx, r)
	manifest.Register(r, manifest.New(cfg))
	site.Register(ctx, r)
	return r
}
