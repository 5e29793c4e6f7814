package providers

import (
	"context"
	"errors"

	"github.com/okian/creatorscore/internal/domain/model"
	"github.com/okian/creatorscore/pkg/metrics"
)

// ScoreProvider fetches a creator score.
type ScoreProvider interface {
	Name() string
	FetchScore(ctx context.Context, id model.Identifier) (model.Score, error)
}

// ValuationProvider fetches a creator market cap.
type ValuationProvider interface {
	Name() string
	FetchValuation(ctx context.Context, id model.Identifier) (model.Valuation, error)
}

// WalletResolver maps a Farcaster FID to its linked wallet addresses.
type WalletResolver interface {
	ResolveWallets(ctx context.Context, fid int64) ([]string, error)
}

// CredentialScanner lists the raw Talent credentials of a creator.
type CredentialScanner interface {
	ScanCredentials(ctx context.Context, id model.Identifier) (CredentialScan, error)
}

// Strategy is one named way of producing a T.
type Strategy[T any] struct {
	Name  string
	Fetch func(ctx context.Context) (T, error)
}

// FirstSuccess tries each strategy in order and returns the first value produced,
// with the name of the strategy that produced it. When every strategy fails the
// error is a *LookupError listing each attempt.
func FirstSuccess[T any](ctx context.Context, kind string, strategies []Strategy[T]) (T, string, error) {
	var zero T
	lerr := &LookupError{Kind: kind}

	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			return zero, "", err
		}

		v, err := s.Fetch(ctx)
		if err == nil {
			metrics.RecordLookupStrategy(kind, s.Name, "success")
			return v, s.Name, nil
		}

		switch {
		case errors.Is(err, ErrNotConfigured):
			metrics.RecordLookupStrategy(kind, s.Name, "skipped")
		case errors.Is(err, ErrNotFound):
			metrics.RecordLookupStrategy(kind, s.Name, "not_found")
		default:
			metrics.RecordLookupStrategy(kind, s.Name, "error")
		}
		lerr.Attempts = append(lerr.Attempts, Attempt{Strategy: s.Name, Err: err})
	}

	return zero, "", lerr
}

// ScoreChain asks each provider in turn until one returns a score.
type ScoreChain []ScoreProvider

// Name implements ScoreProvider.
func (c ScoreChain) Name() string { return "score-chain" }

// FetchScore implements ScoreProvider.
func (c ScoreChain) FetchScore(ctx context.Context, id model.Identifier) (model.Score, error) {
	strategies := make([]Strategy[model.Score], 0, len(c))
	for _, p := range c {
		strategies = append(strategies, Strategy[model.Score]{
			Name: p.Name(),
			Fetch: func(ctx context.Context) (model.Score, error) {
				return p.FetchScore(ctx, id)
			},
		})
	}
	s, _, err := FirstSuccess(ctx, "score", strategies)
	return s, err
}

// ValuationChain asks each provider in turn until one returns a valuation.
type ValuationChain []ValuationProvider

// Name implements ValuationProvider.
func (c ValuationChain) Name() string { return "valuation-chain" }

// FetchValuation implements ValuationProvider.
func (c ValuationChain) FetchValuation(ctx context.Context, id model.Identifier) (model.Valuation, error) {
	strategies := make([]Strategy[model.Valuation], 0, len(c))
	for _, p := range c {
		strategies = append(strategies, Strategy[model.Valuation]{
			Name: p.Name(),
			Fetch: func(ctx context.Context) (model.Valuation, error) {
				return p.FetchValuation(ctx, id)
			},
		})
	}
	v, _, err := FirstSuccess(ctx, "valuation", strategies)
	return v, err
}
