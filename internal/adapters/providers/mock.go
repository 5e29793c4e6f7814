package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/creatorscore/internal/domain/model"
	"github.com/okian/creatorscore/internal/domain/ratio"
)

var (
	mockScores = map[int64]float64{
		1:    850,
		2:    1200,
		3:    650,
		6730: 155,
	}
	mockMarketCaps = map[int64]float64{
		1:    2_500_000,
		2:    1_800_000,
		3:    3_200_000,
		6730: 500_000,
	}
)

// MockProvider serves a fixed table of scores and market caps for demos.
// Wallet identifiers are never in the table.
type MockProvider struct {
	delay time.Duration
}

// NewMockProvider creates a MockProvider that answers after delay.
func NewMockProvider(delay time.Duration) *MockProvider {
	return &MockProvider{delay: delay}
}

// Name implements ScoreProvider and ValuationProvider.
func (m *MockProvider) Name() string { return model.SourceMock }

// FetchScore implements ScoreProvider.
func (m *MockProvider) FetchScore(ctx context.Context, id model.Identifier) (model.Score, error) {
	if err := m.wait(ctx); err != nil {
		return model.Score{}, err
	}
	points, ok := mockScores[id.FID]
	if id.IsWallet() || !ok {
		return model.Score{}, fmt.Errorf("mock score %s: %w", id, ErrNotFound)
	}
	now := time.Now().UTC()
	return model.Score{
		Points:           points,
		Slug:             creatorScoreSlug,
		LastCalculatedAt: &now,
		Source:           model.SourceMock,
		FetchedAt:        now,
	}, nil
}

// FetchValuation implements ValuationProvider.
func (m *MockProvider) FetchValuation(ctx context.Context, id model.Identifier) (model.Valuation, error) {
	if err := m.wait(ctx); err != nil {
		return model.Valuation{}, err
	}
	value, ok := mockMarketCaps[id.FID]
	if id.IsWallet() || !ok {
		return model.Valuation{}, fmt.Errorf("mock market cap %s: %w", id, ErrNotFound)
	}
	return model.Valuation{
		Value:         value,
		Currency:      "USD",
		ReadableValue: ratio.FormatReadable(value),
		UnitOfMeasure: "USD",
		Source:        model.SourceMock,
		FetchedAt:     time.Now().UTC(),
	}, nil
}

func (m *MockProvider) wait(ctx context.Context) error {
	if m.delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(m.delay):
		return nil
	}
}
