package model

import "time"

// Data sources tagged onto fetched values.
const (
	SourceTalent = "talent-api"
	SourceZora   = "zora-api"
	SourceMock   = "mock"
)

// Score is a creator-reputation measure as reported by a provider.
type Score struct {
	Points           float64    `json:"points"`
	Slug             string     `json:"slug"`
	LastCalculatedAt *time.Time `json:"last_calculated_at,omitempty"`
	Source           string     `json:"source"`
	FetchedAt        time.Time  `json:"fetched_at"`
}

// Valuation is the market capitalization associated with a creator.
type Valuation struct {
	Value         float64   `json:"value"`
	Currency      string    `json:"currency"`
	ReadableValue string    `json:"readable_value"`
	UnitOfMeasure string    `json:"unit_of_measure"`
	Source        string    `json:"source"`
	SourceSlug    string    `json:"source_slug,omitempty"`
	CoinAddress   string    `json:"coin_address,omitempty"`
	FetchedAt     time.Time `json:"fetched_at"`
}
