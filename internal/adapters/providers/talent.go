package providers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/okian/creatorscore/internal/domain/model"
	"github.com/okian/creatorscore/internal/domain/ratio"
)

const (
	creatorScoreSlug     = "creator_score"
	marketCapCredential  = "Creator Coin Market Cap"
	defaultValuationUnit = "usd"

	// TalentAPIKeyHeader is the header Talent Protocol reads the key from.
	TalentAPIKeyHeader = "X-API-KEY"
)

// Credential is a Talent Protocol credential as returned by /credentials.
type Credential struct {
	AccountSource          string                  `json:"account_source"`
	Category               string                  `json:"category"`
	DataIssuerName         string                  `json:"data_issuer_name"`
	DataIssuerSlug         string                  `json:"data_issuer_slug"`
	Description            string                  `json:"description"`
	ExternalURL            string                  `json:"external_url,omitempty"`
	Immutable              bool                    `json:"immutable"`
	CalculatingScore       bool                    `json:"calculating_score"`
	LastCalculatedAt       *string                 `json:"last_calculated_at"`
	MaxScore               float64                 `json:"max_score"`
	Name                   string                  `json:"name"`
	Points                 float64                 `json:"points"`
	PointsCalculationLogic *PointsCalculationLogic `json:"points_calculation_logic,omitempty"`
	ReadableValue          string                  `json:"readable_value"`
	Slug                   string                  `json:"slug"`
	UOM                    string                  `json:"uom"`
	UpdatedAt              *string                 `json:"updated_at"`
	SourceSlug             string                  `json:"source_slug,omitempty"`
}

// PointsCalculationLogic explains how a credential's points were derived.
type PointsCalculationLogic struct {
	Points                 float64     `json:"points"`
	MaxPoints              float64     `json:"max_points"`
	DataPoints             []DataPoint `json:"data_points"`
	PointsDescription      string      `json:"points_description"`
	PointsNumberCalculated float64     `json:"points_number_calculated"`
}

// DataPoint is a single raw input of a credential.
type DataPoint struct {
	ID                   int64   `json:"id"`
	Name                 string  `json:"name"`
	Value                string  `json:"value"`
	IsMaximum            bool    `json:"is_maximum"`
	Multiplier           float64 `json:"multiplier"`
	ReadableValue        string  `json:"readable_value"`
	MultiplicationResult string  `json:"multiplication_result,omitempty"`
}

// CredentialScan is the outcome of scanning every configured credential slug.
type CredentialScan struct {
	Identifier  model.Identifier  `json:"identifier"`
	Found       bool              `json:"found"`
	MatchedSlug string            `json:"matched_slug,omitempty"`
	MarketCap   *Credential       `json:"market_cap,omitempty"`
	Credentials []Credential      `json:"credentials"`
	Tried       []string          `json:"tried"`
	Failures    map[string]string `json:"failures,omitempty"`
}

type talentScoreResponse struct {
	Score *struct {
		Points           *float64 `json:"points"`
		Slug             string   `json:"slug"`
		LastCalculatedAt *string  `json:"last_calculated_at"`
	} `json:"score"`
}

type talentCredentialsResponse struct {
	Credentials []Credential `json:"credentials"`
}

// TalentClient talks to the Talent Protocol API.
type TalentClient struct {
	client *Client
	slugs  []string
}

// NewTalentClient wraps c with the Talent endpoints. slugs are scanned in order
// when looking for a market cap credential.
func NewTalentClient(c *Client, slugs []string) *TalentClient {
	return &TalentClient{client: c, slugs: slugs}
}

// Name implements ScoreProvider and ValuationProvider.
func (t *TalentClient) Name() string { return t.client.Name() }

// FetchScore returns the creator score of id.
func (t *TalentClient) FetchScore(ctx context.Context, id model.Identifier) (model.Score, error) {
	q := url.Values{}
	q.Set("id", id.Value())
	q.Set("account_source", id.AccountSource())
	q.Set("scorer_slug", creatorScoreSlug)

	var resp talentScoreResponse
	if err := t.client.get(ctx, "/score", q, &resp); err != nil {
		return model.Score{}, fmt.Errorf("talent score %s: %w", id, err)
	}
	if resp.Score == nil || resp.Score.Points == nil {
		return model.Score{}, fmt.Errorf("talent score %s: %w", id, ErrNotFound)
	}

	score := model.Score{
		Points:    *resp.Score.Points,
		Slug:      resp.Score.Slug,
		Source:    model.SourceTalent,
		FetchedAt: time.Now().UTC(),
	}
	if score.Slug == "" {
		score.Slug = creatorScoreSlug
	}
	if ts := resp.Score.LastCalculatedAt; ts != nil && *ts != "" {
		if parsed, err := time.Parse(time.RFC3339, *ts); err == nil {
			score.LastCalculatedAt = &parsed
		}
	}
	return score, nil
}

// ScanCredentials queries every configured slug and stops at the first one that
// carries a market cap credential. Credentials seen on the way are kept.
func (t *TalentClient) ScanCredentials(ctx context.Context, id model.Identifier) (CredentialScan, error) {
	scan := CredentialScan{Identifier: id, Credentials: []Credential{}}
	if !t.client.Configured() {
		return scan, fmt.Errorf("talent credentials %s: %w", id, ErrNotConfigured)
	}

	strategies := make([]Strategy[*Credential], 0, len(t.slugs))
	for _, slug := range t.slugs {
		strategies = append(strategies, Strategy[*Credential]{
			Name: slug,
			Fetch: func(ctx context.Context) (*Credential, error) {
				scan.Tried = append(scan.Tried, slug)
				creds, err := t.credentials(ctx, id, slug)
				if err != nil {
					return nil, err
				}
				for i := range creds {
					creds[i].SourceSlug = slug
				}
				scan.Credentials = append(scan.Credentials, creds...)
				if c := findMarketCap(creds); c != nil {
					return c, nil
				}
				return nil, fmt.Errorf("slug %s: %w", slug, ErrNotFound)
			},
		})
	}

	cred, slug, err := FirstSuccess(ctx, "credentials", strategies)
	if err == nil {
		scan.Found = true
		scan.MatchedSlug = slug
		scan.MarketCap = cred
		return scan, nil
	}

	var lerr *LookupError
	if !errors.As(err, &lerr) {
		return scan, err
	}
	for _, a := range lerr.Attempts {
		if errors.Is(a.Err, ErrNotFound) {
			continue
		}
		if scan.Failures == nil {
			scan.Failures = map[string]string{}
		}
		scan.Failures[a.Strategy] = a.Err.Error()
	}
	if errors.Is(err, ErrNotFound) {
		return scan, nil
	}
	return scan, err
}

// FetchValuation reads the market cap from the first matching credential.
func (t *TalentClient) FetchValuation(ctx context.Context, id model.Identifier) (model.Valuation, error) {
	scan, err := t.ScanCredentials(ctx, id)
	if err != nil {
		return model.Valuation{}, err
	}
	if !scan.Found {
		return model.Valuation{}, fmt.Errorf("talent market cap %s: %w", id, ErrNotFound)
	}

	value, err := credentialAmount(scan.MarketCap)
	if err != nil {
		return model.Valuation{}, fmt.Errorf("talent market cap %s: %w", id, err)
	}

	uom := scan.MarketCap.UOM
	if uom == "" {
		uom = defaultValuationUnit
	}
	readable := scan.MarketCap.ReadableValue
	if readable == "" {
		readable = ratio.FormatReadable(value)
	}
	return model.Valuation{
		Value:         value,
		Currency:      "USD",
		ReadableValue: readable,
		UnitOfMeasure: uom,
		Source:        model.SourceTalent,
		SourceSlug:    scan.MatchedSlug,
		FetchedAt:     time.Now().UTC(),
	}, nil
}

func (t *TalentClient) credentials(ctx context.Context, id model.Identifier, slug string) ([]Credential, error) {
	q := url.Values{}
	q.Set("id", id.Value())
	q.Set("account_source", id.AccountSource())
	q.Set("slug", slug)

	var resp talentCredentialsResponse
	if err := t.client.get(ctx, "/credentials", q, &resp); err != nil {
		return nil, err
	}
	return resp.Credentials, nil
}

func findMarketCap(creds []Credential) *Credential {
	for i := range creds {
		if strings.EqualFold(creds[i].Name, marketCapCredential) {
			c := creds[i]
			return &c
		}
	}
	return nil
}

// credentialAmount prefers the first data point value and falls back to readable_value.
func credentialAmount(c *Credential) (float64, error) {
	if c.PointsCalculationLogic != nil {
		for _, dp := range c.PointsCalculationLogic.DataPoints {
			if v, err := parseAmount(dp.Value); err == nil {
				return v, nil
			}
		}
	}
	return parseAmount(c.ReadableValue)
}
