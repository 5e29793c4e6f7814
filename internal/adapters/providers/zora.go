package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/creatorscore/internal/domain/model"
	"github.com/okian/creatorscore/internal/domain/ratio"
)

// ZoraAPIKeyHeader is the header the Zora SDK API reads the key from.
const ZoraAPIKeyHeader = "api-key"

type zoraProfile struct {
	Handle      string `json:"handle"`
	CreatorCoin *struct {
		Address           string `json:"address"`
		MarketCap         string `json:"marketCap"`
		MarketCapDelta24h string `json:"marketCapDelta24h"`
	} `json:"creatorCoin"`
}

// The SDK has returned the profile both at the top level and under "data".
type zoraProfileResponse struct {
	Profile *zoraProfile `json:"profile"`
	Data    *struct {
		Profile *zoraProfile `json:"profile"`
	} `json:"data"`
}

func (r zoraProfileResponse) profile() *zoraProfile {
	if r.Data != nil && r.Data.Profile != nil {
		return r.Data.Profile
	}
	return r.Profile
}

// ZoraClient reads creator coin market caps from the Zora profile API.
type ZoraClient struct {
	client   *Client
	resolver WalletResolver
}

// NewZoraClient wraps c with the Zora endpoints. resolver maps FIDs to wallets;
// without one only wallet identifiers can be looked up.
func NewZoraClient(c *Client, resolver WalletResolver) *ZoraClient {
	return &ZoraClient{client: c, resolver: resolver}
}

// Name implements ValuationProvider.
func (z *ZoraClient) Name() string { return z.client.Name() }

// FetchValuation returns the market cap of the first wallet of id that owns a creator coin.
func (z *ZoraClient) FetchValuation(ctx context.Context, id model.Identifier) (model.Valuation, error) {
	if !z.client.Configured() {
		return model.Valuation{}, fmt.Errorf("zora market cap %s: %w", id, ErrNotConfigured)
	}

	wallets, err := z.wallets(ctx, id)
	if err != nil {
		return model.Valuation{}, fmt.Errorf("zora market cap %s: %w", id, err)
	}

	strategies := make([]Strategy[model.Valuation], 0, len(wallets))
	for _, w := range wallets {
		strategies = append(strategies, Strategy[model.Valuation]{
			Name: w,
			Fetch: func(ctx context.Context) (model.Valuation, error) {
				return z.profileValuation(ctx, w)
			},
		})
	}

	v, _, err := FirstSuccess(ctx, "zora-wallet", strategies)
	if err != nil {
		return model.Valuation{}, fmt.Errorf("zora market cap %s: %w", id, err)
	}
	return v, nil
}

func (z *ZoraClient) wallets(ctx context.Context, id model.Identifier) ([]string, error) {
	if id.IsWallet() {
		return []string{id.Wallet}, nil
	}
	if z.resolver == nil {
		return nil, fmt.Errorf("no wallet resolver for fid: %w", ErrNotFound)
	}
	wallets, err := z.resolver.ResolveWallets(ctx, id.FID)
	if err != nil {
		return nil, err
	}
	if len(wallets) == 0 {
		return nil, fmt.Errorf("no wallets linked: %w", ErrNotFound)
	}
	return wallets, nil
}

func (z *ZoraClient) profileValuation(ctx context.Context, wallet string) (model.Valuation, error) {
	q := url.Values{}
	q.Set("identifier", wallet)

	var resp zoraProfileResponse
	if err := z.client.get(ctx, "/profile", q, &resp); err != nil {
		return model.Valuation{}, err
	}

	p := resp.profile()
	if p == nil || p.CreatorCoin == nil || p.CreatorCoin.MarketCap == "" {
		return model.Valuation{}, fmt.Errorf("no creator coin: %w", ErrNotFound)
	}
	value, err := strconv.ParseFloat(p.CreatorCoin.MarketCap, 64)
	if err != nil || value < 0 {
		return model.Valuation{}, fmt.Errorf("creator coin market cap %q: %w", p.CreatorCoin.MarketCap, ErrNotFound)
	}

	return model.Valuation{
		Value:         value,
		Currency:      "USD",
		ReadableValue: ratio.FormatReadable(value),
		UnitOfMeasure: "USD",
		Source:        model.SourceZora,
		CoinAddress:   p.CreatorCoin.Address,
		FetchedAt:     time.Now().UTC(),
	}, nil
}
