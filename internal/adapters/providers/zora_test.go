package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/creatorscore/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	walletA = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	walletB = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

type stubResolver struct {
	wallets []string
	err     error
}

func (s stubResolver) ResolveWallets(context.Context, int64) ([]string, error) {
	return s.wallets, s.err
}

func zoraServer(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k", r.Header.Get(ZoraAPIKeyHeader))
		switch r.URL.Query().Get("identifier") {
		case walletA:
			_, _ = w.Write([]byte(`{"profile":{"handle":"a"}}`))
		case walletB:
			_, _ = w.Write([]byte(`{"data":{"profile":{"creatorCoin":{"address":"0xcoin","marketCap":"1800000.5"}}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestZoraWalletLookup(t *testing.T) {
	c := NewClient("zora", zoraServer(t), ZoraAPIKeyHeader, "k", WithRetries(0, time.Millisecond))
	z := NewZoraClient(c, nil)

	v, err := z.FetchValuation(context.Background(), model.Identifier{Wallet: walletB})
	require.NoError(t, err)
	assert.InDelta(t, 1_800_000.5, v.Value, 1e-9)
	assert.Equal(t, "1.8M", v.ReadableValue)
	assert.Equal(t, "0xcoin", v.CoinAddress)
	assert.Equal(t, model.SourceZora, v.Source)
}

func TestZoraResolvesFID(t *testing.T) {
	c := NewClient("zora", zoraServer(t), ZoraAPIKeyHeader, "k", WithRetries(0, time.Millisecond))
	z := NewZoraClient(c, stubResolver{wallets: []string{walletA, walletB}})

	v, err := z.FetchValuation(context.Background(), model.FIDIdentifier(6730))
	require.NoError(t, err)
	assert.Equal(t, "0xcoin", v.CoinAddress)
}

func TestZoraNoCoin(t *testing.T) {
	c := NewClient("zora", zoraServer(t), ZoraAPIKeyHeader, "k", WithRetries(0, time.Millisecond))
	z := NewZoraClient(c, stubResolver{wallets: []string{walletA}})

	_, err := z.FetchValuation(context.Background(), model.FIDIdentifier(6730))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestZoraFIDWithoutResolver(t *testing.T) {
	c := NewClient("zora", zoraServer(t), ZoraAPIKeyHeader, "k")
	_, err := NewZoraClient(c, nil).FetchValuation(context.Background(), model.FIDIdentifier(1))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestZoraResolverUnconfigured(t *testing.T) {
	c := NewClient("zora", zoraServer(t), ZoraAPIKeyHeader, "k")
	z := NewZoraClient(c, stubResolver{err: ErrNotConfigured})
	_, err := z.FetchValuation(context.Background(), model.FIDIdentifier(1))
	assert.ErrorIs(t, err, ErrNotConfigured)
}
