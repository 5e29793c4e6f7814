package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/creatorscore/internal/domain/model"
)

// NeynarAPIKeyHeader is the header the Neynar API reads the key from.
const NeynarAPIKeyHeader = "x-api-key"

type neynarUser struct {
	FID              int64    `json:"fid"`
	CustodyAddress   string   `json:"custody_address"`
	Verifications    []string `json:"verifications"`
	VerifiedAddresses struct {
		EthAddresses []string `json:"eth_addresses"`
		Primary      struct {
			EthAddress string `json:"eth_address"`
		} `json:"primary"`
	} `json:"verified_addresses"`
	AuthAddresses []struct {
		Address string `json:"address"`
	} `json:"auth_addresses"`
}

type neynarBulkResponse struct {
	Users []neynarUser `json:"users"`
}

// NeynarClient resolves Farcaster FIDs to wallet addresses.
type NeynarClient struct {
	client *Client
}

// NewNeynarClient wraps c with the Neynar user endpoint.
func NewNeynarClient(c *Client) *NeynarClient {
	return &NeynarClient{client: c}
}

// ResolveWallets returns the unique, lower-cased wallets linked to fid: custody
// first, then verifications, verified and primary addresses, then auth addresses.
func (n *NeynarClient) ResolveWallets(ctx context.Context, fid int64) ([]string, error) {
	q := url.Values{}
	q.Set("fids", strconv.FormatInt(fid, 10))

	var resp neynarBulkResponse
	if err := n.client.get(ctx, "/user/bulk/", q, &resp); err != nil {
		return nil, fmt.Errorf("neynar fid %d: %w", fid, err)
	}
	if len(resp.Users) == 0 {
		return nil, fmt.Errorf("neynar fid %d: %w", fid, ErrNotFound)
	}

	u := resp.Users[0]
	seen := map[string]struct{}{}
	var out []string
	add := func(addr string) {
		w, err := model.NormalizeWallet(addr)
		if err != nil {
			return
		}
		if _, ok := seen[w]; ok {
			return
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}

	add(u.CustodyAddress)
	for _, a := range u.Verifications {
		add(a)
	}
	for _, a := range u.VerifiedAddresses.EthAddresses {
		add(a)
	}
	add(u.VerifiedAddresses.Primary.EthAddress)
	for _, a := range u.AuthAddresses {
		add(strings.TrimSpace(a.Address))
	}
	return out, nil
}
