// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Account sources understood by the upstream APIs.
const (
	AccountSourceFarcaster = "farcaster"
	AccountSourceWallet    = "wallet"
)

const walletHexLen = 40

// Identifier names a creator either by Farcaster FID or by wallet address.
type Identifier struct {
	FID    int64  `json:"fid,omitempty"`
	Wallet string `json:"wallet,omitempty"`
}

// ParseIdentifier builds an Identifier from raw query values. The wallet wins
// when both are given.
func ParseIdentifier(fid, wallet string) (Identifier, error) {
	fid = strings.TrimSpace(fid)
	wallet = strings.TrimSpace(wallet)

	if wallet != "" {
		w, err := normalizeWallet(wallet)
		if err != nil {
			return Identifier{}, err
		}
		return Identifier{Wallet: w}, nil
	}
	if fid == "" {
		return Identifier{}, ErrMissingIdentifier
	}
	n, err := strconv.ParseInt(fid, 10, 64)
	if err != nil || n <= 0 {
		return Identifier{}, fmt.Errorf("%w: %q", ErrInvalidFID, fid)
	}
	return Identifier{FID: n}, nil
}

// FIDIdentifier wraps a numeric FID.
func FIDIdentifier(fid int64) Identifier { return Identifier{FID: fid} }

// IsWallet reports whether the identifier is a wallet address.
func (id Identifier) IsWallet() bool { return id.Wallet != "" }

// AccountSource returns the upstream account_source value for the identifier.
func (id Identifier) AccountSource() string {
	if id.IsWallet() {
		return AccountSourceWallet
	}
	return AccountSourceFarcaster
}

// Value returns the identifier as sent to upstream APIs.
func (id Identifier) Value() string {
	if id.IsWallet() {
		return id.Wallet
	}
	return strconv.FormatInt(id.FID, 10)
}

// String implements fmt.Stringer, e.g. "farcaster:6730".
func (id Identifier) String() string {
	return id.AccountSource() + ":" + id.Value()
}

// NormalizeWallet validates a 0x-prefixed 20-byte hex address and lower-cases it.
func NormalizeWallet(w string) (string, error) {
	return normalizeWallet(strings.TrimSpace(w))
}

func normalizeWallet(w string) (string, error) {
	lw := strings.ToLower(w)
	if !strings.HasPrefix(lw, "0x") || len(lw) != walletHexLen+2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidWallet, w)
	}
	for _, r := range lw[2:] {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return "", fmt.Errorf("%w: %q", ErrInvalidWallet, w)
		}
	}
	return lw, nil
}
