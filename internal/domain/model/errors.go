package model

import "errors"

// Sentinel kinds for identifier parsing.
var (
	ErrMissingIdentifier = errors.New("either fid or wallet is required")
	ErrInvalidFID        = errors.New("invalid fid")
	ErrInvalidWallet     = errors.New("invalid wallet address")
)
