package store

import "errors"

var (
	// ErrNoCredential means no remote-storage credential has been
	// persisted for this wallet.
	ErrNoCredential = errors.New("no stored credential")
)
