package service

import "errors"

var (
	// ErrSyncInProgress means a cycle for the same account is already
	// running. The caller should simply wait for the next scheduled run.
	ErrSyncInProgress = errors.New("sync already in progress for this account")

	// ErrHandshakeState means an authorization step was called out of
	// order, e.g. a redirect arrived before Begin.
	ErrHandshakeState = errors.New("authorization handshake in wrong state")

	// ErrStateMismatch means the state parameter on the redirect did not
	// match the one issued by Begin. The redirect is discarded.
	ErrStateMismatch = errors.New("authorization state mismatch")

	// ErrExchangeFailed means the provider rejected the code exchange or
	// the token refresh.
	ErrExchangeFailed = errors.New("token exchange failed")
)
