package adapter

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_store_mock.go -package=mock

import "context"

// RemoteStore is the third-party file-storage collaborator. It offers no
// transactional guarantees; the merge protocol above it is the only thing
// preventing lost updates.
//
// Implementations map provider failures onto the package sentinels:
// ErrNotFound for a missing file, ErrAuth for a rejected credential,
// ErrNetwork for transport failures.
type RemoteStore interface {
	// Get downloads the file at path. A missing file returns ErrNotFound,
	// which callers treat as an empty remote label set.
	Get(ctx context.Context, path string) ([]byte, error)

	// Put uploads data to path, overwriting any existing file, and
	// returns the provider's revision identifier for the new file.
	Put(ctx context.Context, path string, data []byte) (string, error)
}

// TokenSource supplies the bearer token for remote-store requests. The
// token vault implements it; the adapter only consumes it.
type TokenSource interface {
	// Token returns a currently valid access token, refreshing if needed.
	Token(ctx context.Context) (string, error)

	// Invalidate marks the current access token as rejected so the next
	// Token call refreshes instead of returning the cached value.
	Invalidate()
}
