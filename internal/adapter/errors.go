package adapter

import "errors"

var (
	// ErrNotFound means the requested remote file does not exist. Not a
	// failure: a first sync from a fresh device always starts here.
	ErrNotFound = errors.New("remote file not found")

	// ErrAuth means the storage provider rejected the credential even
	// after a refresh. The caller must surface a re-authorization
	// requirement.
	ErrAuth = errors.New("remote store rejected credential")

	// ErrNetwork means a transient transport failure. Retryable with
	// backoff.
	ErrNetwork = errors.New("remote store network failure")
)
