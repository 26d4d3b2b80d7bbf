package vault

import "errors"

var (
	// ErrReauthorizationRequired means no usable credential exists and a
	// refresh cannot produce one: the user must run the authorization
	// handshake again.
	ErrReauthorizationRequired = errors.New("re-authorization required")
)
