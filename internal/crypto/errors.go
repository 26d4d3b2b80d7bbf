package crypto

import "errors"

var (
	// ErrCipherAuth means an AES-GCM authentication tag did not verify:
	// wrong key, flipped bit, or a foreign file. Callers skip the payload
	// instead of treating it as fatal.
	ErrCipherAuth = errors.New("ciphertext authentication failed")

	// ErrMalformedEnvelope means the byte blob is too short to contain a
	// nonce and tag, or the decrypted plaintext is not a valid label file.
	ErrMalformedEnvelope = errors.New("malformed envelope")

	// ErrBadKeyLength means a key of a length other than 32 bytes was
	// supplied where an AES-256 key is required.
	ErrBadKeyLength = errors.New("key must be 32 bytes")

	// ErrBadIdentity means the wallet fingerprint handed to the KDF is
	// empty or otherwise unusable.
	ErrBadIdentity = errors.New("malformed wallet identity material")

	// ErrUnsupportedVersion means the decrypted label file declares a
	// format version this implementation does not understand.
	ErrUnsupportedVersion = errors.New("unsupported label file version")
)
