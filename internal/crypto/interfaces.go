package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/key_service_mock.go -package=mock

import "github.com/walletmesh/labelsync/models"

// KeyService owns every deterministic key derivation in the subsystem.
// It knows nothing about the network, the device transport or storage;
// given the same inputs it always produces the same outputs, which is what
// keeps two wallets pointed at the same remote file.
//
// Key hierarchy:
//
//	master      = StandardMasterKey(fingerprint)            (software wallets)
//	            | hardware CipherKeyValue result            (hardware wallets)
//	accountKey  = HMAC-SHA256(master, "Labels/<idx>/Encryption")
//	filenameKey = HMAC-SHA256(master, "Labels/<idx>/Filename")
//	filename    = hex(HMAC-SHA256(filenameKey, "account/<idx>")) + ".mtdt"
type KeyService interface {
	// StandardMasterKey derives the software-mode master key from the
	// wallet fingerprint using the fixed, versioned KDF parameter set.
	// Fails when the fingerprint is empty or malformed.
	StandardMasterKey(walletFingerprint string) ([]byte, error)

	// AccountKey derives the per-account AEAD key from a 32-byte master
	// key. Cheap; called on every cycle and never cached.
	AccountKey(masterKey []byte, accountIndex uint32) ([]byte, error)

	// RemoteFilename derives the deterministic remote file name for the
	// account. The name is not reversible without the master key, so the
	// stored file cannot be linked back to the account.
	RemoteFilename(masterKey []byte, accountIndex uint32) (string, error)

	// SealCredential encrypts a credential for at-rest storage under a
	// key derived from the wallet storage passphrase.
	SealCredential(cred models.Credential, passphrase string) ([]byte, error)

	// OpenCredential reverses SealCredential. Fails with ErrCipherAuth
	// when the passphrase is wrong or the blob was tampered with.
	OpenCredential(blob []byte, passphrase string) (models.Credential, error)
}

// LabelCodec converts between a label set and its encrypted wire envelope.
type LabelCodec interface {
	// Encode serializes the label set and encrypts it with a fresh random
	// nonce under key. Callers never supply the nonce; reusing one with
	// the same key would break GCM entirely.
	Encode(set *models.LabelSet, key []byte) (*models.RemoteEnvelope, error)

	// Decode authenticates and decrypts the envelope. A tag mismatch
	// (wrong key, corrupt or foreign file) fails with ErrCipherAuth and
	// must be treated as "skip this file", never as a crash.
	Decode(env *models.RemoteEnvelope, key []byte) (*models.LabelSet, error)
}
