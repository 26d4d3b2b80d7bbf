package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"

	"github.com/walletmesh/labelsync/models"
)

// Fixed derivation constants. Peers only find and decrypt each other's
// files because every implementation uses exactly these values, so none of
// them is configurable.
const (
	// kdfIterations and kdfSaltPrefix form parameter set v1 of the
	// standard-mode KDF (PBKDF2-HMAC-SHA256). The iteration count matches
	// the companion application's software-wallet path.
	kdfIterations = 100_000
	kdfSaltPrefix = "wallet-labels/standard/v1"

	// purposeLabels is the domain prefix of every HMAC subkey derivation.
	purposeLabels = "Labels"

	subkeyEncryption = "Encryption"
	subkeyFilename   = "Filename"
)

// keyChainService is the private implementation of [KeyService].
type keyChainService struct {
	// Argon2id parameters for sealing the credential at rest. Local-only,
	// no interop constraint.
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
}

// NewKeyService constructs a [KeyService] with Argon2id at-rest parameters
// of 1 iteration, 64 MiB memory, 4 threads and a 256-bit key.
func NewKeyService() KeyService {
	return &keyChainService{
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
		argonKeyLen:  32,
	}
}

// StandardMasterKey implements [KeyService]. The salt is derived from a
// fixed versioned prefix rather than stored, which keeps the whole
// derivation a pure function of the fingerprint.
func (k *keyChainService) StandardMasterKey(walletFingerprint string) ([]byte, error) {
	if walletFingerprint == "" {
		return nil, ErrBadIdentity
	}

	salt := sha256.Sum256([]byte(kdfSaltPrefix))
	return pbkdf2.Key([]byte(walletFingerprint), salt[:], kdfIterations, 32, sha256.New), nil
}

// AccountKey implements [KeyService]. The derivation message is
// "Labels/<idx>/Encryption", matching the hardware companion format so a
// software wallet and a hardware wallet sharing the same master key read
// the same files.
func (k *keyChainService) AccountKey(masterKey []byte, accountIndex uint32) ([]byte, error) {
	return deriveSubkey(masterKey, accountIndex, subkeyEncryption)
}

// RemoteFilename implements [KeyService]. Two HMAC steps: master key to
// filename key, filename key to account fingerprint. The hex fingerprint
// plus the fixed extension is the remote path component.
func (k *keyChainService) RemoteFilename(masterKey []byte, accountIndex uint32) (string, error) {
	filenameKey, err := deriveSubkey(masterKey, accountIndex, subkeyFilename)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, filenameKey)
	mac.Write([]byte("account/" + strconv.FormatUint(uint64(accountIndex), 10)))
	fingerprint := mac.Sum(nil)

	return hex.EncodeToString(fingerprint) + models.EnvelopeExtension, nil
}

// SealCredential implements [KeyService]. It wraps the JSON-encoded
// credential with AES-256-GCM under an Argon2id key derived from the wallet
// storage passphrase. Blob layout: salt (16) ‖ nonce (12) ‖ ciphertext.
func (k *keyChainService) SealCredential(cred models.Credential, passphrase string) ([]byte, error) {
	plaintext, err := json.Marshal(cred)
	if err != nil {
		return nil, fmt.Errorf("marshal credential: %w", err)
	}

	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	gcm, err := newGCM(k.storageKey(passphrase, salt))
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	blob := append(salt, nonce...)
	return gcm.Seal(blob, nonce, plaintext, nil), nil
}

// OpenCredential implements [KeyService]. It reverses [SealCredential];
// a wrong passphrase or tampered blob fails with [ErrCipherAuth].
func (k *keyChainService) OpenCredential(blob []byte, passphrase string) (models.Credential, error) {
	if len(blob) < 16+models.EnvelopeNonceSize+models.EnvelopeTagSize {
		return models.Credential{}, ErrMalformedEnvelope
	}
	salt, rest := blob[:16], blob[16:]

	gcm, err := newGCM(k.storageKey(passphrase, salt))
	if err != nil {
		return models.Credential{}, err
	}

	nonce, ciphertext := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return models.Credential{}, fmt.Errorf("%w: %v", ErrCipherAuth, err)
	}

	var cred models.Credential
	if err := json.Unmarshal(plaintext, &cred); err != nil {
		return models.Credential{}, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	return cred, nil
}

func (k *keyChainService) storageKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, k.argonTime, k.argonMemory, k.argonThreads, k.argonKeyLen)
}

// deriveSubkey computes HMAC-SHA256(masterKey, "Labels/<idx>/<kind>").
func deriveSubkey(masterKey []byte, accountIndex uint32, kind string) ([]byte, error) {
	if len(masterKey) != 32 {
		return nil, ErrBadKeyLength
	}

	msg := purposeLabels + "/" + strconv.FormatUint(uint64(accountIndex), 10) + "/" + kind
	mac := hmac.New(sha256.New, masterKey)
	mac.Write([]byte(msg))
	return mac.Sum(nil), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}
