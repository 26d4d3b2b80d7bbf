package crypto

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"

	"github.com/walletmesh/labelsync/models"
)

// labelFileVersion is the plaintext format version. Version 1 is the only
// version the companion application writes.
const labelFileVersion = 1

// labelFile is the plaintext JSON schema inside the envelope:
// {"version":1,"labels":{<key>:{"text":...,"updatedAt":...,"deleted":...}}}.
type labelFile struct {
	Version int                          `json:"version"`
	Labels  map[string]models.LabelEntry `json:"labels"`
}

// labelCodec is the private implementation of [LabelCodec].
type labelCodec struct{}

// NewLabelCodec constructs the AES-256-GCM label codec.
func NewLabelCodec() LabelCodec {
	return &labelCodec{}
}

// Encode implements [LabelCodec]. The nonce is always read fresh from the
// OS CSPRNG; there is deliberately no way for a caller to supply one.
func (c *labelCodec) Encode(set *models.LabelSet, key []byte) (*models.RemoteEnvelope, error) {
	if len(key) != 32 {
		return nil, ErrBadKeyLength
	}

	file := labelFile{Version: labelFileVersion, Labels: set.Entries}
	if file.Labels == nil {
		file.Labels = map[string]models.LabelEntry{}
	}
	plaintext, err := json.Marshal(file)
	if err != nil {
		return nil, fmt.Errorf("marshal label file: %w", err)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, models.EnvelopeNonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, plaintext, nil)

	// gcm.Seal appends the tag to the ciphertext; split it back out so the
	// envelope mirrors the on-disk layout.
	cut := len(sealed) - models.EnvelopeTagSize
	return &models.RemoteEnvelope{
		Nonce:      nonce,
		Ciphertext: sealed[:cut],
		Tag:        sealed[cut:],
	}, nil
}

// Decode implements [LabelCodec].
func (c *labelCodec) Decode(env *models.RemoteEnvelope, key []byte) (*models.LabelSet, error) {
	if len(key) != 32 {
		return nil, ErrBadKeyLength
	}
	if len(env.Nonce) != models.EnvelopeNonceSize || len(env.Tag) != models.EnvelopeTagSize {
		return nil, ErrMalformedEnvelope
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	sealed := append(append([]byte{}, env.Ciphertext...), env.Tag...)
	plaintext, err := gcm.Open(nil, env.Nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCipherAuth, err)
	}

	var file labelFile
	if err := json.Unmarshal(plaintext, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if file.Version != labelFileVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, file.Version)
	}

	set := models.NewLabelSet()
	for k, e := range file.Labels {
		e.Key = k
		set.Entries[k] = e
	}
	return set, nil
}

// ParseEnvelope splits a raw remote file into its envelope parts. Layout:
// nonce (12) ‖ ciphertext ‖ tag (16).
func ParseEnvelope(path string, data []byte) (*models.RemoteEnvelope, error) {
	if len(data) < models.EnvelopeNonceSize+models.EnvelopeTagSize {
		return nil, ErrMalformedEnvelope
	}

	cut := len(data) - models.EnvelopeTagSize
	return &models.RemoteEnvelope{
		Path:       path,
		Nonce:      data[:models.EnvelopeNonceSize],
		Ciphertext: data[models.EnvelopeNonceSize:cut],
		Tag:        data[cut:],
	}, nil
}
