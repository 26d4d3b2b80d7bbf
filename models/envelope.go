package models

// Envelope geometry shared by the codec and the wire format. The companion
// application writes the same layout, so these values are fixed.
const (
	EnvelopeNonceSize = 12
	EnvelopeTagSize   = 16

	// EnvelopeExtension is the file extension used by the companion
	// application for encrypted label files.
	EnvelopeExtension = ".mtdt"
)

// RemoteEnvelope is the wire representation of one encrypted label file:
// an AES-256-GCM nonce, the ciphertext, and the authentication tag, stored
// remotely at Path as nonce || ciphertext || tag.
type RemoteEnvelope struct {
	Path       string
	Nonce      []byte
	Ciphertext []byte
	Tag        []byte
}

// Bytes serializes the envelope into its single-file byte layout.
func (e *RemoteEnvelope) Bytes() []byte {
	out := make([]byte, 0, len(e.Nonce)+len(e.Ciphertext)+len(e.Tag))
	out = append(out, e.Nonce...)
	out = append(out, e.Ciphertext...)
	out = append(out, e.Tag...)
	return out
}
