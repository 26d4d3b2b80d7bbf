package device

//go:generate mockgen -source=interfaces.go -destination=../mock/hardware_signer_mock.go -package=mock

import "context"

// HardwareSigner is the hardware-wallet collaborator. The only operation
// the subsystem needs is the deterministic key-value encryption defined by
// SLIP-0015: the device encrypts a fixed value under a fixed derivation
// path and returns the result, prompting the user for physical
// confirmation.
//
// Implementations wrap the actual device transport (USB, bridge daemon).
// Tests substitute an in-memory fake or a gomock mock.
type HardwareSigner interface {
	// DeriveKeyValue runs the device's CipherKeyValue operation. path and
	// label must be non-empty fixed constants; an empty path would collide
	// with unrelated device operations. askOnEncrypt and askOnDecrypt
	// request an on-device confirmation for the respective direction.
	//
	// Returns the 32-byte derived secret, or one of the device error
	// kinds: ErrUserRejected, ErrDisconnected, ErrTimeout, ErrUnsupported.
	DeriveKeyValue(ctx context.Context, path []uint32, label string, value []byte, askOnEncrypt, askOnDecrypt bool) ([]byte, error)
}
