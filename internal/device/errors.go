package device

import "errors"

var (
	// ErrUserRejected means the user declined the confirmation prompt on
	// the device.
	ErrUserRejected = errors.New("device: user rejected operation")

	// ErrDisconnected means the device is unreachable.
	ErrDisconnected = errors.New("device: disconnected")

	// ErrTimeout means the confirmation prompt was not answered within
	// the bounded wait. The operation is not retried silently; the user
	// must initiate a fresh attempt.
	ErrTimeout = errors.New("device: confirmation timed out")

	// ErrUnsupported means the device does not implement key-value
	// encryption.
	ErrUnsupported = errors.New("device: operation unsupported")

	// ErrBadDeviceKey means the device returned something other than the
	// expected 32-byte secret.
	ErrBadDeviceKey = errors.New("device: derived key has wrong length")
)

// IsDeviceError reports whether err is one of the hardware error kinds.
func IsDeviceError(err error) bool {
	return errors.Is(err, ErrUserRejected) ||
		errors.Is(err, ErrDisconnected) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrUnsupported) ||
		errors.Is(err, ErrBadDeviceKey)
}
