package models

import "time"

// EncryptionMode selects how the label encryption key is derived.
type EncryptionMode int

const (
	// ModeStandard derives the key from software wallet material via an
	// iterated KDF. No hardware involvement.
	ModeStandard EncryptionMode = iota

	// ModeHardwareDerived derives the key through the hardware wallet's
	// key-value encryption operation. Requires physical confirmation and
	// the key is cached in memory only, with a bounded TTL.
	ModeHardwareDerived
)

func (m EncryptionMode) String() string {
	switch m {
	case ModeStandard:
		return "standard"
	case ModeHardwareDerived:
		return "hardware"
	default:
		return "unknown"
	}
}

// EncryptionContext carries the derived account key for one sync cycle.
// For hardware mode CachedUntil bounds how long the underlying master key
// may be reused before the device must confirm again; the context itself is
// never persisted.
type EncryptionContext struct {
	Mode         EncryptionMode
	AccountIndex uint32
	Key          []byte
	CachedUntil  time.Time
}

// Expired reports whether the cached key must be re-derived.
func (c *EncryptionContext) Expired(now time.Time) bool {
	if c.CachedUntil.IsZero() {
		return false
	}
	return !now.Before(c.CachedUntil)
}

// Purge overwrites the key material in place. Called at cache expiry and at
// the end of a session so the key does not linger in memory.
func (c *EncryptionContext) Purge() {
	for i := range c.Key {
		c.Key[i] = 0
	}
	c.Key = nil
	c.CachedUntil = time.Time{}
}
