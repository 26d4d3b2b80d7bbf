package device

import (
	"context"
	"sync"
	"time"

	"github.com/lightningnetwork/lnd/clock"

	"github.com/walletmesh/labelsync/internal/logger"
)

// SLIP-0015 constants. The path is m/10015'/0', the label is the exact
// confirmation string shown on the device, and the value is the fixed
// 32-byte constant from SLIP-0015. Changing any of these would
// derive a different master key and orphan every existing label file.
var (
	masterKeyPath = []uint32{10015 | 0x80000000, 0 | 0x80000000}

	masterKeyValue = []byte{
		0xfe, 0xdc, 0xba, 0x98, 0x76, 0x54, 0x32, 0x10,
		0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef,
		0xfe, 0xdc, 0xba, 0x98, 0x76, 0x54, 0x32, 0x10,
		0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef,
	}
)

const masterKeyLabel = "Enable labeling?"

const (
	// defaultKeyTTL bounds how long a hardware-derived master key may be
	// reused before the device must confirm again.
	defaultKeyTTL = 5 * time.Minute

	// defaultPromptTimeout bounds how long a confirmation prompt may sit
	// unanswered on the device.
	defaultPromptTimeout = 30 * time.Second
)

// MasterKeySource derives the hardware master key on demand and caches it
// in memory for a bounded time so one sync burst does not re-prompt the
// device for every cycle. The cached key is never persisted and is purged
// at expiry, at Close, or on demand.
//
// The slot is mutex-guarded: concurrent callers share one in-flight
// derivation instead of racing two device prompts.
type MasterKeySource struct {
	signer  HardwareSigner
	clock   clock.Clock
	log     *logger.Logger
	ttl     time.Duration
	timeout time.Duration

	mu     sync.Mutex
	key    []byte
	expiry time.Time
}

// NewMasterKeySource constructs a source with the 5-minute cache TTL and
// 30-second prompt timeout.
func NewMasterKeySource(signer HardwareSigner, clk clock.Clock, log *logger.Logger) *MasterKeySource {
	return &MasterKeySource{
		signer:  signer,
		clock:   clk,
		log:     log,
		ttl:     defaultKeyTTL,
		timeout: defaultPromptTimeout,
	}
}

// MasterKey returns the 32-byte hardware master key, deriving it through
// the device if the cached copy is absent or expired. Both confirmation
// flags are always set: there is no silent hardware decryption path.
func (s *MasterKeySource) MasterKey(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if s.key != nil && now.Before(s.expiry) {
		out := make([]byte, len(s.key))
		copy(out, s.key)
		return out, nil
	}
	s.purgeLocked()

	key, err := s.derive(ctx)
	if err != nil {
		return nil, err
	}

	s.key = key
	s.expiry = now.Add(s.ttl)
	s.log.Debug().Time("cached_until", s.expiry).Msg("hardware master key derived")

	out := make([]byte, len(key))
	copy(out, key)
	return out, nil
}

// derive runs the device operation with a bounded confirmation wait. On
// timeout the attempt fails with ErrTimeout and is not retried; a fresh
// user-initiated call is required.
func (s *MasterKeySource) derive(ctx context.Context) ([]byte, error) {
	deriveCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		key []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		key, err := s.signer.DeriveKeyValue(deriveCtx, masterKeyPath, masterKeyLabel, masterKeyValue, true, true)
		done <- result{key: key, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		if len(r.key) != 32 {
			return nil, ErrBadDeviceKey
		}
		return r.key, nil
	case <-deriveCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrTimeout
	}
}

// Purge drops the cached key immediately, overwriting its bytes.
func (s *MasterKeySource) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
}

func (s *MasterKeySource) purgeLocked() {
	for i := range s.key {
		s.key[i] = 0
	}
	s.key = nil
	s.expiry = time.Time{}
}
