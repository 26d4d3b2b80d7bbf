package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lightningnetwork/lnd/clock"

	"github.com/walletmesh/labelsync/internal/adapter"
	"github.com/walletmesh/labelsync/internal/config"
	"github.com/walletmesh/labelsync/internal/crypto"
	"github.com/walletmesh/labelsync/internal/logger"
	"github.com/walletmesh/labelsync/internal/store"
	"github.com/walletmesh/labelsync/models"
)

// baseBackoff is the first retry delay; each further attempt doubles it.
const baseBackoff = 500 * time.Millisecond

// syncEngine is the concrete SyncService. One cycle:
//
//  1. load the local set and derive the cycle's encryption context
//  2. download the remote envelope (missing file = empty remote set)
//  3. decrypt; an unauthentic envelope is skipped, never fatal
//  4. merge remote into a clone of the local set, last writer wins
//  5. encrypt the merged set with a fresh nonce and upload it
//  6. persist the merged set locally
//
// Only transport failures are retried, with bounded exponential backoff.
// The local set is saved strictly after a completed upload, so an aborted
// cycle leaves the pre-cycle state everywhere.
type syncEngine struct {
	remote  adapter.RemoteStore
	labels  store.LabelRepository
	codec   crypto.LabelCodec
	keyring ContextProvider
	clock   clock.Clock
	log     *logger.Logger

	maxRetries int
	backoff    time.Duration

	mu      sync.Mutex
	running map[uint32]struct{}
}

// NewSyncEngine constructs the SyncService.
func NewSyncEngine(remote adapter.RemoteStore, labels store.LabelRepository, codec crypto.LabelCodec, keyring ContextProvider, clk clock.Clock, log *logger.Logger, cfg config.Sync) SyncService {
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 1
	}
	return &syncEngine{
		remote:     remote,
		labels:     labels,
		codec:      codec,
		keyring:    keyring,
		clock:      clk,
		log:        log,
		maxRetries: retries,
		backoff:    baseBackoff,
		running:    make(map[uint32]struct{}),
	}
}

// SyncAccount implements SyncService.
func (e *syncEngine) SyncAccount(ctx context.Context, accountIndex uint32) (*models.LabelSet, *models.SyncReport, error) {
	if !e.begin(accountIndex) {
		return nil, nil, ErrSyncInProgress
	}
	defer e.end(accountIndex)

	local, err := e.labels.LoadSet(ctx, accountIndex)
	if err != nil {
		return nil, nil, fmt.Errorf("load local set: %w", err)
	}

	enc, path, err := e.keyring.Context(ctx, accountIndex)
	if err != nil {
		return nil, nil, err
	}
	defer enc.Purge()

	merged, report, err := e.runCycle(ctx, local, enc, path)
	if err != nil {
		return nil, nil, err
	}

	if err := e.labels.SaveSet(ctx, accountIndex, merged); err != nil {
		return nil, nil, fmt.Errorf("persist merged set: %w", err)
	}

	return merged, report, nil
}

func (e *syncEngine) runCycle(ctx context.Context, local *models.LabelSet, enc *models.EncryptionContext, path string) (*models.LabelSet, *models.SyncReport, error) {
	report := &models.SyncReport{CycleID: uuid.NewString()}
	log := e.log.WithAccount(enc.AccountIndex)

	log.Debug().
		Str("cycle_id", report.CycleID).
		Str("mode", enc.Mode.String()).
		Int("local_entries", len(local.Entries)).
		Msg("sync cycle started")

	remoteSet := models.NewLabelSet()
	data, err := e.getWithRetry(ctx, path)
	switch {
	case errors.Is(err, adapter.ErrNotFound):
		// No file yet: this side is the first to sync, remote is empty.
	case err != nil:
		return nil, nil, fmt.Errorf("download labels: %w", err)
	default:
		set, decodeErr := e.decodeRemote(path, data, enc.Key)
		if decodeErr != nil {
			// Wrong key, corruption or a foreign file. Keep syncing from
			// local state; the upload below restores a readable file.
			report.RemoteSkipped = true
			report.Warn(fmt.Sprintf("remote envelope skipped: %v", decodeErr))
			log.Warn().
				Str("cycle_id", report.CycleID).
				Err(decodeErr).
				Msg("remote envelope failed authentication, merging from local state only")
		} else {
			remoteSet = set
		}
	}

	merged, delta := mergeLabelSets(local, remoteSet)
	report.Added = delta.added
	report.Updated = delta.updated
	report.Tombstoned = delta.tombstoned

	env, err := e.codec.Encode(merged, enc.Key)
	if err != nil {
		return nil, nil, fmt.Errorf("encode labels: %w", err)
	}

	rev, err := e.putWithRetry(ctx, path, env.Bytes())
	if err != nil {
		return nil, nil, fmt.Errorf("upload labels: %w", err)
	}

	log.Info().
		Str("cycle_id", report.CycleID).
		Int("added", report.Added).
		Int("updated", report.Updated).
		Int("tombstoned", report.Tombstoned).
		Bool("remote_skipped", report.RemoteSkipped).
		Str("rev", rev).
		Msg("sync cycle completed")

	return merged, report, nil
}

// decodeRemote parses and decrypts a downloaded envelope.
func (e *syncEngine) decodeRemote(path string, data, key []byte) (*models.LabelSet, error) {
	env, err := crypto.ParseEnvelope(path, data)
	if err != nil {
		return nil, err
	}
	return e.codec.Decode(env, key)
}

func (e *syncEngine) getWithRetry(ctx context.Context, path string) ([]byte, error) {
	var data []byte
	err := e.withRetry(ctx, func() error {
		var opErr error
		data, opErr = e.remote.Get(ctx, path)
		return opErr
	})
	return data, err
}

func (e *syncEngine) putWithRetry(ctx context.Context, path string, data []byte) (string, error) {
	var rev string
	err := e.withRetry(ctx, func() error {
		var opErr error
		rev, opErr = e.remote.Put(ctx, path, data)
		return opErr
	})
	return rev, err
}

// withRetry runs op up to maxRetries times. Only transport failures are
// retried; auth rejections and missing files surface immediately.
func (e *syncEngine) withRetry(ctx context.Context, op func() error) error {
	delay := e.backoff
	var err error
	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		err = op()
		if err == nil || !errors.Is(err, adapter.ErrNetwork) {
			return err
		}
		if attempt == e.maxRetries {
			break
		}

		e.log.Debug().Int("attempt", attempt).Dur("backoff", delay).Err(err).Msg("transient remote failure, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.clock.TickAfter(delay):
		}
		delay *= 2
	}
	return err
}

func (e *syncEngine) begin(accountIndex uint32) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.running[accountIndex]; busy {
		return false
	}
	e.running[accountIndex] = struct{}{}
	return true
}

func (e *syncEngine) end(accountIndex uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.running, accountIndex)
}
