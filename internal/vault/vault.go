// Package vault owns the lifecycle of the remote-storage credential:
// encrypted persistence, proactive refresh before expiry, reactive refresh
// after a rejection, and destruction when sync is disabled. The
// authorization handshake that first produces a credential lives outside;
// the vault only ever consumes its result.
package vault

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lightningnetwork/lnd/clock"

	"github.com/walletmesh/labelsync/internal/crypto"
	"github.com/walletmesh/labelsync/internal/logger"
	"github.com/walletmesh/labelsync/internal/store"
	"github.com/walletmesh/labelsync/models"
)

// refreshMargin is how close to expiry a token may get before the vault
// refreshes proactively instead of handing it out.
const refreshMargin = 5 * time.Minute

// TokenVault hands out valid access tokens and keeps the persisted
// credential sealed. It implements adapter.TokenSource.
type TokenVault struct {
	refresher  Refresher
	repo       store.CredentialRepository
	keys       crypto.KeyService
	passphrase string
	clock      clock.Clock
	log        *logger.Logger

	mu       sync.Mutex
	cred     models.Credential
	loaded   bool
	invalid  bool
	inflight chan struct{} // non-nil while a refresh is running
}

// NewTokenVault constructs a vault. passphrase is the wallet's storage
// encryption secret used to seal the credential at rest.
func NewTokenVault(refresher Refresher, repo store.CredentialRepository, keys crypto.KeyService, passphrase string, clk clock.Clock, log *logger.Logger) *TokenVault {
	return &TokenVault{
		refresher:  refresher,
		repo:       repo,
		keys:       keys,
		passphrase: passphrase,
		clock:      clk,
		log:        log,
	}
}

// Token implements adapter.TokenSource. It returns the cached access token
// when it is still comfortably valid, otherwise refreshes first. Only one
// refresh runs at a time; concurrent callers wait for it rather than
// issuing duplicates.
func (v *TokenVault) Token(ctx context.Context) (string, error) {
	for {
		v.mu.Lock()

		if !v.loaded {
			if err := v.loadLocked(ctx); err != nil {
				v.mu.Unlock()
				return "", err
			}
		}

		now := v.clock.Now()
		if v.cred.Valid() && !v.invalid && !v.cred.ExpiresWithin(now, refreshMargin) {
			token := v.cred.AccessToken
			v.mu.Unlock()
			return token, nil
		}

		if v.inflight == nil {
			done := make(chan struct{})
			v.inflight = done
			refreshToken := v.cred.RefreshToken
			v.mu.Unlock()

			err := v.refresh(ctx, refreshToken)

			v.mu.Lock()
			v.inflight = nil
			close(done)
			v.mu.Unlock()

			if err != nil {
				return "", err
			}
			continue
		}

		// Another caller is already refreshing; wait for it.
		done := v.inflight
		v.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// Invalidate implements adapter.TokenSource. The remote store calls it
// after a 401 so the next Token call refreshes instead of returning the
// rejected value.
func (v *TokenVault) Invalidate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.invalid = true
}

// Store seals and persists a credential produced by the authorization
// handshake and makes it the active one.
func (v *TokenVault) Store(ctx context.Context, cred models.Credential) error {
	if !cred.Valid() {
		return ErrReauthorizationRequired
	}
	fillExpiryHint(&cred)

	blob, err := v.keys.SealCredential(cred, v.passphrase)
	if err != nil {
		return fmt.Errorf("seal credential: %w", err)
	}
	if err := v.repo.SaveBlob(ctx, blob); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}

	v.mu.Lock()
	v.cred = cred
	v.loaded = true
	v.invalid = false
	v.mu.Unlock()

	v.log.Info().Time("expires_at", cred.ExpiresAt).Msg("credential stored")
	return nil
}

// Clear destroys the credential in memory and in storage. Called when the
// user disables sync.
func (v *TokenVault) Clear(ctx context.Context) error {
	v.mu.Lock()
	v.cred = models.Credential{}
	v.loaded = true
	v.invalid = false
	v.mu.Unlock()

	if err := v.repo.DeleteBlob(ctx); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	v.log.Info().Msg("credential cleared")
	return nil
}

// loadLocked restores the sealed credential from storage. Caller holds the
// mutex.
func (v *TokenVault) loadLocked(ctx context.Context) error {
	blob, err := v.repo.LoadBlob(ctx)
	if errors.Is(err, store.ErrNoCredential) {
		v.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("load credential: %w", err)
	}

	cred, err := v.keys.OpenCredential(blob, v.passphrase)
	if err != nil {
		return fmt.Errorf("unseal credential: %w", err)
	}

	v.cred = cred
	v.loaded = true
	return nil
}

// refresh obtains a fresh credential and persists it. A refresh token that
// is absent or rejected surfaces ErrReauthorizationRequired.
func (v *TokenVault) refresh(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return ErrReauthorizationRequired
	}

	cred, err := v.refresher.Refresh(ctx, refreshToken)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReauthorizationRequired, err)
	}
	if cred.RefreshToken == "" {
		// Providers that rotate refresh tokens return a new one; those
		// that do not expect the old one to be kept.
		cred.RefreshToken = refreshToken
	}

	return v.Store(ctx, cred)
}

// fillExpiryHint recovers an expiry from a JWT-shaped access token when the
// provider omitted one. Claims are read without signature verification —
// the value only schedules the proactive refresh, it grants nothing.
func fillExpiryHint(cred *models.Credential) {
	if !cred.ExpiresAt.IsZero() {
		return
	}

	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(cred.AccessToken, jwt.MapClaims{})
	if err != nil {
		return
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}
	cred.ExpiresAt = exp.Time
}
