package service

import (
	"context"
	"fmt"

	"github.com/walletmesh/labelsync/internal/config"
	"github.com/walletmesh/labelsync/internal/crypto"
	"github.com/walletmesh/labelsync/internal/device"
	"github.com/walletmesh/labelsync/models"
)

// Keyring turns wallet identity into the per-cycle encryption context. In
// standard mode the master key comes from the software KDF over the wallet
// fingerprint; in hardware mode it comes from the connected signer via the
// master key source, which owns caching and prompt handling.
//
// The master key itself never leaves this type: only the derived account
// key and file name do, and the master copy is zeroed before returning.
type Keyring struct {
	keys   crypto.KeyService
	source *device.MasterKeySource // nil in standard mode
	wallet config.Wallet
}

// NewKeyring constructs a Keyring. source may be nil when the wallet is
// not hardware-derived.
func NewKeyring(keys crypto.KeyService, source *device.MasterKeySource, wallet config.Wallet) *Keyring {
	return &Keyring{keys: keys, source: source, wallet: wallet}
}

// Context implements ContextProvider.
func (k *Keyring) Context(ctx context.Context, accountIndex uint32) (*models.EncryptionContext, string, error) {
	mode := models.ModeStandard

	var master []byte
	var err error
	if k.wallet.HardwareDerived {
		mode = models.ModeHardwareDerived
		if k.source == nil {
			return nil, "", device.ErrDisconnected
		}
		master, err = k.source.MasterKey(ctx)
	} else {
		master, err = k.keys.StandardMasterKey(k.wallet.Fingerprint)
	}
	if err != nil {
		return nil, "", fmt.Errorf("derive master key: %w", err)
	}
	defer zeroize(master)

	key, err := k.keys.AccountKey(master, accountIndex)
	if err != nil {
		return nil, "", fmt.Errorf("derive account key: %w", err)
	}
	name, err := k.keys.RemoteFilename(master, accountIndex)
	if err != nil {
		return nil, "", fmt.Errorf("derive remote filename: %w", err)
	}

	enc := &models.EncryptionContext{
		Mode:         mode,
		AccountIndex: accountIndex,
		Key:          key,
	}
	return enc, name, nil
}

// Purge drops any cached hardware master key immediately.
func (k *Keyring) Purge() {
	if k.source != nil {
		k.source.Purge()
	}
}

func zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
