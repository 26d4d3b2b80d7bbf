package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidWalletConfigs indicates standard-mode derivation was
	// selected without wallet fingerprint material.
	ErrInvalidWalletConfigs = errors.New("invalid wallet configuration")

	// ErrInvalidStorageConfigs indicates a missing local database path.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")

	// ErrInvalidRemoteConfigs indicates missing or unusable remote store
	// settings.
	ErrInvalidRemoteConfigs = errors.New("invalid remote store configuration")

	// ErrInvalidSyncConfigs indicates unusable sync scheduling settings.
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
)
