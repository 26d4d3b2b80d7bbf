package config

// validate checks that the final merged [StructuredConfig] satisfies the
// invariants the subsystem relies on at startup.
func (cfg *StructuredConfig) validate() error {
	if !cfg.Wallet.HardwareDerived && cfg.Wallet.Fingerprint == "" {
		return ErrInvalidWalletConfigs
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Remote.ContentURL == "" || cfg.Remote.RequestTimeout <= 0 {
		return ErrInvalidRemoteConfigs
	}

	if cfg.Sync.Interval <= 0 || cfg.Sync.MaxRetries <= 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}
