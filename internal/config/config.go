package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// label-sync subsystem. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line
// flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Wallet identifies the wallet whose labels are synchronized and how
	// its encryption key is derived.
	Wallet Wallet `envPrefix:"WALLET_"`

	// Storage holds the local SQLite settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Remote holds the file-storage provider endpoints.
	Remote Remote `envPrefix:"REMOTE_"`

	// OAuth holds the provider authorization endpoints and app key used
	// by the handshake and by token refresh.
	OAuth OAuth `envPrefix:"OAUTH_"`

	// Sync holds cycle scheduling and retry settings.
	Sync Sync `envPrefix:"SYNC_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c/-config
	// flag.
	JSONFilePath string `env:"CONFIG"`
}

// Wallet identifies the wallet and the key-derivation mode.
type Wallet struct {
	// Fingerprint is the wallet identity material the standard-mode KDF
	// consumes. Required in standard mode, ignored in hardware mode.
	// Env: WALLET_FINGERPRINT
	Fingerprint string `env:"FINGERPRINT"`

	// AccountIndex selects the wallet account whose labels are synced.
	// Env: WALLET_ACCOUNT
	AccountIndex uint32 `env:"ACCOUNT"`

	// HardwareDerived selects hardware key derivation via the connected
	// signer instead of the software KDF.
	// Env: WALLET_HARDWARE
	HardwareDerived bool `env:"HARDWARE"`

	// StoragePassphrase is the wallet's own storage encryption secret,
	// reused to seal the remote-storage credential at rest.
	// Env: WALLET_STORAGE_PASSPHRASE
	StoragePassphrase string `env:"STORAGE_PASSPHRASE"`
}

// Storage groups local persistence settings.
type Storage struct {
	DB LocalDB `envPrefix:"DB_"`
}

// LocalDB contains the SQLite connection settings.
type LocalDB struct {
	// DSN is the SQLite file path.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Remote holds the storage provider's content API settings.
type Remote struct {
	// ContentURL is the base URL of the provider's content API.
	// Env: REMOTE_CONTENT_URL
	ContentURL string `env:"CONTENT_URL"`

	// AppFolder is the provider-side folder label files live under.
	// Env: REMOTE_APP_FOLDER
	AppFolder string `env:"APP_FOLDER"`

	// RequestTimeout is the per-request timeout for store calls.
	// Env: REMOTE_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// OAuth holds the provider authorization settings consumed by the
// handshake state machine and by token refresh.
type OAuth struct {
	// AppKey is the OAuth2 client id registered with the provider.
	// Env: OAUTH_APP_KEY
	AppKey string `env:"APP_KEY"`

	// AuthorizeURL is the provider's browser authorization endpoint.
	// Env: OAUTH_AUTHORIZE_URL
	AuthorizeURL string `env:"AUTHORIZE_URL"`

	// TokenURL is the provider's token exchange/refresh endpoint.
	// Env: OAUTH_TOKEN_URL
	TokenURL string `env:"TOKEN_URL"`

	// RedirectPort is the loopback port the redirect listener binds.
	// Env: OAUTH_REDIRECT_PORT
	RedirectPort int `env:"REDIRECT_PORT"`
}

// Sync holds cycle scheduling and retry settings.
type Sync struct {
	// Interval is how often the background job runs a cycle.
	// Env: SYNC_INTERVAL
	Interval time.Duration `env:"INTERVAL"`

	// MaxRetries bounds upload/download retry attempts per cycle.
	// Env: SYNC_MAX_RETRIES
	MaxRetries int `env:"MAX_RETRIES"`
}

// GetStructuredConfig loads, merges and validates the full configuration:
// environment first, then flags, then the optional JSON file, then
// defaults for anything still unset.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
