package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-fingerprint wallet fingerprint for standard-mode key derivation
//	-account wallet account index
//	-hardware derive the key through the hardware signer
//	-d local database path
//	-remote-url content API base URL
//	-app-folder remote folder for label files
//	-app-key OAuth2 client id
//	-sync-interval background sync interval (e.g., "5m")
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var fingerprint string
	var accountIndex uint
	var hardware bool
	var databaseDSN string
	var remoteURL string
	var appFolder string
	var appKey string
	var syncInterval time.Duration
	var jsonConfigPath string

	flag.StringVar(&fingerprint, "fingerprint", "", "Wallet fingerprint")
	flag.UintVar(&accountIndex, "account", 0, "Wallet account index")
	flag.BoolVar(&hardware, "hardware", false, "Use hardware key derivation")
	flag.StringVar(&databaseDSN, "d", "", "Local database path")
	flag.StringVar(&remoteURL, "remote-url", "", "Content API base URL")
	flag.StringVar(&appFolder, "app-folder", "", "Remote folder for label files")
	flag.StringVar(&appKey, "app-key", "", "OAuth2 client id")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Background sync interval (e.g., 5m)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		Wallet: Wallet{
			Fingerprint:     fingerprint,
			AccountIndex:    uint32(accountIndex),
			HardwareDerived: hardware,
		},
		Storage: Storage{DB: LocalDB{DSN: databaseDSN}},
		Remote: Remote{
			ContentURL: remoteURL,
			AppFolder:  appFolder,
		},
		OAuth:        OAuth{AppKey: appKey},
		Sync:         Sync{Interval: syncInterval},
		JSONFilePath: jsonConfigPath,
	}
}
