package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations.
type StructuredJSONConfig struct {
	Wallet struct {
		Fingerprint       string `json:"fingerprint"`
		AccountIndex      uint32 `json:"account_index"`
		HardwareDerived   bool   `json:"hardware_derived"`
		StoragePassphrase string `json:"storage_passphrase"`
	} `json:"wallet,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Remote struct {
		ContentURL     string   `json:"content_url"`
		AppFolder      string   `json:"app_folder"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"remote,omitempty"`

	OAuth struct {
		AppKey       string `json:"app_key"`
		AuthorizeURL string `json:"authorize_url"`
		TokenURL     string `json:"token_url"`
		RedirectPort int    `json:"redirect_port"`
	} `json:"oauth,omitempty"`

	Sync struct {
		Interval   Duration `json:"interval"`
		MaxRetries int      `json:"max_retries"`
	} `json:"sync,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Wallet: Wallet{
			Fingerprint:       jsonCfg.Wallet.Fingerprint,
			AccountIndex:      jsonCfg.Wallet.AccountIndex,
			HardwareDerived:   jsonCfg.Wallet.HardwareDerived,
			StoragePassphrase: jsonCfg.Wallet.StoragePassphrase,
		},
		Storage: Storage{
			DB: LocalDB{DSN: jsonCfg.Storage.DB.DSN},
		},
		Remote: Remote{
			ContentURL:     jsonCfg.Remote.ContentURL,
			AppFolder:      jsonCfg.Remote.AppFolder,
			RequestTimeout: time.Duration(jsonCfg.Remote.RequestTimeout),
		},
		OAuth: OAuth{
			AppKey:       jsonCfg.OAuth.AppKey,
			AuthorizeURL: jsonCfg.OAuth.AuthorizeURL,
			TokenURL:     jsonCfg.OAuth.TokenURL,
			RedirectPort: jsonCfg.OAuth.RedirectPort,
		},
		Sync: Sync{
			Interval:   time.Duration(jsonCfg.Sync.Interval),
			MaxRetries: jsonCfg.Sync.MaxRetries,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON
// unmarshaling from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
