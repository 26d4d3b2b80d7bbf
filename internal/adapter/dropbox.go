package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/walletmesh/labelsync/internal/logger"
)

// DropboxConfig configures the Dropbox-style content client.
type DropboxConfig struct {
	// ContentURL is the base URL of the content API
	// (https://content.dropboxapi.com in production, an httptest server
	// in tests).
	ContentURL string

	// AppFolder is the provider-side folder every label file lives under.
	AppFolder string

	Timeout time.Duration
}

// dropboxStore is the resty-backed [RemoteStore] for a Dropbox-style
// content API: POST /2/files/download and /2/files/upload with the file
// path carried in the Dropbox-API-Arg header.
type dropboxStore struct {
	client *resty.Client
	tokens TokenSource
	folder string
	log    *logger.Logger
}

// NewDropboxStore constructs a [RemoteStore] backed by the provider's
// content endpoints. Tokens come from the vault via tokens; the store never
// holds credential state of its own.
func NewDropboxStore(cfg DropboxConfig, tokens TokenSource, log *logger.Logger) RemoteStore {
	if cfg.ContentURL == "" {
		cfg.ContentURL = "https://content.dropboxapi.com"
	}
	if cfg.AppFolder == "" {
		cfg.AppFolder = "/Apps/Electrum-Dash/"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.ContentURL, "/")).
		SetTimeout(cfg.Timeout)

	return &dropboxStore{
		client: cli,
		tokens: tokens,
		folder: strings.TrimRight(cfg.AppFolder, "/") + "/",
		log:    log,
	}
}

type apiArg struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
	Mute bool   `json:"mute,omitempty"`
}

type uploadResult struct {
	Rev string `json:"rev"`
}

// Get implements [RemoteStore].
func (d *dropboxStore) Get(ctx context.Context, path string) ([]byte, error) {
	resp, err := d.authorized(ctx, func(token string) (*resty.Response, error) {
		arg, _ := json.Marshal(apiArg{Path: d.folder + path})
		return d.client.R().
			SetContext(ctx).
			SetAuthToken(token).
			SetHeader("Dropbox-API-Arg", string(arg)).
			Post("/2/files/download")
	})
	if err != nil {
		return nil, err
	}
	if isNotFound(resp) {
		return nil, ErrNotFound
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: download status %d", ErrNetwork, resp.StatusCode())
	}

	return resp.Body(), nil
}

// Put implements [RemoteStore]. Upload mode is overwrite: last writer wins
// at the file level, which is safe because every writer merges before
// uploading.
func (d *dropboxStore) Put(ctx context.Context, path string, data []byte) (string, error) {
	resp, err := d.authorized(ctx, func(token string) (*resty.Response, error) {
		arg, _ := json.Marshal(apiArg{Path: d.folder + path, Mode: "overwrite", Mute: true})
		return d.client.R().
			SetContext(ctx).
			SetAuthToken(token).
			SetHeader("Dropbox-API-Arg", string(arg)).
			SetHeader("Content-Type", "application/octet-stream").
			SetBody(data).
			Post("/2/files/upload")
	})
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: upload status %d", ErrNetwork, resp.StatusCode())
	}

	var result uploadResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	return result.Rev, nil
}

// authorized runs one request with a valid token. On a 401 it invalidates
// the token, lets the vault refresh, and retries exactly once; a second
// rejection surfaces ErrAuth to the caller.
func (d *dropboxStore) authorized(ctx context.Context, do func(token string) (*resty.Response, error)) (*resty.Response, error) {
	for attempt := 0; ; attempt++ {
		token, err := d.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAuth, err)
		}

		resp, err := do(token)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
		}

		if resp.StatusCode() != http.StatusUnauthorized {
			return resp, nil
		}
		if attempt > 0 {
			return nil, ErrAuth
		}

		d.log.Warn().Msg("access token rejected, refreshing")
		d.tokens.Invalidate()
	}
}

// isNotFound recognizes the provider's 409 path/not_found conflict shape.
func isNotFound(resp *resty.Response) bool {
	if resp.StatusCode() != http.StatusConflict {
		return false
	}

	var body struct {
		Error struct {
			Tag string `json:".tag"`
			Path struct {
				Tag string `json:".tag"`
			} `json:"path"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return false
	}
	return body.Error.Tag == "path" && body.Error.Path.Tag == "not_found"
}
