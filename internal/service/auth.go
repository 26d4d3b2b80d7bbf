package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/lightningnetwork/lnd/clock"

	"github.com/walletmesh/labelsync/internal/config"
	"github.com/walletmesh/labelsync/internal/logger"
	"github.com/walletmesh/labelsync/models"
)

// AuthState is the phase of the authorization handshake.
type AuthState int

const (
	StateIdle AuthState = iota
	StateAwaitingRedirect
	StateExchanging
	StateAuthorized
	StateFailed
)

func (s AuthState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingRedirect:
		return "awaiting_redirect"
	case StateExchanging:
		return "exchanging"
	case StateAuthorized:
		return "authorized"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// redirectPath is the loopback path registered with the provider as part
// of the redirect URI.
const redirectPath = "/oauth/callback"

// AuthFlow drives the user-interactive authorization handshake with the
// storage provider (authorization code with PKCE, no client secret) and
// afterwards serves token refreshes for the vault. One flow instance is
// good for any number of handshakes; each Begin restarts it.
//
// AuthFlow implements vault.Refresher.
type AuthFlow struct {
	cfg    config.OAuth
	client *resty.Client
	clock  clock.Clock
	log    *logger.Logger

	mu       sync.Mutex
	state    AuthState
	verifier string
	csrf     string
}

// NewAuthFlow constructs an idle flow.
func NewAuthFlow(cfg config.OAuth, clk clock.Clock, log *logger.Logger) *AuthFlow {
	return &AuthFlow{
		cfg:    cfg,
		client: resty.New().SetTimeout(30 * time.Second),
		clock:  clk,
		log:    log,
	}
}

// State returns the current handshake phase.
func (f *AuthFlow) State() AuthState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Begin generates fresh PKCE and anti-forgery material and returns the
// provider URL the user's browser must open. Any previous handshake is
// abandoned.
func (f *AuthFlow) Begin() (string, error) {
	verifier, err := randomToken()
	if err != nil {
		return "", fmt.Errorf("generate code verifier: %w", err)
	}
	sum := sha256.Sum256([]byte(verifier))
	challenge := base64.RawURLEncoding.EncodeToString(sum[:])
	csrf := uuid.NewString()

	f.mu.Lock()
	f.state = StateAwaitingRedirect
	f.verifier = verifier
	f.csrf = csrf
	f.mu.Unlock()

	q := url.Values{}
	q.Set("client_id", f.cfg.AppKey)
	q.Set("response_type", "code")
	q.Set("code_challenge", challenge)
	q.Set("code_challenge_method", "S256")
	q.Set("state", csrf)
	q.Set("redirect_uri", f.redirectURI())
	q.Set("token_access_type", "offline")

	f.log.Info().Msg("authorization handshake started")
	return f.cfg.AuthorizeURL + "?" + q.Encode(), nil
}

// Exchange consumes the redirect parameters and trades the authorization
// code for a credential. A stale or forged redirect fails without
// consuming the handshake; a rejected exchange moves the flow to
// StateFailed and a new Begin is required.
func (f *AuthFlow) Exchange(ctx context.Context, code, state string) (models.Credential, error) {
	f.mu.Lock()
	if f.state != StateAwaitingRedirect {
		f.mu.Unlock()
		return models.Credential{}, ErrHandshakeState
	}
	if state != f.csrf {
		f.mu.Unlock()
		return models.Credential{}, ErrStateMismatch
	}
	f.state = StateExchanging
	verifier := f.verifier
	f.mu.Unlock()

	cred, err := f.requestToken(ctx, map[string]string{
		"grant_type":    "authorization_code",
		"code":          code,
		"client_id":     f.cfg.AppKey,
		"redirect_uri":  f.redirectURI(),
		"code_verifier": verifier,
	})

	f.mu.Lock()
	if err != nil {
		f.state = StateFailed
	} else {
		f.state = StateAuthorized
	}
	f.verifier = ""
	f.csrf = ""
	f.mu.Unlock()

	if err != nil {
		return models.Credential{}, err
	}
	f.log.Info().Msg("authorization handshake completed")
	return cred, nil
}

// Refresh implements vault.Refresher. The provider may omit the refresh
// token in the response; the vault keeps the old one in that case.
func (f *AuthFlow) Refresh(ctx context.Context, refreshToken string) (models.Credential, error) {
	return f.requestToken(ctx, map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
		"client_id":     f.cfg.AppKey,
	})
}

// AwaitRedirect binds the loopback listener, waits for exactly one
// redirect from the browser, completes the exchange and shuts the
// listener down. Begin must have been called first.
func (f *AuthFlow) AwaitRedirect(ctx context.Context) (models.Credential, error) {
	type outcome struct {
		cred models.Credential
		err  error
	}
	results := make(chan outcome, 1)

	r := chi.NewRouter()
	r.Get(redirectPath, func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		if denied := q.Get("error"); denied != "" {
			http.Error(w, "authorization was denied", http.StatusBadRequest)
			select {
			case results <- outcome{err: fmt.Errorf("%w: %s", ErrExchangeFailed, denied)}:
			default:
			}
			return
		}

		cred, err := f.Exchange(req.Context(), q.Get("code"), q.Get("state"))
		if err != nil {
			http.Error(w, "authorization failed", http.StatusBadRequest)
		} else {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			fmt.Fprintln(w, "Authorization complete. You can close this tab and return to your wallet.")
		}
		select {
		case results <- outcome{cred: cred, err: err}:
		default:
		}
	})

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", f.cfg.RedirectPort))
	if err != nil {
		return models.Credential{}, fmt.Errorf("bind redirect listener: %w", err)
	}
	srv := &http.Server{Handler: r}
	go func() { _ = srv.Serve(ln) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	select {
	case res := <-results:
		return res.cred, res.err
	case <-ctx.Done():
		return models.Credential{}, ctx.Err()
	}
}

// tokenResponse is the provider's token endpoint payload.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (f *AuthFlow) requestToken(ctx context.Context, form map[string]string) (models.Credential, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetFormData(form).
		Post(f.cfg.TokenURL)
	if err != nil {
		return models.Credential{}, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	if resp.IsError() {
		return models.Credential{}, fmt.Errorf("%w: status %d", ErrExchangeFailed, resp.StatusCode())
	}

	var body tokenResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return models.Credential{}, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	if body.AccessToken == "" {
		return models.Credential{}, fmt.Errorf("%w: empty access token", ErrExchangeFailed)
	}

	cred := models.Credential{
		AccessToken:  body.AccessToken,
		RefreshToken: body.RefreshToken,
	}
	if body.ExpiresIn > 0 {
		cred.ExpiresAt = f.clock.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	}
	return cred, nil
}

func (f *AuthFlow) redirectURI() string {
	return fmt.Sprintf("http://127.0.0.1:%d%s", f.cfg.RedirectPort, redirectPath)
}

// randomToken returns a 43-character base64url string over 32 random
// bytes, which satisfies the PKCE verifier length rules.
func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
