package adapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walletmesh/labelsync/internal/logger"
)

// stubTokens is a TokenSource returning a scripted sequence of tokens.
type stubTokens struct {
	tokens      []string
	idx         int
	invalidated int
	err         error
}

func (s *stubTokens) Token(_ context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.idx >= len(s.tokens) {
		return s.tokens[len(s.tokens)-1], nil
	}
	t := s.tokens[s.idx]
	s.idx++
	return t, nil
}

func (s *stubTokens) Invalidate() { s.invalidated++ }

func newTestStore(t *testing.T, handler http.HandlerFunc, tokens *stubTokens) RemoteStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewDropboxStore(DropboxConfig{
		ContentURL: srv.URL,
		AppFolder:  "/Apps/Electrum-Dash/",
	}, tokens, logger.Nop())
}

func TestGet_ReturnsFileBytes(t *testing.T) {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	tokens := &stubTokens{tokens: []string{"tok-1"}}

	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/files/download", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		var arg struct {
			Path string `json:"path"`
		}
		require.NoError(t, json.Unmarshal([]byte(r.Header.Get("Dropbox-API-Arg")), &arg))
		assert.Equal(t, "/Apps/Electrum-Dash/abc.mtdt", arg.Path)

		w.Write(payload)
	}, tokens)

	got, err := store.Get(context.Background(), "abc.mtdt")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestGet_MissingFileIsErrNotFound(t *testing.T) {
	tokens := &stubTokens{tokens: []string{"tok"}}

	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"error_summary":"path/not_found/","error":{".tag":"path","path":{".tag":"not_found"}}}`)
	}, tokens)

	_, err := store.Get(context.Background(), "missing.mtdt")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPut_ReturnsRevision(t *testing.T) {
	tokens := &stubTokens{tokens: []string{"tok"}}

	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/files/upload", r.URL.Path)

		var arg struct {
			Path string `json:"path"`
			Mode string `json:"mode"`
		}
		require.NoError(t, json.Unmarshal([]byte(r.Header.Get("Dropbox-API-Arg")), &arg))
		assert.Equal(t, "overwrite", arg.Mode)

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, []byte("envelope-bytes"), body)

		io.WriteString(w, `{"rev":"015f3a"}`)
	}, tokens)

	rev, err := store.Put(context.Background(), "abc.mtdt", []byte("envelope-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "015f3a", rev)
}

func TestAuthorized_RefreshesOnceOn401(t *testing.T) {
	tokens := &stubTokens{tokens: []string{"stale", "fresh"}}

	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer stale" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte("ok"))
	}, tokens)

	got, err := store.Get(context.Background(), "abc.mtdt")
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), got)
	assert.Equal(t, 1, tokens.invalidated)
}

func TestAuthorized_SecondRejectionIsErrAuth(t *testing.T) {
	tokens := &stubTokens{tokens: []string{"bad", "still-bad"}}

	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, tokens)

	_, err := store.Get(context.Background(), "abc.mtdt")
	require.ErrorIs(t, err, ErrAuth)
	assert.Equal(t, 1, tokens.invalidated, "only one refresh per request")
}

func TestGet_ServerErrorIsErrNetwork(t *testing.T) {
	tokens := &stubTokens{tokens: []string{"tok"}}

	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, tokens)

	_, err := store.Get(context.Background(), "abc.mtdt")
	require.ErrorIs(t, err, ErrNetwork)
}

func TestGet_TransportFailureIsErrNetwork(t *testing.T) {
	tokens := &stubTokens{tokens: []string{"tok"}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	store := NewDropboxStore(DropboxConfig{ContentURL: srv.URL}, tokens, logger.Nop())

	_, err := store.Get(context.Background(), "abc.mtdt")
	require.ErrorIs(t, err, ErrNetwork)
}
