package crypto

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/walletmesh/labelsync/models"
)

func TestStandardMasterKey_Deterministic(t *testing.T) {
	svc := NewKeyService()

	k1, err := svc.StandardMasterKey("fp-0123abcd")
	if err != nil {
		t.Fatalf("StandardMasterKey error: %v", err)
	}
	k2, err := svc.StandardMasterKey("fp-0123abcd")
	if err != nil {
		t.Fatalf("StandardMasterKey error: %v", err)
	}

	if len(k1) != 32 {
		t.Fatalf("key length = %d, want 32", len(k1))
	}
	if !bytes.Equal(k1, k2) {
		t.Fatalf("expected identical keys for identical fingerprint")
	}
}

func TestStandardMasterKey_DifferentFingerprints(t *testing.T) {
	svc := NewKeyService()

	k1, _ := svc.StandardMasterKey("fp-aaaa")
	k2, _ := svc.StandardMasterKey("fp-bbbb")

	if bytes.Equal(k1, k2) {
		t.Fatalf("expected different keys for different fingerprints")
	}
}

func TestStandardMasterKey_EmptyFingerprint(t *testing.T) {
	svc := NewKeyService()

	_, err := svc.StandardMasterKey("")
	if !errors.Is(err, ErrBadIdentity) {
		t.Fatalf("error = %v, want ErrBadIdentity", err)
	}
}

func TestAccountKey_VariesByAccount(t *testing.T) {
	svc := NewKeyService()
	master := bytes.Repeat([]byte{0x42}, 32)

	k0, err := svc.AccountKey(master, 0)
	if err != nil {
		t.Fatalf("AccountKey error: %v", err)
	}
	k1, err := svc.AccountKey(master, 1)
	if err != nil {
		t.Fatalf("AccountKey error: %v", err)
	}

	if len(k0) != 32 || len(k1) != 32 {
		t.Fatalf("subkey lengths = %d, %d, want 32", len(k0), len(k1))
	}
	if bytes.Equal(k0, k1) {
		t.Fatalf("expected distinct subkeys per account index")
	}

	again, _ := svc.AccountKey(master, 0)
	if !bytes.Equal(k0, again) {
		t.Fatalf("expected AccountKey to be deterministic")
	}
}

func TestAccountKey_RejectsShortMaster(t *testing.T) {
	svc := NewKeyService()

	_, err := svc.AccountKey([]byte("short"), 0)
	if !errors.Is(err, ErrBadKeyLength) {
		t.Fatalf("error = %v, want ErrBadKeyLength", err)
	}
}

func TestRemoteFilename_StableAndDistinct(t *testing.T) {
	svc := NewKeyService()
	masterA := bytes.Repeat([]byte{0x01}, 32)
	masterB := bytes.Repeat([]byte{0x02}, 32)

	n1, err := svc.RemoteFilename(masterA, 0)
	if err != nil {
		t.Fatalf("RemoteFilename error: %v", err)
	}
	n2, _ := svc.RemoteFilename(masterA, 0)
	n3, _ := svc.RemoteFilename(masterB, 0)
	n4, _ := svc.RemoteFilename(masterA, 1)

	if n1 != n2 {
		t.Fatalf("expected stable filename across runs: %s vs %s", n1, n2)
	}
	if n1 == n3 {
		t.Fatalf("expected distinct filenames for distinct master keys")
	}
	if n1 == n4 {
		t.Fatalf("expected distinct filenames for distinct accounts")
	}
	if !strings.HasSuffix(n1, ".mtdt") {
		t.Fatalf("filename %q missing .mtdt extension", n1)
	}
	// hex fingerprint (64 chars) + extension
	if len(n1) != 64+len(models.EnvelopeExtension) {
		t.Fatalf("filename length = %d", len(n1))
	}
}

func TestRemoteFilename_DiffersFromAccountKey(t *testing.T) {
	// The filename fingerprint must not leak the encryption subkey.
	svc := NewKeyService()
	master := bytes.Repeat([]byte{0x07}, 32)

	accountKey, _ := svc.AccountKey(master, 0)
	name, _ := svc.RemoteFilename(master, 0)

	if strings.TrimSuffix(name, models.EnvelopeExtension) == hex.EncodeToString(accountKey) {
		t.Fatalf("filename fingerprint equals the account key")
	}
}

func TestSealCredential_RoundTrip(t *testing.T) {
	svc := NewKeyService()
	cred := models.Credential{
		AccessToken:  "at-secret",
		RefreshToken: "rt-secret",
		ExpiresAt:    time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}

	blob, err := svc.SealCredential(cred, "wallet-passphrase")
	if err != nil {
		t.Fatalf("SealCredential error: %v", err)
	}
	if bytes.Contains(blob, []byte("at-secret")) || bytes.Contains(blob, []byte("rt-secret")) {
		t.Fatalf("sealed blob leaks token material")
	}

	got, err := svc.OpenCredential(blob, "wallet-passphrase")
	if err != nil {
		t.Fatalf("OpenCredential error: %v", err)
	}
	if got.AccessToken != cred.AccessToken || got.RefreshToken != cred.RefreshToken {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if !got.ExpiresAt.Equal(cred.ExpiresAt) {
		t.Fatalf("expiry mismatch: %v", got.ExpiresAt)
	}
}

func TestOpenCredential_WrongPassphrase(t *testing.T) {
	svc := NewKeyService()

	blob, err := svc.SealCredential(models.Credential{AccessToken: "x"}, "right")
	if err != nil {
		t.Fatalf("SealCredential error: %v", err)
	}

	_, err = svc.OpenCredential(blob, "wrong")
	if !errors.Is(err, ErrCipherAuth) {
		t.Fatalf("error = %v, want ErrCipherAuth", err)
	}
}

func TestOpenCredential_TruncatedBlob(t *testing.T) {
	svc := NewKeyService()

	_, err := svc.OpenCredential([]byte{1, 2, 3}, "any")
	if !errors.Is(err, ErrMalformedEnvelope) {
		t.Fatalf("error = %v, want ErrMalformedEnvelope", err)
	}
}
