package models

import "time"

// Credential is the remote-storage access credential produced by the OAuth
// handshake and owned by the token vault afterwards. It is always persisted
// encrypted and must never appear in logs; see [Credential.String].
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ExpiresWithin reports whether the access token is already expired or will
// expire before now+margin. The vault refreshes proactively inside the
// margin instead of waiting for the store to reject the token.
func (c Credential) ExpiresWithin(now time.Time, margin time.Duration) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(margin).Before(c.ExpiresAt)
}

// Valid reports whether the credential carries an access token at all.
func (c Credential) Valid() bool {
	return c.AccessToken != ""
}

// String implements fmt.Stringer with all token material redacted, so a
// credential that accidentally reaches a log line leaks nothing.
func (c Credential) String() string {
	return "credential(redacted)"
}
