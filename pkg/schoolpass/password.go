package schoolpass

import (
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"strings"
)

// PasswordMode selects what is sent as the password when requesting a token.
type PasswordMode string

const (
	// PasswordPlain sends the configured password unchanged.
	PasswordPlain PasswordMode = "plain"
	// PasswordSHA1 sends HashPassword of the configured password.
	PasswordSHA1 PasswordMode = "sha1"
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *PasswordMode) UnmarshalText(text []byte) error {
	switch mode := PasswordMode(strings.ToLower(strings.TrimSpace(string(text)))); mode {
	case "", PasswordPlain:
		*m = PasswordPlain
	case PasswordSHA1:
		*m = PasswordSHA1
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPasswordMode, string(text))
	}
	return nil
}

// Apply returns the value to send for password under this mode.
func (m PasswordMode) Apply(password string) string {
	if m == PasswordSHA1 {
		return HashPassword(password)
	}
	return password
}

// HashPassword returns the base64 encoded SHA-1 digest older SchoolPass
// deployments expect in place of the password.
func HashPassword(password string) string {
	sum := sha1.Sum([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:])
}
