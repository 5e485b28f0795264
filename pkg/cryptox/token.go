package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Token size constants (in bytes before encoding).
const (
	// TokenSize192 provides 192 bits of entropy (32 chars base64url). This is
	// the size of user bearer tokens.
	TokenSize192 = 24
)

// GenerateToken creates a cryptographically secure random token of size bytes,
// returned base64url-encoded without padding so it can travel in headers and
// query strings untouched.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
