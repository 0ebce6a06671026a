// Package crypto holds the service's credential primitives: bcrypt
// password hashes and opaque refresh tokens that are stored only as
// sha256 digests.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// refreshTokenBytes is the entropy of a refresh token before encoding.
const refreshTokenBytes = 32

// NewRefreshToken mints an opaque token. The raw value goes to the
// client; the session store keeps HashToken of it.
func NewRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken is the stored form of a refresh token.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(digest[:])
}
