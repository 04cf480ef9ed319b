package booking

import (
	"crypto/rand"
	"encoding/base32"
)

// NewToken returns a fresh QR check-in token: 128 bits of
// cryptographically secure randomness, base32 encoded without padding
// (26 characters).  Tokens are minted on approval and map 1:1 to a
// reservation; the entropy makes collisions and guessing impractical.
func NewToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf), nil
}
