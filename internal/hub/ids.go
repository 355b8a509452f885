package hub

import (
	"crypto/rand"
	"encoding/base32"
)

const idBytes = 10

// NewID returns a random session id.
func NewID() string {
	buf := make([]byte, idBytes)
	_, _ = rand.Read(buf)
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf)
}
