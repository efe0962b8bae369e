// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomHex returns n random bytes hex-encoded. Used for stored file names.
func RandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
