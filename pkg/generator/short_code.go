package generator

import (
	"crypto/rand"
	"math/big"
)

const (
	alphanumChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	codeLength    = 6
)

// ShortCode returns a random alphanumeric code of fixed length 6.
func ShortCode() (string, error) {
	b := make([]byte, codeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphanumChars))))
		if err != nil {
			return "", err
		}
		b[i] = alphanumChars[n.Int64()]
	}

	return string(b), nil
}
