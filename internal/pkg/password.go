package pkg

import (
	cryptoRand "crypto/rand"
	"math/big"
	"strings"
)

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandPassword returns a random throwaway password for accounts provisioned
// by the identity resolver. The user resets it through the normal flow.
func RandPassword(n int) (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := 0; i < n; i++ {
		x, err := cryptoRand.Int(cryptoRand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(passwordAlphabet[x.Int64()])
	}
	return b.String(), nil
}
