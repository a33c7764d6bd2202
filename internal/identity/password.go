package identity

import (
	"crypto/rand"
	"math/big"
)

const (
	uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercase = "abcdefghijklmnopqrstuvwxyz"
	numbers   = "0123456789"
	symbols   = "!@#$%^&*()"
)

// GenerateTempPassword builds a random temporary password satisfying the
// pool's policy: at least one character from each class.
func GenerateTempPassword(length int) string {
	if length < 8 {
		length = 12
	}
	all := uppercase + lowercase + numbers + symbols
	chars := []byte{
		pick(uppercase),
		pick(lowercase),
		pick(numbers),
		pick(symbols),
	}
	for len(chars) < length {
		chars = append(chars, pick(all))
	}
	shuffle(chars)
	return string(chars)
}

func pick(set string) byte {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		// crypto/rand failing means the process has bigger problems
		panic(err)
	}
	return set[n.Int64()]
}

func shuffle(b []byte) {
	for i := len(b) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			panic(err)
		}
		j := n.Int64()
		b[i], b[j] = b[j], b[i]
	}
}
