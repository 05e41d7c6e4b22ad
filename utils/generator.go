package utils

import (
	"crypto/rand"
	"fmt"
)

const referenceLength = 12
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateTransactionReference returns a reference like TXN-4F7K2M9QX1AB.
// Randomness comes from crypto/rand; the transactions table additionally
// carries a unique constraint on the column.
func GenerateTransactionReference() (string, error) {
	b := make([]byte, referenceLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = letterBytes[int(b[i])%len(letterBytes)]
	}
	return fmt.Sprintf("TXN-%s", string(b)), nil
}
