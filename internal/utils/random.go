package utils

import (
	"math/rand/v2"
)

const idAlphabet = "abcdefghijkmnopqrstuvwxyz23456789"

// RandomID returns an n-character public identifier for posts and comments.
func RandomID(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	return string(b)
}
