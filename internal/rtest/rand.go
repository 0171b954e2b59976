package rtest

import (
	"crypto/sha256"
	"math/rand/v2"
	"testing"
)

// RandomDataForTest returns n payloads of size sz
// containing pseudorandom data, derived from a seed based on the test name.
func RandomDataForTest(t *testing.T, n, sz int) [][]byte {
	t.Helper()

	// Sha256 happens to be the right size for the chacha8 seed,
	// and we are not limited by the length of any particular test name.
	seed := sha256.Sum256([]byte(t.Name()))
	chacha := rand.NewChaCha8(seed)

	out := make([][]byte, n)
	for i := range out {
		out[i] = make([]byte, sz)
		if _, err := chacha.Read(out[i]); err != nil {
			panic(err)
		}
	}

	return out
}
