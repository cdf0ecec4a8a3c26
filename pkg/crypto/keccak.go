// Package crypto provides Keccak256, Ethereum's legacy-padding Keccak-256
// hash, as raw bytes or as a types.Hash.
package crypto

import (
	"golang.org/x/crypto/sha3"

	"github.com/ewasm/hera-go/pkg/types"
)

// Keccak256 returns the Keccak256 digest of the concatenation of data.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}

// Keccak256Hash returns the Keccak256 digest of the concatenation of data as
// a types.Hash.
func Keccak256Hash(data ...[]byte) types.Hash {
	return types.BytesToHash(Keccak256(data...))
}
