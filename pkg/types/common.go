// Package types defines the small fixed-width value types shared across the
// engine: account addresses, hashes, and the log records the EEI emits.
package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AddressLength is the length in bytes of an Ethereum account address.
const AddressLength = 20

// HashLength is the length in bytes of a Keccak256 hash or a 256-bit word.
const HashLength = 32

// Address is a 20-byte account identifier, big-endian.
type Address [AddressLength]byte

// BytesToAddress right-aligns b into an Address, truncating from the left
// if b is longer than AddressLength.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// Bytes returns a, as a freshly allocated slice.
func (a Address) Bytes() []byte { return a[:] }

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool { return a == Address{} }

func (a Address) String() string { return hexutil.Encode(a[:]) }

// Hash is a 32-byte word: a Keccak256 digest or a raw 256-bit storage slot.
type Hash [HashLength]byte

// BytesToHash right-aligns b into a Hash, truncating from the left if b is
// longer than HashLength.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// Bytes returns h, as a freshly allocated slice.
func (h Hash) Bytes() []byte { return h[:] }

// IsZero reports whether h is the zero hash.
func (h Hash) IsZero() bool { return h == Hash{} }

func (h Hash) String() string { return hexutil.Encode(h[:]) }

// Log is one event record emitted by the `log` EEI function.
type Log struct {
	Address Address
	Topics  []Hash
	Data    []byte
}

func (l Log) String() string {
	return fmt.Sprintf("Log{address=%s topics=%d data=%d bytes}", l.Address, len(l.Topics), len(l.Data))
}
