package hera

import "github.com/ewasm/hera-go/pkg/types"

// TxContext carries the transaction- and block-scoped values the EEI
// getters surface to the guest.
type TxContext struct {
	Coinbase   types.Address
	Difficulty [32]byte
	GasLimit   int64
	GasPrice   [32]byte
	Number     int64
	Timestamp  int64
	Origin     types.Address
}

// Context is the Host Context Facade (C3): a typed wrapper over the
// blockchain state v-table the host supplies. The EEI core consumes it
// through this interface only; it never assumes a concrete state backend.
type Context interface {
	GetBalance(addr types.Address) [32]byte
	GetBlockHash(number int64) [32]byte
	GetTxContext() TxContext

	GetStorage(addr types.Address, key [32]byte) [32]byte
	SetStorage(addr types.Address, key, value [32]byte)

	GetCodeSize(addr types.Address) uint64
	// CopyCode copies up to len(buf) bytes of addr's code starting at
	// offset into buf, returning the number of bytes actually copied.
	CopyCode(addr types.Address, offset uint64, buf []byte) uint64

	// Call performs a sub-call or CREATE and returns its outcome. It is a
	// synchronous, opaque, re-entrant call into the host, which may itself
	// invoke a nested engine instance for the callee.
	Call(msg CallMessage) CallResult

	EmitLog(addr types.Address, data []byte, topics []types.Hash)
	SelfDestruct(addr, beneficiary types.Address)
	AccountExists(addr types.Address) bool
}
