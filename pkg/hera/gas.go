package hera

import "math/bits"

// Gas cost constants from the eWASM/EIP-150 schedule.
const (
	GasBase       uint64 = 2 // trivial EEI call: getGasLeft, getCallDataSize, getCodeSize, ...
	GasVerylow    uint64 = 3 // memory-copy base: callDataCopy, codeCopy, returnDataCopy
	GasCopy       uint64 = 3 // per 32-byte word copied
	GasBalance    uint64 = 400 // getExternalBalance
	GasExtcode    uint64 = 700 // getExternalCodeSize, externalCodeCopy base
	GasBlockhash  uint64 = 20 // getBlockHash
	GasLog        uint64 = 375 // log base
	GasLogTopic   uint64 = 375 // per topic
	GasLogData    uint64 = 8   // per data byte
	GasStorageLoad uint64 = 200 // storageLoad
	GasStorageStoreCreate uint64 = 20000 // storageStore, zero -> non-zero
	GasStorageStoreChange uint64 = 5000  // storageStore, any other case
	GasCall           uint64 = 700   // sub-call base: call, callCode, callDelegate, callStatic
	GasCallNewAccount uint64 = 25000 // account-creation surcharge on call/selfDestruct
	GasValueTransfer  uint64 = 9000  // positive-value sub-call surcharge
	GasCreate         uint64 = 32000 // create base
	GasSelfdestruct   uint64 = 5000  // selfDestruct base
)

// CallGasRetentionDivisor implements EIP-150: a sub-call receives at most
// gas - gas/64 of the gas offered to it.
const CallGasRetentionDivisor = 64

// RetainedGas returns the gas a callee receives under EIP-150 (gas -
// floor(gas/64)); the caller keeps the remaining floor(gas/64).
func RetainedGas(gas uint64) uint64 {
	return gas - gas/CallGasRetentionDivisor
}

// ceilWords returns ceil(length / 32), the number of 32-byte words needed to
// hold length bytes. Computed as a floor division plus a remainder check
// rather than (length+31)/32, since the addition form silently wraps for
// length within 31 of u64::MAX and would let an oversized length slip past
// the overflow guard in safeMulAdd with an artificially small word count.
func ceilWords(length uint64) uint64 {
	words := length / 32
	if length%32 != 0 {
		words++
	}
	return words
}

// safeMulAdd computes base + perUnit*units, raising ErrOutOfGas if either the
// multiplication or the addition would overflow a uint64. This is the single
// overflow-safe primitive behind both the copy-gas and the log-gas formulas:
// predicate 1 (msb(perUnit)+msb(units) <= 64) guards the product, predicate 2
// (MaxUint64-base >= product) guards the sum.
func safeMulAdd(base, perUnit, units uint64) (uint64, error) {
	if units != 0 {
		if bits.Len64(perUnit)+bits.Len64(units) > 64 {
			return 0, ErrOutOfGas
		}
	}
	product := perUnit * units
	if product != 0 && base > ^uint64(0)-product {
		return 0, ErrOutOfGas
	}
	return base + product, nil
}

// CopyGas computes the overflow-safe gas charge for a copy of length bytes,
// per the formula words = ceil(length/32); charge = base + GasCopy*words.
// base is GasVerylow for callDataCopy/codeCopy/returnDataCopy, or GasExtcode
// for externalCodeCopy.
func CopyGas(base uint64, length uint64) (uint64, error) {
	words := ceilWords(length)
	return safeMulAdd(base, GasCopy, words)
}

// LogGas computes the overflow-safe gas charge for a `log` call with the
// given topic count and data length, guarded by the same overflow predicates
// as CopyGas.
func LogGas(topics uint32, length uint64) (uint64, error) {
	base := GasLog + GasLogTopic*uint64(topics)
	return safeMulAdd(base, GasLogData, length)
}

// StorageStoreGas returns the gas charged by storageStore given the current
// and new value of the slot.
func StorageStoreGas(current, value [32]byte) uint64 {
	currentZero := current == [32]byte{}
	valueZero := value == [32]byte{}
	if currentZero && !valueZero {
		return GasStorageStoreCreate
	}
	return GasStorageStoreChange
}
