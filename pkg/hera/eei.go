package hera

import "github.com/ewasm/hera-go/pkg/types"

// EEIState is the per-invocation state passed to one Wasm instance: the
// immutable call message and code, the mutable execution-result
// accumulator, the last sub-call's return data, and the Host Context
// Facade and Memory Bridge the host functions are built on.
type EEIState struct {
	msg  CallMessage
	code []byte

	result ExecutionResult

	lastReturnData []byte

	// meterGas is false when code was produced by a metering-aware
	// transcompiler that already inserted explicit useGas calls; in that
	// case the EEI's own per-function base/variable charges are skipped,
	// but useGas itself still always applies (see charge and spendGas).
	meterGas bool

	host Context
	mem  *MemoryBridge
}

// NewEEIState constructs the per-invocation state. gas must be
// non-negative; a negative gas budget is an InternalError precondition
// violation the dispatcher must catch before ever constructing an EEIState.
// The guest's linear memory is not yet known at this point (instantiation
// happens after the host functions are bound) — call AttachMemory once the
// Engine Adapter has produced an Instance.
func NewEEIState(msg CallMessage, code []byte, host Context, meterGas bool) *EEIState {
	return &EEIState{
		msg:      msg,
		code:     code,
		result:   ExecutionResult{GasLeft: msg.Gas},
		meterGas: meterGas,
		host:     host,
	}
}

// AttachMemory binds the guest's linear memory, obtained from
// EngineAdapter.MemoryHandle after instantiation.
func (s *EEIState) AttachMemory(view MemoryView) {
	s.mem = NewMemoryBridge(view)
}

// Result returns the current, possibly still-being-accumulated execution
// result.
func (s *EEIState) Result() ExecutionResult { return s.result }

// charge deducts amount from gas_left if metering is enabled for this
// invocation; transcompiled code with meterGas == false is expected to
// have its own useGas calls already inserted, so the EEI's built-in
// per-function charges are skipped.
func (s *EEIState) charge(amount uint64) error {
	if !s.meterGas {
		return nil
	}
	return s.spendGas(amount)
}

// spendGas unconditionally deducts amount, regardless of the meterGas
// switch. It is the primitive useGas itself is built on, since useGas is
// the mechanism metering-aware transcompiled code uses to charge gas
// explicitly and must work whether or not the EEI's own charges are
// active.
func (s *EEIState) spendGas(amount uint64) error {
	if amount > uint64(s.result.GasLeft) {
		s.result.GasLeft = 0
		return ErrOutOfGas
	}
	s.result.GasLeft -= int64(amount)
	return nil
}

func (s *EEIState) requireNotStatic() error {
	if s.msg.IsStatic() {
		return ErrStaticModeViolation
	}
	return nil
}

// useGas implements the `useGas` EEI function: a guest-driven,
// unconditional gas charge (used by metering-aware transcompiled code). A
// negative g is treated strictly as OutOfGas, per the EEI's undefined
// behavior for negative arguments.
func (s *EEIState) useGas(g int64) error {
	if g < 0 {
		s.result.GasLeft = 0
		return ErrOutOfGas
	}
	return s.spendGas(uint64(g))
}

// getGasLeft implements `getGasLeft`.
func (s *EEIState) getGasLeft() (int64, error) {
	if err := s.charge(GasBase); err != nil {
		return 0, err
	}
	return s.result.GasLeft, nil
}

func (s *EEIState) writeAddress(off uint64, addr types.Address) error {
	var buf [20]byte
	copy(buf[:], addr[:])
	return s.mem.StoreU160(buf, off)
}

// getAddress implements `getAddress`.
func (s *EEIState) getAddress(off uint64) error {
	if err := s.charge(GasBase); err != nil {
		return err
	}
	return s.writeAddress(off, s.msg.Destination)
}

// getCaller implements `getCaller`.
func (s *EEIState) getCaller(off uint64) error {
	if err := s.charge(GasBase); err != nil {
		return err
	}
	return s.writeAddress(off, s.msg.Sender)
}

// getTxOrigin implements `getTxOrigin`.
func (s *EEIState) getTxOrigin(off uint64) error {
	if err := s.charge(GasBase); err != nil {
		return err
	}
	return s.writeAddress(off, s.host.GetTxContext().Origin)
}

// getBlockCoinbase implements `getBlockCoinbase`.
func (s *EEIState) getBlockCoinbase(off uint64) error {
	if err := s.charge(GasBase); err != nil {
		return err
	}
	return s.writeAddress(off, s.host.GetTxContext().Coinbase)
}

// getCallValue implements `getCallValue`: writes the low 16 bytes of
// msg.value, reversed. The high 128 bits of msg.value must be zero or
// StoreU128 fails with ErrOutOfGas, per §4.4.
func (s *EEIState) getCallValue(off uint64) error {
	if err := s.charge(GasBase); err != nil {
		return err
	}
	return s.mem.StoreU128(s.msg.Value, off)
}

// getTxGasPrice implements `getTxGasPrice`.
func (s *EEIState) getTxGasPrice(off uint64) error {
	if err := s.charge(GasBase); err != nil {
		return err
	}
	return s.mem.StoreU128(s.host.GetTxContext().GasPrice, off)
}

// getBlockDifficulty implements `getBlockDifficulty`.
func (s *EEIState) getBlockDifficulty(off uint64) error {
	if err := s.charge(GasBase); err != nil {
		return err
	}
	return s.mem.StoreU256BE(s.host.GetTxContext().Difficulty, off)
}

// getExternalBalance implements `getExternalBalance`.
func (s *EEIState) getExternalBalance(addrOff, resultOff uint64) error {
	if err := s.charge(GasBalance); err != nil {
		return err
	}
	addr, err := s.mem.LoadU160(addrOff)
	if err != nil {
		return err
	}
	bal := s.host.GetBalance(types.Address(addr))
	return s.mem.StoreU256BE(bal, resultOff)
}

// getBlockHash implements `getBlockHash`.
func (s *EEIState) getBlockHash(number int64, resultOff uint64) (int32, error) {
	if err := s.charge(GasBlockhash); err != nil {
		return 0, err
	}
	hash := s.host.GetBlockHash(number)
	if hash == ([32]byte{}) {
		return 1, nil
	}
	if err := s.mem.StoreU256BE(hash, resultOff); err != nil {
		return 0, err
	}
	return 0, nil
}

// getCallDataSize implements `getCallDataSize`.
func (s *EEIState) getCallDataSize() (int32, error) {
	if err := s.charge(GasBase); err != nil {
		return 0, err
	}
	return int32(len(s.msg.Input)), nil
}

// getCodeSize implements `getCodeSize`.
func (s *EEIState) getCodeSize() (int32, error) {
	if err := s.charge(GasBase); err != nil {
		return 0, err
	}
	return int32(len(s.code)), nil
}

// getExternalCodeSize implements `getExternalCodeSize`.
func (s *EEIState) getExternalCodeSize(addrOff uint64) (int32, error) {
	if err := s.charge(GasExtcode); err != nil {
		return 0, err
	}
	addr, err := s.mem.LoadU160(addrOff)
	if err != nil {
		return 0, err
	}
	return int32(s.host.GetCodeSize(types.Address(addr))), nil
}

// getBlockGasLimit implements `getBlockGasLimit`.
func (s *EEIState) getBlockGasLimit() (int64, error) {
	if err := s.charge(GasBase); err != nil {
		return 0, err
	}
	return s.host.GetTxContext().GasLimit, nil
}

// getBlockNumber implements `getBlockNumber`.
func (s *EEIState) getBlockNumber() (int64, error) {
	if err := s.charge(GasBase); err != nil {
		return 0, err
	}
	return s.host.GetTxContext().Number, nil
}

// getBlockTimestamp implements `getBlockTimestamp`.
func (s *EEIState) getBlockTimestamp() (int64, error) {
	if err := s.charge(GasBase); err != nil {
		return 0, err
	}
	return s.host.GetTxContext().Timestamp, nil
}

// getReturnDataSize implements `getReturnDataSize`.
func (s *EEIState) getReturnDataSize() (int32, error) {
	if err := s.charge(GasBase); err != nil {
		return 0, err
	}
	return int32(len(s.lastReturnData)), nil
}
