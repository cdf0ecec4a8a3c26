package hera

import (
	"github.com/holiman/uint256"

	"github.com/ewasm/hera-go/pkg/types"
)

func bytesToU256(b [32]byte) *uint256.Int {
	var u uint256.Int
	u.SetBytes32(b[:])
	return &u
}

func isZero256(b [32]byte) bool { return b == [32]byte{} }

// ensureSenderBalance fails with ErrOutOfGas if the executing account's
// balance is less than value, per §4.4's ensure_sender_balance.
func (s *EEIState) ensureSenderBalance(value [32]byte) error {
	bal := s.host.GetBalance(s.msg.Destination)
	if bytesToU256(bal).Cmp(bytesToU256(value)) < 0 {
		return ErrOutOfGas
	}
	return nil
}

// mapCallStatus implements the SUCCESS/REVERT/other-failure to 0/2/1
// mapping used by the entire call/create family.
func mapCallStatus(status StatusCode) int32 {
	switch status {
	case StatusSuccess:
		return 0
	case StatusRevert:
		return 2
	default:
		return 1
	}
}

// subCall builds and dispatches a sub-message shared by call, callCode,
// callDelegate and callStatic. creditNewAccount controls whether the
// callNewAccount surcharge applies (only plain `call` does, per §4.4).
func (s *EEIState) subCall(kind CallKind, gas int64, addr types.Address, value [32]byte, input []byte, static bool, creditNewAccount bool) (int32, error) {
	if gas < 0 {
		return 0, ErrInternal
	}
	valueNonZero := !isZero256(value)
	if valueNonZero && s.msg.IsStatic() {
		return 0, ErrStaticModeViolation
	}
	if err := s.ensureSenderBalance(value); err != nil {
		return 0, err
	}

	if creditNewAccount && !s.host.AccountExists(addr) {
		if err := s.charge(GasCallNewAccount); err != nil {
			return 0, err
		}
	}
	if valueNonZero {
		if err := s.charge(GasValueTransfer); err != nil {
			return 0, err
		}
	}
	if err := s.charge(GasCall); err != nil {
		return 0, err
	}
	calleeGas := RetainedGas(uint64(gas))
	if err := s.charge(calleeGas); err != nil {
		return 0, err
	}

	sender := s.msg.Destination
	msgValue := value
	flags := s.msg.Flags
	if static {
		flags |= FlagStatic
	}
	if kind == CallKindDelegateCall {
		sender = s.msg.Sender
		msgValue = s.msg.Value
	}

	sub := CallMessage{
		Sender:      sender,
		Destination: addr,
		Value:       msgValue,
		Input:       input,
		Gas:         int64(calleeGas),
		Kind:        kind,
		Flags:       flags,
		Depth:       s.msg.Depth + 1,
	}
	result := s.host.Call(sub)
	s.lastReturnData = result.Output
	s.result.GasLeft += result.GasLeft
	if result.Release != nil {
		result.Release()
	}
	return mapCallStatus(result.Status), nil
}

// call implements `call`.
func (s *EEIState) call(gas int64, addrOff, valueOff, dataOff, dataLen uint64) (int32, error) {
	addr, err := s.mem.LoadU160(addrOff)
	if err != nil {
		return 0, err
	}
	value, err := s.mem.LoadU128(valueOff)
	if err != nil {
		return 0, err
	}
	input, err := s.mem.LoadBytes(dataOff, dataLen)
	if err != nil {
		return 0, err
	}
	return s.subCall(CallKindCall, gas, types.Address(addr), value, input, false, true)
}

// callCode implements `callCode`: sender is self, but the callee's code
// runs under the caller's own account identity for storage purposes (the
// host's Call implementation, given Kind == CallKindCallCode, is
// responsible for that distinction).
func (s *EEIState) callCode(gas int64, addrOff, valueOff, dataOff, dataLen uint64) (int32, error) {
	addr, err := s.mem.LoadU160(addrOff)
	if err != nil {
		return 0, err
	}
	value, err := s.mem.LoadU128(valueOff)
	if err != nil {
		return 0, err
	}
	input, err := s.mem.LoadBytes(dataOff, dataLen)
	if err != nil {
		return 0, err
	}
	return s.subCall(CallKindCallCode, gas, types.Address(addr), value, input, false, false)
}

// callDelegate implements `callDelegate`: sender and value are inherited
// from the current message.
func (s *EEIState) callDelegate(gas int64, addrOff, dataOff, dataLen uint64) (int32, error) {
	addr, err := s.mem.LoadU160(addrOff)
	if err != nil {
		return 0, err
	}
	input, err := s.mem.LoadBytes(dataOff, dataLen)
	if err != nil {
		return 0, err
	}
	return s.subCall(CallKindDelegateCall, gas, types.Address(addr), s.msg.Value, input, false, false)
}

// callStatic implements `callStatic`: forces STATIC on, value is zero.
func (s *EEIState) callStatic(gas int64, addrOff, dataOff, dataLen uint64) (int32, error) {
	addr, err := s.mem.LoadU160(addrOff)
	if err != nil {
		return 0, err
	}
	input, err := s.mem.LoadBytes(dataOff, dataLen)
	if err != nil {
		return 0, err
	}
	return s.subCall(CallKindCall, gas, types.Address(addr), [32]byte{}, input, true, false)
}

// create implements `create`.
func (s *EEIState) create(valueOff, dataOff, dataLen, addrDstOff uint64) (int32, error) {
	if err := s.requireNotStatic(); err != nil {
		return 0, err
	}
	value, err := s.mem.LoadU128(valueOff)
	if err != nil {
		return 0, err
	}
	if err := s.ensureSenderBalance(value); err != nil {
		return 0, err
	}
	input, err := s.mem.LoadBytes(dataOff, dataLen)
	if err != nil {
		return 0, err
	}

	calleeGas := RetainedGas(uint64(s.result.GasLeft))
	if err := s.charge(calleeGas + GasCreate); err != nil {
		return 0, err
	}

	sub := CallMessage{
		Sender: s.msg.Destination,
		Value:  value,
		Input:  input,
		Gas:    int64(calleeGas),
		Kind:   CallKindCreate,
		Flags:  s.msg.Flags,
		Depth:  s.msg.Depth + 1,
	}
	result := s.host.Call(sub)
	if result.Status == StatusSuccess {
		s.lastReturnData = nil
		if err := s.writeAddress(addrDstOff, result.CreateAddress); err != nil {
			if result.Release != nil {
				result.Release()
			}
			return 0, err
		}
	} else {
		s.lastReturnData = result.Output
	}
	s.result.GasLeft += result.GasLeft
	if result.Release != nil {
		result.Release()
	}
	return mapCallStatus(result.Status), nil
}

// selfDestruct implements `selfDestruct`: terminates the instance after
// transferring the remaining balance to the named beneficiary.
func (s *EEIState) selfDestruct(addrOff uint64) error {
	if err := s.requireNotStatic(); err != nil {
		return err
	}
	addr, err := s.mem.LoadU160(addrOff)
	if err != nil {
		return err
	}
	beneficiary := types.Address(addr)
	if !s.host.AccountExists(beneficiary) {
		if err := s.charge(GasCallNewAccount); err != nil {
			return err
		}
	}
	if err := s.charge(GasSelfdestruct); err != nil {
		return err
	}
	s.host.SelfDestruct(s.msg.Destination, beneficiary)
	return &endExecution{revert: false}
}
