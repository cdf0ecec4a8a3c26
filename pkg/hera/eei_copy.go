package hera

import "github.com/ewasm/hera-go/pkg/types"

// copySourceBounded copies length bytes of src starting at srcOff into
// memory at dstOff. Unlike externalCodeCopy, it does not zero-pad: reading
// past the end of src is an InvalidMemoryAccess, matching callDataCopy and
// codeCopy's semantics in §4.4.
func (s *EEIState) copySourceBounded(src []byte, dstOff, srcOff, length uint64) error {
	if length == 0 {
		return s.mem.StoreBytes(dstOff, nil)
	}
	if srcOff > uint64(len(src)) || length > uint64(len(src))-srcOff {
		return ErrInvalidMemoryAccess
	}
	return s.mem.StoreBytes(dstOff, src[srcOff:srcOff+length])
}

// callDataCopy implements `callDataCopy`.
func (s *EEIState) callDataCopy(dstOff, srcOff, length uint64) error {
	gas, err := CopyGas(GasVerylow, length)
	if err != nil {
		return err
	}
	if err := s.charge(gas); err != nil {
		return err
	}
	return s.copySourceBounded(s.msg.Input, dstOff, srcOff, length)
}

// codeCopy implements `codeCopy`.
func (s *EEIState) codeCopy(dstOff, srcOff, length uint64) error {
	gas, err := CopyGas(GasVerylow, length)
	if err != nil {
		return err
	}
	if err := s.charge(gas); err != nil {
		return err
	}
	return s.copySourceBounded(s.code, dstOff, srcOff, length)
}

// returnDataCopy implements `returnDataCopy`.
func (s *EEIState) returnDataCopy(dstOff, srcOff, length uint64) error {
	gas, err := CopyGas(GasVerylow, length)
	if err != nil {
		return err
	}
	if err := s.charge(gas); err != nil {
		return err
	}
	return s.copySourceBounded(s.lastReturnData, dstOff, srcOff, length)
}

// externalCodeCopy implements `externalCodeCopy`: queries the host for up
// to length bytes of addr's code starting at srcOff, zero-padding the tail
// [copied, length) when the account's code is shorter than requested.
func (s *EEIState) externalCodeCopy(addrOff, dstOff, srcOff, length uint64) error {
	gas, err := CopyGas(GasExtcode, length)
	if err != nil {
		return err
	}
	if err := s.charge(gas); err != nil {
		return err
	}
	addrBytes, err := s.mem.LoadU160(addrOff)
	if err != nil {
		return err
	}
	addr := types.Address(addrBytes)
	if length == 0 {
		return s.mem.StoreBytes(dstOff, nil)
	}
	buf := make([]byte, length)
	codeSize := s.host.GetCodeSize(addr)
	if srcOff < codeSize {
		want := length
		if avail := codeSize - srcOff; avail < want {
			want = avail
		}
		tmp := make([]byte, want)
		copied := s.host.CopyCode(addr, srcOff, tmp)
		copy(buf, tmp[:copied])
	}
	return s.mem.StoreBytes(dstOff, buf)
}

// log implements `log`: rejects under STATIC, rejects more than 4 topics,
// and forwards to the host facade's EmitLog.
func (s *EEIState) log(dataOff, length uint64, nTopics uint32, topicOffsets [4]uint64) error {
	if err := s.requireNotStatic(); err != nil {
		return err
	}
	if nTopics > 4 {
		return newValidationError("log-topics", "log cannot take more than 4 topics")
	}
	gas, err := LogGas(nTopics, length)
	if err != nil {
		return err
	}
	if err := s.charge(gas); err != nil {
		return err
	}
	data, err := s.mem.LoadBytes(dataOff, length)
	if err != nil {
		return err
	}
	topics := make([]types.Hash, nTopics)
	for i := uint32(0); i < nTopics; i++ {
		t, err := s.mem.LoadU256BE(topicOffsets[i])
		if err != nil {
			return err
		}
		topics[i] = types.Hash(t)
	}
	s.host.EmitLog(s.msg.Destination, data, topics)
	return nil
}
