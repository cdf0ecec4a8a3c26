package hera

// storageStore implements `storageStore`: rejects under STATIC, reads the
// current slot value to pick the create/change gas tier, then writes.
func (s *EEIState) storageStore(keyOff, valOff uint64) error {
	if err := s.requireNotStatic(); err != nil {
		return err
	}
	key, err := s.mem.LoadU256BE(keyOff)
	if err != nil {
		return err
	}
	value, err := s.mem.LoadU256BE(valOff)
	if err != nil {
		return err
	}
	current := s.host.GetStorage(s.msg.Destination, key)
	gas := StorageStoreGas(current, value)
	if err := s.charge(gas); err != nil {
		return err
	}
	s.host.SetStorage(s.msg.Destination, key, value)
	return nil
}

// storageLoad implements `storageLoad`.
func (s *EEIState) storageLoad(keyOff, dstOff uint64) error {
	if err := s.charge(GasStorageLoad); err != nil {
		return err
	}
	key, err := s.mem.LoadU256BE(keyOff)
	if err != nil {
		return err
	}
	value := s.host.GetStorage(s.msg.Destination, key)
	return s.mem.StoreU256BE(value, dstOff)
}

// finish implements `finish` (aka "return"): copies memory[off:off+len]
// into result.ReturnValue, marks success, and signals EndExecution.
func (s *EEIState) finish(off, length uint64) error {
	data, err := s.mem.LoadBytes(off, length)
	if err != nil {
		return err
	}
	s.result.ReturnValue = data
	s.result.IsRevert = false
	return &endExecution{revert: false}
}

// revert implements `revert`.
func (s *EEIState) revert(off, length uint64) error {
	data, err := s.mem.LoadBytes(off, length)
	if err != nil {
		return err
	}
	s.result.ReturnValue = data
	s.result.IsRevert = true
	return &endExecution{revert: true}
}
