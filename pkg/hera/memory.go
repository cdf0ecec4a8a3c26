package hera

import "math"

// MemoryView is the narrow interface the Memory Bridge needs onto a guest
// instance's linear memory. Engine Adapter implementations (see engine.go)
// provide one per instance; the bridge never assumes a concrete backing
// store.
type MemoryView interface {
	// Size returns the current memory size in bytes.
	Size() uint64
	// Read returns a copy of memory[offset:offset+length]. The caller has
	// already validated bounds; implementations may still defend.
	Read(offset, length uint64) ([]byte, error)
	// Write copies data into memory at offset. The caller has already
	// validated bounds.
	Write(offset uint64, data []byte) error
}

// MemoryBridge performs bounds-checked, orientation-aware access to a
// guest's linear memory on behalf of the EEI core.
type MemoryBridge struct {
	view MemoryView
}

// NewMemoryBridge wraps view with bounds checking and the guest's reversed
// integer encoding.
func NewMemoryBridge(view MemoryView) *MemoryBridge {
	return &MemoryBridge{view: view}
}

// checkBounds verifies that off+len does not overflow a 64-bit integer and
// does not exceed the memory's current size. Zero-length accesses are
// exempt from the upper-bound check but not from the overflow check.
func (m *MemoryBridge) checkBounds(off, length uint64) error {
	if off > math.MaxUint64-length {
		return ErrInvalidMemoryAccess
	}
	if length == 0 {
		return nil
	}
	if off+length > m.view.Size() {
		return ErrInvalidMemoryAccess
	}
	return nil
}

// LoadBytes returns a copy of length bytes starting at off, in natural
// (guest) byte order, as used for input data, code, log data and return
// data.
func (m *MemoryBridge) LoadBytes(off, length uint64) ([]byte, error) {
	if err := m.checkBounds(off, length); err != nil {
		return nil, err
	}
	if length == 0 {
		return nil, nil
	}
	return m.view.Read(off, length)
}

// StoreBytes writes data in natural order at off.
func (m *MemoryBridge) StoreBytes(off uint64, data []byte) error {
	if err := m.checkBounds(off, uint64(len(data))); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return m.view.Write(off, data)
}

// reverse returns a new slice with b's bytes in reverse order.
func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

// LoadU256BE reads a 32-byte word at off and returns it in big-endian order,
// undoing the guest's reversed storage convention: for a stored scalar
// [b0 b1 ... b31] with b31 the MSB, the returned bytes are [b31, ..., b0].
func (m *MemoryBridge) LoadU256BE(off uint64) ([32]byte, error) {
	raw, err := m.LoadBytes(off, 32)
	if err != nil {
		return [32]byte{}, err
	}
	var out [32]byte
	copy(out[:], reverse(raw))
	return out, nil
}

// StoreU256BE writes v (big-endian) at off, reversed into the guest's
// storage convention.
func (m *MemoryBridge) StoreU256BE(v [32]byte, off uint64) error {
	return m.StoreBytes(off, reverse(v[:]))
}

// LoadU160 reads a 20-byte address at off, reversed.
func (m *MemoryBridge) LoadU160(off uint64) ([20]byte, error) {
	raw, err := m.LoadBytes(off, 20)
	if err != nil {
		return [20]byte{}, err
	}
	var out [20]byte
	copy(out[:], reverse(raw))
	return out, nil
}

// StoreU160 writes a 20-byte address at off, reversed.
func (m *MemoryBridge) StoreU160(v [20]byte, off uint64) error {
	return m.StoreBytes(off, reverse(v[:]))
}

// LoadU128 reads a 16-byte value at off, reversed, and zero-extends it to
// 32 bytes (the high 16 bytes of the returned array are always zero).
func (m *MemoryBridge) LoadU128(off uint64) ([32]byte, error) {
	raw, err := m.LoadBytes(off, 16)
	if err != nil {
		return [32]byte{}, err
	}
	var out [32]byte
	copy(out[16:], reverse(raw))
	return out, nil
}

// StoreU128 writes the low 16 bytes of v at off, reversed. v's high 16
// bytes must be zero, or ErrOutOfGas is raised (per the source's
// store_u128 failure mode, reused here since a non-zero high half can only
// arise from a value the EEI layer should have rejected as too large to
// fit the wire format).
func (m *MemoryBridge) StoreU128(v [32]byte, off uint64) error {
	var hi [16]byte
	copy(hi[:], v[:16])
	if hi != ([16]byte{}) {
		return ErrOutOfGas
	}
	return m.StoreBytes(off, reverse(v[16:32]))
}
