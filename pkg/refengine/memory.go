package refengine

import "github.com/ewasm/hera-go/pkg/hera"

// PageSize is the WebAssembly linear memory page size in bytes.
const PageSize = 65536

// MaxPages caps instance memory at 256 MiB, a defensive limit against a
// guest requesting an unreasonable memory.grow; real engines apply a
// similar host-configured ceiling.
const MaxPages = 4096

// linearMemory is the concrete hera.MemoryView backing one instance. It
// also serves the interpreter's own i32.load/i32.store family, so both the
// EEI's Memory Bridge and guest code observe the same bytes.
type linearMemory struct {
	data []byte
}

func newLinearMemory(pages uint32) *linearMemory {
	if pages == 0 {
		pages = 1
	}
	return &linearMemory{data: make([]byte, uint64(pages)*PageSize)}
}

func (m *linearMemory) Size() uint64 { return uint64(len(m.data)) }

func (m *linearMemory) Read(offset, length uint64) ([]byte, error) {
	if offset+length > uint64(len(m.data)) {
		return nil, hera.ErrInvalidMemoryAccess
	}
	out := make([]byte, length)
	copy(out, m.data[offset:offset+length])
	return out, nil
}

func (m *linearMemory) Write(offset uint64, data []byte) error {
	if offset+uint64(len(data)) > uint64(len(m.data)) {
		return hera.ErrInvalidMemoryAccess
	}
	copy(m.data[offset:], data)
	return nil
}

// pages returns the current memory size in pages.
func (m *linearMemory) pages() uint32 {
	return uint32(len(m.data) / PageSize)
}

// grow appends delta pages, returning the previous page count, or -1 if
// the request would exceed MaxPages (the Wasm memory.grow failure
// convention).
func (m *linearMemory) grow(delta uint32) int32 {
	prev := m.pages()
	if uint64(prev)+uint64(delta) > MaxPages {
		return -1
	}
	m.data = append(m.data, make([]byte, uint64(delta)*PageSize)...)
	return int32(prev)
}

func (m *linearMemory) loadI32(off uint64) (uint32, error) {
	b, err := m.Read(off, 4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

func (m *linearMemory) storeI32(off uint64, v uint32) error {
	b := []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
	return m.Write(off, b)
}

func (m *linearMemory) loadI64(off uint64) (uint64, error) {
	b, err := m.Read(off, 8)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v, nil
}

func (m *linearMemory) storeI64(off uint64, v uint64) error {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return m.Write(off, b)
}
