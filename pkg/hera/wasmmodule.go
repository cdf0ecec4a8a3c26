package hera

import "encoding/binary"

// Wasm binary format constants (module header, section IDs) per the core
// WebAssembly specification. These are the on-the-wire structural details
// the Validator needs; opcode-level decoding for execution lives in
// package refengine.
const (
	WasmMagic   uint32 = 0x6D736100 // "\0asm"
	WasmVersion uint32 = 1
)

const (
	wasmSectionCustom   = 0
	wasmSectionType     = 1
	wasmSectionImport   = 2
	wasmSectionFunction = 3
	wasmSectionTable    = 4
	wasmSectionMemory   = 5
	wasmSectionGlobal   = 6
	wasmSectionExport   = 7
	wasmSectionStart    = 8
	wasmSectionElement  = 9
	wasmSectionCode     = 10
	wasmSectionData     = 11
)

// ValType is a Wasm value type, encoded as its wire byte.
type ValType byte

const (
	ValI32 ValType = 0x7F
	ValI64 ValType = 0x7E
	ValF32 ValType = 0x7D
	ValF64 ValType = 0x7C
)

const funcTypeForm = 0x60

// FuncType is a function signature: parameter and result value types.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// Equal reports whether f and o have identical parameter and result types.
func (f FuncType) Equal(o FuncType) bool {
	if len(f.Params) != len(o.Params) || len(f.Results) != len(o.Results) {
		return false
	}
	for i := range f.Params {
		if f.Params[i] != o.Params[i] {
			return false
		}
	}
	for i := range f.Results {
		if f.Results[i] != o.Results[i] {
			return false
		}
	}
	return true
}

const (
	importKindFunc   = 0x00
	importKindTable  = 0x01
	importKindMemory = 0x02
	importKindGlobal = 0x03
)

// Import is one entry of the import section.
type Import struct {
	Module string
	Name   string
	Kind   byte
	// TypeIndex is meaningful only when Kind == importKindFunc.
	TypeIndex uint32
}

const (
	// ExportFunc tags a function export.
	ExportFunc byte = 0x00
	// ExportTable tags a table export.
	ExportTable byte = 0x01
	// ExportMemory tags a memory export.
	ExportMemory byte = 0x02
	// ExportGlobal tags a global export.
	ExportGlobal byte = 0x03
)

// Export is one entry of the export section.
type Export struct {
	Name  string
	Kind  byte
	Index uint32
}

// MemoryLimits is a memory section entry's min/max page counts.
type MemoryLimits struct {
	Min    uint32
	Max    uint32
	HasMax bool
}

// DataSegment is one entry of the data section: bytes to be copied into
// linear memory at instantiation time.
type DataSegment struct {
	MemIndex uint32
	Offset   uint64
	Init     []byte
}

// WasmModule is the fully decoded structural form of a Wasm binary: enough
// to validate the eWASM contract rules (§4.5) and for an Engine Adapter to
// build an executable representation from. It does not interpret function
// body opcodes.
type WasmModule struct {
	Raw []byte

	Types     []FuncType
	Imports   []Import
	FuncTypes []uint32 // type index per locally defined function, in function-section order
	Memories  []MemoryLimits
	Exports   []Export
	HasStart  bool

	// CodeBodies holds the raw (un-decoded) instruction bytes of each
	// locally defined function, aligned with FuncTypes.
	CodeBodies [][]byte
	// Locals holds the declared local types for each function body,
	// aligned with FuncTypes.
	Locals [][]ValType

	Data []DataSegment
}

// NumImportedFuncs returns how many entries of Imports have Kind ==
// importKindFunc. The combined function index space used by Export.Index
// and Code-section Call operands is [0, NumImportedFuncs) for imports,
// followed by [NumImportedFuncs, NumImportedFuncs+len(FuncTypes)) for
// locally defined functions.
func (m *WasmModule) NumImportedFuncs() int {
	n := 0
	for _, imp := range m.Imports {
		if imp.Kind == importKindFunc {
			n++
		}
	}
	return n
}

// FuncTypeOf returns the signature of the function at the given combined
// index, covering both imported and locally defined functions.
func (m *WasmModule) FuncTypeOf(index uint32) (FuncType, bool) {
	nImported := uint32(m.NumImportedFuncs())
	if index < nImported {
		i := 0
		for _, imp := range m.Imports {
			if imp.Kind != importKindFunc {
				continue
			}
			if uint32(i) == index {
				if int(imp.TypeIndex) >= len(m.Types) {
					return FuncType{}, false
				}
				return m.Types[imp.TypeIndex], true
			}
			i++
		}
		return FuncType{}, false
	}
	local := index - nImported
	if int(local) >= len(m.FuncTypes) {
		return FuncType{}, false
	}
	ti := m.FuncTypes[local]
	if int(ti) >= len(m.Types) {
		return FuncType{}, false
	}
	return m.Types[ti], true
}

// HasWasmPreamble reports whether b begins with the 8-byte Wasm magic and
// version header (testable property 7 of §8).
func HasWasmPreamble(b []byte) bool {
	if len(b) < 8 {
		return false
	}
	magic := binary.LittleEndian.Uint32(b[0:4])
	version := binary.LittleEndian.Uint32(b[4:8])
	return magic == WasmMagic && version == WasmVersion
}

// ParseModule decodes the structural sections of a Wasm binary. It does not
// execute or type-check function bodies; only section shape, declared
// types, imports, exports, the function index space, and data segments are
// decoded.
func ParseModule(code []byte) (*WasmModule, error) {
	if !HasWasmPreamble(code) {
		return nil, newValidationError("preamble", "missing or malformed Wasm header")
	}
	m := &WasmModule{Raw: code}
	r := &byteReader{data: code, pos: 8}
	seenSections := map[byte]bool{}
	for r.pos < len(r.data) {
		id, err := r.readByte()
		if err != nil {
			return nil, newValidationError("section-header", "truncated section id")
		}
		size, err := r.readU32()
		if err != nil {
			return nil, newValidationError("section-header", "truncated section size")
		}
		if r.pos+int(size) > len(r.data) {
			return nil, newValidationError("section-header", "section size out of bounds")
		}
		body := r.data[r.pos : r.pos+int(size)]
		if id != wasmSectionCustom {
			if seenSections[id] {
				return nil, newValidationError("section-order", "duplicate non-custom section")
			}
			seenSections[id] = true
		}
		if err := m.parseSection(id, body); err != nil {
			return nil, err
		}
		r.pos += int(size)
	}
	return m, nil
}

func (m *WasmModule) parseSection(id byte, body []byte) error {
	br := &byteReader{data: body}
	switch id {
	case wasmSectionType:
		return m.parseTypeSection(br)
	case wasmSectionImport:
		return m.parseImportSection(br)
	case wasmSectionFunction:
		return m.parseFunctionSection(br)
	case wasmSectionMemory:
		return m.parseMemorySection(br)
	case wasmSectionExport:
		return m.parseExportSection(br)
	case wasmSectionStart:
		m.HasStart = true
		return nil
	case wasmSectionCode:
		return m.parseCodeSection(br)
	case wasmSectionData:
		return m.parseDataSection(br)
	default:
		return nil // custom, table, global, element: not needed for eWASM validation
	}
}

func (m *WasmModule) parseTypeSection(r *byteReader) error {
	count, err := r.readU32()
	if err != nil {
		return newValidationError("type-section", "truncated count")
	}
	for i := uint32(0); i < count; i++ {
		form, err := r.readByte()
		if err != nil || form != funcTypeForm {
			return newValidationError("type-section", "expected func type form 0x60")
		}
		nParams, err := r.readU32()
		if err != nil {
			return newValidationError("type-section", "truncated param count")
		}
		params := make([]ValType, nParams)
		for j := range params {
			b, err := r.readByte()
			if err != nil {
				return newValidationError("type-section", "truncated param type")
			}
			params[j] = ValType(b)
		}
		nResults, err := r.readU32()
		if err != nil {
			return newValidationError("type-section", "truncated result count")
		}
		results := make([]ValType, nResults)
		for j := range results {
			b, err := r.readByte()
			if err != nil {
				return newValidationError("type-section", "truncated result type")
			}
			results[j] = ValType(b)
		}
		m.Types = append(m.Types, FuncType{Params: params, Results: results})
	}
	return nil
}

func (m *WasmModule) parseImportSection(r *byteReader) error {
	count, err := r.readU32()
	if err != nil {
		return newValidationError("import-section", "truncated count")
	}
	for i := uint32(0); i < count; i++ {
		mod, err := r.readName()
		if err != nil {
			return newValidationError("import-section", "truncated module name")
		}
		name, err := r.readName()
		if err != nil {
			return newValidationError("import-section", "truncated import name")
		}
		kind, err := r.readByte()
		if err != nil {
			return newValidationError("import-section", "truncated import kind")
		}
		imp := Import{Module: mod, Name: name, Kind: kind}
		switch kind {
		case importKindFunc:
			ti, err := r.readU32()
			if err != nil {
				return newValidationError("import-section", "truncated func type index")
			}
			imp.TypeIndex = ti
		case importKindTable:
			if _, err := r.readByte(); err != nil { // elem type
				return newValidationError("import-section", "truncated table elem type")
			}
			if err := r.skipLimits(); err != nil {
				return newValidationError("import-section", "truncated table limits")
			}
		case importKindMemory:
			if err := r.skipLimits(); err != nil {
				return newValidationError("import-section", "truncated memory limits")
			}
		case importKindGlobal:
			if _, err := r.readByte(); err != nil { // val type
				return newValidationError("import-section", "truncated global type")
			}
			if _, err := r.readByte(); err != nil { // mutability
				return newValidationError("import-section", "truncated global mutability")
			}
		default:
			return newValidationError("import-section", "unknown import kind")
		}
		m.Imports = append(m.Imports, imp)
	}
	return nil
}

func (m *WasmModule) parseFunctionSection(r *byteReader) error {
	count, err := r.readU32()
	if err != nil {
		return newValidationError("function-section", "truncated count")
	}
	for i := uint32(0); i < count; i++ {
		ti, err := r.readU32()
		if err != nil {
			return newValidationError("function-section", "truncated type index")
		}
		m.FuncTypes = append(m.FuncTypes, ti)
	}
	return nil
}

func (m *WasmModule) parseMemorySection(r *byteReader) error {
	count, err := r.readU32()
	if err != nil {
		return newValidationError("memory-section", "truncated count")
	}
	for i := uint32(0); i < count; i++ {
		lim, err := r.readLimits()
		if err != nil {
			return newValidationError("memory-section", "truncated limits")
		}
		m.Memories = append(m.Memories, lim)
	}
	return nil
}

func (m *WasmModule) parseExportSection(r *byteReader) error {
	count, err := r.readU32()
	if err != nil {
		return newValidationError("export-section", "truncated count")
	}
	for i := uint32(0); i < count; i++ {
		name, err := r.readName()
		if err != nil {
			return newValidationError("export-section", "truncated export name")
		}
		kind, err := r.readByte()
		if err != nil {
			return newValidationError("export-section", "truncated export kind")
		}
		idx, err := r.readU32()
		if err != nil {
			return newValidationError("export-section", "truncated export index")
		}
		m.Exports = append(m.Exports, Export{Name: name, Kind: kind, Index: idx})
	}
	return nil
}

func (m *WasmModule) parseCodeSection(r *byteReader) error {
	count, err := r.readU32()
	if err != nil {
		return newValidationError("code-section", "truncated count")
	}
	for i := uint32(0); i < count; i++ {
		bodySize, err := r.readU32()
		if err != nil {
			return newValidationError("code-section", "truncated body size")
		}
		if r.pos+int(bodySize) > len(r.data) {
			return newValidationError("code-section", "body size out of bounds")
		}
		body := r.data[r.pos : r.pos+int(bodySize)]
		r.pos += int(bodySize)

		br := &byteReader{data: body}
		nLocalGroups, err := br.readU32()
		if err != nil {
			return newValidationError("code-section", "truncated local group count")
		}
		var locals []ValType
		for g := uint32(0); g < nLocalGroups; g++ {
			n, err := br.readU32()
			if err != nil {
				return newValidationError("code-section", "truncated local group size")
			}
			vt, err := br.readByte()
			if err != nil {
				return newValidationError("code-section", "truncated local group type")
			}
			for k := uint32(0); k < n; k++ {
				locals = append(locals, ValType(vt))
			}
		}
		m.Locals = append(m.Locals, locals)
		m.CodeBodies = append(m.CodeBodies, br.data[br.pos:])
	}
	return nil
}

func (m *WasmModule) parseDataSection(r *byteReader) error {
	count, err := r.readU32()
	if err != nil {
		return newValidationError("data-section", "truncated count")
	}
	for i := uint32(0); i < count; i++ {
		memIdx, err := r.readU32()
		if err != nil {
			return newValidationError("data-section", "truncated memory index")
		}
		offset, err := r.readConstI32Expr()
		if err != nil {
			return newValidationError("data-section", "malformed offset expression")
		}
		n, err := r.readU32()
		if err != nil {
			return newValidationError("data-section", "truncated data length")
		}
		if r.pos+int(n) > len(r.data) {
			return newValidationError("data-section", "data out of bounds")
		}
		init := make([]byte, n)
		copy(init, r.data[r.pos:r.pos+int(n)])
		r.pos += int(n)
		m.Data = append(m.Data, DataSegment{MemIndex: memIdx, Offset: uint64(uint32(offset)), Init: init})
	}
	return nil
}

// byteReader is a minimal forward-only cursor over a Wasm section body,
// with LEB128 and Wasm-string decoding.
type byteReader struct {
	data []byte
	pos  int
}

func (r *byteReader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errShortRead
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

var errShortRead = newValidationError("leb128", "unexpected end of section")

// readU32 decodes an unsigned LEB128 value (used for counts and indices).
func (r *byteReader) readU32() (uint32, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
		if shift > 35 {
			return 0, errShortRead
		}
	}
	return uint32(result), nil
}

// readConstI32Expr decodes a constant offset expression (i32.const N end),
// the only form eWASM data/element offsets use.
func (r *byteReader) readConstI32Expr() (int32, error) {
	op, err := r.readByte()
	if err != nil {
		return 0, err
	}
	if op != 0x41 { // i32.const
		return 0, errShortRead
	}
	v, err := r.readSLEB128()
	if err != nil {
		return 0, err
	}
	end, err := r.readByte()
	if err != nil || end != 0x0B {
		return 0, errShortRead
	}
	return int32(v), nil
}

func (r *byteReader) readSLEB128() (int64, error) {
	var result int64
	var shift uint
	var b byte
	var err error
	for {
		b, err = r.readByte()
		if err != nil {
			return 0, err
		}
		result |= int64(b&0x7F) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 64 && b&0x40 != 0 {
				result |= -1 << shift
			}
			break
		}
		if shift >= 64 {
			return 0, errShortRead
		}
	}
	return result, nil
}

func (r *byteReader) readName() (string, error) {
	n, err := r.readU32()
	if err != nil {
		return "", err
	}
	if r.pos+int(n) > len(r.data) {
		return "", errShortRead
	}
	s := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

func (r *byteReader) skipLimits() error {
	_, err := r.readLimits()
	return err
}

func (r *byteReader) readLimits() (MemoryLimits, error) {
	flags, err := r.readByte()
	if err != nil {
		return MemoryLimits{}, err
	}
	min, err := r.readU32()
	if err != nil {
		return MemoryLimits{}, err
	}
	lim := MemoryLimits{Min: min}
	if flags&0x01 != 0 {
		max, err := r.readU32()
		if err != nil {
			return MemoryLimits{}, err
		}
		lim.Max = max
		lim.HasMax = true
	}
	return lim, nil
}
