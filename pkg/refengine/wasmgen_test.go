package refengine_test

import "github.com/ewasm/hera-go/pkg/hera"

// This file hand-assembles minimal Wasm binaries for the dispatcher
// integration scenarios in dispatcher_test.go. It emits the same wire
// format hera.ParseModule decodes and refengine.Adapter executes, byte for
// byte, rather than depending on an external Wasm assembler the retrieved
// pack never uses.

func uleb(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			break
		}
	}
	return out
}

func sleb(v int64) []byte {
	var out []byte
	more := true
	for more {
		b := byte(v & 0x7F)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			more = false
		} else {
			b |= 0x80
		}
		out = append(out, b)
	}
	return out
}

func wasmName(s string) []byte {
	return append(uleb(uint64(len(s))), []byte(s)...)
}

func wasmSection(id byte, body []byte) []byte {
	return append([]byte{id}, append(uleb(uint64(len(body))), body...)...)
}

type funcTypeSpec struct {
	params  []hera.ValType
	results []hera.ValType
}

func (f funcTypeSpec) encode() []byte {
	out := []byte{0x60}
	out = append(out, uleb(uint64(len(f.params)))...)
	for _, p := range f.params {
		out = append(out, byte(p))
	}
	out = append(out, uleb(uint64(len(f.results)))...)
	for _, r := range f.results {
		out = append(out, byte(r))
	}
	return out
}

type importSpec struct {
	module, name string
}

type exportSpec struct {
	name string
	kind byte
	idx  uint32
}

type dataSpec struct {
	offset uint32
	init   []byte
}

// wasmModuleSpec assembles one function ("main", always the last entry of
// the combined function index space) alongside a list of host-function
// imports, a 1-page memory export, and optional data segments.
type wasmModuleSpec struct {
	imports  []importSpec
	mainCode []byte
	data     []dataSpec
}

// build assembles the full binary: a type per import plus one for `main`
// (always () -> ()), the import section, a single-entry function section
// for main, a 1-page memory, exports for "main" and "memory", the code
// section, and any data segments.
func (s wasmModuleSpec) build() []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}

	var typeBody []byte
	typeBody = append(typeBody, uleb(uint64(len(s.imports)+1))...)
	for _, imp := range s.imports {
		t := importFuncType(imp.name)
		typeBody = append(typeBody, t.encode()...)
	}
	mainTypeIdx := uint32(len(s.imports))
	typeBody = append(typeBody, funcTypeSpec{}.encode()...)
	out = append(out, wasmSection(0x01, typeBody)...)

	var importBody []byte
	importBody = append(importBody, uleb(uint64(len(s.imports)))...)
	for i, imp := range s.imports {
		importBody = append(importBody, wasmName(imp.module)...)
		importBody = append(importBody, wasmName(imp.name)...)
		importBody = append(importBody, 0x00)
		importBody = append(importBody, uleb(uint64(i))...)
	}
	out = append(out, wasmSection(0x02, importBody)...)

	funcBody := append(uleb(1), uleb(uint64(mainTypeIdx))...)
	out = append(out, wasmSection(0x03, funcBody)...)

	memBody := append([]byte{0x00}, uleb(1)...)
	out = append(out, wasmSection(0x05, memBody)...)

	mainFuncIdx := uint32(len(s.imports))
	exports := []exportSpec{
		{name: "main", kind: hera.ExportFunc, idx: mainFuncIdx},
		{name: "memory", kind: hera.ExportMemory, idx: 0},
	}
	var exportBody []byte
	exportBody = append(exportBody, uleb(uint64(len(exports)))...)
	for _, e := range exports {
		exportBody = append(exportBody, wasmName(e.name)...)
		exportBody = append(exportBody, e.kind)
		exportBody = append(exportBody, uleb(uint64(e.idx))...)
	}
	out = append(out, wasmSection(0x07, exportBody)...)

	body := append([]byte{0x00}, s.mainCode...) // zero local-declaration groups
	codeBody := append(uleb(1), append(uleb(uint64(len(body))), body...)...)
	out = append(out, wasmSection(0x0A, codeBody)...)

	if len(s.data) > 0 {
		var dataBody []byte
		dataBody = append(dataBody, uleb(uint64(len(s.data)))...)
		for _, d := range s.data {
			dataBody = append(dataBody, uleb(0)...) // memory index 0
			dataBody = append(dataBody, 0x41)        // i32.const
			dataBody = append(dataBody, sleb(int64(d.offset))...)
			dataBody = append(dataBody, 0x0B) // end
			dataBody = append(dataBody, uleb(uint64(len(d.init)))...)
			dataBody = append(dataBody, d.init...)
		}
		out = append(out, wasmSection(0x0B, dataBody)...)
	}

	return out
}

// importFuncType returns the EEI catalogue signature for a well-known
// import name, used to build the matching type-section entry.
func importFuncType(name string) funcTypeSpec {
	i32, i64, no := hera.ValI32, hera.ValI64, []hera.ValType(nil)
	switch name {
	case "finish", "revert", "storageStore", "storageLoad":
		return funcTypeSpec{params: []hera.ValType{i32, i32}, results: no}
	case "useGas":
		return funcTypeSpec{params: []hera.ValType{i64}, results: no}
	case "log":
		return funcTypeSpec{params: []hera.ValType{i32, i32, i32, i32, i32, i32, i32}, results: no}
	default:
		panic("wasmgen_test: unknown import " + name)
	}
}

// emitCallI32I32 encodes `i32.const a; i32.const b; call importIdx`.
func emitCallI32I32(importIdx uint32, a, b int32) []byte {
	out := []byte{0x41}
	out = append(out, sleb(int64(a))...)
	out = append(out, 0x41)
	out = append(out, sleb(int64(b))...)
	out = append(out, 0x10)
	out = append(out, uleb(uint64(importIdx))...)
	return out
}

// emitCallI64 encodes `i64.const v; call importIdx` for useGas.
func emitCallI64(importIdx uint32, v int64) []byte {
	out := []byte{0x42}
	out = append(out, sleb(v)...)
	out = append(out, 0x10)
	out = append(out, uleb(uint64(importIdx))...)
	return out
}

// emitLogCall encodes `i32.const 0 (x7); call importIdx` for a zero-topic,
// zero-length log invocation.
func emitLogCall(importIdx uint32) []byte {
	var out []byte
	for i := 0; i < 7; i++ {
		out = append(out, 0x41, 0x00)
	}
	out = append(out, 0x10)
	out = append(out, uleb(uint64(importIdx))...)
	return out
}
