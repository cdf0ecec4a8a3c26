package hera

import "testing"

func section(id byte, body []byte) []byte {
	out := []byte{id, byte(len(body))}
	return append(out, body...)
}

// minimalModuleBytes encodes: type ()->(); func 0; memory min=1; exports
// main(func 0)/memory(0); code for func 0 is a single `end`.
func minimalModuleBytes() []byte {
	var b []byte
	b = append(b, wasmPreamble[:]...)
	b = append(b, section(wasmSectionType, []byte{0x01, 0x60, 0x00, 0x00})...)
	b = append(b, section(wasmSectionFunction, []byte{0x01, 0x00})...)
	b = append(b, section(wasmSectionMemory, []byte{0x01, 0x00, 0x01})...)
	export := []byte{0x02}
	export = append(export, 0x04, 'm', 'a', 'i', 'n', ExportFunc, 0x00)
	export = append(export, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', ExportMemory, 0x00)
	b = append(b, section(wasmSectionExport, export)...)
	b = append(b, section(wasmSectionCode, []byte{0x01, 0x02, 0x00, 0x0B})...)
	return b
}

// moduleWithImportBytes encodes an import of ethereum::useGas (i64)->(),
// then func main at combined index 1, memory min=1, same exports/code shape.
func moduleWithImportBytes() []byte {
	var b []byte
	b = append(b, wasmPreamble[:]...)
	types :=[]byte{0x02, 0x60, 0x01, byte(ValI64), 0x00, 0x60, 0x00, 0x00}
	b = append(b, section(wasmSectionType, types)...)
	imp := []byte{0x01}
	imp = append(imp, 0x08)
	imp = append(imp, "ethereum"...)
	imp = append(imp, 0x06)
	imp = append(imp, "useGas"...)
	imp = append(imp, importKindFunc, 0x00)
	b = append(b, section(wasmSectionImport, imp)...)
	b = append(b, section(wasmSectionFunction, []byte{0x01, 0x01})...)
	b = append(b, section(wasmSectionMemory, []byte{0x01, 0x00, 0x01})...)
	export := []byte{0x02}
	export = append(export, 0x04, 'm', 'a', 'i', 'n', ExportFunc, 0x01)
	export = append(export, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', ExportMemory, 0x00)
	b = append(b, section(wasmSectionExport, export)...)
	b = append(b, section(wasmSectionCode, []byte{0x01, 0x02, 0x00, 0x0B})...)
	return b
}

// Testable property 7: has_preamble(b) == (b.len >= 8 && b[0..8] == magic+version).
func TestHasWasmPreamble(t *testing.T) {
	if !HasWasmPreamble(wasmPreamble[:]) {
		t.Fatal("HasWasmPreamble(valid header) = false, want true")
	}
	if HasWasmPreamble([]byte{0x00, 0x61, 0x73}) {
		t.Fatal("HasWasmPreamble(short input) = true, want false")
	}
	if HasWasmPreamble([]byte{0x01, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}) {
		t.Fatal("HasWasmPreamble(bad magic) = true, want false")
	}
	if HasWasmPreamble([]byte{0x00, 0x61, 0x73, 0x6D, 0x02, 0x00, 0x00, 0x00}) {
		t.Fatal("HasWasmPreamble(bad version) = true, want false")
	}
	if HasWasmPreamble(nil) {
		t.Fatal("HasWasmPreamble(nil) = true, want false")
	}
}

func TestParseModuleMinimal(t *testing.T) {
	m, err := ParseModule(minimalModuleBytes())
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	if len(m.Types) != 1 || !m.Types[0].Equal(FuncType{}) {
		t.Fatalf("Types = %+v, want one empty signature", m.Types)
	}
	if len(m.FuncTypes) != 1 || m.FuncTypes[0] != 0 {
		t.Fatalf("FuncTypes = %v, want [0]", m.FuncTypes)
	}
	if len(m.Memories) != 1 || m.Memories[0].Min != 1 || m.Memories[0].HasMax {
		t.Fatalf("Memories = %+v, want min=1 no max", m.Memories)
	}
	if len(m.Exports) != 2 {
		t.Fatalf("Exports = %+v, want 2 entries", m.Exports)
	}
	if m.Exports[0].Name != "main" || m.Exports[0].Kind != ExportFunc || m.Exports[0].Index != 0 {
		t.Fatalf("Exports[0] = %+v, want main/func/0", m.Exports[0])
	}
	if m.Exports[1].Name != "memory" || m.Exports[1].Kind != ExportMemory {
		t.Fatalf("Exports[1] = %+v, want memory/memory", m.Exports[1])
	}
	if m.HasStart {
		t.Fatal("HasStart = true, want false")
	}
	if m.NumImportedFuncs() != 0 {
		t.Fatalf("NumImportedFuncs() = %d, want 0", m.NumImportedFuncs())
	}
	ft, ok := m.FuncTypeOf(0)
	if !ok || !ft.Equal(FuncType{}) {
		t.Fatalf("FuncTypeOf(0) = %+v, %v, want empty signature, true", ft, ok)
	}
	if len(m.CodeBodies) != 1 {
		t.Fatalf("CodeBodies = %d entries, want 1", len(m.CodeBodies))
	}
}

func TestParseModuleWithImport(t *testing.T) {
	m, err := ParseModule(moduleWithImportBytes())
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	if m.NumImportedFuncs() != 1 {
		t.Fatalf("NumImportedFuncs() = %d, want 1", m.NumImportedFuncs())
	}
	if len(m.Imports) != 1 || m.Imports[0].Module != "ethereum" || m.Imports[0].Name != "useGas" {
		t.Fatalf("Imports = %+v, want one ethereum::useGas entry", m.Imports)
	}
	importedType, ok := m.FuncTypeOf(0)
	if !ok || len(importedType.Params) != 1 || importedType.Params[0] != ValI64 {
		t.Fatalf("FuncTypeOf(0) = %+v, %v, want (i64)->()", importedType, ok)
	}
	mainType, ok := m.FuncTypeOf(1)
	if !ok || !mainType.Equal(FuncType{}) {
		t.Fatalf("FuncTypeOf(1) = %+v, %v, want empty signature", mainType, ok)
	}
	if len(m.Exports) != 2 || m.Exports[0].Index != 1 {
		t.Fatalf("main export index = %d, want 1 (after the import)", m.Exports[0].Index)
	}
}

func TestParseModuleRejectsMissingPreamble(t *testing.T) {
	if _, err := ParseModule([]byte{0x01, 0x02, 0x03}); err == nil {
		t.Fatal("ParseModule(no preamble) = nil error, want error")
	}
}

func TestParseModuleRejectsTruncatedSection(t *testing.T) {
	code := append([]byte{}, wasmPreamble[:]...)
	// Claims a 10-byte type section body but supplies none.
	code = append(code, wasmSectionType, 0x0A)
	if _, err := ParseModule(code); err == nil {
		t.Fatal("ParseModule(truncated section) = nil error, want error")
	}
}

func TestParseModuleRejectsDuplicateSection(t *testing.T) {
	code := append([]byte{}, wasmPreamble[:]...)
	code = append(code, section(wasmSectionType, []byte{0x00})...)
	code = append(code, section(wasmSectionType, []byte{0x00})...)
	if _, err := ParseModule(code); err == nil {
		t.Fatal("ParseModule(duplicate section) = nil error, want error")
	}
}

func TestParseModuleDecodesStartSection(t *testing.T) {
	code := append([]byte{}, wasmPreamble[:]...)
	code = append(code, section(wasmSectionStart, []byte{0x00})...)
	m, err := ParseModule(code)
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	if !m.HasStart {
		t.Fatal("HasStart = false, want true")
	}
}

func TestParseModuleDecodesDataSegment(t *testing.T) {
	code := append([]byte{}, wasmPreamble[:]...)
	// memory index 0, offset expr (i32.const 4, end), length 3, bytes.
	data := []byte{0x01, 0x00, 0x41, 0x04, 0x0B, 0x03, 0xAA, 0xBB, 0xCC}
	code = append(code, section(wasmSectionData, data)...)
	m, err := ParseModule(code)
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	if len(m.Data) != 1 {
		t.Fatalf("Data = %+v, want 1 segment", m.Data)
	}
	if m.Data[0].Offset != 4 || string(m.Data[0].Init) != string([]byte{0xAA, 0xBB, 0xCC}) {
		t.Fatalf("Data[0] = %+v, want offset=4, init=aabbcc", m.Data[0])
	}
}
