package hera

import "testing"

func mainOnlyModule() *WasmModule {
	return &WasmModule{
		Types: []FuncType{{}},
		Exports: []Export{
			{Name: "main", Kind: ExportFunc, Index: 0},
			{Name: "memory", Kind: ExportMemory, Index: 0},
		},
		FuncTypes: []uint32{0},
	}
}

// moduleWithOneImport builds a module whose combined function index space is
// [0]=the given import, [1]=main (empty signature), matching the real index
// assignment rule (imports first, then locally defined functions).
func moduleWithOneImport(importModule, importName string, importType FuncType) *WasmModule {
	return &WasmModule{
		Types:     []FuncType{importType, {}},
		Imports:   []Import{{Module: importModule, Name: importName, Kind: importKindFunc, TypeIndex: 0}},
		FuncTypes: []uint32{1},
		Exports: []Export{
			{Name: "main", Kind: ExportFunc, Index: 1},
			{Name: "memory", Kind: ExportMemory, Index: 0},
		},
	}
}

func TestValidatorAcceptsMinimalModule(t *testing.T) {
	v := NewValidator()
	if err := v.Validate(mainOnlyModule()); err != nil {
		t.Fatalf("Validate(minimal module) = %v, want nil", err)
	}
}

// Testable property 6: validation is a pure function of the module; calling
// it twice on the same decoded module must agree.
func TestValidatorIsIdempotent(t *testing.T) {
	v := NewValidator()
	m := mainOnlyModule()
	err1 := v.Validate(m)
	err2 := v.Validate(m)
	if (err1 == nil) != (err2 == nil) {
		t.Fatalf("Validate called twice disagreed: %v vs %v", err1, err2)
	}
}

func TestValidatorRejectsStartFunction(t *testing.T) {
	m := mainOnlyModule()
	m.HasStart = true
	if err := NewValidator().Validate(m); err == nil {
		t.Fatal("Validate(module with start section) = nil, want error")
	}
}

func TestValidatorRejectsMissingMainExport(t *testing.T) {
	m := &WasmModule{
		Exports: []Export{{Name: "memory", Kind: ExportMemory, Index: 0}},
	}
	if err := NewValidator().Validate(m); err == nil {
		t.Fatal("Validate(no main export) = nil, want error")
	}
}

func TestValidatorRejectsMissingMemoryExport(t *testing.T) {
	m := &WasmModule{
		Types:     []FuncType{{}},
		Exports:   []Export{{Name: "main", Kind: ExportFunc, Index: 0}},
		FuncTypes: []uint32{0},
	}
	if err := NewValidator().Validate(m); err == nil {
		t.Fatal("Validate(no memory export) = nil, want error")
	}
}

func TestValidatorRejectsNonEmptyMainSignature(t *testing.T) {
	m := mainOnlyModule()
	m.Types[0] = FuncType{Params: []ValType{ValI32}}
	if err := NewValidator().Validate(m); err == nil {
		t.Fatal("Validate(main with params) = nil, want error")
	}
}

func TestValidatorRejectsUnknownImportNamespace(t *testing.T) {
	m := moduleWithOneImport("env", "useGas", FuncType{Params: []ValType{ValI64}})
	if err := NewValidator().Validate(m); err == nil {
		t.Fatal("Validate(import from unknown namespace) = nil, want error")
	}
}

func TestValidatorRejectsUnknownEEIName(t *testing.T) {
	m := moduleWithOneImport("ethereum", "notARealImport", FuncType{})
	if err := NewValidator().Validate(m); err == nil {
		t.Fatal("Validate(unknown EEI import name) = nil, want error")
	}
}

func TestValidatorRejectsMismatchedSignature(t *testing.T) {
	// useGas is declared (i64)->() in the catalogue; give it (i32)->() instead.
	m := moduleWithOneImport("ethereum", "useGas", FuncType{Params: []ValType{ValI32}})
	if err := NewValidator().Validate(m); err == nil {
		t.Fatal("Validate(mismatched EEI signature) = nil, want error")
	}
}

func TestValidatorAcceptsMatchingEEIImport(t *testing.T) {
	m := moduleWithOneImport("ethereum", "useGas", FuncType{Params: []ValType{ValI64}})
	if err := NewValidator().Validate(m); err != nil {
		t.Fatalf("Validate(matching EEI import) = %v, want nil", err)
	}
}

func TestValidatorRejectsDebugImportByDefault(t *testing.T) {
	m := moduleWithOneImport("debug", "print32", FuncType{Params: []ValType{ValI32}})
	if err := NewValidator().Validate(m); err == nil {
		t.Fatal("Validate(debug import, AllowDebug=false) = nil, want error")
	}
}

func TestValidatorAcceptsDebugImportWhenAllowed(t *testing.T) {
	m := moduleWithOneImport("debug", "print32", FuncType{Params: []ValType{ValI32}})
	v := &Validator{AllowDebug: true}
	if err := v.Validate(m); err != nil {
		t.Fatalf("Validate(debug import, AllowDebug=true) = %v, want nil", err)
	}
}
