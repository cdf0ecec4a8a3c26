package hera

import (
	"fmt"

	"github.com/ethereum/go-ethereum/log"
)

// eeiSignature describes one catalogue entry's wire signature.
type eeiSignature struct {
	Params  []ValType
	Results []ValType
}

func sig(params, results []ValType) eeiSignature {
	return eeiSignature{Params: params, Results: results}
}

var (
	i32 = []ValType{ValI32}
	i64 = []ValType{ValI64}
	no  = []ValType(nil)
)

// eeiCatalogue is the full 33-entry EEI function catalogue (§6), plus the
// debug::print32 helper supplemented from the original Hera sources and
// gated on Validator.AllowDebug.
var eeiCatalogue = map[string]eeiSignature{
	"useGas":              sig(i64, no),
	"getGasLeft":           sig(no, i64),
	"getAddress":           sig(i32, no),
	"getExternalBalance":   sig([]ValType{ValI32, ValI32}, no),
	"getBlockHash":         sig([]ValType{ValI64, ValI32}, i32),
	"getCallDataSize":      sig(no, i32),
	"callDataCopy":         sig([]ValType{ValI32, ValI32, ValI32}, no),
	"getCaller":            sig(i32, no),
	"getCallValue":         sig(i32, no),
	"codeCopy":             sig([]ValType{ValI32, ValI32, ValI32}, no),
	"getCodeSize":          sig(no, i32),
	"externalCodeCopy":     sig([]ValType{ValI32, ValI32, ValI32, ValI32}, no),
	"getExternalCodeSize":  sig(i32, i32),
	"getBlockCoinbase":     sig(i32, no),
	"getBlockDifficulty":   sig(i32, no),
	"getBlockGasLimit":     sig(no, i64),
	"getTxGasPrice":        sig(i32, no),
	"log":                  sig([]ValType{ValI32, ValI32, ValI32, ValI32, ValI32, ValI32, ValI32}, no),
	"getBlockNumber":       sig(no, i64),
	"getBlockTimestamp":    sig(no, i64),
	"getTxOrigin":          sig(i32, no),
	"storageStore":         sig([]ValType{ValI32, ValI32}, no),
	"storageLoad":          sig([]ValType{ValI32, ValI32}, no),
	"finish":               sig([]ValType{ValI32, ValI32}, no),
	"revert":               sig([]ValType{ValI32, ValI32}, no),
	"getReturnDataSize":    sig(no, i32),
	"returnDataCopy":       sig([]ValType{ValI32, ValI32, ValI32}, no),
	"call":                 sig([]ValType{ValI64, ValI32, ValI32, ValI32, ValI32}, i32),
	"callCode":             sig([]ValType{ValI64, ValI32, ValI32, ValI32, ValI32}, i32),
	"callDelegate":         sig([]ValType{ValI64, ValI32, ValI32, ValI32}, i32),
	"callStatic":           sig([]ValType{ValI64, ValI32, ValI32, ValI32}, i32),
	"create":               sig([]ValType{ValI32, ValI32, ValI32, ValI32}, i32),
	"selfDestruct":         sig(i32, no),
}

const debugModuleName = "debug"
const ethereumModuleName = "ethereum"

var debugCatalogue = map[string]eeiSignature{
	"print32": sig(i32, no),
}

// Validator applies the eWASM contract rules (§4.5) to an already
// structurally-decoded Wasm module.
type Validator struct {
	// AllowDebug permits imports from the "debug" module, for local
	// development builds. Production validators leave this false.
	AllowDebug bool
}

// NewValidator returns a Validator with AllowDebug false.
func NewValidator() *Validator { return &Validator{} }

// Validate enforces every rule in §4.5 against an already Wasm-well-formed
// module. It is a pure function of the module's bytes (testable property
// 6): calling it twice on the same module yields the same outcome.
func (v *Validator) Validate(m *WasmModule) error {
	if m.HasStart {
		return newValidationError("start-section", "a start function is not allowed")
	}

	var mainExport, memExport *Export
	for i := range m.Exports {
		e := &m.Exports[i]
		switch {
		case e.Kind == ExportFunc && e.Name == "main":
			if mainExport != nil {
				return newValidationError("exports", "duplicate main export")
			}
			mainExport = e
		case e.Kind == ExportMemory && e.Name == "memory":
			if memExport != nil {
				return newValidationError("exports", "duplicate memory export")
			}
			memExport = e
		default:
			return newValidationError("exports", fmt.Sprintf("unexpected export %q", e.Name))
		}
	}
	if len(m.Exports) != 2 || mainExport == nil || memExport == nil {
		return newValidationError("exports", "module must export exactly a \"main\" function and a \"memory\" memory")
	}

	mainType, ok := m.FuncTypeOf(mainExport.Index)
	if !ok {
		return newValidationError("exports", "main export refers to an unknown function index")
	}
	if len(mainType.Params) != 0 || len(mainType.Results) != 0 {
		return newValidationError("main-signature", "main must have type () -> ()")
	}

	for _, imp := range m.Imports {
		switch imp.Module {
		case ethereumModuleName:
			want, ok := eeiCatalogue[imp.Name]
			if !ok {
				return newValidationError("import-name", fmt.Sprintf("unknown ethereum import %q", imp.Name))
			}
			if err := v.checkImportSignature(m, imp, want); err != nil {
				return err
			}
		case debugModuleName:
			if !v.AllowDebug {
				return newValidationError("import-namespace", "debug imports are disabled")
			}
			want, ok := debugCatalogue[imp.Name]
			if !ok {
				return newValidationError("import-name", fmt.Sprintf("unknown debug import %q", imp.Name))
			}
			if err := v.checkImportSignature(m, imp, want); err != nil {
				return err
			}
		default:
			return newValidationError("import-namespace", fmt.Sprintf("import module must be %q, got %q", ethereumModuleName, imp.Module))
		}
	}

	log.Debug("hera: contract validated", "imports", len(m.Imports), "allowDebug", v.AllowDebug)
	return nil
}

func (v *Validator) checkImportSignature(m *WasmModule, imp Import, want eeiSignature) error {
	if imp.Kind != importKindFunc {
		return newValidationError("import-kind", fmt.Sprintf("import %q must be a function", imp.Name))
	}
	if int(imp.TypeIndex) >= len(m.Types) {
		return newValidationError("import-type", fmt.Sprintf("import %q has an unknown type index", imp.Name))
	}
	got := m.Types[imp.TypeIndex]
	if !got.Equal(FuncType{Params: want.Params, Results: want.Results}) {
		return newValidationError("import-signature", fmt.Sprintf("import %q has a signature that does not match the EEI catalogue", imp.Name))
	}
	return nil
}
