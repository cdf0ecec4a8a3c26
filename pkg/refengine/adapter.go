package refengine

import "github.com/ewasm/hera-go/pkg/hera"

// Adapter is the concrete, in-process hera.EngineAdapter (C6): it parses
// Wasm structure with the shared hera.ParseModule decoder and executes
// function bodies with the stack machine in interp.go.
type Adapter struct{}

// New constructs an Adapter. There is no configuration: the interpreter's
// supported opcode subset is fixed (see opcodes.go).
func New() *Adapter { return &Adapter{} }

func (a *Adapter) ParseAndValidate(code []byte) (hera.Module, error) {
	return hera.ParseModule(code)
}

// instance binds one instantiated machine together with the parsed module,
// needed at InvokeMain time to resolve the "main" export.
type instance struct {
	machine *machine
	module  *hera.WasmModule
}

func (a *Adapter) Instantiate(mod hera.Module, imports map[string]hera.HostFunc, memoryPages uint32) (hera.Instance, error) {
	module, ok := mod.(*hera.WasmModule)
	if !ok {
		return nil, hera.ErrInternal
	}

	funcs := make([]funcEntry, 0, module.NumImportedFuncs()+len(module.FuncTypes))
	for _, imp := range module.Imports {
		if imp.Kind != 0x00 { // function import
			continue
		}
		if int(imp.TypeIndex) >= len(module.Types) {
			return nil, hera.ErrInternal
		}
		funcs = append(funcs, funcEntry{isImport: true, name: imp.Name, sig: module.Types[imp.TypeIndex]})
	}
	for i, ti := range module.FuncTypes {
		if int(ti) >= len(module.Types) {
			return nil, hera.ErrInternal
		}
		var locals []hera.ValType
		if i < len(module.Locals) {
			locals = module.Locals[i]
		}
		var code []byte
		if i < len(module.CodeBodies) {
			code = module.CodeBodies[i]
		}
		funcs = append(funcs, funcEntry{sig: module.Types[ti], code: code, locals: locals})
	}

	pages := memoryPages
	if len(module.Memories) > 0 && module.Memories[0].Min > pages {
		pages = module.Memories[0].Min
	}
	mem := newLinearMemory(pages)
	for _, seg := range module.Data {
		if err := mem.Write(seg.Offset, seg.Init); err != nil {
			return nil, hera.ErrInternal
		}
	}

	return &instance{
		machine: &machine{funcs: funcs, mem: mem, imports: imports},
		module:  module,
	}, nil
}

func (a *Adapter) InvokeMain(inst hera.Instance) (hera.Outcome, error) {
	in, ok := inst.(*instance)
	if !ok {
		return hera.Outcome{}, hera.ErrInternal
	}
	var mainIdx uint32
	found := false
	for _, exp := range in.module.Exports {
		if exp.Kind == hera.ExportFunc && exp.Name == "main" {
			mainIdx = exp.Index
			found = true
			break
		}
	}
	if !found {
		return hera.Outcome{}, hera.ErrInternal
	}

	_, err := in.machine.callFunc(mainIdx, nil)
	if err == nil {
		return hera.Outcome{Kind: hera.OutcomeCompleted}, nil
	}
	if isEnd, _ := hera.AsEndExecution(err); isEnd {
		return hera.Outcome{Kind: hera.OutcomeEnded}, nil
	}
	return hera.Outcome{Kind: hera.OutcomeFailed, Err: err}, nil
}

func (a *Adapter) MemoryHandle(inst hera.Instance) hera.MemoryView {
	in, ok := inst.(*instance)
	if !ok {
		return nil
	}
	return in.machine.mem
}
