package hera

// HostFunc is one EEI host function as exposed to the Engine Adapter's
// import resolver: the guest passes i32/i64 wire-typed arguments, receives
// at most one i32 or i64 result. Types narrower than i64 are represented as
// uint64/int64 and truncated/sign-extended by the adapter as needed.
type HostFunc func(args []uint64) ([]uint64, error)

// Module is an opaque, already-parsed-and-validated Wasm module handle
// returned by EngineAdapter.ParseAndValidate. Its only use from the core's
// perspective is to be passed back into Instantiate.
type Module interface{}

// Instance is an opaque instantiated module handle.
type Instance interface{}

// OutcomeKind tags how one invocation of InvokeMain terminated. Using a
// tagged result instead of Go's error channel keeps EndExecution (a normal
// termination marker) from ever being mistaken for a real failure.
type OutcomeKind int

const (
	// OutcomeCompleted means the guest's main function returned normally
	// without ever calling finish/revert/selfDestruct.
	OutcomeCompleted OutcomeKind = iota
	// OutcomeEnded means the guest terminated via finish, revert, or
	// selfDestruct. Revert is distinguished on EEIState.Result.IsRevert,
	// not here.
	OutcomeEnded
	// OutcomeFailed means the guest trapped or an EEI call raised a typed
	// error; Err carries the cause.
	OutcomeFailed
)

// Outcome is the result of EngineAdapter.InvokeMain.
type Outcome struct {
	Kind OutcomeKind
	Err  error // set only when Kind == OutcomeFailed
}

// EngineAdapter is the minimal interface to a Wasm engine (C6). The core
// never depends on a specific implementation; Dispatcher is constructed
// with one. Multiple adapters may coexist in a host; package refengine
// ships one concrete, in-process implementation.
type EngineAdapter interface {
	// ParseAndValidate parses raw Wasm bytes into a Module. It performs
	// only the structural Wasm-level validation (well-formed sections,
	// valid opcodes); the eWASM-specific contract rules are enforced
	// separately by the Validator (validator.go).
	ParseAndValidate(code []byte) (Module, error)

	// Instantiate creates a fresh Instance of module, wiring imports as
	// the resolver for every function the module imports, and growing
	// linear memory to at least memoryPages pages (65536 bytes each).
	Instantiate(module Module, imports map[string]HostFunc, memoryPages uint32) (Instance, error)

	// InvokeMain runs the instance's exported main function to
	// completion. Engine-level traps are translated into an
	// OutcomeFailed wrapping ErrVMTrap; EndExecution signaled by finish,
	// revert, or selfDestruct is translated into OutcomeEnded, not an
	// error.
	InvokeMain(instance Instance) (Outcome, error)

	// MemoryHandle returns the instance's linear memory, consumed by the
	// Memory Bridge.
	MemoryHandle(instance Instance) MemoryView
}
