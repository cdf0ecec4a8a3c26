package hera

import (
	"errors"

	"github.com/ethereum/go-ethereum/log"

	"github.com/ewasm/hera-go/pkg/types"
)

// Revision gates which Ethereum protocol revision the dispatcher was built
// for. Only RevisionByzantium is supported; anything else is an
// InternalError precondition violation.
type Revision int

const RevisionByzantium Revision = 0

// EngineMode selects what the dispatcher does with code that does not
// begin with the Wasm preamble, for CALL and CREATE messages.
type EngineMode int

const (
	EngineModeReject EngineMode = iota
	EngineModeFallback
	EngineModeEvm2WasmContract
	EngineModeEvm2WasmNative
	EngineModeEvm2WasmExternal
)

// wasmPreamble is the byte-exact Wasm module header (§6).
var wasmPreamble = [8]byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}

// sentinelAddress and evm2wasmAddress are the well-known, 20-byte
// right-aligned system-precompile addresses used to model metering and
// in-contract transcompilation as ordinary calls through the host (§6, §9).
var (
	sentinelAddress = types.Address{19: 0x0a}
	evm2wasmAddress = types.Address{19: 0x0b}
)

// Transcompiler is the evm2wasm converter used by EngineModeEvm2WasmNative
// and EngineModeEvm2WasmExternal. It is an external collaborator: this
// package never implements one.
type Transcompiler interface {
	Transcompile(code []byte, trace bool) ([]byte, error)
}

// Options configures a Dispatcher, mirroring the source ABI's
// set_option(name, value) surface (see ApplyOption) but expressed as typed
// fields for callers constructing a Dispatcher directly.
type Options struct {
	EngineMode    EngineMode
	Evm2WasmTrace bool
	Metering      bool
	AllowDebug    bool
}

// ApplyOption applies one string-keyed option, preserving the original
// host ABI's set_option(name, value) surface (§6) for embedders that still
// want it.
func (o *Options) ApplyOption(name, value string) error {
	truthy := value == "true"
	switch name {
	case "fallback":
		if truthy {
			o.EngineMode = EngineModeFallback
		}
	case "evm2wasm":
		if truthy {
			o.EngineMode = EngineModeEvm2WasmContract
		}
	case "evm2wasm.cpp":
		if truthy {
			o.EngineMode = EngineModeEvm2WasmNative
		}
	case "evm2wasm.cpp-trace":
		if truthy {
			o.EngineMode = EngineModeEvm2WasmNative
			o.Evm2WasmTrace = true
		}
	case "evm2wasm.js", "evm2wasm.js-trace":
		if truthy {
			o.EngineMode = EngineModeEvm2WasmExternal
		}
	case "metering":
		o.Metering = truthy
	default:
		return errors.New("hera: unknown option " + name)
	}
	return nil
}

// Dispatcher implements the per-call pipeline (C7): preamble detection,
// optional transcompilation, optional sentinel metering, validation,
// execution, and result mapping.
type Dispatcher struct {
	Engine        EngineAdapter
	Opts          Options
	Transcompiler Transcompiler // used only when Opts.EngineMode is EngineModeEvm2WasmNative or EngineModeEvm2WasmExternal
}

// NewDispatcher constructs a Dispatcher around engine, applying opts.
func NewDispatcher(engine EngineAdapter, opts Options) *Dispatcher {
	return &Dispatcher{Engine: engine, Opts: opts}
}

func hasPreamble(b []byte) bool {
	return HasWasmPreamble(b)
}

// callPrecompile models the sentinel and evm2wasm-contract system
// contracts as ordinary, unlimited-gas static calls through the host.
func (d *Dispatcher) callPrecompile(host Context, addr types.Address, input []byte) ([]byte, error) {
	result := host.Call(CallMessage{
		Destination: addr,
		Input:       input,
		Gas:         int64(^uint64(0) >> 1),
		Kind:        CallKindCall,
		Flags:       FlagStatic,
	})
	if result.Release != nil {
		defer result.Release()
	}
	if result.Status != StatusSuccess {
		return nil, newValidationError("precompile", "system contract call did not succeed")
	}
	return result.Output, nil
}

// sentinel runs deploy-time gas metering over code, replacing it with the
// metered output. An empty or too-short result is a ContractValidationFailure.
func (d *Dispatcher) sentinel(host Context, code []byte) ([]byte, error) {
	out, err := d.callPrecompile(host, sentinelAddress, code)
	if err != nil {
		return nil, err
	}
	if len(out) < len(wasmPreamble) {
		return nil, newValidationError("sentinel", "metering produced empty or too-short output")
	}
	return out, nil
}

// transcompile converts non-Wasm (legacy EVM) code per the configured
// engine mode. Called only when execCode lacks the Wasm preamble and the
// message is CALL or CREATE.
func (d *Dispatcher) transcompile(host Context, code []byte) ([]byte, StatusCode, error) {
	switch d.Opts.EngineMode {
	case EngineModeReject:
		return nil, StatusFailure, errors.New("hera: non-wasm code rejected by engine mode")
	case EngineModeFallback:
		return nil, StatusRejected, errors.New("hera: non-wasm code, falling back to another engine")
	case EngineModeEvm2WasmContract:
		out, err := d.callPrecompile(host, evm2wasmAddress, code)
		if err != nil {
			return nil, StatusContractValidationFailure, err
		}
		return out, StatusSuccess, nil
	case EngineModeEvm2WasmNative:
		if d.Transcompiler == nil {
			return nil, StatusInternalError, ErrInternal
		}
		out, err := d.Transcompiler.Transcompile(code, d.Opts.Evm2WasmTrace)
		if err != nil {
			return nil, StatusContractValidationFailure, newValidationError("evm2wasm", err.Error())
		}
		return out, StatusSuccess, nil
	case EngineModeEvm2WasmExternal:
		if d.Transcompiler == nil {
			return nil, StatusInternalError, ErrInternal
		}
		out, err := d.Transcompiler.Transcompile(code, false)
		if err != nil {
			return nil, StatusContractValidationFailure, newValidationError("evm2wasm-external", err.Error())
		}
		return out, StatusSuccess, nil
	default:
		return nil, StatusInternalError, ErrInternal
	}
}

// Execute runs one invocation through the full dispatch pipeline (§4.7).
func (d *Dispatcher) Execute(host Context, revision Revision, msg CallMessage, code []byte) Result {
	if revision != RevisionByzantium {
		log.Error("hera: unsupported revision", "revision", revision)
		return failureResult(ErrInternal, 0)
	}
	if msg.Gas < 0 {
		log.Error("hera: negative gas budget")
		return failureResult(ErrInternal, 0)
	}

	stateCode := append([]byte(nil), code...)
	execCode := append([]byte(nil), code...)

	if !hasPreamble(execCode) && (msg.Kind == CallKindCall || msg.Kind == CallKindCreate) {
		out, status, err := d.transcompile(host, execCode)
		if err != nil {
			log.Debug("hera: transcompilation failed", "mode", d.Opts.EngineMode, "err", err)
			if status == StatusRejected || status == StatusFailure {
				return Result{Status: status, Release: noopRelease}
			}
			return failureResult(err, 0)
		}
		execCode = out
	}

	if msg.Kind == CallKindCreate && hasPreamble(execCode) && d.Opts.Metering {
		out, err := d.sentinel(host, execCode)
		if err != nil {
			log.Debug("hera: sentinel metering failed", "err", err)
			return failureResult(err, 0)
		}
		execCode = out
	}

	module, err := ParseModule(execCode)
	if err != nil {
		log.Debug("hera: module parse failed", "err", err)
		return failureResult(err, 0)
	}
	validator := &Validator{AllowDebug: d.Opts.AllowDebug}
	if err := validator.Validate(module); err != nil {
		log.Debug("hera: contract validation failed", "err", err)
		return failureResult(err, 0)
	}

	engineModule, err := d.Engine.ParseAndValidate(execCode)
	if err != nil {
		return failureResult(wrapVMTrap(err), 0)
	}

	meterGas := true
	state := NewEEIState(msg, stateCode, host, meterGas)
	imports := BindEEI(state, d.Opts.AllowDebug)

	memPages := uint32(1)
	if len(module.Memories) > 0 {
		memPages = module.Memories[0].Min
	}

	instance, err := d.Engine.Instantiate(engineModule, imports, memPages)
	if err != nil {
		return failureResult(wrapVMTrap(err), state.result.GasLeft)
	}
	state.AttachMemory(d.Engine.MemoryHandle(instance))

	outcome, err := d.Engine.InvokeMain(instance)
	if err != nil {
		return failureResult(wrapVMTrap(err), state.result.GasLeft)
	}
	switch outcome.Kind {
	case OutcomeCompleted, OutcomeEnded:
		result := state.Result()
		if msg.Kind == CallKindCreate && !result.IsRevert && d.Opts.Metering && hasPreamble(result.ReturnValue) {
			metered, merr := d.sentinel(host, result.ReturnValue)
			if merr != nil {
				log.Debug("hera: deploy-code sentinel metering failed", "err", merr)
				return failureResult(merr, result.GasLeft)
			}
			result.ReturnValue = metered
		}
		return successResult(result)
	case OutcomeFailed:
		cause := outcome.Err
		if cause == nil {
			cause = ErrInternal
		}
		return failureResult(wrapVMTrap(cause), state.result.GasLeft)
	default:
		return failureResult(ErrInternal, state.result.GasLeft)
	}
}

// wrapVMTrap wraps a bare engine error as ErrVMTrap when it is not already
// one of the recognized typed errors, per the propagation policy in §7.
func wrapVMTrap(err error) error {
	if err == nil {
		return ErrInternal
	}
	if errors.Is(err, ErrOutOfGas) || errors.Is(err, ErrInvalidMemoryAccess) ||
		errors.Is(err, ErrStaticModeViolation) || errors.Is(err, ErrContractValidationFailure) ||
		errors.Is(err, ErrVMTrap) || errors.Is(err, ErrInternal) {
		return err
	}
	return errors.Join(ErrVMTrap, err)
}
