package hera

import "github.com/ewasm/hera-go/pkg/types"

// CallKind selects the EEI call family a CallMessage was constructed for.
type CallKind int

const (
	CallKindCall CallKind = iota
	CallKindCallCode
	CallKindDelegateCall
	CallKindCreate
)

func (k CallKind) String() string {
	switch k {
	case CallKindCall:
		return "CALL"
	case CallKindCallCode:
		return "CALLCODE"
	case CallKindDelegateCall:
		return "DELEGATECALL"
	case CallKindCreate:
		return "CREATE"
	default:
		return "UNKNOWN"
	}
}

// MsgFlags is the CallMessage flag bitfield. Only FlagStatic is defined.
type MsgFlags uint32

const FlagStatic MsgFlags = 1 << 0

// CallMessage is the immutable input to one invocation.
type CallMessage struct {
	Sender      types.Address
	Destination types.Address
	Value       [32]byte // big-endian 256-bit value; high 16 bytes must be zero for EEI wire compatibility
	Input       []byte
	Gas         int64
	Kind        CallKind
	Flags       MsgFlags
	Depth       int
}

// IsStatic reports whether the STATIC flag is set.
func (m CallMessage) IsStatic() bool { return m.Flags&FlagStatic != 0 }

// StatusCode is the host-facing result of one invocation.
type StatusCode int

const (
	StatusSuccess StatusCode = iota
	StatusRevert
	StatusOutOfGas
	StatusContractValidationFailure
	StatusInvalidMemoryAccess
	StatusStaticModeViolation
	StatusRejected
	StatusFailure
	StatusInternalError
)

func (s StatusCode) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusRevert:
		return "REVERT"
	case StatusOutOfGas:
		return "OUT_OF_GAS"
	case StatusContractValidationFailure:
		return "CONTRACT_VALIDATION_FAILURE"
	case StatusInvalidMemoryAccess:
		return "INVALID_MEMORY_ACCESS"
	case StatusStaticModeViolation:
		return "STATIC_MODE_VIOLATION"
	case StatusRejected:
		return "REJECTED"
	case StatusFailure:
		return "FAILURE"
	case StatusInternalError:
		return "INTERNAL_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Result is the host-facing outcome of Dispatcher.Execute. Release, when
// non-nil, must be called once the host is done with Output; it models the
// source ABI's manual buffer ownership even though the Go runtime makes it
// a no-op here.
type Result struct {
	Status  StatusCode
	Output  []byte
	GasLeft int64
	Release func()
}

// CallResult is what the Host Context Facade's Call returns for a sub-call
// or CREATE.
type CallResult struct {
	Status        StatusCode
	Output        []byte
	GasLeft       int64
	CreateAddress types.Address
	Release       func()
}

// ExecutionResult is the per-invocation mutable accumulator threaded
// through EEI calls.
type ExecutionResult struct {
	GasLeft     int64
	IsRevert    bool
	ReturnValue []byte
}
