package hera

import "errors"

// statusForError maps one of the typed errors in the failure taxonomy (§7)
// to its host-facing StatusCode. Any error that does not match one of the
// known sentinels is treated as INTERNAL_ERROR, the catch-all the
// propagation policy requires.
func statusForError(err error) StatusCode {
	switch {
	case errors.Is(err, ErrOutOfGas):
		return StatusOutOfGas
	case errors.Is(err, ErrInvalidMemoryAccess):
		return StatusInvalidMemoryAccess
	case errors.Is(err, ErrStaticModeViolation):
		return StatusStaticModeViolation
	case errors.Is(err, ErrContractValidationFailure):
		return StatusContractValidationFailure
	case errors.Is(err, ErrVMTrap):
		return StatusFailure
	default:
		return StatusInternalError
	}
}

// noopRelease is the Release callback used throughout this implementation:
// output buffers are plain Go slices collected by the garbage collector, so
// there is nothing to free. It exists so the Result/CallResult shape
// matches a host ABI with manual buffer ownership, per the design note in
// §9.
func noopRelease() {}

// failureResult builds the host Result for a typed error raised before or
// during execution. gasLeft is implementation-defined by §7 for every kind
// except REVERT (which never reaches this function — see Dispatcher); this
// implementation reports 0 unless the caller supplies the EEIState's
// gas_left at the moment of failure, and always reports 0 for OutOfGas,
// whichever path raised it.
func failureResult(err error, gasLeft int64) Result {
	if errors.Is(err, ErrOutOfGas) {
		gasLeft = 0
	}
	return Result{
		Status:  statusForError(err),
		Output:  nil,
		GasLeft: gasLeft,
		Release: noopRelease,
	}
}

// successResult builds the host Result for a normal or reverted
// termination.
func successResult(result ExecutionResult) Result {
	status := StatusSuccess
	if result.IsRevert {
		status = StatusRevert
	}
	return Result{
		Status:  status,
		Output:  result.ReturnValue,
		GasLeft: result.GasLeft,
		Release: noopRelease,
	}
}
