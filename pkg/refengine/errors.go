package refengine

import "errors"

// errTruncated is raised by the byte-level readers in scan.go when a
// function body ends mid-instruction. It never escapes this package: the
// interpreter maps it to hera.ErrVMTrap.
var errTruncated = errors.New("refengine: truncated instruction stream")
