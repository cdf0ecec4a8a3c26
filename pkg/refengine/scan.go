package refengine

// reader is a minimal forward-only cursor over one function body, with
// Wasm's LEB128 immediate encodings.
type reader struct {
	data []byte
	pos  int
}

func (r *reader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errTruncated
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) readULEB() (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, errTruncated
		}
	}
}

func (r *reader) readSLEB() (int64, error) {
	var result int64
	var shift uint
	for {
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		result |= int64(b&0x7F) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 64 && b&0x40 != 0 {
				result |= -1 << shift
			}
			return result, nil
		}
		if shift >= 64 {
			return 0, errTruncated
		}
	}
}

// skipImmediate advances r past the immediate operand(s) of op, without
// interpreting them. Used while scanning for a matching `end` (see
// findMatchingEnd), and by the main interpreter loop to step over the
// alignment and offset immediates of loads and stores; the loop reads all
// other operands directly.
func skipImmediate(op Opcode, r *reader) error {
	switch op {
	case opBlock, opLoop, opIf:
		_, err := r.readByte()
		return err
	case opBr, opBrIf, opCall, opLocalGet, opLocalSet, opLocalTee:
		_, err := r.readULEB()
		return err
	case opI32Const, opI64Const:
		_, err := r.readSLEB()
		return err
	case opI32Load, opI64Load, opI32Store, opI64Store:
		if _, err := r.readULEB(); err != nil {
			return err
		}
		_, err := r.readULEB()
		return err
	case opMemorySize, opMemoryGrow:
		_, err := r.readByte()
		return err
	default:
		return nil
	}
}

// findMatchingEnd scans forward from startPos (the position right after a
// block/loop's blocktype byte) and returns the position of the `end` byte
// that closes it, correctly accounting for nested block/loop/if structure
// even though this interpreter does not execute `if`.
func findMatchingEnd(data []byte, startPos int) (int, error) {
	r := &reader{data: data, pos: startPos}
	depth := 0
	for r.pos < len(r.data) {
		opPos := r.pos
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		op := Opcode(b)
		switch op {
		case opBlock, opLoop, opIf:
			depth++
			if err := skipImmediate(op, r); err != nil {
				return 0, err
			}
		case opEnd:
			if depth == 0 {
				return opPos, nil
			}
			depth--
		default:
			if err := skipImmediate(op, r); err != nil {
				return 0, err
			}
		}
	}
	return 0, errTruncated
}
