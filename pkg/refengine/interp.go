package refengine

import "github.com/ewasm/hera-go/pkg/hera"

const maxCallDepth = 1024

// funcEntry is one slot of the combined imported+local function index space
// (hera.WasmModule.NumImportedFuncs/FuncTypeOf), resolved once at
// instantiation time so the interpreter's call opcode never re-walks the
// module's import list.
type funcEntry struct {
	isImport bool
	name     string // import name, used to look up the bound HostFunc
	sig      hera.FuncType
	code     []byte
	locals   []hera.ValType // declared locals beyond the parameters
}

// machine is one instantiated module: its function table, linear memory,
// and bound host imports. It implements no exported interface itself;
// adapter.go wraps it as a hera.Instance.
type machine struct {
	funcs   []funcEntry
	mem     *linearMemory
	imports map[string]hera.HostFunc
	depth   int
}

func (ma *machine) callFunc(idx uint32, args []uint64) ([]uint64, error) {
	if int(idx) >= len(ma.funcs) {
		return nil, hera.ErrInternal
	}
	f := ma.funcs[idx]
	if f.isImport {
		hf, ok := ma.imports[f.name]
		if !ok {
			return nil, hera.ErrInternal
		}
		return hf(args)
	}
	ma.depth++
	if ma.depth > maxCallDepth {
		ma.depth--
		return nil, hera.ErrVMTrap
	}
	locals := make([]uint64, len(f.sig.Params)+len(f.locals))
	copy(locals, args)
	results, err := ma.exec(f.code, locals, len(f.sig.Results))
	ma.depth--
	return results, err
}

// ctrlFrame is one entry of the active block/loop control stack.
type ctrlFrame struct {
	isLoop bool
	start  int // position right after the blocktype byte (loop re-entry point)
	end    int // position of the matching `end` byte
}

// exec runs one function body to completion, returning its declared number
// of results taken off the top of the operand stack.
func (ma *machine) exec(code []byte, locals []uint64, numResults int) ([]uint64, error) {
	stack := make([]uint64, 0, 16)
	var ctrl []ctrlFrame
	r := &reader{data: code}

	push := func(v uint64) { stack = append(stack, v) }
	pop := func() (uint64, error) {
		if len(stack) == 0 {
			return 0, hera.ErrVMTrap
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, nil
	}
	peek := func() (uint64, error) {
		if len(stack) == 0 {
			return 0, hera.ErrVMTrap
		}
		return stack[len(stack)-1], nil
	}

	// branch unwinds to the control frame at relative depth, jumping past a
	// block's end (break) or back to a loop's start (continue).
	branch := func(depth uint32) error {
		if int(depth) >= len(ctrl) {
			return hera.ErrVMTrap
		}
		target := ctrl[len(ctrl)-1-int(depth)]
		if target.isLoop {
			ctrl = ctrl[:len(ctrl)-int(depth)]
			r.pos = target.start
		} else {
			ctrl = ctrl[:len(ctrl)-int(depth)-1]
			r.pos = target.end + 1
		}
		return nil
	}

	for r.pos < len(r.data) {
		opByte, err := r.readByte()
		if err != nil {
			return nil, hera.ErrVMTrap
		}
		op := Opcode(opByte)
		switch op {
		case opUnreachable:
			return nil, hera.ErrVMTrap
		case opNop:

		case opBlock:
			if _, err := r.readByte(); err != nil {
				return nil, hera.ErrVMTrap
			}
			end, err := findMatchingEnd(r.data, r.pos)
			if err != nil {
				return nil, hera.ErrVMTrap
			}
			ctrl = append(ctrl, ctrlFrame{isLoop: false, start: r.pos, end: end})
		case opLoop:
			if _, err := r.readByte(); err != nil {
				return nil, hera.ErrVMTrap
			}
			end, err := findMatchingEnd(r.data, r.pos)
			if err != nil {
				return nil, hera.ErrVMTrap
			}
			ctrl = append(ctrl, ctrlFrame{isLoop: true, start: r.pos, end: end})
		case opEnd:
			if len(ctrl) > 0 {
				ctrl = ctrl[:len(ctrl)-1]
			}
		case opBr:
			depth, err := r.readULEB()
			if err != nil {
				return nil, hera.ErrVMTrap
			}
			if err := branch(uint32(depth)); err != nil {
				return nil, err
			}
		case opBrIf:
			depth, err := r.readULEB()
			if err != nil {
				return nil, hera.ErrVMTrap
			}
			cond, err := pop()
			if err != nil {
				return nil, err
			}
			if cond != 0 {
				if err := branch(uint32(depth)); err != nil {
					return nil, err
				}
			}
		case opReturn:
			return finishStack(stack, numResults)
		case opCall:
			idx, err := r.readULEB()
			if err != nil {
				return nil, hera.ErrVMTrap
			}
			if int(idx) >= len(ma.funcs) {
				return nil, hera.ErrInternal
			}
			sig := ma.funcs[idx].sig
			nParams := len(sig.Params)
			if len(stack) < nParams {
				return nil, hera.ErrVMTrap
			}
			args := append([]uint64(nil), stack[len(stack)-nParams:]...)
			stack = stack[:len(stack)-nParams]
			results, err := ma.callFunc(uint32(idx), args)
			if err != nil {
				return nil, err
			}
			stack = append(stack, results...)
		case opDrop:
			if _, err := pop(); err != nil {
				return nil, err
			}
		case opSelect:
			c, err := pop()
			if err != nil {
				return nil, err
			}
			b, err := pop()
			if err != nil {
				return nil, err
			}
			a, err := pop()
			if err != nil {
				return nil, err
			}
			if c != 0 {
				push(a)
			} else {
				push(b)
			}

		case opLocalGet:
			idx, err := r.readULEB()
			if err != nil || int(idx) >= len(locals) {
				return nil, hera.ErrVMTrap
			}
			push(locals[idx])
		case opLocalSet:
			idx, err := r.readULEB()
			if err != nil || int(idx) >= len(locals) {
				return nil, hera.ErrVMTrap
			}
			v, err := pop()
			if err != nil {
				return nil, err
			}
			locals[idx] = v
		case opLocalTee:
			idx, err := r.readULEB()
			if err != nil || int(idx) >= len(locals) {
				return nil, hera.ErrVMTrap
			}
			v, err := peek()
			if err != nil {
				return nil, err
			}
			locals[idx] = v

		case opI32Load:
			if err := skipImmediate(op, r); err != nil {
				return nil, hera.ErrVMTrap
			}
			addr, err := pop()
			if err != nil {
				return nil, err
			}
			v, err := ma.mem.loadI32(addr)
			if err != nil {
				return nil, err
			}
			push(uint64(v))
		case opI64Load:
			if err := skipImmediate(op, r); err != nil {
				return nil, hera.ErrVMTrap
			}
			addr, err := pop()
			if err != nil {
				return nil, err
			}
			v, err := ma.mem.loadI64(addr)
			if err != nil {
				return nil, err
			}
			push(v)
		case opI32Store:
			if err := skipImmediate(op, r); err != nil {
				return nil, hera.ErrVMTrap
			}
			v, err := pop()
			if err != nil {
				return nil, err
			}
			addr, err := pop()
			if err != nil {
				return nil, err
			}
			if err := ma.mem.storeI32(addr, uint32(v)); err != nil {
				return nil, err
			}
		case opI64Store:
			if err := skipImmediate(op, r); err != nil {
				return nil, hera.ErrVMTrap
			}
			v, err := pop()
			if err != nil {
				return nil, err
			}
			addr, err := pop()
			if err != nil {
				return nil, err
			}
			if err := ma.mem.storeI64(addr, v); err != nil {
				return nil, err
			}

		case opMemorySize:
			if _, err := r.readByte(); err != nil {
				return nil, hera.ErrVMTrap
			}
			push(uint64(ma.mem.pages()))
		case opMemoryGrow:
			if _, err := r.readByte(); err != nil {
				return nil, hera.ErrVMTrap
			}
			delta, err := pop()
			if err != nil {
				return nil, err
			}
			push(uint64(uint32(ma.mem.grow(uint32(delta)))))

		case opI32Const:
			v, err := r.readSLEB()
			if err != nil {
				return nil, hera.ErrVMTrap
			}
			push(uint64(uint32(int32(v))))
		case opI64Const:
			v, err := r.readSLEB()
			if err != nil {
				return nil, hera.ErrVMTrap
			}
			push(uint64(v))

		default:
			if err := execNumeric(op, push, pop); err != nil {
				return nil, err
			}
		}
	}
	return finishStack(stack, numResults)
}

func finishStack(stack []uint64, numResults int) ([]uint64, error) {
	if len(stack) < numResults {
		return nil, hera.ErrVMTrap
	}
	return stack[len(stack)-numResults:], nil
}
