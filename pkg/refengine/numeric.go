package refengine

import "github.com/ewasm/hera-go/pkg/hera"

func boolToU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// execNumeric handles every i32/i64 comparison, arithmetic, bitwise, and
// conversion opcode. Split out of exec's main switch to keep the control-flow
// dispatch readable.
func execNumeric(op Opcode, push func(uint64), pop func() (uint64, error)) error {
	pop2 := func() (uint64, uint64, error) {
		b, err := pop()
		if err != nil {
			return 0, 0, err
		}
		a, err := pop()
		if err != nil {
			return 0, 0, err
		}
		return a, b, nil
	}

	switch op {
	case opI32Eqz:
		a, err := pop()
		if err != nil {
			return err
		}
		push(boolToU64(uint32(a) == 0))
	case opI32Eq, opI32Ne, opI32LtS, opI32LtU, opI32GtS, opI32GtU, opI32LeS, opI32LeU, opI32GeS, opI32GeU:
		a, b, err := pop2()
		if err != nil {
			return err
		}
		x, y := uint32(a), uint32(b)
		var res bool
		switch op {
		case opI32Eq:
			res = x == y
		case opI32Ne:
			res = x != y
		case opI32LtS:
			res = int32(x) < int32(y)
		case opI32LtU:
			res = x < y
		case opI32GtS:
			res = int32(x) > int32(y)
		case opI32GtU:
			res = x > y
		case opI32LeS:
			res = int32(x) <= int32(y)
		case opI32LeU:
			res = x <= y
		case opI32GeS:
			res = int32(x) >= int32(y)
		case opI32GeU:
			res = x >= y
		}
		push(boolToU64(res))

	case opI64Eqz:
		a, err := pop()
		if err != nil {
			return err
		}
		push(boolToU64(a == 0))
	case opI64Eq, opI64Ne, opI64LtS, opI64LtU, opI64GtS, opI64GtU, opI64LeS, opI64LeU, opI64GeS, opI64GeU:
		a, b, err := pop2()
		if err != nil {
			return err
		}
		var res bool
		switch op {
		case opI64Eq:
			res = a == b
		case opI64Ne:
			res = a != b
		case opI64LtS:
			res = int64(a) < int64(b)
		case opI64LtU:
			res = a < b
		case opI64GtS:
			res = int64(a) > int64(b)
		case opI64GtU:
			res = a > b
		case opI64LeS:
			res = int64(a) <= int64(b)
		case opI64LeU:
			res = a <= b
		case opI64GeS:
			res = int64(a) >= int64(b)
		case opI64GeU:
			res = a >= b
		}
		push(boolToU64(res))

	case opI32Add, opI32Sub, opI32Mul, opI32DivS, opI32DivU, opI32RemS, opI32RemU,
		opI32And, opI32Or, opI32Xor, opI32Shl, opI32ShrS, opI32ShrU:
		a, b, err := pop2()
		if err != nil {
			return err
		}
		x, y := uint32(a), uint32(b)
		var res uint32
		switch op {
		case opI32Add:
			res = x + y
		case opI32Sub:
			res = x - y
		case opI32Mul:
			res = x * y
		case opI32DivS:
			if y == 0 || (int32(x) == -2147483648 && int32(y) == -1) {
				return hera.ErrVMTrap
			}
			res = uint32(int32(x) / int32(y))
		case opI32DivU:
			if y == 0 {
				return hera.ErrVMTrap
			}
			res = x / y
		case opI32RemS:
			if y == 0 {
				return hera.ErrVMTrap
			}
			res = uint32(int32(x) % int32(y))
		case opI32RemU:
			if y == 0 {
				return hera.ErrVMTrap
			}
			res = x % y
		case opI32And:
			res = x & y
		case opI32Or:
			res = x | y
		case opI32Xor:
			res = x ^ y
		case opI32Shl:
			res = x << (y & 31)
		case opI32ShrS:
			res = uint32(int32(x) >> (y & 31))
		case opI32ShrU:
			res = x >> (y & 31)
		}
		push(uint64(res))

	case opI64Add, opI64Sub, opI64Mul, opI64DivS, opI64DivU, opI64RemS, opI64RemU,
		opI64And, opI64Or, opI64Xor, opI64Shl, opI64ShrS, opI64ShrU:
		a, b, err := pop2()
		if err != nil {
			return err
		}
		var res uint64
		switch op {
		case opI64Add:
			res = a + b
		case opI64Sub:
			res = a - b
		case opI64Mul:
			res = a * b
		case opI64DivS:
			if b == 0 || (int64(a) == -9223372036854775808 && int64(b) == -1) {
				return hera.ErrVMTrap
			}
			res = uint64(int64(a) / int64(b))
		case opI64DivU:
			if b == 0 {
				return hera.ErrVMTrap
			}
			res = a / b
		case opI64RemS:
			if b == 0 {
				return hera.ErrVMTrap
			}
			res = uint64(int64(a) % int64(b))
		case opI64RemU:
			if b == 0 {
				return hera.ErrVMTrap
			}
			res = a % b
		case opI64And:
			res = a & b
		case opI64Or:
			res = a | b
		case opI64Xor:
			res = a ^ b
		case opI64Shl:
			res = a << (b & 63)
		case opI64ShrS:
			res = uint64(int64(a) >> (b & 63))
		case opI64ShrU:
			res = a >> (b & 63)
		}
		push(res)

	case opI32WrapI64:
		a, err := pop()
		if err != nil {
			return err
		}
		push(uint64(uint32(a)))
	case opI64ExtendI32S:
		a, err := pop()
		if err != nil {
			return err
		}
		push(uint64(int64(int32(uint32(a)))))
	case opI64ExtendI32U:
		a, err := pop()
		if err != nil {
			return err
		}
		push(uint64(uint32(a)))

	default:
		return hera.ErrVMTrap
	}
	return nil
}
