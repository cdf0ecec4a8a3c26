// Package refengine is a concrete, in-process implementation of
// hera.EngineAdapter (C6): a small stack-machine interpreter covering the
// numeric and control-flow subset of WebAssembly the EEI catalogue and
// validator require. It is not a general-purpose Wasm engine — no SIMD,
// threads, or reference types — by design (see SPEC_FULL.md §1 Non-goals).
package refengine

// Opcode is a WebAssembly instruction byte. Values match the canonical
// WebAssembly MVP encoding exactly, so bytecode compiled by any standard
// toolchain targeting this opcode subset executes unchanged.
type Opcode byte

const (
	opUnreachable Opcode = 0x00
	opNop         Opcode = 0x01
	opBlock       Opcode = 0x02
	opLoop        Opcode = 0x03
	opIf          Opcode = 0x04
	opElse        Opcode = 0x05
	opEnd         Opcode = 0x0B
	opBr          Opcode = 0x0C
	opBrIf        Opcode = 0x0D
	opReturn      Opcode = 0x0F
	opCall        Opcode = 0x10
	opDrop        Opcode = 0x1A
	opSelect      Opcode = 0x1B

	opLocalGet Opcode = 0x20
	opLocalSet Opcode = 0x21
	opLocalTee Opcode = 0x22

	opI32Load  Opcode = 0x28
	opI64Load  Opcode = 0x29
	opI32Store Opcode = 0x36
	opI64Store Opcode = 0x37

	opMemorySize Opcode = 0x3F
	opMemoryGrow Opcode = 0x40

	opI32Const Opcode = 0x41
	opI64Const Opcode = 0x42

	opI32Eqz Opcode = 0x45
	opI32Eq  Opcode = 0x46
	opI32Ne  Opcode = 0x47
	opI32LtS Opcode = 0x48
	opI32LtU Opcode = 0x49
	opI32GtS Opcode = 0x4A
	opI32GtU Opcode = 0x4B
	opI32LeS Opcode = 0x4C
	opI32LeU Opcode = 0x4D
	opI32GeS Opcode = 0x4E
	opI32GeU Opcode = 0x4F

	opI64Eqz Opcode = 0x50
	opI64Eq  Opcode = 0x51
	opI64Ne  Opcode = 0x52
	opI64LtS Opcode = 0x53
	opI64LtU Opcode = 0x54
	opI64GtS Opcode = 0x55
	opI64GtU Opcode = 0x56
	opI64LeS Opcode = 0x57
	opI64LeU Opcode = 0x58
	opI64GeS Opcode = 0x59
	opI64GeU Opcode = 0x5A

	opI32Add  Opcode = 0x6A
	opI32Sub  Opcode = 0x6B
	opI32Mul  Opcode = 0x6C
	opI32DivS Opcode = 0x6D
	opI32DivU Opcode = 0x6E
	opI32RemS Opcode = 0x6F
	opI32RemU Opcode = 0x70
	opI32And  Opcode = 0x71
	opI32Or   Opcode = 0x72
	opI32Xor  Opcode = 0x73
	opI32Shl  Opcode = 0x74
	opI32ShrS Opcode = 0x75
	opI32ShrU Opcode = 0x76

	opI64Add  Opcode = 0x7C
	opI64Sub  Opcode = 0x7D
	opI64Mul  Opcode = 0x7E
	opI64DivS Opcode = 0x7F
	opI64DivU Opcode = 0x80
	opI64RemS Opcode = 0x81
	opI64RemU Opcode = 0x82
	opI64And  Opcode = 0x83
	opI64Or   Opcode = 0x84
	opI64Xor  Opcode = 0x85
	opI64Shl  Opcode = 0x86
	opI64ShrS Opcode = 0x87
	opI64ShrU Opcode = 0x88

	opI32WrapI64    Opcode = 0xA7
	opI64ExtendI32S Opcode = 0xAC
	opI64ExtendI32U Opcode = 0xAD
)

const blockTypeEmpty = 0x40
