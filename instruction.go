package torchrom

import (
	"errors"
	"fmt"
)

// Register is one of the sixteen architectural registers.
type Register uint8

const (
	RegA Register = iota
	RegB
	RegC
	RegD
	RegE
	RegF
	RegG
	RegH
	RegNull
	RegOne
	RegOut
	RegIn
	RegReserved1
	RegReserved2
	RegFlags
	RegPC
)

// ReducedRegister is one of the eight general purpose registers that
// fit in the arithmetic instruction's three-bit first operand.
type ReducedRegister uint8

const (
	RRA ReducedRegister = iota
	RRB
	RRC
	RRD
	RRE
	RRF
	RRG
	RRH
)

// Full returns the full register corresponding to a reduced register.
func (r ReducedRegister) Full() Register {
	return Register(r)
}

// Condition selects when a move or branch takes effect.
type Condition uint8

const (
	CondAlways Condition = iota
	CondGreater
	CondLess
	CondEqual
	CondNotEqual
	CondOverflow
	CondEven
	CondCarry
)

// ArithmeticOp is the operation of an arithmetic instruction.
type ArithmeticOp uint8

const (
	OpSub ArithmeticOp = iota
	OpAdd
)

// Instruction is a single machine instruction that encodes to one
// 16-bit ROM word.
type Instruction interface {
	Encode() uint16
}

// Arithmetic adds or subtracts Src2 from Src1 into Dst, optionally
// consuming the carry flag.
type Arithmetic struct {
	Op    ArithmeticOp
	Carry bool
	Src1  ReducedRegister
	Src2  Register
	Dst   Register
}

// Encode returns the instruction's 16-bit word:
// 001 o c sss ssss dddd (o = add, c = with carry).
func (i Arithmetic) Encode() uint16 {
	word := uint16(0b001) << 13
	if i.Op == OpAdd {
		word |= 1 << 12
	}
	if i.Carry {
		word |= 1 << 11
	}
	word |= uint16(i.Src1) << 8
	word |= uint16(i.Src2) << 4
	word |= uint16(i.Dst)
	return word
}

// Move copies Src to Dst when Cond holds.
type Move struct {
	Cond     Condition
	SetFlags bool
	Src      Register
	Dst      Register
}

// Encode returns the instruction's 16-bit word:
// 100 ccc f ssss dddd (f = set flags).
func (i Move) Encode() uint16 {
	word := uint16(0b100) << 13
	word |= uint16(i.Cond) << 9
	if i.SetFlags {
		word |= 1 << 8
	}
	word |= uint16(i.Src) << 4
	word |= uint16(i.Dst)
	return word
}

// Branch jumps to Address when Cond holds, either absolutely or
// relative to the program counter.
type Branch struct {
	Cond     Condition
	Relative bool
	Address  uint8
}

// Encode returns the instruction's 16-bit word:
// 101 ccc r aaaaaaaa (r = relative).
func (i Branch) Encode() uint16 {
	word := uint16(0b101) << 13
	word |= uint16(i.Cond) << 9
	if i.Relative {
		word |= 1 << 8
	}
	word |= uint16(i.Address)
	return word
}

// Shorthand constructors for common instructions.

// Nop moves the null register onto itself.
func Nop() Instruction { return Move{Src: RegNull, Dst: RegNull} }

// Add computes dst = src1 + src2.
func Add(src1 ReducedRegister, src2, dst Register) Instruction {
	return Arithmetic{Op: OpAdd, Src1: src1, Src2: src2, Dst: dst}
}

// AddCarry computes dst = src1 + src2 + carry.
func AddCarry(src1 ReducedRegister, src2, dst Register) Instruction {
	return Arithmetic{Op: OpAdd, Carry: true, Src1: src1, Src2: src2, Dst: dst}
}

// Inc computes dst = src1 + 1.
func Inc(src1 ReducedRegister, dst Register) Instruction {
	return Arithmetic{Op: OpAdd, Src1: src1, Src2: RegOne, Dst: dst}
}

// Sub computes dst = src1 - src2.
func Sub(src1 ReducedRegister, src2, dst Register) Instruction {
	return Arithmetic{Op: OpSub, Src1: src1, Src2: src2, Dst: dst}
}

// SubCarry computes dst = src1 - src2 - borrow.
func SubCarry(src1 ReducedRegister, src2, dst Register) Instruction {
	return Arithmetic{Op: OpSub, Carry: true, Src1: src1, Src2: src2, Dst: dst}
}

// Dec computes dst = src1 - 1.
func Dec(src1 ReducedRegister, dst Register) Instruction {
	return Arithmetic{Op: OpSub, Src1: src1, Src2: RegOne, Dst: dst}
}

// Cmp compares src1 with src2, discarding the result.
func Cmp(src1 ReducedRegister, src2 Register) Instruction {
	return Arithmetic{Op: OpSub, Src1: src1, Src2: src2, Dst: RegNull}
}

// CmpCarry compares src1 with src2 consuming the carry flag.
func CmpCarry(src1 ReducedRegister, src2 Register) Instruction {
	return Arithmetic{Op: OpSub, Carry: true, Src1: src1, Src2: src2, Dst: RegNull}
}

// Cmp0 compares src1 with zero.
func Cmp0(src1 ReducedRegister) Instruction {
	return Arithmetic{Op: OpSub, Src1: src1, Src2: RegNull, Dst: RegNull}
}

// Cmp1 compares src1 with one.
func Cmp1(src1 ReducedRegister) Instruction {
	return Arithmetic{Op: OpSub, Src1: src1, Src2: RegOne, Dst: RegNull}
}

// Mov copies src to dst unconditionally.
func Mov(src, dst Register) Instruction {
	return Move{Src: src, Dst: dst}
}

// MovEq copies src to dst when the equal flag is set.
func MovEq(src, dst Register) Instruction {
	return Move{Cond: CondEqual, Src: src, Dst: dst}
}

// MovNeq copies src to dst when the equal flag is clear.
func MovNeq(src, dst Register) Instruction {
	return Move{Cond: CondNotEqual, Src: src, Dst: dst}
}

// Jmp jumps to an absolute address unconditionally.
func Jmp(address uint8) Instruction {
	return Branch{Address: address}
}

// JmpRel jumps by a signed offset relative to the program counter.
func JmpRel(offset int8) Instruction {
	return Branch{Relative: true, Address: uint8(offset)}
}

// Jeq jumps to an absolute address when the equal flag is set.
func Jeq(address uint8) Instruction {
	return Branch{Cond: CondEqual, Address: address}
}

// JeqRel jumps by a signed offset when the equal flag is set.
func JeqRel(offset int8) Instruction {
	return Branch{Cond: CondEqual, Relative: true, Address: uint8(offset)}
}

// Program is an ordered sequence of at most WordCount encoded words.
// Words beyond a ROM's line count are ignored during imprinting; lines
// beyond the program's length stay blank.
type Program []uint16

// ErrProgramTooLong is returned when a program exceeds WordCount words.
var ErrProgramTooLong = errors.New("program too long")

// Assemble encodes a sequence of instructions into a program.
func Assemble(instructions ...Instruction) (Program, error) {
	if len(instructions) > WordCount {
		return nil, fmt.Errorf("%w: %d instructions, rom holds %d", ErrProgramTooLong, len(instructions), WordCount)
	}
	program := make(Program, 0, len(instructions))
	for _, instruction := range instructions {
		program = append(program, instruction.Encode())
	}
	return program, nil
}
