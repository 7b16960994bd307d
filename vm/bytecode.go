package vm

import "fmt"

// ---------------------------------------------------------------------------
// Opcode definitions
// ---------------------------------------------------------------------------

// Opcode is the operation selected by the two rightmost decimal digits of an
// instruction word.
type Opcode int64

const (
	OpAdd                Opcode = 1  // a = c + b
	OpMultiply           Opcode = 2  // a = c * b
	OpInput              Opcode = 3  // c = <input>
	OpOutput             Opcode = 4  // <output> c
	OpJumpIfTrue         Opcode = 5  // if c != 0: pc = b
	OpJumpIfFalse        Opcode = 6  // if c == 0: pc = b
	OpLessThan           Opcode = 7  // a = c < b
	OpEquals             Opcode = 8  // a = c == b
	OpAdjustRelativeBase Opcode = 9  // rb += c
	OpHalt               Opcode = 99 // stop
)

// Mode is a parameter addressing mode, selected by the hundreds, thousands
// and ten-thousands digits of an instruction word.
type Mode uint8

const (
	ModePosition  Mode = 0 // operand is an address
	ModeImmediate Mode = 1 // operand is the value itself
	ModeRelative  Mode = 2 // operand is an offset from the relative base
)

// MaxParams is the largest parameter count of any instruction.
const MaxParams = 3

// ---------------------------------------------------------------------------
// Opcode metadata
// ---------------------------------------------------------------------------

// OpcodeInfo holds metadata about an opcode.
type OpcodeInfo struct {
	Name   string // mnemonic
	Params int    // number of parameters following the opcode word
	Write  int    // index of the write-target parameter, -1 if none
}

var opcodeTable = map[Opcode]OpcodeInfo{
	OpAdd:                {"ADD", 3, 2},
	OpMultiply:           {"MUL", 3, 2},
	OpInput:              {"IN", 1, 0},
	OpOutput:             {"OUT", 1, -1},
	OpJumpIfTrue:         {"JT", 2, -1},
	OpJumpIfFalse:        {"JF", 2, -1},
	OpLessThan:           {"LT", 3, 2},
	OpEquals:             {"EQ", 3, 2},
	OpAdjustRelativeBase: {"ARB", 1, -1},
	OpHalt:               {"HALT", 0, -1},
}

// GetOpcodeInfo returns metadata for op. Unrecognized opcodes get a
// zero-parameter entry named UNKNOWN(n).
func GetOpcodeInfo(op Opcode) OpcodeInfo {
	if info, ok := opcodeTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN(%d)", int64(op)), Write: -1}
}

// String returns the mnemonic of op.
func (op Opcode) String() string {
	return GetOpcodeInfo(op).Name
}

// Known reports whether op is part of the instruction set.
func (op Opcode) Known() bool {
	_, ok := opcodeTable[op]
	return ok
}

// InstructionLen returns the number of cells an instruction occupies.
func (op Opcode) InstructionLen() int64 {
	return int64(1 + GetOpcodeInfo(op).Params)
}

// IsJump reports whether op may set the program counter directly.
func (op Opcode) IsJump() bool {
	return op == OpJumpIfTrue || op == OpJumpIfFalse
}

func (m Mode) String() string {
	switch m {
	case ModePosition:
		return "position"
	case ModeImmediate:
		return "immediate"
	case ModeRelative:
		return "relative"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// Valid reports whether m is one of the three addressing modes.
func (m Mode) Valid() bool {
	return m <= ModeRelative
}

// ---------------------------------------------------------------------------
// Decoding
// ---------------------------------------------------------------------------

// Instruction is a decoded instruction word.
type Instruction struct {
	Op    Opcode
	Modes [MaxParams]Mode
	Raw   int64 // the undecoded word
	Code  int64 // the two-digit operation code as written
}

// Decode splits raw into an opcode and parameter modes. It never fails:
// unrecognized operation codes, including any negative word, decode as
// OpHalt. Code keeps the original two digits so callers can tell a real
// halt from a fallback.
func Decode(raw int64) Instruction {
	in := Instruction{Raw: raw, Code: raw % 100, Op: OpHalt}
	if raw < 0 {
		return in
	}
	if op := Opcode(in.Code); op.Known() {
		in.Op = op
	}
	digits := raw / 100
	for i := 0; i < MaxParams; i++ {
		in.Modes[i] = Mode(digits % 10)
		digits /= 10
	}
	return in
}

// DecodeStrict is Decode without the halt fallback: an unrecognized
// operation code, or a mode digit outside 0..2 on a parameter the operation
// uses, is reported as a ValidationError.
func DecodeStrict(raw int64) (Instruction, error) {
	in := Decode(raw)
	if raw < 0 || !Opcode(in.Code).Known() {
		return in, &ValidationError{Raw: raw, Param: -1, Err: ErrUnknownOpcode}
	}
	for i := 0; i < in.Params(); i++ {
		if !in.Modes[i].Valid() {
			return in, &ValidationError{Raw: raw, Param: i, Err: ErrUnknownMode}
		}
	}
	return in, nil
}

// Params returns the number of parameters of the instruction.
func (in Instruction) Params() int {
	return GetOpcodeInfo(in.Op).Params
}

// Len returns the number of cells the instruction occupies.
func (in Instruction) Len() int64 {
	return in.Op.InstructionLen()
}

// Fallback reports whether the instruction decoded as OpHalt only because
// its operation code was not recognized.
func (in Instruction) Fallback() bool {
	return in.Op == OpHalt && in.Code != int64(OpHalt)
}
