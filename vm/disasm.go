package vm

import (
	"fmt"
	"strings"
)

// Disassemble returns a linear listing of the program. Words that do not
// decode to a known opcode, or whose parameters would run past the end of
// the program, are listed as DATA. Jumps to a constant address are
// annotated with the target.
func Disassemble(p Program) string {
	return DisassembleWithName(p, "")
}

// DisassembleWithName is Disassemble with a name header.
func DisassembleWithName(p Program, name string) string {
	var sb strings.Builder

	if name != "" {
		sb.WriteString(fmt.Sprintf("; === %s ===\n", name))
	}
	sb.WriteString(fmt.Sprintf("; %d cells\n", len(p)))

	offset := 0
	for offset < len(p) {
		line, n := disassembleInstruction(p, offset)
		sb.WriteString(fmt.Sprintf("%04d  %s\n", offset, line))
		offset += n
	}
	return sb.String()
}

// DisassembleInstruction formats the instruction at offset and returns its
// length in cells.
func DisassembleInstruction(p Program, offset int) (string, int) {
	if offset < 0 || offset >= len(p) {
		return "<end of program>", 0
	}
	return disassembleInstruction(p, offset)
}

func disassembleInstruction(p Program, offset int) (string, int) {
	raw := p[offset]
	in := Decode(raw)
	if in.Fallback() || offset+int(in.Len()) > len(p) {
		return fmt.Sprintf("%-5s %d", "DATA", raw), 1
	}

	info := GetOpcodeInfo(in.Op)
	operands := make([]string, 0, info.Params)
	for i := 0; i < info.Params; i++ {
		operands = append(operands, FormatOperand(in.Modes[i], p[offset+1+i]))
	}
	if len(operands) == 0 {
		return info.Name, 1
	}
	line := fmt.Sprintf("%-5s %s", info.Name, strings.Join(operands, ", "))
	if in.Op.IsJump() && in.Modes[1] == ModeImmediate {
		line += fmt.Sprintf("  ; -> %04d", p[offset+2])
	}
	return line, 1 + info.Params
}

// FormatOperand renders an operand in addressing-mode notation: [n] for
// position, n for immediate, [rb+n] for relative.
func FormatOperand(mode Mode, v int64) string {
	switch mode {
	case ModePosition:
		return fmt.Sprintf("[%d]", v)
	case ModeImmediate:
		return fmt.Sprintf("%d", v)
	case ModeRelative:
		if v < 0 {
			return fmt.Sprintf("[rb%d]", v)
		}
		return fmt.Sprintf("[rb+%d]", v)
	}
	return fmt.Sprintf("?%d:%d", uint8(mode), v)
}

// String formats the instruction's mnemonic and mode digits, e.g.
// "ADD(position,immediate,position)".
func (in Instruction) String() string {
	n := in.Params()
	if n == 0 {
		return in.Op.String()
	}
	modes := make([]string, n)
	for i := 0; i < n; i++ {
		modes[i] = in.Modes[i].String()
	}
	return fmt.Sprintf("%s(%s)", in.Op, strings.Join(modes, ","))
}
