package vm

import (
	"os"
	"strconv"
	"strings"
)

// Program is the initial memory image of a machine.
type Program []int64

// ParseProgram parses comma-separated decimal integers. Whitespace around
// each token is ignored. Parsing stops at the first bad token.
func ParseProgram(text string) (Program, error) {
	tokens := strings.Split(text, ",")
	prog := make(Program, 0, len(tokens))
	for i, tok := range tokens {
		n, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
		if err != nil {
			return nil, &ParseError{Position: i + 1, Token: tok, Err: err}
		}
		prog = append(prog, n)
	}
	return prog, nil
}

// ReadProgramFile parses the program stored at path.
func ReadProgramFile(path string) (Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseProgram(string(data))
}

// String renders the program in its comma-separated text form.
func (p Program) String() string {
	var sb strings.Builder
	for i, n := range p {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatInt(n, 10))
	}
	return sb.String()
}

// Load is shorthand for vm.Load(p, opts...).
func (p Program) Load(opts ...Option) *Machine {
	return Load(p, opts...)
}
