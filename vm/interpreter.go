package vm

import "errors"

// ---------------------------------------------------------------------------
// Outcome: why Step returned
// ---------------------------------------------------------------------------

// OutcomeKind identifies the event that handed control back to the caller.
type OutcomeKind uint8

const (
	Halted     OutcomeKind = iota // the machine has stopped
	NeedsInput                    // Outcome.Request must be supplied
	Output                        // Outcome.Value was produced
)

func (k OutcomeKind) String() string {
	switch k {
	case Halted:
		return "halted"
	case NeedsInput:
		return "needs-input"
	case Output:
		return "output"
	}
	return "unknown"
}

// Outcome is the result of one Step call. Exactly one of Value and Request
// is meaningful, selected by Kind.
type Outcome struct {
	Kind    OutcomeKind
	Value   int64
	Request *InputRequest
}

// ---------------------------------------------------------------------------
// Machine
// ---------------------------------------------------------------------------

// TraceFunc observes every instruction just before it executes.
type TraceFunc func(pc int64, in Instruction)

// Option configures a Machine at load time.
type Option func(*Machine)

// WithStrictDecode makes unrecognized opcodes and mode digits a
// ValidationError instead of an implicit halt.
func WithStrictDecode() Option {
	return func(m *Machine) { m.strict = true }
}

// WithTrace installs a trace callback. Clones share the callback.
func WithTrace(fn TraceFunc) Option {
	return func(m *Machine) { m.trace = fn }
}

// Machine is one intcode CPU with its own memory and registers.
type Machine struct {
	mem     *Memory
	pc      int64  // program counter
	relBase int64  // relative base register
	steps   uint64 // fencing token; advances on every executed instruction
	halted  bool

	strict bool
	trace  TraceFunc
}

// Load creates a machine with a private copy of program in memory.
func Load(program []int64, opts ...Option) *Machine {
	m := &Machine{mem: NewMemory(program)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Clone returns an independent deep copy of m. Input requests issued by m
// cannot be supplied to the clone.
func (m *Machine) Clone() *Machine {
	c := *m
	c.mem = m.mem.Clone()
	return &c
}

// Halted reports whether the machine has executed a halt.
func (m *Machine) Halted() bool { return m.halted }

// PC returns the program counter.
func (m *Machine) PC() int64 { return m.pc }

// RelativeBase returns the relative base register.
func (m *Machine) RelativeBase() int64 { return m.relBase }

// Read returns the memory cell at addr; unwritten and negative addresses
// read as zero.
func (m *Machine) Read(addr int64) int64 {
	return m.mem.Get(int(addr))
}

// Write patches the memory cell at addr. It is meant for setting up
// registers between Step calls.
func (m *Machine) Write(addr int64, v int64) {
	m.mem.Set(int(addr), v)
}

// Memory returns a copy of the machine's memory below DenseLimit. Cells
// above it are reachable through Read.
func (m *Machine) Memory() []int64 {
	return m.mem.Snapshot()
}

// ---------------------------------------------------------------------------
// Execution loop
// ---------------------------------------------------------------------------

// Step runs instructions until the machine produces an output, needs input,
// or halts, and reports which. Arithmetic and jumps in between are not
// observable. Once halted, Step keeps returning Halted without side effects.
//
// When the machine needs input it does not advance: calling Step again
// without supplying the request re-issues an equivalent one.
func (m *Machine) Step() (Outcome, error) {
	for !m.halted {
		in, err := m.decode()
		if err != nil {
			return Outcome{}, err
		}
		if m.trace != nil {
			m.trace(m.pc, in)
		}

		switch in.Op {
		case OpAdd, OpMultiply, OpLessThan, OpEquals:
			c, err := m.load(in, 0)
			if err != nil {
				return Outcome{}, err
			}
			b, err := m.load(in, 1)
			if err != nil {
				return Outcome{}, err
			}
			dst, err := m.address(in, 2)
			if err != nil {
				return Outcome{}, err
			}
			m.mem.Set(dst, arith(in.Op, c, b))
			m.advance(in.Len())

		case OpInput:
			dst, err := m.address(in, 0)
			if err != nil {
				return Outcome{}, err
			}
			return Outcome{Kind: NeedsInput, Request: &InputRequest{
				machine:  m,
				issuedAt: m.steps,
				addr:     int64(dst),
				length:   in.Len(),
			}}, nil

		case OpOutput:
			v, err := m.load(in, 0)
			if err != nil {
				return Outcome{}, err
			}
			m.advance(in.Len())
			return Outcome{Kind: Output, Value: v}, nil

		case OpJumpIfTrue, OpJumpIfFalse:
			c, err := m.load(in, 0)
			if err != nil {
				return Outcome{}, err
			}
			jump := c != 0
			if in.Op == OpJumpIfFalse {
				jump = !jump
			}
			if jump {
				target, err := m.load(in, 1)
				if err != nil {
					return Outcome{}, err
				}
				if target < 0 {
					return Outcome{}, m.invalid(in, 1, ErrNegativeAddress)
				}
				m.pc = target
				m.steps++
			} else {
				m.advance(in.Len())
			}

		case OpAdjustRelativeBase:
			c, err := m.load(in, 0)
			if err != nil {
				return Outcome{}, err
			}
			m.relBase += c
			m.advance(in.Len())

		default:
			m.halted = true
		}
	}
	return Outcome{Kind: Halted}, nil
}

func arith(op Opcode, c, b int64) int64 {
	switch op {
	case OpAdd:
		return b + c
	case OpMultiply:
		return b * c
	case OpLessThan:
		if c < b {
			return 1
		}
	case OpEquals:
		if c == b {
			return 1
		}
	}
	return 0
}

func (m *Machine) advance(n int64) {
	m.pc += n
	m.steps++
}

func (m *Machine) decode() (Instruction, error) {
	if m.pc < 0 {
		return Instruction{}, &ValidationError{PC: m.pc, Param: -1, Err: ErrNegativeAddress}
	}
	raw := m.mem.Get(int(m.pc))
	if m.strict {
		in, err := DecodeStrict(raw)
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.PC = m.pc
		}
		return in, err
	}
	return Decode(raw), nil
}

func (m *Machine) invalid(in Instruction, param int, err error) *ValidationError {
	return &ValidationError{PC: m.pc, Raw: in.Raw, Param: param, Err: err}
}

// address resolves parameter i of the instruction at the program counter to
// an effective address. Only write targets go through here, so immediate
// mode is rejected.
func (m *Machine) address(in Instruction, i int) (int, error) {
	if in.Modes[i] == ModeImmediate {
		return 0, m.invalid(in, i, ErrImmediateWrite)
	}
	return m.resolve(m.pc, in, i)
}

// load reads parameter i of the instruction at the program counter.
func (m *Machine) load(in Instruction, i int) (int64, error) {
	addr, err := m.resolve(m.pc, in, i)
	if err != nil {
		return 0, err
	}
	return m.mem.Get(addr), nil
}

// resolve computes where parameter i of the instruction at pc lives. For
// immediate mode that is the parameter cell itself.
func (m *Machine) resolve(pc int64, in Instruction, i int) (int, error) {
	slot := pc + 1 + int64(i)
	var addr int64
	switch in.Modes[i] {
	case ModePosition:
		addr = m.mem.Get(int(slot))
	case ModeImmediate:
		addr = slot
	case ModeRelative:
		addr = m.relBase + m.mem.Get(int(slot))
	default:
		return 0, &ValidationError{PC: pc, Raw: in.Raw, Param: i, Err: ErrUnknownMode}
	}
	if addr < 0 {
		return 0, &ValidationError{PC: pc, Raw: in.Raw, Param: i, Err: ErrNegativeAddress}
	}
	return int(addr), nil
}
