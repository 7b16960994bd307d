package vm

import "fmt"

// Run steps m until it halts, answering input requests from inputs in order
// and collecting every output. If the machine asks for more input than
// inputs holds, Run stops with ErrInputExhausted and returns the outputs
// produced so far.
func Run(m *Machine, inputs ...int64) ([]int64, error) {
	var outputs []int64
	consumed := 0
	for {
		out, err := m.Step()
		if err != nil {
			return outputs, err
		}
		switch out.Kind {
		case Halted:
			return outputs, nil
		case Output:
			outputs = append(outputs, out.Value)
		case NeedsInput:
			if len(inputs) == 0 {
				return outputs, fmt.Errorf("input #%d at pc %d: %w", consumed+1, m.PC(), ErrInputExhausted)
			}
			if err := out.Request.Supply(inputs[0]); err != nil {
				return outputs, err
			}
			inputs = inputs[1:]
			consumed++
		}
	}
}

// NextOutput steps m, feeding it values from next whenever it needs input,
// until it produces an output or halts. ok is false once the machine has
// halted. A nil next is an empty source: an input request fails with
// ErrInputExhausted.
func NextOutput(m *Machine, next func() (int64, error)) (v int64, ok bool, err error) {
	for {
		out, err := m.Step()
		if err != nil {
			return 0, false, err
		}
		switch out.Kind {
		case Halted:
			return 0, false, nil
		case Output:
			return out.Value, true, nil
		case NeedsInput:
			if next == nil {
				return 0, false, fmt.Errorf("input at pc %d: %w", m.PC(), ErrInputExhausted)
			}
			in, err := next()
			if err != nil {
				return 0, false, err
			}
			if err := out.Request.Supply(in); err != nil {
				return 0, false, err
			}
		}
	}
}
