// Package vm implements the intcode virtual machine.
//
// This package contains:
//   - Growable, zero-filled memory of signed 64-bit cells
//   - Instruction decoding (opcode plus per-parameter addressing modes)
//   - A resumable interpreter that suspends at input and output boundaries
//   - One-shot input requests fenced by the machine's step counter
//   - Program text parsing and a linear disassembler
//
// A Machine never blocks and never starts goroutines. Callers drive it with
// Step, which returns exactly one Outcome per call: an output value, a
// request for input, or halt. Independent copies made with Clone share no
// mutable state and may be driven from different goroutines.
package vm
