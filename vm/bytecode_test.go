package vm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Modes(t *testing.T) {
	tests := []struct {
		raw   int64
		op    Opcode
		modes [MaxParams]Mode
	}{
		{1, OpAdd, [MaxParams]Mode{}},
		{1002, OpMultiply, [MaxParams]Mode{ModePosition, ModeImmediate, ModePosition}},
		{1101, OpAdd, [MaxParams]Mode{ModeImmediate, ModeImmediate, ModePosition}},
		{21107, OpLessThan, [MaxParams]Mode{ModeImmediate, ModeImmediate, ModeRelative}},
		{204, OpOutput, [MaxParams]Mode{ModeRelative}},
		{109, OpAdjustRelativeBase, [MaxParams]Mode{ModeImmediate}},
		{99, OpHalt, [MaxParams]Mode{}},
	}

	for _, tt := range tests {
		in := Decode(tt.raw)
		assert.Equal(t, tt.op, in.Op, "raw %d", tt.raw)
		assert.Equal(t, tt.modes, in.Modes, "raw %d", tt.raw)
		assert.Equal(t, tt.raw, in.Raw)
		assert.False(t, in.Fallback(), "raw %d", tt.raw)
	}
}

func TestDecode_UnknownFallsBackToHalt(t *testing.T) {
	for _, raw := range []int64{0, 10, 42, 98, 1150, -1, -99} {
		in := Decode(raw)
		assert.Equal(t, OpHalt, in.Op, "raw %d", raw)
		assert.True(t, in.Fallback(), "raw %d", raw)
	}
}

func TestDecodeStrict(t *testing.T) {
	_, err := DecodeStrict(1101)
	require.NoError(t, err)

	// Unused parameters may carry any digit.
	_, err = DecodeStrict(90099)
	require.NoError(t, err)

	_, err = DecodeStrict(42)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, ErrUnknownOpcode)
	assert.Equal(t, -1, verr.Param)

	_, err = DecodeStrict(301)
	require.ErrorAs(t, err, &verr)
	assert.True(t, errors.Is(err, ErrUnknownMode))
	assert.Equal(t, 0, verr.Param)
}

func TestOpcodeMetadata(t *testing.T) {
	arity := map[Opcode]int{
		OpAdd: 3, OpMultiply: 3, OpLessThan: 3, OpEquals: 3,
		OpJumpIfTrue: 2, OpJumpIfFalse: 2,
		OpInput: 1, OpOutput: 1, OpAdjustRelativeBase: 1,
		OpHalt: 0,
	}
	for op := range arity {
		assert.True(t, op.Known(), op.String())
		assert.Equal(t, arity[op], GetOpcodeInfo(op).Params, op.String())
		assert.Equal(t, int64(arity[op]+1), op.InstructionLen(), op.String())
	}
	assert.Equal(t, "UNKNOWN(42)", Opcode(42).String())
	assert.True(t, OpJumpIfFalse.IsJump())
	assert.False(t, OpAdd.IsJump())
}

func TestInstruction_String(t *testing.T) {
	assert.Equal(t, "ADD(immediate,position,relative)", Decode(20101).String())
	assert.Equal(t, "HALT", Decode(99).String())
}
