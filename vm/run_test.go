package vm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_InputExhausted(t *testing.T) {
	m := mustLoad(t, "3,20,4,20,3,21,4,21,99")

	out, err := Run(m, 4)
	assert.ErrorIs(t, err, ErrInputExhausted)
	assert.Equal(t, []int64{4}, out)

	// The machine is still waiting at the second input.
	out, err = Run(m, 6)
	require.NoError(t, err)
	assert.Equal(t, []int64{6}, out)
}

func TestNextOutput(t *testing.T) {
	m := mustLoad(t, echo)

	v, ok, err := NextOutput(m, func() (int64, error) { return 42, nil })
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(42), v)

	_, ok, err = NextOutput(m, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNextOutput_NilSource(t *testing.T) {
	m := mustLoad(t, echo)

	_, ok, err := NextOutput(m, nil)
	assert.ErrorIs(t, err, ErrInputExhausted)
	assert.False(t, ok)

	// The request was not consumed; a real source resumes the machine.
	v, ok, err := NextOutput(m, func() (int64, error) { return 8, nil })
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(8), v)
}

func TestNextOutput_SourceError(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := NextOutput(mustLoad(t, echo), func() (int64, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
}
