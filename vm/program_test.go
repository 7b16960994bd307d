package vm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProgram(t *testing.T) {
	prog, err := ParseProgram(" 1, -2 ,3\n")
	require.NoError(t, err)
	assert.Equal(t, Program{1, -2, 3}, prog)
	assert.Equal(t, "1,-2,3", prog.String())
}

func TestParseProgram_ReportsPositionAndToken(t *testing.T) {
	tests := []struct {
		text     string
		position int
		token    string
	}{
		{"1,2,x,4", 3, "x"},
		{"1,2, 3a", 3, " 3a"},
		{"", 1, ""},
		{"1,,2", 2, ""},
		{"1,99999999999999999999", 2, "99999999999999999999"},
	}

	for _, tt := range tests {
		prog, err := ParseProgram(tt.text)
		assert.Nil(t, prog, tt.text)
		var perr *ParseError
		require.ErrorAs(t, err, &perr, tt.text)
		assert.Equal(t, tt.position, perr.Position, tt.text)
		assert.Equal(t, tt.token, perr.Token, tt.text)
	}
}

func TestReadProgramFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("104,7,99\n"), 0o644))

	prog, err := ReadProgramFile(path)
	require.NoError(t, err)
	out, err := Run(prog.Load())
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, out)

	_, err = ReadProgramFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestProgram_LoadDoesNotAlias(t *testing.T) {
	prog := Program{1101, 1, 1, 0, 99}
	m := prog.Load()
	_, err := Run(m)
	require.NoError(t, err)

	assert.Equal(t, int64(2), m.Read(0))
	assert.Equal(t, int64(1101), prog[0])
}
