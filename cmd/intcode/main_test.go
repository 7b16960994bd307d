package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI against a temp manifest and returns stdout and stderr.
func execute(t *testing.T, manifest string, args ...string) (string, string, error) {
	t.Helper()
	dir := t.TempDir()
	config := filepath.Join(dir, "intcode.toml")
	require.NoError(t, os.WriteFile(config, []byte(manifest), 0o644))

	root := newRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{"--config", config}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeProgram(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.txt")
	require.NoError(t, os.WriteFile(path, []byte(text+"\n"), 0o644))
	return path
}

func TestRun_PrintsOutputs(t *testing.T) {
	prog := writeProgram(t, "3,9,8,9,10,9,4,9,99,-1,8")

	out, _, err := execute(t, "", "run", prog, "--input", "8")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	out, _, err = execute(t, "", "run", prog, "-i", "7")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestRun_ProgramFromManifest(t *testing.T) {
	prog := writeProgram(t, "104,1125899906842624,99")

	out, _, err := execute(t, "[program]\npath = \""+filepath.ToSlash(prog)+"\"\n", "run")
	require.NoError(t, err)
	assert.Equal(t, "1125899906842624\n", out)
}

func TestRun_MissingInput(t *testing.T) {
	prog := writeProgram(t, "3,0,4,0,99")

	_, _, err := execute(t, "", "run", prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input")
}

func TestRun_NoProgram(t *testing.T) {
	_, _, err := execute(t, "", "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no program given")
}

func TestRun_StrictFlag(t *testing.T) {
	prog := writeProgram(t, "42,0,0,0")

	out, _, err := execute(t, "", "run", prog)
	require.NoError(t, err)
	assert.Empty(t, out)

	_, _, err = execute(t, "", "--strict", "run", prog)
	require.Error(t, err)
}

func TestDisasm(t *testing.T) {
	prog := writeProgram(t, "1002,4,3,4,33")

	out, _, err := execute(t, "", "disasm", prog)
	require.NoError(t, err)
	assert.Contains(t, out, "; 5 cells")
	assert.Contains(t, out, "0000  MUL")
}

func TestAmp(t *testing.T) {
	prog := writeProgram(t, "3,15,3,16,1002,16,10,16,1,16,15,15,4,15,99,0,0")

	out, _, err := execute(t, "", "amp", prog)
	require.NoError(t, err)
	assert.Equal(t, "43210\n", out)
}

func TestSearch(t *testing.T) {
	prog := writeProgram(t, "1,9,10,3,2,3,11,0,99,30,40,50")

	out, _, err := execute(t, "[search]\ntarget = 3500\nmax = 11\n", "search", prog)
	require.NoError(t, err)
	assert.Equal(t, "910\n", out)
}

func TestMetricsDump(t *testing.T) {
	prog := writeProgram(t, "104,7,99")

	_, stderr, err := execute(t, "", "--metrics", "run", prog)
	require.NoError(t, err)
	// run registers nothing, so the dump is empty
	assert.Empty(t, stderr)
}

// relay is a three-node network program: node 0 sends (1,10,20) on boot and
// every node increments X and forwards to the next address, the last one to
// the NAT.
const relay = "3,100,1005,100,15,104,1,104,10,104,20,1105,1,15,99," +
	"3,101,1008,101,-1,104,1005,104,15," +
	"3,102,1001,101,1,101," +
	"1008,100,2,104,1006,104,44," +
	"1101,0,255,103,1105,1,48," +
	"1001,100,1,103," +
	"4,103,4,101,4,102,1105,1,15"

func TestNet(t *testing.T) {
	prog := writeProgram(t, relay)

	out, _, err := execute(t, "[network]\nsize = 3\n", "net", prog)
	require.NoError(t, err)
	assert.Equal(t, "20\n", out)
}

func TestNet_NATWithMetricsAndTrace(t *testing.T) {
	prog := writeProgram(t, relay)
	trace := filepath.Join(t.TempDir(), "trace.cbor")

	out, stderr, err := execute(t, "", "--metrics", "net", prog, "--nat", "--size", "3", "--trace-file", trace)
	require.NoError(t, err)
	assert.Equal(t, "20\n", out)
	assert.Contains(t, stderr, "intcode_nic_nat_wakeups_total")

	info, err := os.Stat(trace)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestNet_NATAddressZeroCollides(t *testing.T) {
	prog := writeProgram(t, relay)

	_, _, err := execute(t, "[network]\nsize = 3\nnat-address = 0\n", "net", prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collides")
}
