package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadManifest(t *testing.T) {
	// Create a temporary directory with an intcode.toml
	dir := t.TempDir()
	tomlContent := `
[program]
path = "inputs/day23.txt"
strict = true

[log]
verbosity = 2
file = "intcode.log"

[network]
size = 10
nat-address = 100
idle-input = 0
trace = "/tmp/packets.cbor"

[amplifier]
phases = [0, 1]

[search]
target = 19690720
max = 50
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !m.Program.Strict {
		t.Error("program strict = false, want true")
	}
	if got, want := m.ProgramPath(), filepath.Join(m.Dir, "inputs", "day23.txt"); got != want {
		t.Errorf("program path = %q, want %q", got, want)
	}
	if m.Log.Verbosity != 2 {
		t.Errorf("log verbosity = %d, want 2", m.Log.Verbosity)
	}
	if got, want := m.LogFilePath(), filepath.Join(m.Dir, "intcode.log"); got != want {
		t.Errorf("log file = %q, want %q", got, want)
	}
	if m.Network.Size != 10 || *m.Network.NATAddress != 100 {
		t.Errorf("network = %+v, want size 10 NAT 100", m.Network)
	}
	if m.Network.IdleInput == nil || *m.Network.IdleInput != 0 {
		t.Errorf("idle input = %v, want explicit 0", m.Network.IdleInput)
	}
	if m.TracePath() != "/tmp/packets.cbor" {
		t.Errorf("trace path = %q, want absolute path unchanged", m.TracePath())
	}
	if len(m.Amplifier.Phases) != 2 {
		t.Errorf("phases = %v, want [0 1]", m.Amplifier.Phases)
	}
	if len(m.Amplifier.FeedbackPhases) != 5 || m.Amplifier.FeedbackPhases[0] != 5 {
		t.Errorf("feedback phases = %v, want default 5..9", m.Amplifier.FeedbackPhases)
	}
	if m.Search.Target != 19690720 || *m.Search.Max != 50 {
		t.Errorf("search = target %d max %d", m.Search.Target, *m.Search.Max)
	}
	if *m.Search.NounAddress != 1 || *m.Search.VerbAddress != 2 || *m.Search.ResultAddress != 0 {
		t.Error("search addresses should default to 1, 2, 0")
	}
}

func TestDefaults(t *testing.T) {
	m := Default()

	if m.Network.Size != 50 {
		t.Errorf("network size = %d, want 50", m.Network.Size)
	}
	if *m.Network.NATAddress != 255 {
		t.Errorf("NAT address = %d, want 255", *m.Network.NATAddress)
	}
	if *m.Network.IdleInput != -1 {
		t.Errorf("idle input = %d, want -1", *m.Network.IdleInput)
	}
	if *m.Search.Max != 99 {
		t.Errorf("search max = %d, want 99", *m.Search.Max)
	}
	if m.ProgramPath() != "" || m.TracePath() != "" || m.LogFilePath() != "" {
		t.Error("paths should be empty by default")
	}
}

func TestLoadManifest_ExplicitZeroNATAddress(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("[network]\nnat-address = 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Network.NATAddress == nil || *m.Network.NATAddress != 0 {
		t.Errorf("NAT address = %v, want explicit 0", m.Network.NATAddress)
	}
}

func TestLoadFile_OtherName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "day07.toml")
	if err := os.WriteFile(path, []byte("[program]\npath = \"day07.txt\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if got, want := m.ProgramPath(), filepath.Join(m.Dir, "day07.txt"); got != want {
		t.Errorf("program path = %q, want %q", got, want)
	}
}

func TestLoadManifest_ParseError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("[network\nsize = ="), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("[network]\nsize = 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m == nil {
		t.Fatal("expected manifest, got nil")
	}
	if m.Network.Size != 3 {
		t.Errorf("network size = %d, want 3", m.Network.Size)
	}

	resolvedRoot, _ := filepath.Abs(root)
	if m.Dir != resolvedRoot {
		t.Errorf("dir = %q, want %q", m.Dir, resolvedRoot)
	}
}

func TestFindAndLoadNotFound(t *testing.T) {
	m, err := FindAndLoad(t.TempDir())
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m != nil {
		t.Error("expected nil manifest when no intcode.toml exists")
	}
}
