// Package manifest handles intcode.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest file looked up by Load and FindAndLoad.
const FileName = "intcode.toml"

// Manifest represents an intcode.toml project configuration.
type Manifest struct {
	Program   Program   `toml:"program"`
	Log       Log       `toml:"log"`
	Network   Network   `toml:"network"`
	Amplifier Amplifier `toml:"amplifier"`
	Search    Search    `toml:"search"`

	// Dir is the directory containing the intcode.toml file (set at load time).
	Dir string `toml:"-"`
}

// Program locates the program text.
type Program struct {
	Path   string `toml:"path"`
	Strict bool   `toml:"strict"`
}

// Log configures commonlog.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Network configures the packet network simulation.
type Network struct {
	Size       int    `toml:"size"`
	NATAddress *int64 `toml:"nat-address"`
	IdleInput  *int64 `toml:"idle-input"`
	Trace      string `toml:"trace"`
}

// Amplifier configures amplifier chain phase sets.
type Amplifier struct {
	Phases         []int64 `toml:"phases"`
	FeedbackPhases []int64 `toml:"feedback-phases"`
}

// Search configures the noun/verb search.
type Search struct {
	Target        int64  `toml:"target"`
	Max           *int64 `toml:"max"`
	NounAddress   *int64 `toml:"noun-address"`
	VerbAddress   *int64 `toml:"verb-address"`
	ResultAddress *int64 `toml:"result-address"`
}

// Default returns the manifest used when no intcode.toml exists.
func Default() *Manifest {
	m := &Manifest{}
	m.applyDefaults()
	return m
}

// Load parses the intcode.toml file in the given directory.
func Load(dir string) (*Manifest, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile parses a manifest at an explicit path. Relative paths inside it
// resolve against the file's directory.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	m.applyDefaults()
	return &m, nil
}

// FindAndLoad walks up from startDir to find an intcode.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

func (m *Manifest) applyDefaults() {
	if m.Network.Size == 0 {
		m.Network.Size = 50
	}
	if m.Network.NATAddress == nil {
		m.Network.NATAddress = int64Ptr(255)
	}
	if m.Network.IdleInput == nil {
		m.Network.IdleInput = int64Ptr(-1)
	}
	if len(m.Amplifier.Phases) == 0 {
		m.Amplifier.Phases = []int64{0, 1, 2, 3, 4}
	}
	if len(m.Amplifier.FeedbackPhases) == 0 {
		m.Amplifier.FeedbackPhases = []int64{5, 6, 7, 8, 9}
	}
	if m.Search.Max == nil {
		m.Search.Max = int64Ptr(99)
	}
	if m.Search.NounAddress == nil {
		m.Search.NounAddress = int64Ptr(1)
	}
	if m.Search.VerbAddress == nil {
		m.Search.VerbAddress = int64Ptr(2)
	}
	if m.Search.ResultAddress == nil {
		m.Search.ResultAddress = int64Ptr(0)
	}
}

func int64Ptr(v int64) *int64 { return &v }

// ProgramPath returns the program path resolved against the manifest
// directory. Empty if no program is configured.
func (m *Manifest) ProgramPath() string {
	if m.Program.Path == "" {
		return ""
	}
	return m.resolve(m.Program.Path)
}

// TracePath returns the network trace path resolved against the manifest
// directory. Empty if tracing is off.
func (m *Manifest) TracePath() string {
	if m.Network.Trace == "" {
		return ""
	}
	return m.resolve(m.Network.Trace)
}

// LogFilePath returns the log file path resolved against the manifest
// directory. Empty means stderr.
func (m *Manifest) LogFilePath() string {
	if m.Log.File == "" {
		return ""
	}
	return m.resolve(m.Log.File)
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) || m.Dir == "" {
		return p
	}
	return filepath.Join(m.Dir, p)
}
