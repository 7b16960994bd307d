// intcode CLI - runs intcode programs and the client protocols built on them
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/intcode/manifest"
	"github.com/chazu/intcode/vm"
)

const (
	configKey    = "config"
	programKey   = "program"
	verbosityKey = "verbosity"
	logFileKey   = "log-file"
	strictKey    = "strict"
	metricsKey   = "metrics"
)

// app carries state shared by every subcommand. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	manifest    *manifest.Manifest
	programPath string // resolved program path, empty if none configured
	log         commonlog.Logger
	registry    *prometheus.Registry
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{registry: prometheus.NewRegistry()}

	root := &cobra.Command{
		Use:           "intcode",
		Short:         "Run intcode programs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			return a.setup(c)
		},
		PersistentPostRunE: func(c *cobra.Command, args []string) error {
			return a.dumpMetrics(c)
		},
	}

	flags := root.PersistentFlags()
	flags.String(configKey, "", "Path to a manifest (default: nearest intcode.toml)")
	flags.StringP(programKey, "p", "", "Program file (overrides [program] path)")
	flags.IntP(verbosityKey, "v", 0, "Log verbosity: 0 warnings, 1 info, 2 debug")
	flags.String(logFileKey, "", "Write logs to this file instead of stderr")
	flags.Bool(strictKey, false, "Treat unknown opcodes and modes as errors instead of halting")
	flags.Bool(metricsKey, false, "Print collected metrics to stderr on exit")

	root.AddCommand(
		runCommand(a),
		disasmCommand(a),
		ampCommand(a),
		netCommand(a),
		searchCommand(a),
	)
	return root
}

func (a *app) setup(c *cobra.Command) error {
	flags := c.Flags()

	configPath, err := flags.GetString(configKey)
	if err != nil {
		return err
	}
	var m *manifest.Manifest
	if configPath != "" {
		m, err = manifest.LoadFile(configPath)
	} else {
		m, err = manifest.FindAndLoad(".")
	}
	if err != nil {
		return fmt.Errorf("loading manifest: %w", err)
	}
	if m == nil {
		m = manifest.Default()
	}

	if flags.Changed(verbosityKey) {
		if m.Log.Verbosity, err = flags.GetInt(verbosityKey); err != nil {
			return err
		}
	}
	if flags.Changed(strictKey) {
		if m.Program.Strict, err = flags.GetBool(strictKey); err != nil {
			return err
		}
	}

	// Paths given on the command line are relative to the working
	// directory; paths from the manifest are relative to the manifest.
	logFile := m.LogFilePath()
	if flags.Changed(logFileKey) {
		if logFile, err = flags.GetString(logFileKey); err != nil {
			return err
		}
	}
	a.programPath = m.ProgramPath()
	if flags.Changed(programKey) {
		if a.programPath, err = flags.GetString(programKey); err != nil {
			return err
		}
	}

	var logPath *string
	if logFile != "" {
		logPath = &logFile
	}
	commonlog.Configure(m.Log.Verbosity, logPath)

	a.manifest = m
	a.log = commonlog.GetLogger("intcode")
	if m.Dir != "" {
		a.log.Debugf("using manifest in %s", m.Dir)
	}
	return nil
}

// program loads the program named by args[0], --program or the manifest,
// in that order.
func (a *app) program(args []string) (vm.Program, error) {
	path := a.programPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return nil, fmt.Errorf("no program given: pass a file, use --%s, or set [program] path in %s", programKey, manifest.FileName)
	}
	prog, err := vm.ReadProgramFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	a.log.Debugf("loaded %s (%d cells)", path, len(prog))
	return prog, nil
}

// machineOptions translates manifest settings into vm options.
func (a *app) machineOptions() []vm.Option {
	var opts []vm.Option
	if a.manifest.Program.Strict {
		opts = append(opts, vm.WithStrictDecode())
	}
	return opts
}
