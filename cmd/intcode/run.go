package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chazu/intcode/ascii"
	"github.com/chazu/intcode/vm"
)

const (
	inputKey = "input"
	asciiKey = "ascii"
	traceKey = "trace"
)

// runCommand handles `intcode run`.
// Usage:
//
//	intcode run prog.txt --input 1       # feed 1, print outputs
//	intcode run prog.txt --ascii         # stdin/stdout terminal
func runCommand(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "run [program]",
		Short: "Run a program, feeding inputs and printing outputs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return a.run(c, args)
		},
	}
	flags := c.Flags()
	flags.Int64SliceP(inputKey, "i", nil, "Input values, consumed in order (repeatable)")
	flags.Bool(asciiKey, false, "Connect the program to stdin/stdout as an ASCII terminal")
	flags.Bool(traceKey, false, "Log every executed instruction at debug level")
	return c
}

func (a *app) run(c *cobra.Command, args []string) error {
	flags := c.Flags()
	inputs, err := flags.GetInt64Slice(inputKey)
	if err != nil {
		return err
	}
	asciiMode, err := flags.GetBool(asciiKey)
	if err != nil {
		return err
	}
	trace, err := flags.GetBool(traceKey)
	if err != nil {
		return err
	}

	prog, err := a.program(args)
	if err != nil {
		return err
	}
	opts := a.machineOptions()
	if trace {
		opts = append(opts, vm.WithTrace(func(pc int64, in vm.Instruction) {
			a.log.Debugf("%04d  %s (%d)", pc, in, in.Raw)
		}))
	}
	m := vm.Load(prog, opts...)
	out := c.OutOrStdout()

	if asciiMode {
		if len(inputs) > 0 {
			return fmt.Errorf("--%s and --%s are mutually exclusive", inputKey, asciiKey)
		}
		if term.IsTerminal(int(os.Stdin.Fd())) {
			a.log.Info("reading program input from the terminal; end with Ctrl-D")
		}
		results, err := ascii.New(m, c.InOrStdin(), out).Run()
		for _, v := range results {
			fmt.Fprintln(out, v)
		}
		return err
	}

	outputs, err := vm.Run(m, inputs...)
	for _, v := range outputs {
		fmt.Fprintln(out, v)
	}
	return err
}

// disasmCommand handles `intcode disasm`.
func disasmCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "disasm [program]",
		Short: "Print a linear disassembly of a program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			prog, err := a.program(args)
			if err != nil {
				return err
			}
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			fmt.Fprint(c.OutOrStdout(), vm.DisassembleWithName(prog, name))
			return nil
		},
	}
}
