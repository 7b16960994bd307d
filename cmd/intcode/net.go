package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/intcode/nic"
)

const (
	natKey       = "nat"
	sizeKey      = "size"
	traceFileKey = "trace-file"
)

// netCommand handles `intcode net`. Without --nat it prints the Y value of
// the first packet sent to the NAT; with --nat it runs the NAT until it
// delivers the same Y twice in a row.
func netCommand(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "net [program]",
		Short: "Boot a packet network of machines running the same program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return a.net(c, args)
		},
	}
	flags := c.Flags()
	flags.Bool(natKey, false, "Run the NAT and report the first Y it delivers twice in a row")
	flags.Int(sizeKey, 0, "Number of nodes (overrides [network] size)")
	flags.String(traceFileKey, "", "Write a CBOR packet trace to this file (overrides [network] trace)")
	return c
}

func (a *app) net(c *cobra.Command, args []string) error {
	flags := c.Flags()
	runNAT, err := flags.GetBool(natKey)
	if err != nil {
		return err
	}

	settings := a.manifest.Network
	cfg := nic.DefaultConfig()
	cfg.Size = settings.Size
	if settings.NATAddress != nil {
		cfg.NATAddress = *settings.NATAddress
	}
	if settings.IdleInput != nil {
		cfg.IdleInput = *settings.IdleInput
	}
	if flags.Changed(sizeKey) {
		if cfg.Size, err = flags.GetInt(sizeKey); err != nil {
			return err
		}
	}
	cfg.Logger = a.log
	if cfg.Metrics, err = nic.NewMetrics(a.registry); err != nil {
		return err
	}

	tracePath := a.manifest.TracePath()
	if flags.Changed(traceFileKey) {
		if tracePath, err = flags.GetString(traceFileKey); err != nil {
			return err
		}
	}
	if tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			return err
		}
		defer f.Close()
		cfg.Trace = nic.NewTrace(f)
		a.log.Infof("tracing session %s to %s", cfg.Trace.Session(), tracePath)
	}

	prog, err := a.program(args)
	if err != nil {
		return err
	}
	network, err := nic.Boot(prog, cfg, a.machineOptions()...)
	if err != nil {
		return err
	}

	out := c.OutOrStdout()
	if runNAT {
		y, err := network.RunNAT(c.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, y)
	} else {
		p, err := network.FirstNATPacket(c.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, p.Y)
	}
	a.log.Infof("finished after %d rounds", network.Rounds())
	if cfg.Trace != nil {
		a.log.Infof("wrote %d trace records", cfg.Trace.Count())
	}
	return nil
}
