package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/intcode/amp"
	"github.com/chazu/intcode/vm"
)

const (
	feedbackKey = "feedback"
	phasesKey   = "phases"
)

// ampCommand handles `intcode amp`.
func ampCommand(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "amp [program]",
		Short: "Find the phase ordering that maximises an amplifier chain's signal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			flags := c.Flags()
			feedback, err := flags.GetBool(feedbackKey)
			if err != nil {
				return err
			}
			phases := a.manifest.Amplifier.Phases
			if feedback {
				phases = a.manifest.Amplifier.FeedbackPhases
			}
			if flags.Changed(phasesKey) {
				if phases, err = flags.GetInt64Slice(phasesKey); err != nil {
					return err
				}
			}

			prog, err := a.program(args)
			if err != nil {
				return err
			}
			a.log.Infof("trying every ordering of %v", phases)
			best, err := amp.MaxSignal(c.Context(), vm.Load(prog, a.machineOptions()...), phases)
			if err != nil {
				return err
			}
			a.log.Infof("best ordering %v", best.Phases)
			fmt.Fprintln(c.OutOrStdout(), best.Signal)
			return nil
		},
	}
	flags := c.Flags()
	flags.Bool(feedbackKey, false, "Use the feedback phase set ([amplifier] feedback-phases)")
	flags.Int64Slice(phasesKey, nil, "Phase set to permute (overrides the manifest)")
	return c
}
