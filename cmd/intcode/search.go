package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/intcode/search"
	"github.com/chazu/intcode/vm"
)

const (
	targetKey = "target"
	maxKey    = "max"
)

// searchCommand handles `intcode search`.
func searchCommand(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "search [program]",
		Short: "Find the noun and verb that make a program produce a target",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			settings := a.manifest.Search
			opts := search.Options{
				Max:           *settings.Max,
				NounAddress:   *settings.NounAddress,
				VerbAddress:   *settings.VerbAddress,
				ResultAddress: *settings.ResultAddress,
			}
			target := settings.Target

			flags := c.Flags()
			var err error
			if flags.Changed(targetKey) {
				if target, err = flags.GetInt64(targetKey); err != nil {
					return err
				}
			}
			if flags.Changed(maxKey) {
				if opts.Max, err = flags.GetInt64(maxKey); err != nil {
					return err
				}
			}

			prog, err := a.program(args)
			if err != nil {
				return err
			}
			answer, err := search.FindInputs(c.Context(), vm.Load(prog, a.machineOptions()...), target, opts)
			if err != nil {
				return err
			}
			a.log.Infof("noun=%d verb=%d", answer.Noun, answer.Verb)
			fmt.Fprintln(c.OutOrStdout(), answer.Code())
			return nil
		},
	}
	flags := c.Flags()
	flags.Int64(targetKey, 0, "Value the result register must hold (overrides [search] target)")
	flags.Int64(maxKey, 0, "Largest noun and verb to try (overrides [search] max)")
	return c
}
