package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aria/internal/simulator"
)

func newSeedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the fixture catalog into the backend database",
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			session, err := ctx.openSession()
			if err != nil {
				return err
			}
			defer session.Close()

			if err := simulator.Seed(cobraCmd.Context(), session.Store()); err != nil {
				return err
			}
			fmt.Fprintln(cobraCmd.OutOrStdout(), "catalog seeded")
			return nil
		},
	}
}
