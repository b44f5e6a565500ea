package main

import (
	"strings"

	"github.com/spf13/cobra"

	"aria/internal/command"
)

func newParseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <command>",
		Short: "Parse a command without executing it",
		Long:  "Parse a command and print its structure, for debugging the grammar.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			parsed, err := command.Parse(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return writeJSON(cobraCmd, parsed)
		},
	}
}
