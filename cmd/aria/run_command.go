package main

import (
	"strings"

	"github.com/spf13/cobra"

	"aria/internal/command"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "run <command>",
		Short: "Execute one playback command",
		Long: `Execute one playback command and print the result.

Examples:
  aria run 'search "kashmir"'
  aria run 'play "kashmir" volume 70'
  aria run 'mode shuffle'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			input := strings.Join(args, " ")
			parsed, err := command.Parse(input)
			if err != nil {
				return err
			}

			exec, cleanup, err := ctx.openExecutor()
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := exec.Execute(parsed)
			if err != nil {
				return err
			}
			return writeResult(cobraCmd, res, jsonFlag)
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit the result as JSON")
	return cmd
}
