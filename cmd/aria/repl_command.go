package main

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"aria/internal/command"
)

func newReplCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive command prompt",
		Long: `Read playback commands from stdin and execute them one per line.
Parse and execution failures are printed and the prompt continues; use
"exit" or an EOF to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			exec, cleanup, err := ctx.openExecutor()
			if err != nil {
				return err
			}
			defer cleanup()

			out := cobraCmd.OutOrStdout()
			errOut := cobraCmd.ErrOrStderr()
			scanner := bufio.NewScanner(cobraCmd.InOrStdin())

			for {
				fmt.Fprint(out, "aria> ")
				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}
				line := scanner.Text()
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					return nil
				}

				parsed, err := command.Parse(line)
				if err != nil {
					var parseErr *command.ParseError
					if errors.As(err, &parseErr) {
						fmt.Fprintln(errOut, parseErr.Msg)
					} else {
						fmt.Fprintln(errOut, err)
					}
					continue
				}

				res, err := exec.Execute(parsed)
				if err != nil {
					fmt.Fprintln(errOut, err)
					continue
				}
				if err := writeResult(cobraCmd, res, jsonFlag); err != nil {
					return err
				}
			}
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit results as JSON")
	return cmd
}
