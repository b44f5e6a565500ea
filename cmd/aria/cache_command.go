package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the name cache",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List cached name-to-identifier entries",
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			exec, cleanup, err := ctx.openExecutor()
			if err != nil {
				return err
			}
			defer cleanup()

			entries := exec.Cache().Entries()
			if !stdoutIsTerminal() {
				return writeJSON(cobraCmd, entries)
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{entry.Kind, entry.Name, entry.Identifier})
			}
			fmt.Fprintln(cobraCmd.OutOrStdout(), renderTable([]string{"Kind", "Name", "Identifier"}, rows))
			return nil
		},
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache size and location",
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			exec, cleanup, err := ctx.openExecutor()
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Fprintf(cobraCmd.OutOrStdout(), "entries: %d\nmax entries: %d\npath: %s\n",
				exec.Cache().Len(), cfg.Cache.MaxEntries, cfg.Cache.Path)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached entry",
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			exec, cleanup, err := ctx.openExecutor()
			if err != nil {
				return err
			}
			defer cleanup()

			exec.Cache().Clear()
			if err := exec.Cache().Save(); err != nil {
				return fmt.Errorf("persist cleared cache: %w", err)
			}
			fmt.Fprintln(cobraCmd.OutOrStdout(), "cache cleared")
			return nil
		},
	}

	cacheCmd.AddCommand(listCmd, statsCmd, clearCmd)
	return cacheCmd
}
