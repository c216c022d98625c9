package main

import (
	"fmt"

	"github.com/hearlab/qscore/internal/instrument"
	"github.com/spf13/cobra"
)

func newInstrumentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "instruments",
		Short: "List built-in instrument definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := instrument.List()
			if err != nil {
				return err
			}
			for _, name := range names {
				def, err := instrument.LoadBuiltin(name)
				if err != nil {
					return exitError(4, "invalid built-in instrument %q: %v", name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", name, def.Description)
			}
			return nil
		},
	}
}
