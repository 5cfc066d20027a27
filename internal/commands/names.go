package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newNamesCommand(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "names [raw name ...]",
		Short: "List canonical cardholders, or show how raw names normalize",
		Example: `  expenses names
  expenses names "M.. NICKLAS" "J. D. SMITH"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := g.cfg.NameTable()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, name := range table.Canonical() {
					fmt.Fprintln(out, name)
				}
				return nil
			}
			for _, raw := range args {
				fmt.Fprintf(out, "%s\t%s\n", raw, table.Normalize(raw))
			}
			return nil
		},
	}
	return cmd
}
