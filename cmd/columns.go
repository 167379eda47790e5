package cmd

import (
	"fmt"

	"github.com/KaramelBytes/rxtrend/internal/dataset"
	"github.com/KaramelBytes/rxtrend/internal/render"
	"github.com/spf13/cobra"
)

var colLoad loadFlags

var columnsCmd = &cobra.Command{
	Use:   "columns <file>",
	Short: "List the columns of a dataset with their kind and display label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := *currentConfig()
		colLoad.apply(cmd.Flags(), &c)
		opt, err := colLoad.options(&c)
		if err != nil {
			return err
		}
		t, err := dataset.Load(args[0], opt)
		if err != nil {
			return err
		}
		if t.Width() == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "(no columns)")
			return nil
		}
		render.Columns(cmd.OutOrStdout(), t, c.RenameMap())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
	colLoad.register(columnsCmd.Flags())
}
