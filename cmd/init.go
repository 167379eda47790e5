package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/rxtrend/internal/config"
	"github.com/spf13/cobra"
)

var initInput string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file with the default column renames",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := cfgpkg.Path(cfgFile)
		if err != nil {
			return err
		}
		// Refuse to overwrite an existing config.
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists at %s", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat config: %w", err)
		}
		c := cfgpkg.Default()
		c.Input = initInput
		if err := cfgpkg.Save(c, path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Config initialized: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initInput, "input", "i", "", "default input dataset for analyze")
}
