package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ziproto/cli"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initializes the home directory with a default config and an empty store.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := cli.InitHomeDir(cmd)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Successfully initialized ziproto in %s.\n", dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
