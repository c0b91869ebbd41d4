package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ziproto/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints the version.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "ziproto %s\n", version.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
