package cli

import (
	"github.com/spf13/cobra"

	"ziproto/config"
)

// HomeDir is the --home flag with ~ expanded.
func HomeDir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString(FlagHome)
	if err != nil {
		panic(err)
	}
	return config.ExpandHomePath(dir)
}

func InitHomeDir(cmd *cobra.Command) (string, error) {
	dir := HomeDir(cmd)
	return dir, config.InitHomeDir(dir)
}
