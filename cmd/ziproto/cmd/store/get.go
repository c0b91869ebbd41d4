package store

import (
	"github.com/spf13/cobra"

	"ziproto/cli"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Prints the value stored under a key.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := cli.OpenStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		v, err := s.Get(args[0])
		if err != nil {
			return err
		}
		return cli.WriteValue(cmd, cmd.OutOrStdout(), v)
	},
}

func init() {
	cli.AddOutputFlags(getCmd)
	cmd.AddCommand(getCmd)
}
