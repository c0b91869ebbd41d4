package store

import (
	"fmt"

	"github.com/spf13/cobra"

	"ziproto/cli"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Deletes the value stored under a key.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := cli.OpenStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", args[0])
		return nil
	},
}

func init() {
	cmd.AddCommand(deleteCmd)
}
