package store

import (
	"fmt"

	"github.com/spf13/cobra"

	"ziproto/cli"
)

var putCmd = &cobra.Command{
	Use:   "put <key> <json?>",
	Short: "Stores a JSON or YAML document under a key.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := cli.ReadInput(cmd, args[1:])
		if err != nil {
			return err
		}
		v, err := cli.ParseValue(cmd, input)
		if err != nil {
			return err
		}

		s, err := cli.OpenStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Put(args[0], v); err != nil {
			return err
		}
		st := s.Stats()
		fmt.Fprintf(cmd.OutOrStdout(), "Stored %s (%d bytes encoded, %d bytes stored).\n", args[0], st.BytesEncoded, st.BytesStored)
		return nil
	},
}

func init() {
	putCmd.Flags().StringP(cli.FlagFile, "f", "", "Read the document from this file.")
	putCmd.Flags().Bool(cli.FlagYAML, false, "Read YAML instead of JSON.")
	cmd.AddCommand(putCmd)
}
