package store

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"ziproto/cli"
	"ziproto/codec"
	"ziproto/value"
)

var listCmd = &cobra.Command{
	Use:   "list <prefix?>",
	Short: "Lists stored keys with the kind and encoded size of their values.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var prefix string
		if len(args) == 1 {
			prefix = args[0]
		}

		s, err := cli.OpenStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{
			"Key",
			"Kind",
			"Encoded Size",
		})
		err = s.Iterate(prefix, func(key string, v value.Value) error {
			n, err := codec.EncodedLen(v)
			if err != nil {
				return err
			}
			table.Append([]string{
				key,
				value.KindOf(v).String(),
				strconv.Itoa(n),
			})
			return nil
		})
		if err != nil {
			return err
		}
		table.Render()
		return nil
	},
}

func init() {
	cmd.AddCommand(listCmd)
}
