package store

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"ziproto/cli"
	"ziproto/value"
)

const flagPrefix = "prefix"

var importCmd = &cobra.Command{
	Use:   "import <json?>",
	Short: "Stores every member of a JSON or YAML object under its own key.",
	Long: `Stores every member of the top-level object under its key, optionally
prefixed with --prefix. Either all members are stored or none is.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := cli.ReadInput(cmd, args)
		if err != nil {
			return err
		}
		v, err := cli.ParseValue(cmd, input)
		if err != nil {
			return err
		}
		m, ok := v.(value.Map)
		if !ok {
			return errors.Errorf("expected an object, got %s", value.KindOf(v))
		}

		prefix, _ := cmd.Flags().GetString(flagPrefix)
		values := make(map[string]value.Value, len(m))
		for _, p := range m {
			key, ok := p.Key.(value.Str)
			if !ok {
				return errors.Errorf("key %s is not a string", value.String(p.Key))
			}
			values[prefix+string(key)] = p.Value
		}

		s, err := cli.OpenStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.PutMany(values); err != nil {
			return err
		}
		st := s.Stats()
		fmt.Fprintf(cmd.OutOrStdout(), "Stored %d values (%d bytes encoded, %d bytes stored).\n", st.Puts, st.BytesEncoded, st.BytesStored)
		return nil
	},
}

func init() {
	importCmd.Flags().StringP(cli.FlagFile, "f", "", "Read the document from this file.")
	importCmd.Flags().Bool(cli.FlagYAML, false, "Read YAML instead of JSON.")
	importCmd.Flags().String(flagPrefix, "", "Prefix added to every key.")
	cmd.AddCommand(importCmd)
}
