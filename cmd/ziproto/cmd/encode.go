package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"ziproto/cli"
	"ziproto/codec"
	"ziproto/compress"
)

const flagCompress = "compress"

var encodeCmd = &cobra.Command{
	Use:   "encode <json?>",
	Short: "Encodes a JSON or YAML document.",
	Long: `Encodes a JSON document read from the argument, --file or stdin. Raw
bytes are written to stdout unless --hex is set or stdout is a terminal.`,
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
		encoded, err := codec.Encode(v)
		if err != nil {
			return err
		}

		if algName, _ := cmd.Flags().GetString(flagCompress); algName != "" {
			alg, err := compress.ParseAlgorithm(algName)
			if err != nil {
				return err
			}
			cfg := cli.ConfigFromContext(cmd.Context())
			encoded, err = compress.CompressLevel(encoded, alg, cfg.Compression.Level)
			if err != nil {
				return err
			}
		}
		return writeBytes(cmd, encoded)
	},
}

func writeBytes(cmd *cobra.Command, b []byte) error {
	out := cmd.OutOrStdout()
	asHex, _ := cmd.Flags().GetBool(cli.FlagHex)
	if !asHex && isTerminal(out) {
		logger.Debug("stdout is a terminal, writing hex")
		asHex = true
	}
	if asHex {
		_, err := fmt.Fprintln(out, hex.EncodeToString(b))
		return err
	}
	_, err := out.Write(b)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func init() {
	encodeCmd.Flags().StringP(cli.FlagFile, "f", "", "Read input from this file.")
	encodeCmd.Flags().Bool(cli.FlagHex, false, "Write the encoding as hex.")
	encodeCmd.Flags().Bool(cli.FlagYAML, false, "Read YAML instead of JSON.")
	encodeCmd.Flags().String(flagCompress, "", "Wrap the encoding in a compression frame (none, snappy, lz4, zstd).")
	rootCmd.AddCommand(encodeCmd)
}
