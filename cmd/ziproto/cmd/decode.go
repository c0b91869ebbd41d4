package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"ziproto/cli"
	"ziproto/codec"
	"ziproto/compress"
	"ziproto/log"
	"ziproto/value"
)

const (
	flagCompressed = "compressed"
	flagAll        = "all"
)

var logger = log.WithModule("cli")

var decodeCmd = &cobra.Command{
	Use:   "decode <hex?>",
	Short: "Decodes an encoded value to JSON or YAML.",
	Long: `Decodes the value given as a hex argument, or read from --file or stdin.
File and stdin input is raw bytes unless --hex is set. With --all every value
in the input is decoded and written on its own line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := readEncoded(cmd, args)
		if err != nil {
			return err
		}
		limits := cli.ConfigFromContext(cmd.Context()).CodecLimits()
		out := cmd.OutOrStdout()

		if all, _ := cmd.Flags().GetBool(flagAll); all {
			vals, err := codec.DecodeAll(b, limits)
			if err != nil {
				return err
			}
			for _, v := range vals {
				if err := cli.WriteValue(cmd, out, v); err != nil {
					return err
				}
			}
			return nil
		}

		v, err := codec.UnmarshalWithLimits(b, limits)
		if err != nil {
			return err
		}
		return cli.WriteValue(cmd, out, v)
	},
}

// readEncoded returns the bytes to decode. An argument is always hex; file
// and stdin input is hex only with --hex. A compression frame is unwrapped
// when --compressed is set.
func readEncoded(cmd *cobra.Command, args []string) ([]byte, error) {
	b, err := cli.ReadInput(cmd, args)
	if err != nil {
		return nil, err
	}
	if asHex, _ := cmd.Flags().GetBool(cli.FlagHex); asHex || len(args) > 0 {
		if b, err = cli.DecodeHex(b); err != nil {
			return nil, err
		}
	}
	if compressed, _ := cmd.Flags().GetBool(flagCompressed); compressed {
		limits := cli.ConfigFromContext(cmd.Context()).CodecLimits()
		alg, size, err := compress.FrameInfo(b)
		if err != nil {
			return nil, err
		}
		logger.Debug("unwrapping compression frame", "algorithm", alg.String(), "size", size)
		if b, err = compress.Decompress(b, limits.MaxEncodedLen()); err != nil {
			return nil, errors.Wrap(err, "error decompressing input")
		}
	}
	return b, nil
}

func addEncodedInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(cli.FlagFile, "f", "", "Read input from this file.")
	cmd.Flags().Bool(cli.FlagHex, false, "File or stdin input is hex.")
	cmd.Flags().Bool(flagCompressed, false, "Input is a compression frame.")
}

func init() {
	addEncodedInputFlags(decodeCmd)
	cli.AddOutputFlags(decodeCmd)
	decodeCmd.Flags().Bool(flagAll, false, "Decode every value in the input.")
	rootCmd.AddCommand(decodeCmd)
}

var diagCmd = &cobra.Command{
	Use:   "diag <hex?>",
	Short: "Prints every value in the input in diagnostic notation.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := readEncoded(cmd, args)
		if err != nil {
			return err
		}
		limits := cli.ConfigFromContext(cmd.Context()).CodecLimits()
		out := cmd.OutOrStdout()
		s := codec.NewScanner(b, limits)
		for s.Scan() {
			if _, err := fmt.Fprintln(out, value.String(s.Value())); err != nil {
				return err
			}
		}
		return s.Err()
	},
}

func init() {
	addEncodedInputFlags(diagCmd)
	rootCmd.AddCommand(diagCmd)
}
