package cmd

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"ziproto/cli"
	"ziproto/codec"
	"ziproto/value"
)

const maxPreview = 32

var inspectCmd = &cobra.Command{
	Use:   "inspect <hex?>",
	Short: "Prints a table of every header in the input.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := readEncoded(cmd, args)
		if err != nil {
			return err
		}
		limits := cli.ConfigFromContext(cmd.Context()).CodecLimits()

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{
			"Offset",
			"Tag",
			"Family",
			"Kind",
			"Length",
			"Depth",
			"Value",
		})
		var walkErr error
		for off := 0; off < len(b) && walkErr == nil; {
			base := off
			n, err := codec.Walk(b[off:], limits, func(tok codec.Token) error {
				table.Append(tokenRow(base, tok))
				return nil
			})
			if err != nil {
				walkErr = err
				break
			}
			off += n
		}
		table.Render()
		return walkErr
	},
}

func tokenRow(base int, tok codec.Token) []string {
	length := ""
	if k := tok.Kind(); k.IsContainer() || k == value.KindStr || k == value.KindBin {
		length = strconv.Itoa(tok.Length)
	}
	return []string{
		strconv.Itoa(base + tok.Offset),
		fmt.Sprintf("0x%02x", tok.Entry.Tag),
		tok.Entry.Family,
		tok.Kind().String(),
		length,
		strconv.Itoa(tok.Depth),
		tokenPreview(tok),
	}
}

func tokenPreview(tok codec.Token) string {
	switch tok.Kind() {
	case value.KindBool:
		return strconv.FormatBool(tok.Field != 0)
	case value.KindInt:
		return strconv.FormatInt(tok.Int(), 10)
	case value.KindUint:
		return strconv.FormatUint(tok.Field, 10)
	case value.KindFloat32:
		return strconv.FormatFloat(float64(math.Float32frombits(uint32(tok.Field))), 'g', -1, 32)
	case value.KindFloat64:
		return strconv.FormatFloat(math.Float64frombits(tok.Field), 'g', -1, 64)
	case value.KindStr:
		return strconv.Quote(preview(string(tok.Payload)))
	case value.KindBin:
		return "h'" + preview(hex.EncodeToString(tok.Payload)) + "'"
	default:
		return ""
	}
}

func preview(s string) string {
	if len(s) <= maxPreview {
		return s
	}
	return s[:maxPreview] + "..."
}

func init() {
	addEncodedInputFlags(inspectCmd)
	rootCmd.AddCommand(inspectCmd)
}
