package cmd

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"ziproto/tagmap"
)

const flagKnown = "known"

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Prints the tag table.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		known, _ := cmd.Flags().GetBool(flagKnown)
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{
			"Tag",
			"Family",
			"Kind",
			"Layout",
			"Width",
			"Inline",
		})
		for _, e := range tagmap.Table() {
			if known && !e.Known() {
				continue
			}
			table.Append(entryRow(e))
		}
		table.Render()
		return nil
	},
}

func entryRow(e tagmap.Entry) []string {
	row := []string{fmt.Sprintf("0x%02x", e.Tag), e.Family, "", e.Layout.String(), "", ""}
	if !e.Known() {
		return row
	}
	row[2] = e.Kind.String()
	if e.Width > 0 {
		row[4] = strconv.Itoa(e.Width)
	}
	if e.Layout == tagmap.LayoutInline {
		if e.Family == "negative fixint" {
			row[5] = strconv.FormatInt(e.InlineInt(), 10)
		} else {
			row[5] = strconv.FormatUint(e.Inline, 10)
		}
	}
	return row
}

func init() {
	tagsCmd.Flags().Bool(flagKnown, false, "Only print assigned tags.")
	rootCmd.AddCommand(tagsCmd)
}
