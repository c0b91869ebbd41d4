package store

import (
	"github.com/spf13/cobra"
)

var cmd = &cobra.Command{
	Use:   "store",
	Short: "Commands that read and write the local value store.",
}

func AddCmd(parent *cobra.Command) {
	parent.AddCommand(cmd)
}
