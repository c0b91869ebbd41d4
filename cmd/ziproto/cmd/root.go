package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"ziproto/cli"
	"ziproto/cmd/ziproto/cmd/store"
	"ziproto/codec"
	"ziproto/config"
	"ziproto/log"
)

var rootCmd = &cobra.Command{
	Use:           "ziproto",
	Short:         "Encode, decode and inspect ziproto values.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.SetOutput(cmd.ErrOrStderr())
		if cmd.CalledAs() == "init" {
			return nil
		}
		cfg, err := cli.LoadConfig(cmd)
		if err != nil {
			return errors.Wrap(err, "error loading config")
		}
		if err := cli.ApplyLogLevel(cfg); err != nil {
			return err
		}
		cmd.SetContext(cli.WithConfig(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String(cli.FlagHome, config.DefaultHomeDir, "Home directory for the config file and value store.")
	rootCmd.PersistentFlags().String(cli.FlagLogLevel, config.DefaultConfig.LogLevel, "Log level (trace, debug, info, warn, error, fatal).")
	rootCmd.PersistentFlags().Int(cli.FlagMaxDepth, codec.DefaultMaxDepth, "Deepest container nesting accepted when decoding.")
	rootCmd.PersistentFlags().Int(cli.FlagMaxPayload, codec.DefaultMaxPayload, "Cap on the declared lengths of one decoded value.")
	store.AddCmd(rootCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
