package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"ziproto/config"
	"ziproto/log"
)

// LoadConfig reads the home directory's config file, falling back to the
// defaults when the home directory was never initialized, and then applies
// any persistent flags the user set explicitly.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	homeDir := HomeDir(cmd)
	exists, err := config.HomeDirExists(homeDir)
	if err != nil {
		return nil, err
	}
	cfg := config.DefaultConfig
	if exists {
		read, err := config.ReadConfigFile(homeDir)
		if err != nil {
			return nil, err
		}
		cfg = *read
	}

	flags := cmd.Flags()
	if flags.Changed(FlagLogLevel) {
		cfg.LogLevel, _ = flags.GetString(FlagLogLevel)
	}
	if flags.Changed(FlagMaxDepth) {
		cfg.Limits.MaxDepth, _ = flags.GetInt(FlagMaxDepth)
	}
	if flags.Changed(FlagMaxPayload) {
		cfg.Limits.MaxPayload, _ = flags.GetInt(FlagMaxPayload)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid flags")
	}
	return &cfg, nil
}

func ApplyLogLevel(cfg *config.Config) error {
	lvl, err := log.NewLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	return nil
}
