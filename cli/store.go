package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"ziproto/config"
	"ziproto/store"
)

// OpenStore opens the value store configured for the home directory. The
// home directory must have been initialized.
func OpenStore(cmd *cobra.Command) (*store.Store, error) {
	homeDir := HomeDir(cmd)
	if err := config.EnsureHomeDir(homeDir); err != nil {
		return nil, err
	}
	cfg := ConfigFromContext(cmd.Context())
	opts, err := cfg.StoreOptions()
	if err != nil {
		return nil, err
	}
	s, err := store.Open(config.ExpandStorePath(homeDir, cfg.Store.Path), opts)
	if err != nil {
		return nil, errors.Wrap(err, "error opening store")
	}
	return s, nil
}
