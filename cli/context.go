package cli

import (
	"context"

	"ziproto/config"
)

type configKey struct{}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// ConfigFromContext returns the configuration loaded by the root command, or
// a copy of the defaults when none was loaded.
func ConfigFromContext(ctx context.Context) *config.Config {
	if ctx != nil {
		if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
			return cfg
		}
	}
	cfg := config.DefaultConfig
	return &cfg
}
