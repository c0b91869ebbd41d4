package config

import (
	"io"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"ziproto/codec"
	"ziproto/compress"
	"ziproto/log"
	"ziproto/store"
)

type Config struct {
	LogLevel    string            `mapstructure:"log_level"`
	Limits      LimitsConfig      `mapstructure:"limits"`
	Compression CompressionConfig `mapstructure:"compression"`
	Store       StoreConfig       `mapstructure:"store"`
}

type LimitsConfig struct {
	MaxDepth   int `mapstructure:"max_depth"`
	MaxPayload int `mapstructure:"max_payload"`
}

type CompressionConfig struct {
	Algorithm string `mapstructure:"algorithm"`
	Level     int    `mapstructure:"level"`
}

type StoreConfig struct {
	Path       string `mapstructure:"path"`
	CacheSize  int    `mapstructure:"cache_size"`
	CacheTTLMS int    `mapstructure:"cache_ttl_ms"`
}

func ReadConfig(r io.Reader) (*Config, error) {
	config := &Config{}
	decoder := toml.NewDecoder(r)
	decoder.SetTagName("mapstructure")
	if err := decoder.Decode(config); err != nil {
		return nil, err
	}
	config.fillDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// fillDefaults sets the string fields a partial file left empty. Zero limits
// already select the codec defaults.
func (c *Config) fillDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultConfig.LogLevel
	}
	if c.Compression.Algorithm == "" {
		c.Compression.Algorithm = DefaultConfig.Compression.Algorithm
	}
	if c.Store.Path == "" {
		c.Store.Path = DefaultConfig.Store.Path
	}
}

// Validate checks the fields that are parsed into typed values later on.
func (c *Config) Validate() error {
	if _, err := log.NewLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "invalid log_level")
	}
	if _, err := compress.ParseAlgorithm(c.Compression.Algorithm); err != nil {
		return errors.Wrap(err, "invalid compression algorithm")
	}
	if c.Limits.MaxDepth < 0 || c.Limits.MaxPayload < 0 {
		return errors.New("limits must not be negative")
	}
	return nil
}

func (c *Config) CodecLimits() codec.Limits {
	return codec.Limits{
		MaxDepth:   c.Limits.MaxDepth,
		MaxPayload: c.Limits.MaxPayload,
	}
}

func (c *Config) StoreOptions() (store.Options, error) {
	alg, err := compress.ParseAlgorithm(c.Compression.Algorithm)
	if err != nil {
		return store.Options{}, err
	}
	opts := store.DefaultOptions()
	opts.Compression = alg
	opts.CompressionLevel = c.Compression.Level
	opts.Limits = c.CodecLimits()
	opts.CacheSize = c.Store.CacheSize
	opts.CacheTTL = ConvertDuration(c.Store.CacheTTLMS, time.Millisecond)
	return opts, nil
}

func ConvertDuration(base int, unit time.Duration) time.Duration {
	return time.Duration(base) * unit
}
