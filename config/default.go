package config

import (
	"bytes"
	"io"
	"os"
	"path"
	"text/template"

	"github.com/pkg/errors"

	"ziproto/codec"
	"ziproto/compress"
	"ziproto/log"
)

const ConfigFilename = "config.toml"

var DefaultConfig = Config{
	LogLevel: log.LevelInfo.String(),
	Limits: LimitsConfig{
		MaxDepth:   codec.DefaultMaxDepth,
		MaxPayload: codec.DefaultMaxPayload,
	},
	Compression: CompressionConfig{
		Algorithm: compress.Snappy.String(),
		Level:     0,
	},
	Store: StoreConfig{
		Path:       StorePath,
		CacheSize:  1024,
		CacheTTLMS: 60000,
	},
}

var defaultConfigTemplateText = `
# Sets the log level. Must be one of trace, debug, info, warn, error, fatal.
log_level = "{{.LogLevel}}"

# Bounds applied when decoding untrusted input.
[limits]
  # Deepest container nesting accepted. A top-level array or map is at depth 1.
  max_depth = {{.Limits.MaxDepth}}
  # Cap on the summed string, binary and container lengths of one value.
  max_payload = {{.Limits.MaxPayload}}

# Configures how encoded values are compressed.
[compression]
  # One of none, snappy, lz4, zstd.
  algorithm = "{{.Compression.Algorithm}}"
  # Encoder level for zstd, from 1 (fastest) to 4 (best). 0 picks the default.
  level = {{.Compression.Level}}

# Configures the value store.
[store]
  # Database directory. Relative paths are resolved against the home directory.
  path = "{{.Store.Path}}"
  # Number of decoded values kept in memory. 0 disables the cache.
  cache_size = {{.Store.CacheSize}}
  # How long a cached value stays valid.
  cache_ttl_ms = {{.Store.CacheTTLMS}}
`

var defaultConfigTemplate *template.Template

func GenerateDefaultConfigFile() []byte {
	buf := new(bytes.Buffer)
	if err := defaultConfigTemplate.Execute(buf, DefaultConfig); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func ReadConfigFile(homeDir string) (*Config, error) {
	f, err := os.OpenFile(path.Join(homeDir, ConfigFilename), os.O_RDONLY, 0755)
	if err != nil {
		return nil, errors.Wrap(err, "error opening config file for reading")
	}
	defer f.Close()
	cfg, err := ReadConfig(f)
	if err != nil {
		return nil, errors.Wrap(err, "error reading config file")
	}
	return cfg, nil
}

func WriteDefaultConfigFile(homeDir string) error {
	f, err := os.OpenFile(path.Join(homeDir, ConfigFilename), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return errors.Wrap(err, "error opening config file for writing")
	}
	defer f.Close()
	rd := bytes.NewReader(GenerateDefaultConfigFile())
	if _, err := io.Copy(f, rd); err != nil {
		return errors.Wrap(err, "error writing config file")
	}
	return nil
}

func init() {
	tmpl := template.New("defaultConfig")
	t, err := tmpl.Parse(defaultConfigTemplateText)
	if err != nil {
		panic(err)
	}
	defaultConfigTemplate = t
}
