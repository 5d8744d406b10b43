// Package config loads the ambient tunables for a payproc run: shard
// count, per-shard queue capacity, and log level. It follows the
// teacher's internal/config loader shape (viper + mapstructure tags,
// XRPLD_ env prefix) scaled down to this core's much smaller surface.
package config

import (
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Config is the complete payproc configuration.
type Config struct {
	NumShards     int    `mapstructure:"num_shards"`
	QueueCapacity int    `mapstructure:"queue_capacity"`
	LogLevel      string `mapstructure:"log_level"`
}

// Default returns the configuration applied when no file or flag
// overrides anything: one shard per logical CPU, the spec's default
// queue capacity, and info-level logging.
func Default() Config {
	return Config{
		NumShards:     runtime.NumCPU(),
		QueueCapacity: 1024,
		LogLevel:      "info",
	}
}

// Load reads configuration from, in priority order: built-in defaults,
// an optional file at path (if non-empty), then PAYPROC_-prefixed
// environment variables — the same precedence order as the teacher's
// LoadConfig, minus the teacher's validators/genesis/network layers
// which have no analogue in this core.
func Load(path string) (Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("num_shards", defaults.NumShards)
	v.SetDefault("queue_capacity", defaults.QueueCapacity)
	v.SetDefault("log_level", defaults.LogLevel)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix("PAYPROC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.NumShards < 1 {
		cfg.NumShards = 1
	}
	if cfg.QueueCapacity < 1 {
		cfg.QueueCapacity = 1
	}
	return cfg, nil
}
