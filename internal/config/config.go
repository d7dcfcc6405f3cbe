// Package config loads the YAML configuration for wiring the disk
// manager, buffer pool, and hash index together.
package config

import "github.com/spf13/viper"

// Config is the top-level configuration document.
type Config struct {
	Disk   DiskConfig   `mapstructure:"disk"`
	Pool   PoolConfig   `mapstructure:"pool"`
	Index  IndexConfig  `mapstructure:"index"`
	Server ServerConfig `mapstructure:"server"`
}

// DiskConfig selects and parameterizes the disk backend.
type DiskConfig struct {
	// Backend is "mem" or "file".
	Backend string `mapstructure:"backend"`
	// File is the backing file path, used only when Backend == "file".
	File string `mapstructure:"file"`
}

// PoolConfig sizes the buffer pool.
type PoolConfig struct {
	Capacity int `mapstructure:"capacity"`
}

// IndexConfig sizes a hash index built on top of the pool.
type IndexConfig struct {
	Buckets int `mapstructure:"buckets"`
}

// ServerConfig carries ambient demo-binary settings unrelated to the
// storage stack itself.
type ServerConfig struct {
	Debug bool `mapstructure:"debug"`
}

// Default returns a Config suitable for running without a config file:
// an in-memory disk backend, a small pool, and a modest bucket count.
func Default() Config {
	return Config{
		Disk: DiskConfig{Backend: "mem"},
		Pool: PoolConfig{Capacity: 64},
		Index: IndexConfig{
			Buckets: 8,
		},
	}
}

// Load reads a YAML config file at path and unmarshals it into a
// Config seeded with Default's values.
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return cfg, err
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
