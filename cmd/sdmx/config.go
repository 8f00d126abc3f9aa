package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// config holds the CLI settings, loaded from the config file and
// overridden by flags.
type config struct {
	Source   string        `mapstructure:"source" yaml:"source"`
	Lang     string        `mapstructure:"lang" yaml:"lang"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	Verbose  bool          `mapstructure:"verbose" yaml:"verbose"`
}

func defaults() config {
	return config{
		Lang:     "en",
		Timeout:  30 * time.Second,
		CacheTTL: 10 * time.Minute,
	}
}

func setDefaults() {
	d := defaults()
	viper.SetDefault("lang", d.Lang)
	viper.SetDefault("timeout", d.Timeout)
	viper.SetDefault("cache_ttl", d.CacheTTL)
}

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "sdmx")
}

// writeDefaultConfig creates the default config file and returns its
// path.
func writeDefaultConfig() (string, error) {
	dir := defaultConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "config.yaml")

	data, err := yaml.Marshal(defaults())
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
