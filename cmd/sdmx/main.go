// Command sdmx queries SDMX web services from the command line: listing
// the known data sources, fetching structural metadata and downloading
// data.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	sdmx "github.com/gosdmx/sdmx"
	"github.com/gosdmx/sdmx/logger"
)

var (
	cfgFile   string
	outFormat string
	cfg       config
)

// jsonOutput reports whether --output json was requested.
func jsonOutput() bool { return outFormat == "json" }

var rootCmd = &cobra.Command{
	Use:          "sdmx",
	Short:        "Query SDMX web services",
	Long:         `Query SDMX web services: list data sources, fetch codelists, dataflows and data structures, and download data.`,
	Version:      sdmx.Version,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/sdmx/config.yaml)")
	rootCmd.PersistentFlags().StringP("source", "s", "",
		"data source ID, e.g. ECB (see 'sdmx sources')")
	rootCmd.PersistentFlags().String("lang", "",
		"preferred locale for names, e.g. en")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false,
		"log requests to stderr")
	rootCmd.PersistentFlags().StringVarP(&outFormat, "output", "o", "text",
		"output format: text or json")

	_ = viper.BindPFlag("source", rootCmd.PersistentFlags().Lookup("source"))
	_ = viper.BindPFlag("lang", rootCmd.PersistentFlags().Lookup("lang"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(defaultConfigDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// First run: write the default config so the user has a file
		// to edit.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			if path, writeErr := writeDefaultConfig(); writeErr == nil {
				viper.SetConfigFile(path)
				_ = viper.ReadInConfig()
			}
		}
	}

	_ = viper.Unmarshal(&cfg)

	if cfg.Verbose {
		logger.Default().SetLevel(logger.LevelDebug)
	}
}

// newClient builds a client for the configured source.
func newClient() (*sdmx.Client, error) {
	if cfg.Source == "" {
		return nil, fmt.Errorf("no data source configured; pass --source or set it in the config file")
	}
	var opts []sdmx.Option
	if cfg.Timeout > 0 {
		opts = append(opts, sdmx.WithTimeout(cfg.Timeout))
	}
	if cfg.CacheTTL > 0 {
		opts = append(opts, sdmx.WithCacheTTL(cfg.CacheTTL))
	}
	return sdmx.NewClient(cfg.Source, opts...)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
