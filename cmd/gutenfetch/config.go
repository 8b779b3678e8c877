// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/pdiddy/gutenfetch/internal/search"
	"github.com/pdiddy/gutenfetch/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultDelay     = 500 * time.Millisecond
	defaultMaxPages  = 10
	defaultOutputDir = "./gutenberg_texts"
)

func setDefaults() {
	viper.SetDefault("api_url", search.DefaultAPIURL)
	viper.SetDefault("languages", "en")
	viper.SetDefault("timeout", defaultTimeout)
	viper.SetDefault("user_agent", "gutenfetch/"+version)
	viper.SetDefault("max_pages", defaultMaxPages)
	viper.SetDefault("download_delay", defaultDelay)
	viper.SetDefault("output_dir", defaultOutputDir)
	viper.SetDefault("log_level", "info")
}

func initConfig() {
	// A missing .env is normal; anything else is worth a warning.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Warning: reading .env:", err)
	}

	setDefaults()
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("output_dir", rootCmd.Flags().Lookup("output-dir"))

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("gutenfetch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "gutenfetch"))
		}
	}

	viper.SetEnvPrefix("GUTENFETCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintln(os.Stderr, "Warning: reading config:", err)
	}
}

// httpConfig assembles the shared HTTP settings.
func httpConfig() types.HTTPConfig {
	return types.HTTPConfig{
		Timeout:   viper.GetDuration("timeout"),
		UserAgent: viper.GetString("user_agent"),
	}
}

func searchConfig() types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig: httpConfig(),
		APIURL:     viper.GetString("api_url"),
		Languages:  viper.GetString("languages"),
		MaxPages:   viper.GetInt("max_pages"),
	}
}

func downloadConfig(mode types.CleanMode) types.DownloadConfig {
	return types.DownloadConfig{
		HTTPConfig:    httpConfig(),
		OutputDir:     viper.GetString("output_dir"),
		DownloadDelay: viper.GetDuration("download_delay"),
		Clean:         mode,
	}
}

func cleanMode(noClean, deepClean bool) types.CleanMode {
	switch {
	case noClean:
		return types.CleanNone
	case deepClean:
		return types.CleanExtensive
	default:
		return types.CleanMarkers
	}
}

// setupLogging routes diagnostic logs to stderr at the given level. An
// empty level means info.
func setupLogging(level string) error {
	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}).With().Timestamp().Logger()
	return nil
}
