// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the connectedpapers CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/connectedpapers/internal/connected"
	"github.com/pdiddy/connectedpapers/internal/secrets"
	"github.com/pdiddy/connectedpapers/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if set, or the secret value for key otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the connectedpapers CLI.
var rootCmd = &cobra.Command{
	Use:   "connectedpapers",
	Short: "Fetch citation graphs from the Connected Papers API",
	Long: `connectedpapers requests the citation graph of a paper from the Connected
Papers service. Graphs are built asynchronously; the CLI polls the job until
the graph is ready, backing off while the service is overloaded.

The API key is read from --api-key, the CONNECTED_PAPERS_API_KEY environment
variable, the config file, or .secrets/connected-papers-api-key.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./connectedpapers.yaml or ~/.config/connectedpapers/config.yaml)")
	flags.String("api-key", "", "Connected Papers API key")
	flags.String("base-url", types.DefaultBaseURL, "API base URL")
	flags.Duration("timeout", 0, "HTTP request timeout (default 60s)")
	flags.Bool("retry-on-overload", true, "back off and retry while the service reports OVERLOADED")
	flags.Duration("poll-interval", 0, "delay between status polls (default 1s)")
	flags.BoolP("verbose", "v", false, "log every poll to stderr")

	for key, flag := range map[string]string{
		"api_key":           "api-key",
		"base_url":          "base-url",
		"timeout":           "timeout",
		"retry_on_overload": "retry-on-overload",
		"poll_interval":     "poll-interval",
		"verbose":           "verbose",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("connectedpapers")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "connectedpapers"))
		}
	}

	viper.SetEnvPrefix("CONNECTED_PAPERS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// clientConfig assembles the client configuration from flags, environment,
// config file and secrets, in that order of precedence.
func clientConfig() (types.ClientConfig, error) {
	cfg := types.DefaultConfig()
	if v := viper.GetString("base_url"); v != "" {
		cfg.BaseURL = v
	}
	cfg.APIKey = secretDefault(secrets.APIKeyFile, viper.GetString("api_key"))
	if cfg.APIKey == "" {
		return cfg, fmt.Errorf("no API key: use --api-key, CONNECTED_PAPERS_API_KEY, or .secrets/%s", secrets.APIKeyFile)
	}
	if d := viper.GetDuration("timeout"); d > 0 {
		cfg.Timeout = d
	}
	if d := viper.GetDuration("poll_interval"); d > 0 {
		cfg.PollInterval = d
	}
	cfg.RetryOnOverload = viper.GetBool("retry_on_overload")

	if raw := viper.GetStringSlice("overload_delays"); len(raw) > 0 {
		delays := make([]time.Duration, 0, len(raw))
		for _, s := range raw {
			d, err := time.ParseDuration(s)
			if err != nil {
				return cfg, fmt.Errorf("invalid overload_delays entry %q: %w", s, err)
			}
			delays = append(delays, d)
		}
		cfg.OverloadDelays = delays
	}

	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return cfg, nil
}

func newClient() (*connected.Client, error) {
	cfg, err := clientConfig()
	if err != nil {
		return nil, err
	}
	return connected.New(cfg), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
