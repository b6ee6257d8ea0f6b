package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/mapscrape/internal/api"
	"github.com/jackzampolin/mapscrape/internal/config"
	"github.com/jackzampolin/mapscrape/internal/home"
	"github.com/jackzampolin/mapscrape/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "mapscrape",
	Short: "Business list scraper backed by Gemini with Google Maps grounding",
	Long: `mapscrape asks Gemini for "<category> in <location>" with the Google Maps
tool enabled, extracts the Markdown table it returns, attaches Maps links from
the grounding citations and exports the result as CSV.

Run "mapscrape config init" once, export GEMINI_API_KEY, then either:
  mapscrape search --category "Coffee Shops" --location "Baku, Azerbaijan"
  mapscrape serve`,
	Version:      version.GitRelease,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.mapscrape/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "mapscrape home directory (default: ~/.mapscrape)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml, json or csv",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the home directory and loads configuration.
// An explicit --config wins, then {home}/config.yaml, then the viper search path.
func loadConfig() (*config.Manager, *home.Dir, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, nil, err
	}

	path := cfgFile
	if path == "" && h.ConfigExists() {
		path = h.ConfigPath()
	}

	mgr, err := config.NewManager(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return mgr, h, nil
}

// newLogger builds the process logger from the log config section.
func newLogger(cfg config.LogCfg) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
