package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/mapscrape/internal/api"
	"github.com/jackzampolin/mapscrape/internal/csvexport"
	"github.com/jackzampolin/mapscrape/internal/metrics"
	"github.com/jackzampolin/mapscrape/internal/prompts"
	"github.com/jackzampolin/mapscrape/internal/prompts/places"
	"github.com/jackzampolin/mapscrape/internal/providers"
	"github.com/jackzampolin/mapscrape/internal/search"
	"github.com/jackzampolin/mapscrape/internal/types"
)

var (
	searchCategory string
	searchLocation string
	searchProvider string
	searchOut      string
)

// searchSummary is printed after a CLI search.
type searchSummary struct {
	Query    string        `json:"query" yaml:"query"`
	Provider string        `json:"provider" yaml:"provider"`
	Count    int           `json:"count" yaml:"count"`
	File     string        `json:"file,omitempty" yaml:"file,omitempty"`
	Message  string        `json:"message,omitempty" yaml:"message,omitempty"`
	Places   []types.Place `json:"places" yaml:"places"`
}

// CSV renders the places as CSV without the byte order mark.
func (s searchSummary) CSV() string {
	return csvexport.Build(s.Places)
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run one search and write the CSV export",
	Long: `Run one search in-process (no server needed) and write the result as a
UTF-8 CSV with a byte order mark.

Without --out the file goes to ~/.mapscrape/exports/ with a name derived from
the category and location. Nothing is written when no places are found.

Examples:
  mapscrape search --category "Coffee Shops" --location "Baku, Azerbaijan"
  mapscrape search --category Hotels --location Oslo --out hotels.csv -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		q := types.SearchQuery{Category: searchCategory, Location: searchLocation}
		if err := q.Validate(); err != nil {
			return fmt.Errorf("--category and --location are required: %w", err)
		}

		mgr, h, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := mgr.Get()
		logger := newLogger(cfg.Log)

		registry := providers.NewRegistryFromConfig(cfg.ToProviderRegistryConfig())
		registry.SetLogger(logger)

		resolver := prompts.NewResolver(logger)
		places.RegisterPrompts(resolver)
		resolver.SetOverrides(cfg.PromptOverrides())

		service := search.NewService(search.Config{
			Registry: registry,
			Prompts:  resolver,
			Metrics:  metrics.NewRecorder(),
			Logger:   logger,
		})

		result, err := service.Search(ctx, q, searchProvider)
		if err != nil {
			return err
		}

		summary := searchSummary{
			Query:    result.Query,
			Provider: result.Provider,
			Count:    result.Count(),
			Places:   result.Places,
		}
		if result.Count() == 0 {
			summary.Message = search.NoDataMessage
			return api.Output(summary)
		}

		path := searchOut
		if path == "" {
			if err := h.EnsureExists(); err != nil {
				return err
			}
			path = h.ExportPath(csvexport.Filename(q.Category, q.Location))
		} else if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", dir, err)
			}
		}

		if err := csvexport.WriteFile(path, csvexport.Build(result.Places)); err != nil {
			return err
		}
		logger.Info("wrote export", "file", path, "places", result.Count())

		summary.File = path
		return api.Output(summary)
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "Business category, e.g. \"Coffee Shops\" (required)")
	searchCmd.Flags().StringVar(&searchLocation, "location", "", "Location, e.g. \"Baku, Azerbaijan\" (required)")
	searchCmd.Flags().StringVar(&searchProvider, "provider", "", "Provider name (defaults to defaults.provider)")
	searchCmd.Flags().StringVar(&searchOut, "out", "", "Output CSV path (default: ~/.mapscrape/exports/<derived name>)")

	rootCmd.AddCommand(searchCmd)
}
