package main

import (
	"github.com/spf13/cobra"

	"github.com/officialai/aggregator/internal/app"
	"github.com/officialai/aggregator/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "officialai",
	Short: "Aggregator for official AI company announcements",
	Long: `officialai collects announcements from the blogs, feeds and changelog
pages of AI companies into one normalized store, with topic tags and Arabic
translations, and exports a weekly digest.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		if sourcesPath != "" {
			cfg.SourcesPath = sourcesPath
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}
	},
}

var (
	sourcesPath string
	dataDir     string
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sourcesPath, "sources", "", "source registry YAML (default: built-in registry)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default: ./data)")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(digestCmd)
	rootCmd.AddCommand(dedupeCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(imagesCmd)
	rootCmd.AddCommand(translateCmd)
}

func newApp() (*app.App, error) {
	return app.New(cfg)
}
