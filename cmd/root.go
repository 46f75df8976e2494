package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Dekamik/pidgeon/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "pidgeon",
	Short: "Apartment listing scraper and analyzer",
	Long:  "Scrapes apartment listings from Swedish housing sites, validates and deduplicates them, scores each listing against configurable preferences, and exports a ranked CSV.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "root: load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "root: init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
