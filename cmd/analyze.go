package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Dekamik/pidgeon/internal/pipeline"
	"github.com/Dekamik/pidgeon/internal/scorer"
)

var (
	analyzeOutput   string
	analyzeMaxPrice float64
	analyzeMaxFee   float64
	analyzeMinRooms float64
	analyzeMaxRooms float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <input.csv>",
	Short: "Score and rank apartment listings from a CSV file",
	Long: `Reads scraped listings from a CSV file, runs them through the
validation/dedup/enrichment pipeline, scores each one against the configured
weights and preferences, and exports the ranked result.

Examples:
  # Analyze with defaults
  pidgeon analyze apartments.csv

  # Cap preferred price at 3M SEK, write to a chosen file
  pidgeon analyze apartments.csv --max-price 3000000 -o ranked.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		inputPath := args[0]

		prefs := cfg.Preferences
		if analyzeMaxPrice > 0 {
			prefs.MaxPreferredPrice = analyzeMaxPrice
		}
		if analyzeMaxFee > 0 {
			prefs.MaxPreferredFee = analyzeMaxFee
		}
		if analyzeMinRooms > 0 {
			prefs.MinPreferredRooms = analyzeMinRooms
		}
		if analyzeMaxRooms > 0 {
			prefs.MaxPreferredRooms = analyzeMaxRooms
		}

		raws, err := pipeline.ReadListings(inputPath)
		if err != nil {
			return eris.Wrap(err, "analyze: read input")
		}
		zap.L().Info("analyze: input loaded",
			zap.Int("listings", len(raws)),
			zap.String("file", inputPath),
		)

		p := pipeline.New()
		accepted, rejections := p.ProcessAll(raws)
		for _, rej := range rejections {
			zap.L().Info("analyze: record dropped",
				zap.String("url", rej.URL),
				zap.String("reason", rej.String()),
			)
		}
		if len(accepted) == 0 {
			return eris.New("analyze: no listings survived the pipeline")
		}

		engine := scorer.NewEngine(cfg.Weights, prefs)
		scored, err := engine.ScoreAll(ctx, accepted, cfg.Analyze.Concurrency)
		if err != nil {
			return eris.Wrap(err, "analyze: score listings")
		}
		scorer.Rank(scored)

		outputPath := analyzeOutput
		if outputPath == "" {
			stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
			outputPath = "analyzed_" + stem + ".csv"
		}
		if err := pipeline.ExportScored(outputPath, scored); err != nil {
			return eris.Wrap(err, "analyze: export results")
		}

		summary := scorer.Summarize(scored)
		top := scored
		if len(top) > 5 {
			top = top[:5]
		}
		summary.Render(os.Stdout, top)
		fmt.Printf("\nResults exported to: %s\n", outputPath)

		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "output CSV path (default analyzed_<stem>.csv)")
	analyzeCmd.Flags().Float64Var(&analyzeMaxPrice, "max-price", 0, "maximum preferred price (SEK)")
	analyzeCmd.Flags().Float64Var(&analyzeMaxFee, "max-fee", 0, "maximum preferred monthly fee (SEK)")
	analyzeCmd.Flags().Float64Var(&analyzeMinRooms, "min-rooms", 0, "minimum preferred rooms")
	analyzeCmd.Flags().Float64Var(&analyzeMaxRooms, "max-rooms", 0, "maximum preferred rooms")
	rootCmd.AddCommand(analyzeCmd)
}
