package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Dekamik/pidgeon/internal/pipeline"
)

var statsCmd = &cobra.Command{
	Use:   "stats <input.csv>",
	Short: "Run the pipeline over a CSV and print data quality statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raws, err := pipeline.ReadListings(args[0])
		if err != nil {
			return eris.Wrap(err, "stats: read input")
		}

		p := pipeline.New()
		accepted, rejections := p.ProcessAll(raws)
		stats := p.Stats()
		stats.LogSummary()

		pr := message.NewPrinter(language.English)
		pr.Fprintf(os.Stdout, "=== PIPELINE STATISTICS ===\n")
		pr.Fprintf(os.Stdout, "Accepted: %d  Rejected: %d\n", len(accepted), len(rejections))

		for source, count := range stats.BySource() {
			pr.Fprintf(os.Stdout, "Items from %s: %d\n", source, count)
		}

		if min, mean, max, ok := stats.PriceRange(); ok {
			pr.Fprintf(os.Stdout, "Price range: %.0f - %.0f SEK (mean %.0f)\n", min, max, mean)
		}

		dist := stats.RoomsDistribution()
		if len(dist) > 0 {
			keys := make([]string, 0, len(dist))
			for k := range dist {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Println("Rooms distribution:")
			for _, k := range keys {
				pr.Fprintf(os.Stdout, "  %s rooms: %d apartments\n", k, dist[k])
			}
		}

		elevator, balcony := stats.AmenityCounts()
		pr.Fprintf(os.Stdout, "With elevator: %d  With balcony: %d\n", elevator, balcony)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
