package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Dekamik/pidgeon/internal/model"
	"github.com/Dekamik/pidgeon/internal/pipeline"
	"github.com/Dekamik/pidgeon/internal/scrape"
)

var (
	scrapeSource    string
	scrapeSearchURL string
	scrapeOutput    string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape apartment listings into a CSV file",
	Long: `Crawls the configured housing sites, runs every extracted listing
through the validation/dedup/enrichment pipeline, and exports the accepted
listings as a CSV file suitable for "pidgeon analyze".

Examples:
  # Scrape both sites with configured search URLs
  pidgeon scrape --source all

  # Scrape a specific hemnet search
  pidgeon scrape --source hemnet --search-url "https://www.hemnet.se/bostader?..."`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		fetcher := scrape.NewFetcher(cfg.Scrape)

		type sourceRun struct {
			src scrape.Source
			url string
		}
		var runs []sourceRun
		switch scrapeSource {
		case "hemnet":
			runs = append(runs, sourceRun{scrape.NewHemnet(fetcher, cfg.Scrape.MaxPages), orDefault(scrapeSearchURL, cfg.Scrape.HemnetURL)})
		case "booli":
			runs = append(runs, sourceRun{scrape.NewBooli(fetcher, cfg.Scrape.MaxPages), orDefault(scrapeSearchURL, cfg.Scrape.BooliURL)})
		case "all":
			runs = append(runs,
				sourceRun{scrape.NewHemnet(fetcher, cfg.Scrape.MaxPages), cfg.Scrape.HemnetURL},
				sourceRun{scrape.NewBooli(fetcher, cfg.Scrape.MaxPages), cfg.Scrape.BooliURL},
			)
		default:
			return eris.Errorf("scrape: unknown source %q (want hemnet, booli or all)", scrapeSource)
		}

		p := pipeline.New()

		var mu sync.Mutex
		var accepted []model.Listing
		var rejected int

		// Sources run concurrently; the pipeline's dedup set is guarded, so
		// sharing one instance is safe.
		g, gCtx := errgroup.WithContext(ctx)
		for _, run := range runs {
			run := run
			g.Go(func() error {
				return run.src.Scrape(gCtx, run.url, func(raw model.RawListing) {
					clean, rej := p.Process(raw)
					mu.Lock()
					defer mu.Unlock()
					if rej != nil {
						rejected++
						return
					}
					accepted = append(accepted, clean)
				})
			})
		}
		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "scrape: run sources")
		}

		p.Stats().LogSummary()

		if len(accepted) == 0 {
			return eris.New("scrape: no listings accepted")
		}

		output := scrapeOutput
		if output == "" {
			output = fmt.Sprintf("apartments_%s.csv", time.Now().Format("20060102_150405"))
		}
		if err := pipeline.ExportListings(output, accepted); err != nil {
			return eris.Wrap(err, "scrape: export listings")
		}

		zap.L().Info("scrape: complete",
			zap.Int("accepted", len(accepted)),
			zap.Int("rejected", rejected),
			zap.String("output", output),
		)
		fmt.Printf("Scraped %d listings (%d rejected) to %s\n", len(accepted), rejected, output)
		return nil
	},
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeSource, "source", "all", "source site: hemnet, booli or all")
	scrapeCmd.Flags().StringVar(&scrapeSearchURL, "search-url", "", "override the search start URL (single source only)")
	scrapeCmd.Flags().StringVarP(&scrapeOutput, "output", "o", "", "output CSV path")
	rootCmd.AddCommand(scrapeCmd)
}
