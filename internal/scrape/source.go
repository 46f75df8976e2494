package scrape

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Dekamik/pidgeon/internal/model"
)

// Source extracts raw listings from one site. Implementations own the
// site-specific selectors; the pipeline downstream makes no assumptions
// about what a source managed to fill in.
type Source interface {
	// Name is the value written into the listing's source field.
	Name() string
	// Scrape walks search result pages starting at searchURL, follows
	// listing links, and calls emit once per extracted raw listing.
	Scrape(ctx context.Context, searchURL string, emit func(model.RawListing)) error
}

// siteSource is the shared crawl skeleton: discover listing links on a
// result page, extract each detail page, follow pagination.
type siteSource struct {
	name     string
	fetcher  *Fetcher
	maxPages int

	listingLinks SelectorChain
	nextPage     SelectorChain
	extract      func(doc *goquery.Document, pageURL string) model.RawListing
}

func (s *siteSource) Name() string { return s.name }

func (s *siteSource) Scrape(ctx context.Context, searchURL string, emit func(model.RawListing)) error {
	pageURL := searchURL
	for page := 0; s.maxPages <= 0 || page < s.maxPages; page++ {
		doc, err := s.fetcher.Get(ctx, pageURL)
		if err != nil {
			return eris.Wrapf(err, "%s: fetch search page", s.name)
		}

		links := s.listingLinks.AllAttr(doc, "href")
		if len(links) == 0 {
			zap.L().Warn("scrape: no listing links on page",
				zap.String("source", s.name),
				zap.String("page", pageURL),
			)
		}

		for _, link := range links {
			abs, err := resolveURL(pageURL, link)
			if err != nil {
				zap.L().Warn("scrape: skipping unparsable link",
					zap.String("source", s.name),
					zap.String("link", link),
				)
				continue
			}

			detail, err := s.fetcher.Get(ctx, abs)
			if err != nil {
				// One bad detail page never aborts the crawl.
				zap.L().Warn("scrape: detail fetch failed",
					zap.String("source", s.name),
					zap.String("url", abs),
					zap.Error(err),
				)
				continue
			}
			emit(s.extract(detail, abs))
		}

		next := s.nextPage.FirstAttr(doc, "href")
		if next == "" {
			break
		}
		abs, err := resolveURL(pageURL, next)
		if err != nil {
			break
		}
		pageURL = abs
	}
	return nil
}

func resolveURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}

// splitFloor parses floor info like "3 av 5" or "3/5" into floor and total
// floors.
func splitFloor(s string) (floor, total string) {
	s = strings.ReplaceAll(s, "/", " av ")
	parts := strings.Fields(strings.TrimSpace(s))
	if len(parts) >= 1 {
		floor = parts[0]
	}
	if len(parts) >= 3 {
		total = parts[2]
	}
	return floor, total
}

// boolToken converts a keyword-scan result into a raw truthy/falsy token.
func boolToken(present bool) string {
	if present {
		return "true"
	}
	return "false"
}

func nowStamp() string {
	return time.Now().Format(time.RFC3339)
}
