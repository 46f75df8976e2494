package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dekamik/pidgeon/internal/config"
	"github.com/Dekamik/pidgeon/internal/model"
)

func testFetcher() *Fetcher {
	return NewFetcher(config.ScrapeConfig{
		UserAgent:      "pidgeon-test",
		TimeoutSecs:    5,
		RequestsPerSec: 1000, // no throttling in tests
	})
}

const detailPage = `<html><body>
	<h1 class="property-address">Vasagatan %d, Stockholm</h1>
	<div class="property-info__price">2 495 000 kr</div>
	<div class="property-info__fee">3 200 kr/mån</div>
	<div class="property-info__rooms">2,5 rum</div>
	<div class="property-info__year-built">1962</div>
	<div class="property-info__floor">3 av 5</div>
	<p>Ljus lägenhet med balkong. Hiss finns.</p>
</body></html>`

func TestHemnetSource_CrawlsListAndDetailPages(t *testing.T) {
	var mux http.ServeMux
	srv := httptest.NewServer(&mux)
	defer srv.Close()

	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/bostad/1">first</a>
			<a href="/bostad/2">second</a>
			<a rel="next" href="/search?page=2">next</a>
		</body></html>`)
	})
	mux.HandleFunc("/bostad/", func(w http.ResponseWriter, r *http.Request) {
		var id int
		fmt.Sscanf(r.URL.Path, "/bostad/%d", &id)
		fmt.Fprintf(w, detailPage, id)
	})

	// maxPages of 1 keeps the crawl on the first result page.
	src := NewHemnet(testFetcher(), 1)

	var emitted []model.RawListing
	err := src.Scrape(context.Background(), srv.URL+"/search", func(r model.RawListing) {
		emitted = append(emitted, r)
	})
	require.NoError(t, err)
	require.Len(t, emitted, 2)

	first := emitted[0]
	assert.Equal(t, srv.URL+"/bostad/1", first.URL, "relative links resolve against the page URL")
	assert.Equal(t, "hemnet", first.Source)
	assert.Equal(t, "Vasagatan 1, Stockholm", first.Address)
	assert.Equal(t, "2 495 000 kr", first.Price)
	assert.Equal(t, "3 200 kr/mån", first.Fee)
	assert.Equal(t, "2,5 rum", first.Rooms)
	assert.Equal(t, "1962", first.YearBuilt)
	assert.Equal(t, "3", first.Floor)
	assert.Equal(t, "5", first.TotalFloors)
	assert.Equal(t, "true", first.HasElevator, "amenity keywords found in page text")
	assert.Equal(t, "true", first.HasBalcony)
	assert.NotEmpty(t, first.ScrapedAt)

	assert.Equal(t, srv.URL+"/bostad/2", emitted[1].URL)
}

func TestHemnetSource_FollowsPagination(t *testing.T) {
	var mux http.ServeMux
	srv := httptest.NewServer(&mux)
	defer srv.Close()

	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "", "1":
			fmt.Fprint(w, `<html><body>
				<a href="/bostad/1">one</a>
				<a rel="next" href="/search?page=2">next</a>
			</body></html>`)
		case "2":
			fmt.Fprint(w, `<html><body><a href="/bostad/2">two</a></body></html>`)
		}
	})
	mux.HandleFunc("/bostad/", func(w http.ResponseWriter, r *http.Request) {
		var id int
		fmt.Sscanf(r.URL.Path, "/bostad/%d", &id)
		fmt.Fprintf(w, detailPage, id)
	})

	src := NewHemnet(testFetcher(), 0) // no page cap

	var urls []string
	err := src.Scrape(context.Background(), srv.URL+"/search", func(r model.RawListing) {
		urls = append(urls, r.URL)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/bostad/1", srv.URL + "/bostad/2"}, urls)
}

func TestHemnetSource_MaxPagesCapsCrawl(t *testing.T) {
	var pagesServed int
	var mux http.ServeMux
	srv := httptest.NewServer(&mux)
	defer srv.Close()

	// Every page links to the next one; only the cap stops the crawl.
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		pagesServed++
		fmt.Fprintf(w, `<html><body><a rel="next" href="/search?page=%d">next</a></body></html>`, pagesServed+1)
	})

	src := NewHemnet(testFetcher(), 3)
	err := src.Scrape(context.Background(), srv.URL+"/search", func(model.RawListing) {})
	require.NoError(t, err)
	assert.Equal(t, 3, pagesServed)
}

func TestHemnetSource_BadDetailPageSkipped(t *testing.T) {
	var mux http.ServeMux
	srv := httptest.NewServer(&mux)
	defer srv.Close()

	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/bostad/404">broken</a>
			<a href="/bostad/1">ok</a>
		</body></html>`)
	})
	mux.HandleFunc("/bostad/404", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	mux.HandleFunc("/bostad/1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, detailPage, 1)
	})

	src := NewHemnet(testFetcher(), 1)

	var emitted []model.RawListing
	err := src.Scrape(context.Background(), srv.URL+"/search", func(r model.RawListing) {
		emitted = append(emitted, r)
	})
	require.NoError(t, err, "one failing detail page never aborts the crawl")
	require.Len(t, emitted, 1)
	assert.Equal(t, srv.URL+"/bostad/1", emitted[0].URL)
}

func TestFetcher_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testFetcher().Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestFetcher_SendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, "<html><body></body></html>")
	}))
	defer srv.Close()

	_, err := testFetcher().Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "pidgeon-test", gotUA)
}
