package pipeline

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/Dekamik/pidgeon/internal/model"
)

// listingColumns is the flat-table schema shared by import and export, in
// export order.
var listingColumns = []string{
	"url", "source", "address", "price", "fee", "price_per_m2",
	"rooms", "year_built", "housing_cooperative", "has_elevator",
	"has_balcony", "floor", "total_floors", "scraped_at",
}

// ReadListings reads raw listings from a flat CSV table. Columns are matched
// by header name, so column order is free; unknown columns are ignored and
// missing columns yield absent fields. An unreadable file is a run-level
// error.
func ReadListings(csvPath string) ([]model.RawListing, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, eris.Wrap(err, "csv: open input")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "csv: read input")
	}
	if len(records) < 2 {
		return nil, eris.New("csv: no data rows")
	}

	header := records[0]
	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[strings.ToLower(strings.TrimSpace(col))] = i
	}

	listings := make([]model.RawListing, 0, len(records)-1)
	for _, row := range records[1:] {
		get := func(col string) string {
			idx, ok := colIdx[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		listings = append(listings, model.RawListing{
			URL:                get("url"),
			Source:             get("source"),
			Address:            get("address"),
			Price:              get("price"),
			Fee:                get("fee"),
			PricePerM2:         get("price_per_m2"),
			Rooms:              get("rooms"),
			YearBuilt:          get("year_built"),
			HousingCooperative: get("housing_cooperative"),
			HasElevator:        get("has_elevator"),
			HasBalcony:         get("has_balcony"),
			Floor:              get("floor"),
			TotalFloors:        get("total_floors"),
			ScrapedAt:          get("scraped_at"),
		})
	}

	return listings, nil
}
