package pipeline

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/Dekamik/pidgeon/internal/model"
)

// ExportScored writes scored listings as a flat CSV table with rank and
// score placed first. Booleans serialize as Yes/No, absent values as empty
// strings. An unwritable sink is a run-level error.
func ExportScored(csvPath string, listings []model.ScoredListing) error {
	f, err := os.Create(csvPath)
	if err != nil {
		return eris.Wrap(err, "csv: create output")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := append([]string{"rank", "score"}, listingColumns...)
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "csv: write header")
	}

	for _, l := range listings {
		row := append([]string{
			strconv.Itoa(l.Rank),
			strconv.FormatFloat(l.Score, 'f', 3, 64),
		}, listingRow(l.Listing)...)
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "csv: write row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "csv: flush output")
	}
	return nil
}

// ExportListings writes clean listings in the plain import column order,
// without scores. Used by the scrape command.
func ExportListings(csvPath string, listings []model.Listing) error {
	f, err := os.Create(csvPath)
	if err != nil {
		return eris.Wrap(err, "csv: create output")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(listingColumns); err != nil {
		return eris.Wrap(err, "csv: write header")
	}

	for _, l := range listings {
		if err := w.Write(listingRow(l)); err != nil {
			return eris.Wrap(err, "csv: write row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "csv: flush output")
	}
	return nil
}

func listingRow(l model.Listing) []string {
	return []string{
		l.URL,
		l.Source,
		l.Address,
		floatCell(l.Price),
		floatCell(l.Fee),
		floatCell(l.PricePerM2),
		floatCell(l.Rooms),
		intCell(l.YearBuilt),
		l.HousingCooperative,
		boolCell(l.HasElevator),
		boolCell(l.HasBalcony),
		intCell(l.Floor),
		intCell(l.TotalFloors),
		l.ScrapedAt,
	}
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func boolCell(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
