package scorer

import (
	"io"
	"math"
	"sort"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Dekamik/pidgeon/internal/model"
)

// Summary holds the structured result of one analysis run.
type Summary struct {
	Total int

	MeanScore   float64
	ScoreStdDev float64
	P90Score    float64

	PriceMin    float64
	PriceMean   float64
	PriceMedian float64
	PriceMax    float64
	PriceCount  int

	RoomsDistribution map[string]int

	ElevatorCount int
	BalconyCount  int
}

// Summarize computes summary statistics over a scored batch.
func Summarize(scored []model.ScoredListing) Summary {
	s := Summary{
		Total:             len(scored),
		RoomsDistribution: make(map[string]int),
	}
	if len(scored) == 0 {
		return s
	}

	scores := make([]float64, 0, len(scored))
	var prices []float64

	for _, l := range scored {
		scores = append(scores, l.Score)
		if l.Price != nil {
			prices = append(prices, *l.Price)
		}
		if l.Rooms != nil {
			key := strconv.FormatFloat(*l.Rooms, 'f', -1, 64)
			s.RoomsDistribution[key]++
		}
		if l.HasElevator {
			s.ElevatorCount++
		}
		if l.HasBalcony {
			s.BalconyCount++
		}
	}

	s.MeanScore = mean(scores)
	s.ScoreStdDev = stdDev(scores, s.MeanScore)
	s.P90Score = quantile(scores, 0.9)

	if len(prices) > 0 {
		s.PriceCount = len(prices)
		s.PriceMean = mean(prices)
		sort.Float64s(prices)
		s.PriceMin = prices[0]
		s.PriceMax = prices[len(prices)-1]
		s.PriceMedian = quantile(prices, 0.5)
	}

	return s
}

// Render writes a human-readable report including the top listings. Numbers
// are printed with locale-aware thousands separators.
func (s Summary) Render(w io.Writer, top []model.ScoredListing) {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "=== ANALYSIS SUMMARY ===\n")
	p.Fprintf(w, "Total apartments analyzed: %d\n", s.Total)
	p.Fprintf(w, "Average score: %.3f (std %.3f)\n", s.MeanScore, s.ScoreStdDev)
	p.Fprintf(w, "Top 10%% threshold: %.3f\n", s.P90Score)
	if s.PriceCount > 0 {
		p.Fprintf(w, "Price range: %.0f - %.0f SEK\n", s.PriceMin, s.PriceMax)
		p.Fprintf(w, "Average price: %.0f SEK (median %.0f)\n", s.PriceMean, s.PriceMedian)
	}
	p.Fprintf(w, "Apartments with elevator: %d\n", s.ElevatorCount)
	p.Fprintf(w, "Apartments with balcony: %d\n", s.BalconyCount)

	if len(top) > 0 {
		p.Fprintf(w, "\nTop %d apartments:\n", len(top))
		for _, l := range top {
			price := "-"
			if l.Price != nil {
				price = p.Sprintf("%.0f SEK", *l.Price)
			}
			rooms := "-"
			if l.Rooms != nil {
				rooms = strconv.FormatFloat(*l.Rooms, 'f', -1, 64) + " rooms"
			}
			p.Fprintf(w, "  %2d. %-50s | Score: %.3f | %s | %s\n",
				l.Rank, truncate(l.Address, 50), l.Score, price, rooms)
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func stdDev(vs []float64, mu float64) float64 {
	if len(vs) < 2 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		d := v - mu
		sum += d * d
	}
	// Sample standard deviation.
	return math.Sqrt(sum / float64(len(vs)-1))
}

// quantile computes the q-quantile with linear interpolation between order
// statistics. It does not require vs to be sorted.
func quantile(vs []float64, q float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sorted := make([]float64, len(vs))
	copy(sorted, vs)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
