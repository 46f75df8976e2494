package pipeline

import (
	"math"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/Dekamik/pidgeon/internal/model"
)

// Statistics accumulates run statistics over accepted listings. Safe for
// concurrent producers.
type Statistics struct {
	mu sync.Mutex

	total    int
	bySource map[string]int

	priceMin   float64
	priceMax   float64
	priceSum   float64
	priceCount int

	roomsDist map[string]int

	elevatorCount int
	balconyCount  int
}

// NewStatistics creates an empty Statistics collector.
func NewStatistics() *Statistics {
	return &Statistics{
		bySource:  make(map[string]int),
		roomsDist: make(map[string]int),
		priceMin:  math.Inf(1),
	}
}

// Observe records one accepted listing.
func (s *Statistics) Observe(l model.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++

	source := l.Source
	if source == "" {
		source = "unknown"
	}
	s.bySource[source]++

	if l.Price != nil {
		p := *l.Price
		s.priceMin = math.Min(s.priceMin, p)
		s.priceMax = math.Max(s.priceMax, p)
		s.priceSum += p
		s.priceCount++
	}

	if l.Rooms != nil {
		key := strconv.FormatFloat(*l.Rooms, 'f', -1, 64)
		s.roomsDist[key]++
	}

	if l.HasElevator {
		s.elevatorCount++
	}
	if l.HasBalcony {
		s.balconyCount++
	}
}

// Total returns the number of observed listings.
func (s *Statistics) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// BySource returns a copy of the per-source counts.
func (s *Statistics) BySource() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.bySource))
	for k, v := range s.bySource {
		out[k] = v
	}
	return out
}

// RoomsDistribution returns a copy of the count per distinct room value.
func (s *Statistics) RoomsDistribution() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.roomsDist))
	for k, v := range s.roomsDist {
		out[k] = v
	}
	return out
}

// PriceRange returns min, mean and max of observed prices. ok is false when
// no listing carried a price.
func (s *Statistics) PriceRange() (min, mean, max float64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.priceCount == 0 {
		return 0, 0, 0, false
	}
	return s.priceMin, s.priceSum / float64(s.priceCount), s.priceMax, true
}

// AmenityCounts returns the number of listings with an elevator and with a
// balcony.
func (s *Statistics) AmenityCounts() (elevator, balcony int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elevatorCount, s.balconyCount
}

// LogSummary writes the collected statistics to the global logger.
func (s *Statistics) LogSummary() {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields := []zap.Field{
		zap.Int("total", s.total),
		zap.Any("by_source", s.bySource),
		zap.Any("rooms_distribution", s.roomsDist),
		zap.Int("with_elevator", s.elevatorCount),
		zap.Int("with_balcony", s.balconyCount),
	}
	if s.priceCount > 0 {
		fields = append(fields,
			zap.Float64("price_min", s.priceMin),
			zap.Float64("price_max", s.priceMax),
			zap.Float64("price_mean", s.priceSum/float64(s.priceCount)),
		)
	}
	zap.L().Info("pipeline: run statistics", fields...)
}
