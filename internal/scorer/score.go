// Package scorer computes a normalized desirability score per listing from
// weighted, independent per-attribute sub-scores, then ranks the batch.
// Independent sub-scores keep the model interpretable: one dimension can be
// retuned without recomputing the others.
package scorer

import (
	"context"
	"math"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Dekamik/pidgeon/internal/config"
	"github.com/Dekamik/pidgeon/internal/model"
)

// Decay constants for the exponential tail beyond a preferred ceiling.
// Values above the ceiling stay usable but increasingly undesirable rather
// than being hard-rejected.
const (
	priceDecayCeiling      = 0.3
	pricePerM2DecayCeiling = 0.2
)

// Engine scores listings against a fixed weight and preference
// configuration. An Engine is immutable after construction and safe for
// concurrent use.
type Engine struct {
	weights config.Weights
	prefs   config.Preferences
}

// NewEngine creates an Engine. A weight sum far from 1.0 is a configuration
// warning, not an error.
func NewEngine(weights config.Weights, prefs config.Preferences) *Engine {
	if sum := weights.Sum(); sum < 0.95 || sum > 1.05 {
		zap.L().Warn("scorer: weights do not sum to ~1.0",
			zap.Float64("sum", sum),
		)
	}
	return &Engine{weights: weights, prefs: prefs}
}

// Score computes the composite score for one listing: the weighted sum of
// the continuous sub-scores plus flat bonuses for present amenities, capped
// at 1.0. Missing or malformed attributes degrade per-attribute; scoring
// never fails on a single record.
func (e *Engine) Score(l model.Listing) float64 {
	score := e.weights.Price * e.scorePrice(l.Price)
	score += e.weights.Fee * e.scoreFee(l.Fee)
	score += e.weights.PricePerM2 * e.scorePricePerM2(l.PricePerM2)
	score += e.weights.Rooms * e.scoreRooms(l.Rooms)
	score += e.weights.YearBuilt * e.scoreYearBuilt(l.YearBuilt)
	score += e.weights.Floor * e.scoreFloor(l.Floor)

	if l.HasElevator {
		score += e.weights.Elevator
	}
	if l.HasBalcony {
		score += e.weights.Balcony
	}

	return math.Min(1.0, score)
}

// ScoreAll scores a batch. Each record's score is independent of all others,
// so the loop is parallelized across records.
func (e *Engine) ScoreAll(ctx context.Context, listings []model.Listing, concurrency int) ([]model.ScoredListing, error) {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	scored := make([]model.ScoredListing, len(listings))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := range listings {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			scored[i] = model.ScoredListing{
				Listing: listings[i],
				Score:   e.Score(listings[i]),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	zap.L().Info("scorer: batch scored",
		zap.Int("listings", len(scored)),
	)
	return scored, nil
}

// scorePrice scores price (lower is better). Missing price is worst case:
// without it the listing cannot be compared financially.
func (e *Engine) scorePrice(price *float64) float64 {
	if price == nil {
		return 0.0
	}
	return lowerIsBetter(*price, e.prefs.MaxPreferredPrice, e.prefs.MinAcceptablePrice, priceDecayCeiling)
}

// scoreFee scores the monthly fee (lower is better). Fees are frequently
// absent on source pages, so missing is neutral rather than punitive.
func (e *Engine) scoreFee(fee *float64) float64 {
	if fee == nil {
		return 0.5
	}
	return lowerIsBetter(*fee, e.prefs.MaxPreferredFee, e.prefs.MinAcceptableFee, priceDecayCeiling)
}

// scorePricePerM2 scores price per square meter (lower is better). Missing
// is neutral.
func (e *Engine) scorePricePerM2(ppm *float64) float64 {
	if ppm == nil {
		return 0.5
	}
	return lowerIsBetter(*ppm, e.prefs.MaxPreferredPricePerM2, e.prefs.MinAcceptablePricePerM2, pricePerM2DecayCeiling)
}

// scoreRooms scores the room count (higher is better within a band). Extra
// rooms are never actively bad, so the over-band penalty floors at 0.1.
func (e *Engine) scoreRooms(rooms *float64) float64 {
	if rooms == nil {
		return 0.5
	}
	v := *rooms

	switch {
	case v >= e.prefs.MinPreferredRooms && v <= e.prefs.MaxPreferredRooms:
		return 1.0
	case v < e.prefs.MinPreferredRooms:
		return math.Max(0.0, v/e.prefs.MinPreferredRooms)
	default:
		excess := v - e.prefs.MaxPreferredRooms
		return math.Max(0.1, 1.0-0.1*excess)
	}
}

// scoreYearBuilt scores the construction year (newer is generally better,
// floored at 0.1 for very old buildings).
func (e *Engine) scoreYearBuilt(year *int) float64 {
	if year == nil {
		return 0.5
	}
	v := float64(*year)
	threshold := float64(e.prefs.PreferredYearThreshold)
	minYear := float64(e.prefs.MinPreferredYear)

	switch {
	case v >= threshold:
		return 1.0
	case v >= minYear:
		return math.Max(0.1, (v-minYear)/(threshold-minYear))
	default:
		return 0.1
	}
}

// scoreFloor scores the floor. Being above the preferred band is scored
// better than below it: elevated-but-not-extreme floors are the typical
// preference.
func (e *Engine) scoreFloor(floor *int) float64 {
	if floor == nil {
		return 0.5
	}
	v := *floor

	if e.prefs.AvoidGroundFloor && v <= 1 {
		return 0.2
	}

	if e.prefs.PreferredMinFloor > 0 && e.prefs.PreferredMaxFloor > 0 {
		switch {
		case v >= e.prefs.PreferredMinFloor && v <= e.prefs.PreferredMaxFloor:
			return 1.0
		case v < e.prefs.PreferredMinFloor:
			return 0.6
		default:
			return 0.7
		}
	}

	return 0.8
}

// lowerIsBetter is the common shape for bounded lower-is-better attributes:
// linear interpolation between the acceptable floor and the preferred
// ceiling (clamped to [0,1]), with an exponential decay tail above the
// ceiling.
func lowerIsBetter(value, maxPreferred, minAcceptable, decayCeiling float64) float64 {
	if value <= maxPreferred {
		score := 1.0 - (value-minAcceptable)/(maxPreferred-minAcceptable)
		return math.Max(0.0, math.Min(1.0, score))
	}
	decayFactor := (value - maxPreferred) / maxPreferred
	return math.Max(0.0, decayCeiling*math.Exp(-decayFactor))
}
