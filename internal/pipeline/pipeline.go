// Package pipeline implements the per-record processing sequence applied to
// incoming raw listings: validate, deduplicate, enrich, then fan out to
// consumer sinks (statistics, collection). Per-record problems never escape
// a stage boundary as run-level errors.
package pipeline

import (
	"go.uber.org/zap"

	"github.com/Dekamik/pidgeon/internal/model"
)

// Pipeline sequences the processing stages. The ordering is deliberate:
// structural checks run before the dedup set is touched, and enrichment only
// happens for records that survive both.
type Pipeline struct {
	validator *Validator
	dedup     *Deduplicator
	enricher  *Enricher
	stats     *Statistics
}

// New creates a Pipeline with fresh per-run state.
func New() *Pipeline {
	return &Pipeline{
		validator: NewValidator(),
		dedup:     NewDeduplicator(),
		enricher:  NewEnricher(),
		stats:     NewStatistics(),
	}
}

// NewWithStages creates a Pipeline from explicit stage instances. Used by
// tests to inject fixed clocks.
func NewWithStages(v *Validator, d *Deduplicator, e *Enricher, s *Statistics) *Pipeline {
	return &Pipeline{validator: v, dedup: d, enricher: e, stats: s}
}

// Stats returns the pipeline's statistics collector.
func (p *Pipeline) Stats() *Statistics {
	return p.stats
}

// Process runs one raw listing through all stages. It returns the clean
// listing, or a Rejection when a stage dropped the record. Safe for
// concurrent producers feeding one Pipeline instance.
func (p *Pipeline) Process(raw model.RawListing) (model.Listing, *Rejection) {
	validated, rej := p.validator.Validate(raw)
	if rej != nil {
		zap.L().Debug("pipeline: record rejected",
			zap.String("url", raw.URL),
			zap.String("stage", rej.Stage),
			zap.String("reason", rej.Reason),
		)
		return model.Listing{}, rej
	}

	if rej := p.dedup.Check(validated); rej != nil {
		zap.L().Debug("pipeline: record rejected",
			zap.String("url", raw.URL),
			zap.String("stage", rej.Stage),
			zap.String("reason", rej.Reason),
		)
		return model.Listing{}, rej
	}

	clean := p.enricher.Enrich(validated).Clean()
	p.stats.Observe(clean)
	return clean, nil
}

// ProcessAll runs a batch of raw listings through the pipeline in arrival
// order and returns the accepted clean listings together with every
// rejection.
func (p *Pipeline) ProcessAll(raws []model.RawListing) ([]model.Listing, []Rejection) {
	accepted := make([]model.Listing, 0, len(raws))
	var rejections []Rejection

	for _, raw := range raws {
		clean, rej := p.Process(raw)
		if rej != nil {
			rejections = append(rejections, *rej)
			continue
		}
		accepted = append(accepted, clean)
	}

	zap.L().Info("pipeline: batch complete",
		zap.Int("accepted", len(accepted)),
		zap.Int("rejected", len(rejections)),
	)
	return accepted, rejections
}
