package pipeline

import (
	"time"

	"github.com/Dekamik/pidgeon/internal/model"
)

// Enricher fills derived and default fields. It is a total function: it can
// never reject a record.
type Enricher struct {
	now func() time.Time
}

// NewEnricher creates an Enricher stamping timestamps from the wall clock.
func NewEnricher() *Enricher {
	return &Enricher{now: time.Now}
}

// NewEnricherAt creates an Enricher with a fixed clock.
func NewEnricherAt(now func() time.Time) *Enricher {
	return &Enricher{now: now}
}

// Enrich coerces the elevator/balcony fields to canonical boolean tokens and
// stamps ScrapedAt if absent. It is idempotent: a second pass changes
// nothing, and an existing ScrapedAt is never overwritten.
func (e *Enricher) Enrich(r model.RawListing) model.RawListing {
	r.HasElevator = canonicalBool(r.HasElevator)
	r.HasBalcony = canonicalBool(r.HasBalcony)

	if r.ScrapedAt == "" {
		r.ScrapedAt = e.now().Format(time.RFC3339)
	}
	return r
}

// canonicalBool maps any raw token onto "true"/"false". "true" is itself a
// truthy token, so re-coercing a canonical value is a no-op.
func canonicalBool(s string) string {
	if model.ParseBool(s) {
		return "true"
	}
	return "false"
}
