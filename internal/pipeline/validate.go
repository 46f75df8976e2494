package pipeline

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Dekamik/pidgeon/internal/model"
)

// Rejection describes why a single record was dropped. Rejections are
// per-record outcomes, never run-level errors.
type Rejection struct {
	URL    string
	Stage  string
	Reason string
}

func (r Rejection) String() string {
	return fmt.Sprintf("%s: %s", r.Stage, r.Reason)
}

// Validator checks a raw listing for structural and semantic validity.
// Fatal problems reject the record; advisory problems are logged and the
// record survives, possibly with the offending field nulled.
type Validator struct {
	now func() time.Time
}

// NewValidator creates a Validator using the wall clock for the year-built
// upper bound.
func NewValidator() *Validator {
	return &Validator{now: time.Now}
}

// NewValidatorAt creates a Validator with a fixed clock.
func NewValidatorAt(now func() time.Time) *Validator {
	return &Validator{now: now}
}

var requiredFields = []struct {
	name string
	get  func(model.RawListing) string
}{
	{"url", func(r model.RawListing) string { return r.URL }},
	{"source", func(r model.RawListing) string { return r.Source }},
	{"address", func(r model.RawListing) string { return r.Address }},
}

// Validate checks r and returns the (possibly advisory-adjusted) record, or
// a Rejection when a fatal problem is found. The rejection reason names the
// offending field and its raw value.
func (v *Validator) Validate(r model.RawListing) (model.RawListing, *Rejection) {
	for _, f := range requiredFields {
		if strings.TrimSpace(f.get(r)) == "" {
			return r, &Rejection{
				URL:    r.URL,
				Stage:  "validate",
				Reason: fmt.Sprintf("missing required field %s", f.name),
			}
		}
	}

	// Price: non-numeric after stripping or non-positive is fatal. Financial
	// data is load-bearing for scoring.
	if r.Price != "" {
		price, ok := model.ParseAmount(r.Price)
		if !ok {
			return r, &Rejection{
				URL:    r.URL,
				Stage:  "validate",
				Reason: fmt.Sprintf("invalid price %q", r.Price),
			}
		}
		if price <= 0 {
			return r, &Rejection{
				URL:    r.URL,
				Stage:  "validate",
				Reason: fmt.Sprintf("non-positive price %q", r.Price),
			}
		}
	}

	// Fee: negative is fatal, non-numeric is advisory (field nulled).
	if r.Fee != "" {
		fee, ok := model.ParseAmount(r.Fee)
		switch {
		case !ok:
			zap.L().Warn("validate: unparseable fee, dropping field",
				zap.String("url", r.URL),
				zap.String("fee", r.Fee),
			)
			r.Fee = ""
		case fee < 0:
			return r, &Rejection{
				URL:    r.URL,
				Stage:  "validate",
				Reason: fmt.Sprintf("negative fee %q", r.Fee),
			}
		}
	}

	// Rooms: advisory only. Unusually large counts are plausible for
	// atypical listings, so out-of-range values are kept.
	if r.Rooms != "" {
		rooms, ok := model.ParseDecimal(r.Rooms)
		switch {
		case !ok:
			zap.L().Warn("validate: unparseable rooms, dropping field",
				zap.String("url", r.URL),
				zap.String("rooms", r.Rooms),
			)
			r.Rooms = ""
		case rooms <= 0 || rooms > 20:
			zap.L().Warn("validate: unusual room count",
				zap.String("url", r.URL),
				zap.Float64("rooms", rooms),
			)
		}
	}

	// Year built: advisory only.
	if r.YearBuilt != "" {
		year, ok := model.ParseInteger(r.YearBuilt)
		switch {
		case !ok:
			zap.L().Warn("validate: unparseable year built, dropping field",
				zap.String("url", r.URL),
				zap.String("year_built", r.YearBuilt),
			)
			r.YearBuilt = ""
		case year < 1800 || year > v.now().Year():
			zap.L().Warn("validate: unusual year built",
				zap.String("url", r.URL),
				zap.Int("year_built", year),
			)
		}
	}

	return r, nil
}
