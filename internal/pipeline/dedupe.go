package pipeline

import (
	"sync"

	"github.com/Dekamik/pidgeon/internal/model"
)

// Deduplicator tracks listing URLs seen within one run and rejects repeats.
// Identity is the exact URL string; callers must pre-normalize trailing
// slashes, case or query parameters if that matters to them.
//
// Check-and-insert is a single atomic step under the mutex, so one
// Deduplicator may be shared by concurrent producers.
type Deduplicator struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewDeduplicator creates an empty Deduplicator. One instance is scoped to
// one pipeline run; the seen set is not persisted across runs.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Check accepts the first occurrence of a URL and rejects every subsequent
// one, regardless of whether other fields differ. A record without a URL is
// not this stage's responsibility (the validator rejects those); if one gets
// here anyway it passes untracked.
func (d *Deduplicator) Check(r model.RawListing) *Rejection {
	if r.URL == "" {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[r.URL]; ok {
		return &Rejection{URL: r.URL, Stage: "dedupe", Reason: "duplicate"}
	}
	d.seen[r.URL] = struct{}{}
	return nil
}

// Len returns the number of distinct identities seen so far.
func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
