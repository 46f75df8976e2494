package pipeline

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dekamik/pidgeon/internal/model"
)

func TestDeduplicator_FirstWins(t *testing.T) {
	d := NewDeduplicator()

	first := model.RawListing{URL: "https://x/1", Address: "Original"}
	repeat := model.RawListing{URL: "https://x/1", Address: "Different fields, same identity"}

	assert.Nil(t, d.Check(first))

	rej := d.Check(repeat)
	require.NotNil(t, rej)
	assert.Equal(t, "duplicate", rej.Reason)
	assert.Equal(t, 1, d.Len())
}

func TestDeduplicator_ManyDuplicates(t *testing.T) {
	d := NewDeduplicator()

	// N records where M share one identity: exactly one survives, in
	// arrival order.
	accepted := 0
	for i := 0; i < 5; i++ {
		if d.Check(model.RawListing{URL: "https://x/same"}) == nil {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)

	// Distinct identities are unaffected.
	for i := 0; i < 3; i++ {
		assert.Nil(t, d.Check(model.RawListing{URL: fmt.Sprintf("https://x/%d", i)}))
	}
	assert.Equal(t, 4, d.Len())
}

func TestDeduplicator_NoIdentityPassesUntracked(t *testing.T) {
	// A record without a URL is the validator's problem; if one reaches this
	// stage it never matches a later occurrence of itself. This is a
	// source-ordering dependency: acceptance here depends on the validator
	// running first.
	d := NewDeduplicator()

	assert.Nil(t, d.Check(model.RawListing{URL: ""}))
	assert.Nil(t, d.Check(model.RawListing{URL: ""}), "second empty identity also passes")
	assert.Equal(t, 0, d.Len())
}

func TestDeduplicator_ConcurrentProducers(t *testing.T) {
	d := NewDeduplicator()

	const producers = 8
	var wg sync.WaitGroup
	accepted := make([]int, producers)

	for p := 0; p < producers; p++ {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if d.Check(model.RawListing{URL: fmt.Sprintf("https://x/%d", i)}) == nil {
					accepted[p]++
				}
			}
		}()
	}
	wg.Wait()

	total := 0
	for _, n := range accepted {
		total += n
	}
	assert.Equal(t, 100, total, "each identity accepted exactly once across all producers")
	assert.Equal(t, 100, d.Len())
}
