package scorer

import (
	"sort"

	"github.com/Dekamik/pidgeon/internal/model"
)

// Rank sorts scored listings by score descending and assigns dense 1-based
// ranks in place. The sort is stable: listings with equal scores keep their
// input order, so ties break deterministically.
func Rank(scored []model.ScoredListing) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	for i := range scored {
		scored[i].Rank = i + 1
	}
}
