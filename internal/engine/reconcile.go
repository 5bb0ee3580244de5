package engine

import (
	"slices"

	"github.com/vinted-tools/vinted-notifier/internal/history"
	domain "github.com/vinted-tools/vinted-notifier/pkg/types"
)

// Reconcile partitions freshly fetched items against the profile's seen-ID
// set. It returns the items not yet seen, sorted ascending by ID so that
// delivery order resembles listing chronology, and the updated seen set
// after merge and trim. Pure function: no I/O, inputs are not mutated.
func Reconcile(items []domain.Item, seen []int64) ([]domain.Item, []int64) {
	seenSet := make(map[int64]struct{}, len(seen))
	for _, id := range seen {
		seenSet[id] = struct{}{}
	}

	var fresh []domain.Item
	for i := range items {
		if _, ok := seenSet[items[i].ID]; !ok {
			fresh = append(fresh, items[i])
		}
	}

	slices.SortFunc(fresh, func(a, b domain.Item) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})

	freshIDs := make([]int64, 0, len(fresh))
	for i := range fresh {
		freshIDs = append(freshIDs, fresh[i].ID)
	}

	return fresh, history.MergeTrim(seen, freshIDs)
}
