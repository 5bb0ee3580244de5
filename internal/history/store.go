// Package history persists which item IDs have already been notified, per
// profile. The engine depends on the Store interface, never on a concrete
// backend, so file- and Postgres-backed runs share all reconciliation logic.
package history

import (
	"context"
	"slices"
)

// MaxPerProfile bounds the seen-ID set kept for each profile. When the set
// overflows, the numerically largest IDs are retained as a proxy for most
// recent, since fresh Vinted listings trend toward higher IDs.
const MaxPerProfile = 200

// Record maps a profile ID to the item IDs already notified for it.
type Record map[string][]int64

// Store defines how a Record is loaded and persisted.
type Store interface {
	// Load returns the persisted record. Missing or corrupt storage yields
	// an empty record, never an error that would fail the run.
	Load(ctx context.Context) (Record, error)
	// Save persists the record atomically.
	Save(ctx context.Context, rec Record) error
	Close()
}

// Contains reports whether the profile has already seen the item ID.
func (r Record) Contains(profileID string, itemID int64) bool {
	return slices.Contains(r[profileID], itemID)
}

// MergeAndTrim unions newIDs into the profile's set via MergeTrim and
// updates the record in place. Returns the updated set.
func (r Record) MergeAndTrim(profileID string, newIDs []int64) []int64 {
	merged := MergeTrim(r[profileID], newIDs)
	r[profileID] = merged
	return merged
}

// MergeTrim unions two ID sets, drops duplicates, and retains at most
// MaxPerProfile entries, keeping the numerically largest in descending
// order.
func MergeTrim(existing, newIDs []int64) []int64 {
	seen := make(map[int64]struct{}, len(existing)+len(newIDs))
	merged := make([]int64, 0, len(existing)+len(newIDs))

	for _, id := range existing {
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	for _, id := range newIDs {
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}

	slices.SortFunc(merged, func(a, b int64) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		default:
			return 0
		}
	})

	if len(merged) > MaxPerProfile {
		merged = merged[:MaxPerProfile]
	}

	return merged
}
