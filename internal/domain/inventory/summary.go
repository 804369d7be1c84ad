package inventory

import (
	"sort"

	"github.com/google/uuid"
)

// StatusCount is a raw grouped count returned by the store
type StatusCount struct {
	ItemTypeID uuid.UUID
	Status     Status
	Count      int64
}

// TypeSummary holds per-status counts of one item type
type TypeSummary struct {
	ItemTypeID   uuid.UUID
	InInventory  int64
	WithEmployee int64
	Sold         int64
}

// Total returns the number of items across all statuses
func (s TypeSummary) Total() int64 {
	return s.InInventory + s.WithEmployee + s.Sold
}

// Count returns the count for one status
func (s TypeSummary) Count(status Status) int64 {
	switch status {
	case StatusInInventory:
		return s.InInventory
	case StatusWithEmployee:
		return s.WithEmployee
	case StatusSold:
		return s.Sold
	}
	return 0
}

// BuildSummary folds grouped counts into one summary per item type, ordered by type ID
func BuildSummary(counts []StatusCount) []TypeSummary {
	byType := make(map[uuid.UUID]*TypeSummary)
	for _, c := range counts {
		s, ok := byType[c.ItemTypeID]
		if !ok {
			s = &TypeSummary{ItemTypeID: c.ItemTypeID}
			byType[c.ItemTypeID] = s
		}
		switch c.Status {
		case StatusInInventory:
			s.InInventory += c.Count
		case StatusWithEmployee:
			s.WithEmployee += c.Count
		case StatusSold:
			s.Sold += c.Count
		}
	}

	out := make([]TypeSummary, 0, len(byType))
	for _, s := range byType {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ItemTypeID.String() < out[j].ItemTypeID.String()
	})
	return out
}
