package menu

import "sort"

// FresherThan orders by capture time descending with missing capture times
// last, then by ingestion time descending.
func FresherThan(a, b *MenuImage) bool {
	switch {
	case a.PhotoTakenAt != nil && b.PhotoTakenAt == nil:
		return true
	case a.PhotoTakenAt == nil && b.PhotoTakenAt != nil:
		return false
	case a.PhotoTakenAt != nil && b.PhotoTakenAt != nil && !a.PhotoTakenAt.Equal(*b.PhotoTakenAt):
		return a.PhotoTakenAt.After(*b.PhotoTakenAt)
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func SortFresh(items []FreshMenu) {
	sort.SliceStable(items, func(i, j int) bool {
		return FresherThan(&items[i].Image, &items[j].Image)
	})
}
