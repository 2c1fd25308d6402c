package domain

import (
	"fmt"
	"sort"
)

// ItemIndex is the bijection between item names and dense integer indices.
// Assigned once at training time; embeddings row i belongs to Item(i).
type ItemIndex struct {
	toIndex map[string]int
	toItem  []string
}

// NewItemIndex builds an index over the given items in sorted order.
// Duplicates collapse to one entry.
func NewItemIndex(items []string) *ItemIndex {
	uniq := make(map[string]struct{}, len(items))
	for _, it := range items {
		uniq[it] = struct{}{}
	}
	sorted := make([]string, 0, len(uniq))
	for it := range uniq {
		sorted = append(sorted, it)
	}
	sort.Strings(sorted)

	toIndex := make(map[string]int, len(sorted))
	for i, it := range sorted {
		toIndex[it] = i
	}
	return &ItemIndex{toIndex: toIndex, toItem: sorted}
}

// ReconstructItemIndex rebuilds an index from its persisted item order.
func ReconstructItemIndex(items []string) (*ItemIndex, error) {
	toIndex := make(map[string]int, len(items))
	for i, it := range items {
		if _, dup := toIndex[it]; dup {
			return nil, fmt.Errorf("duplicate item %q in persisted index", it)
		}
		toIndex[it] = i
	}
	return &ItemIndex{toIndex: toIndex, toItem: append([]string(nil), items...)}, nil
}

// Index returns the dense index for an item name.
func (x *ItemIndex) Index(item string) (int, bool) {
	i, ok := x.toIndex[item]
	return i, ok
}

// Item returns the item name at index i.
func (x *ItemIndex) Item(i int) (string, bool) {
	if i < 0 || i >= len(x.toItem) {
		return "", false
	}
	return x.toItem[i], true
}

// Items returns the item names in index order.
func (x *ItemIndex) Items() []string { return append([]string(nil), x.toItem...) }

// Len returns the number of indexed items.
func (x *ItemIndex) Len() int { return len(x.toItem) }

// Vectors is the trained embedding table, one fixed-length row per item index.
type Vectors [][]float32

// At returns the vector for index i, or nil when out of range.
func (v Vectors) At(i int) []float32 {
	if i < 0 || i >= len(v) {
		return nil
	}
	return v[i]
}

// Dim returns the shared vector dimensionality (0 for an empty table).
func (v Vectors) Dim() int {
	if len(v) == 0 {
		return 0
	}
	return len(v[0])
}
