package store

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortMode selects one of the three supported orderings.
type SortMode string

const (
	SortByName     SortMode = "name"     // locale-aware name ascending
	SortByModified SortMode = "modified" // most recently modified first
	SortByCategory SortMode = "category" // category ascending, name tie-break
)

// Sort orders scripts in place. Sorting is caller-side: the store returns
// records in undefined order and this is the documented contract for
// presenting them. All modes are stable so equal keys keep their input
// order.
func Sort(scripts []Script, mode SortMode) {
	// Collators buffer internally, so build one per call rather than
	// sharing across goroutines.
	coll := collate.New(language.English)

	switch mode {
	case SortByModified:
		sort.SliceStable(scripts, func(i, j int) bool {
			return scripts[i].ModifiedAt.After(scripts[j].ModifiedAt)
		})
	case SortByCategory:
		sort.SliceStable(scripts, func(i, j int) bool {
			if c := coll.CompareString(scripts[i].Category, scripts[j].Category); c != 0 {
				return c < 0
			}
			return coll.CompareString(scripts[i].Name, scripts[j].Name) < 0
		})
	default:
		sort.SliceStable(scripts, func(i, j int) bool {
			return coll.CompareString(scripts[i].Name, scripts[j].Name) < 0
		})
	}
}
