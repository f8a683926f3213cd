package imageio

import (
	"slices"
	"strings"

	"github.com/maruel/natural"
)

// Sort methods, as stored in the configuration
const (
	SortNatural    = 0 // file2 before file10
	SortSimple     = 1 // byte order
	SortEntryOrder = 2 // as listed by the directory or archive
)

// SortFunc returns images in display order. The argument is not modified.
type SortFunc func(images []ImagePath) []ImagePath

// SortFor returns the ordering of sortMethod. Unknown methods sort naturally.
func SortFor(sortMethod int) SortFunc {
	switch sortMethod {
	case SortSimple:
		return sortedBy(func(a, b string) int { return strings.Compare(a, b) })
	case SortEntryOrder:
		return slices.Clone[[]ImagePath]
	default:
		return sortedBy(naturalCompare)
	}
}

func naturalCompare(a, b string) int {
	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	}
	return 0
}

func sortedBy(cmp func(a, b string) int) SortFunc {
	return func(images []ImagePath) []ImagePath {
		result := slices.Clone(images)
		slices.SortStableFunc(result, func(x, y ImagePath) int { return cmp(x.Path, y.Path) })
		return result
	}
}
