package ddoc

import (
	"sort"
	"strings"
)

// DevPrefix marks sources that are pushed ahead of the others of their kind.
const DevPrefix = "dev_"

// DevFirstLess orders names with DevPrefix before all others, then
// lexicographically by byte value within each group.
func DevFirstLess(a, b string) bool {
	aDev := strings.HasPrefix(a, DevPrefix)
	bDev := strings.HasPrefix(b, DevPrefix)
	if aDev != bDev {
		return aDev
	}
	return a < b
}

// SortNames sorts names in place using DevFirstLess.
func SortNames(names []string) {
	sort.Slice(names, func(i, j int) bool {
		return DevFirstLess(names[i], names[j])
	})
}

func sortSources(sources []Source) {
	sort.Slice(sources, func(i, j int) bool {
		return DevFirstLess(sources[i].entryName, sources[j].entryName)
	})
}
