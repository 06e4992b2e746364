package build

import "sort"

// Chronological returns a copy of builds ordered oldest first by build
// number. Backends deliver newest first; streak-sensitive consumers need
// the reverse.
func Chronological(builds []Build) []Build {
	out := make([]Build, len(builds))
	copy(out, builds)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Number < out[j].Number
	})
	return out
}
