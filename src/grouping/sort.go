package grouping

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"moirai-dashboard/src/build"
)

// Mode selects the ordering applied by Sort.
type Mode string

const (
	ModeStatus Mode = "status"
	ModeTime   Mode = "time"
	ModeName   Mode = "name"
)

// ParseMode maps a user-supplied mode onto a Mode. Anything unrecognised
// falls back to ModeStatus.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeTime, ModeName:
		return Mode(s)
	}
	return ModeStatus
}

// Modes lists the sort modes in the order the UI cycles through them.
var Modes = []Mode{ModeStatus, ModeTime, ModeName}

var statusOrder = map[string]int{
	build.StatusFailure: 0,
	build.StatusError:   1,
	build.StatusRunning: 2,
	build.StatusPending: 3,
	build.StatusSuccess: 4,
	build.StatusKilled:  5,
	build.StatusSkipped: 6,
}

const unknownStatusOrder = 7

// StatusOrder returns the sort priority of a status; lower sorts first.
func StatusOrder(status string) int {
	if o, ok := statusOrder[status]; ok {
		return o
	}
	return unknownStatusOrder
}

// Sort returns a sorted copy of entries. The input is left untouched.
func Sort(entries []Entry, mode Mode) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)

	switch mode {
	case ModeTime:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt() > out[j].CreatedAt()
		})
	case ModeName:
		// Collators keep internal buffers; one per call.
		c := collate.New(language.Und, collate.Loose)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Name(), out[j].Name()) < 0
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			oi, oj := StatusOrder(out[i].Status), StatusOrder(out[j].Status)
			if oi != oj {
				return oi < oj
			}
			if out[i].CreatedAt() != out[j].CreatedAt() {
				return out[i].CreatedAt() > out[j].CreatedAt()
			}
			return out[i].StatsKey < out[j].StatsKey
		})
	}
	return out
}
