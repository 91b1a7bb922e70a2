package stats

import (
	"sort"
	"time"
)

const day = 24 * time.Hour

// Day truncates t to its calendar date in loc, expressed as UTC midnight so that
// consecutive dates are exactly 24h apart.
func Day(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Streak returns the current and longest runs of consecutive days.
// days are values produced by Day; duplicates and order do not matter.
// The current run is the one ending at the most recent day, and only counts
// when that day is today or yesterday.
func Streak(days []time.Time, today time.Time) (current, longest int) {
	if len(days) == 0 {
		return 0, 0
	}
	uniq := make(map[time.Time]struct{}, len(days))
	for _, d := range days {
		uniq[d] = struct{}{}
	}
	sorted := make([]time.Time, 0, len(uniq))
	for d := range uniq {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	run := 0
	for i, d := range sorted {
		if i > 0 && d.Sub(sorted[i-1]) == day {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	last := sorted[len(sorted)-1]
	if gap := today.Sub(last); gap == 0 || gap == day {
		current = run
	}
	return current, longest
}
