// Package interval provides a data structure for accounting half-open
// [start, end) intervals.
//
// This is implemented with a brute force approach that traverses every
// interval on each add. A better approach would be an interval tree, but
// the store only ever holds a few hundred intervals per area.
package interval

import (
	"cmp"
	"slices"
)

// An Interval from [Start, End).
type Interval[T cmp.Ordered] struct {
	// Start of the interval (inclusive).
	Start T

	// End of the interval (exclusive).
	End T
}

// CanMerge reports whether i and other can be combined. This differs from an
// overlap test in that two adjacent intervals are allowed to merge.
func (i Interval[T]) CanMerge(other Interval[T]) bool {
	return (i.Start <= other.Start && other.Start <= i.End) ||
		(other.Start <= i.Start && i.Start <= other.End)
}

// merge other into i. Callers must have checked CanMerge first.
func (i *Interval[T]) merge(other Interval[T]) {
	i.Start = min(i.Start, other.Start)
	i.End = max(i.End, other.End)
}

// A Store accounts a set of intervals, merging overlapping and adjacent
// ranges as they are added.
type Store[T cmp.Ordered] struct {
	intervals []Interval[T]
}

// Add an interval to the store.
func (s *Store[T]) Add(start, end T) {
	in := Interval[T]{Start: start, End: end}
	match := -1
	for i := 0; i < len(s.intervals); {
		switch {
		case match < 0 && s.intervals[i].CanMerge(in):
			s.intervals[i].merge(in)
			in = s.intervals[i]
			match = i
			i++
		case match >= 0 && s.intervals[i].CanMerge(in):
			// the grown interval now reaches a later one; fold it in
			s.intervals[match].merge(s.intervals[i])
			in = s.intervals[match]
			s.intervals = append(s.intervals[:i], s.intervals[i+1:]...)
		default:
			i++
		}
	}
	if match < 0 {
		s.intervals = append(s.intervals, in)
	}
}

// Intervals returns a sorted copy of the intervals in the store.
func (s *Store[T]) Intervals() []Interval[T] {
	out := slices.Clone(s.intervals)
	slices.SortFunc(out, func(a, b Interval[T]) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.End, b.End)
	})
	return out
}
