package record

import "sort"

// index provides O(log n + k) overlap queries using a sorted-slice approach.
// Features are indexed once at construction and never modified.
type index struct {
	intervals []interval
	maxEnd    []int // maxEnd[i] = max(end) for intervals[:i+1]
}

type interval struct {
	start int
	end   int
	pos   int // position in the record's feature slice
}

func buildIndex(features []Feature) *index {
	if len(features) == 0 {
		return &index{}
	}

	intervals := make([]interval, len(features))
	for i, f := range features {
		intervals[i] = interval{start: f.Start, end: f.End, pos: i}
	}

	sort.SliceStable(intervals, func(i, j int) bool {
		return intervals[i].start < intervals[j].start
	})

	maxEnd := make([]int, len(intervals))
	maxEnd[0] = intervals[0].end
	for i := 1; i < len(intervals); i++ {
		maxEnd[i] = max(intervals[i].end, maxEnd[i-1])
	}

	return &index{intervals: intervals, maxEnd: maxEnd}
}

// overlapping returns the feature positions with a non-empty overlap with [start, end),
// in ascending (insertion) order.
func (x *index) overlapping(start, end int) []int {
	if len(x.intervals) == 0 || start >= end {
		return nil
	}

	// Candidates must start before end; hi is the first index that does not.
	hi := sort.Search(len(x.intervals), func(i int) bool {
		return x.intervals[i].start >= end
	})

	var result []int
	for i := hi - 1; i >= 0; i-- {
		// Nothing in intervals[0..i] reaches past start.
		if x.maxEnd[i] <= start {
			break
		}
		if x.intervals[i].end > start {
			result = append(result, x.intervals[i].pos)
		}
	}

	sort.Ints(result)
	return result
}
