// Package segments holds the pure interval-merging logic used to collapse
// individually labeled ad segments into contiguous removal ranges.
package segments

import (
	"sort"

	"github.com/google/uuid"
)

// DefaultGapTolerance is the maximum gap in seconds between two ad segments
// for them to be merged into one removal range.
const DefaultGapTolerance = 5.0

// Segment is the merger's input: one ad-labeled slice of the transcript.
type Segment struct {
	ID        uuid.UUID `json:"id"`
	StartTime float64   `json:"start_time"`
	EndTime   float64   `json:"end_time"`
}

// Range is a merged, contiguous removal interval. SegmentIDs records which
// input segments the range was built from.
type Range struct {
	StartTime  float64     `json:"start_time"`
	EndTime    float64     `json:"end_time"`
	SegmentIDs []uuid.UUID `json:"segment_ids"`
}

// MergeContiguous merges segments whose gap is at most gapTolerance seconds
// (inclusive) into sorted, non-overlapping ranges. Input order does not
// matter; segments are sorted by start time first. Every input id appears in
// exactly one output range.
func MergeContiguous(segs []Segment, gapTolerance float64) []Range {
	if len(segs) == 0 {
		return []Range{}
	}

	sorted := make([]Segment, len(segs))
	copy(sorted, segs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime < sorted[j].StartTime
	})

	merged := make([]Range, 0, len(sorted))
	current := Range{
		StartTime:  sorted[0].StartTime,
		EndTime:    sorted[0].EndTime,
		SegmentIDs: []uuid.UUID{sorted[0].ID},
	}

	for _, seg := range sorted[1:] {
		gap := seg.StartTime - current.EndTime
		if gap <= gapTolerance {
			// max() guards against end times that are not monotonic in
			// start-time order.
			if seg.EndTime > current.EndTime {
				current.EndTime = seg.EndTime
			}
			current.SegmentIDs = append(current.SegmentIDs, seg.ID)
		} else {
			merged = append(merged, current)
			current = Range{
				StartTime:  seg.StartTime,
				EndTime:    seg.EndTime,
				SegmentIDs: []uuid.UUID{seg.ID},
			}
		}
	}

	merged = append(merged, current)
	return merged
}
