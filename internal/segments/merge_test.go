package segments

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
)

func seg(id uuid.UUID, start, end float64) Segment {
	return Segment{ID: id, StartTime: start, EndTime: end}
}

func TestMergeContiguous_Basic(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	merged := MergeContiguous([]Segment{
		seg(a, 10, 20),
		seg(b, 20, 30),
		seg(c, 100, 110),
	}, DefaultGapTolerance)

	if len(merged) != 2 {
		t.Fatalf("expected 2 ranges, got %d", len(merged))
	}
	if merged[0].StartTime != 10 || merged[0].EndTime != 30 {
		t.Errorf("first range = (%v, %v), want (10, 30)", merged[0].StartTime, merged[0].EndTime)
	}
	if len(merged[0].SegmentIDs) != 2 || merged[0].SegmentIDs[0] != a || merged[0].SegmentIDs[1] != b {
		t.Errorf("first range ids = %v, want [%s %s]", merged[0].SegmentIDs, a, b)
	}
	if merged[1].StartTime != 100 || merged[1].EndTime != 110 {
		t.Errorf("second range = (%v, %v), want (100, 110)", merged[1].StartTime, merged[1].EndTime)
	}
	if len(merged[1].SegmentIDs) != 1 || merged[1].SegmentIDs[0] != c {
		t.Errorf("second range ids = %v, want [%s]", merged[1].SegmentIDs, c)
	}
}

func TestMergeContiguous_SmallGapMerges(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	merged := MergeContiguous([]Segment{
		seg(a, 10, 20),
		seg(b, 23, 30), // 3s gap
	}, 5.0)

	if len(merged) != 1 {
		t.Fatalf("expected 1 range, got %d", len(merged))
	}
	if merged[0].StartTime != 10 || merged[0].EndTime != 30 {
		t.Errorf("range = (%v, %v), want (10, 30)", merged[0].StartTime, merged[0].EndTime)
	}
}

func TestMergeContiguous_GapEqualToleranceMerges(t *testing.T) {
	merged := MergeContiguous([]Segment{
		seg(uuid.New(), 10, 20),
		seg(uuid.New(), 25, 30), // exactly 5s gap
	}, 5.0)

	if len(merged) != 1 {
		t.Fatalf("gap equal to tolerance should merge, got %d ranges", len(merged))
	}
}

func TestMergeContiguous_LargeGapSplits(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	merged := MergeContiguous([]Segment{
		seg(a, 10, 20),
		seg(b, 30, 40), // 10s gap
	}, 5.0)

	if len(merged) != 2 {
		t.Fatalf("expected 2 ranges, got %d", len(merged))
	}
	if merged[0].SegmentIDs[0] != a || merged[1].SegmentIDs[0] != b {
		t.Errorf("ranges carry wrong ids: %v, %v", merged[0].SegmentIDs, merged[1].SegmentIDs)
	}
}

func TestMergeContiguous_Empty(t *testing.T) {
	merged := MergeContiguous(nil, DefaultGapTolerance)
	if len(merged) != 0 {
		t.Fatalf("expected no ranges, got %d", len(merged))
	}
}

func TestMergeContiguous_SingleSegment(t *testing.T) {
	a := uuid.New()
	merged := MergeContiguous([]Segment{seg(a, 10, 20)}, DefaultGapTolerance)

	if len(merged) != 1 {
		t.Fatalf("expected 1 range, got %d", len(merged))
	}
	r := merged[0]
	if r.StartTime != 10 || r.EndTime != 20 || len(r.SegmentIDs) != 1 || r.SegmentIDs[0] != a {
		t.Errorf("unexpected range %+v", r)
	}
}

func TestMergeContiguous_UnorderedInput(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	merged := MergeContiguous([]Segment{
		seg(c, 100, 110),
		seg(a, 10, 20),
		seg(b, 20, 30),
	}, DefaultGapTolerance)

	if len(merged) != 2 {
		t.Fatalf("expected 2 ranges, got %d", len(merged))
	}
	if merged[0].StartTime != 10 || merged[0].EndTime != 30 {
		t.Errorf("first range = (%v, %v), want (10, 30)", merged[0].StartTime, merged[0].EndTime)
	}
}

func TestMergeContiguous_NonMonotonicEndTimes(t *testing.T) {
	// Second segment is fully contained in the first; end time must not
	// shrink.
	merged := MergeContiguous([]Segment{
		seg(uuid.New(), 10, 50),
		seg(uuid.New(), 15, 20),
	}, 5.0)

	if len(merged) != 1 {
		t.Fatalf("expected 1 range, got %d", len(merged))
	}
	if merged[0].EndTime != 50 {
		t.Errorf("end time = %v, want 50", merged[0].EndTime)
	}
}

func TestMergeContiguous_IDPartitionAndOrderIndependence(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var segs []Segment
	start := 0.0
	for i := 0; i < 40; i++ {
		dur := 1 + rng.Float64()*20
		segs = append(segs, seg(uuid.New(), start, start+dur))
		start += dur + rng.Float64()*12
	}

	reference := MergeContiguous(segs, DefaultGapTolerance)

	refIDs := map[uuid.UUID]int{}
	for _, r := range reference {
		for _, id := range r.SegmentIDs {
			refIDs[id]++
		}
	}
	if len(refIDs) != len(segs) {
		t.Fatalf("output ids do not cover input: %d != %d", len(refIDs), len(segs))
	}
	for id, n := range refIDs {
		if n != 1 {
			t.Fatalf("id %s appears %d times", id, n)
		}
	}

	for i := 1; i < len(reference); i++ {
		if reference[i].StartTime < reference[i-1].StartTime {
			t.Fatalf("ranges not sorted at %d", i)
		}
		if reference[i].StartTime-reference[i-1].EndTime <= DefaultGapTolerance {
			t.Fatalf("adjacent ranges %d and %d should have merged", i-1, i)
		}
	}

	for trial := 0; trial < 5; trial++ {
		shuffled := make([]Segment, len(segs))
		copy(shuffled, segs)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		got := MergeContiguous(shuffled, DefaultGapTolerance)
		if len(got) != len(reference) {
			t.Fatalf("shuffled input produced %d ranges, want %d", len(got), len(reference))
		}
		for i := range got {
			if got[i].StartTime != reference[i].StartTime || got[i].EndTime != reference[i].EndTime {
				t.Fatalf("range %d differs after shuffle: (%v,%v) vs (%v,%v)",
					i, got[i].StartTime, got[i].EndTime, reference[i].StartTime, reference[i].EndTime)
			}
			gotIDs := map[uuid.UUID]bool{}
			for _, id := range got[i].SegmentIDs {
				gotIDs[id] = true
			}
			for _, id := range reference[i].SegmentIDs {
				if !gotIDs[id] {
					t.Fatalf("range %d missing id %s after shuffle", i, id)
				}
			}
		}
	}
}
