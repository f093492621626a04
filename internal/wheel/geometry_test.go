package wheel

import (
	"math"
	"testing"
)

const angleTolerance = 1e-9

func TestSegmentFor_ExactPartition(t *testing.T) {
	for _, total := range []int{1, 2, 3, 4, 7, 12, 100} {
		segments := Segments(total)

		if segments[0].Start != 0 {
			t.Errorf("total=%d: first segment starts at %v, want 0", total, segments[0].Start)
		}
		if math.Abs(segments[total-1].End-360) > angleTolerance {
			t.Errorf("total=%d: last segment ends at %v, want 360", total, segments[total-1].End)
		}

		// No gap and no overlap: each boundary is shared exactly.
		for i := 1; i < total; i++ {
			if segments[i].Start != segments[i-1].End {
				t.Errorf("total=%d: segment %d starts at %v, previous ends at %v",
					total, i, segments[i].Start, segments[i-1].End)
			}
		}

		for i, seg := range segments {
			if seg.End <= seg.Start {
				t.Errorf("total=%d: segment %d is empty or inverted: %+v", total, i, seg)
			}
		}
	}
}

func TestSegmentFor_Width(t *testing.T) {
	tests := []struct {
		index, total       int
		wantStart, wantEnd float64
	}{
		{0, 4, 0, 90},
		{1, 4, 90, 180},
		{3, 4, 270, 360},
		{0, 1, 0, 360},
		{2, 3, 240, 360},
	}

	for _, tt := range tests {
		seg := SegmentFor(tt.index, tt.total)
		if math.Abs(seg.Start-tt.wantStart) > angleTolerance || math.Abs(seg.End-tt.wantEnd) > angleTolerance {
			t.Errorf("SegmentFor(%d, %d) = %+v, want [%v, %v)",
				tt.index, tt.total, seg, tt.wantStart, tt.wantEnd)
		}
	}
}

func TestLandingRotation_AlignsMidpointWithPointer(t *testing.T) {
	for _, total := range []int{1, 2, 3, 4, 8, 13} {
		for index := 0; index < total; index++ {
			for _, extraTurns := range []int{0, 1, 5} {
				rotation := LandingRotation(index, total, extraTurns)

				if rotation < 0 {
					t.Errorf("LandingRotation(%d, %d, %d) = %v, want non-negative",
						index, total, extraTurns, rotation)
				}

				seg := SegmentFor(index, total)
				midpoint := (seg.Start + seg.End) / 2
				want := math.Mod(360-midpoint, 360)
				got := math.Mod(rotation, 360)
				if math.Abs(got-want) > angleTolerance {
					t.Errorf("LandingRotation(%d, %d, %d) mod 360 = %v, want %v",
						index, total, extraTurns, got, want)
				}
			}
		}
	}
}

func TestLandingRotation_ExtraTurnsAddFullRevolutions(t *testing.T) {
	base := LandingRotation(2, 8, 0)
	spun := LandingRotation(2, 8, 3)

	if math.Abs(spun-base-3*360) > angleTolerance {
		t.Errorf("LandingRotation with 3 extra turns = %v, want %v", spun, base+3*360)
	}
}
