package wheel

// Segment is the angular slice of the wheel assigned to one pool position.
// Angles are degrees; the slice covers [Start, End).
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// SegmentFor maps a pool position to its angular segment. The total
// positions partition [0, 360) into equal slices starting at 0 degrees, so
// segment i spans [i*360/total, (i+1)*360/total). Both bounds are computed
// from the index directly so adjacent segments share an exact boundary.
func SegmentFor(index, total int) Segment {
	width := 360.0 / float64(total)
	return Segment{
		Start: float64(index) * width,
		End:   float64(index+1) * width,
	}
}

// Segments returns the full partition for a pool of the given size, in
// pool order.
func Segments(total int) []Segment {
	out := make([]Segment, total)
	for i := range out {
		out[i] = SegmentFor(i, total)
	}
	return out
}

// LandingRotation computes the cumulative clockwise rotation, in degrees,
// that brings the midpoint of segment index under a pointer fixed at 0
// degrees, after extraTurns cosmetic full revolutions. The value is
// non-negative and deliberately not reduced modulo 360: callers apply it
// directly as a cumulative transform so the wheel visibly spins.
func LandingRotation(index, total, extraTurns int) float64 {
	seg := SegmentFor(index, total)
	midpoint := (seg.Start + seg.End) / 2
	return float64(extraTurns)*360 + 360 - midpoint
}
