// Package quality derives sewing-quality summaries from canonical designs.
// The output document is what the parity gate consumes for both the
// baseline and the candidate side.
package quality

import (
	"math"

	"github.com/DrSh4dow/vision/internal/design"
)

// DefaultStitchLength is the target sewing stitch length in mm.
const DefaultStitchLength = 2.5

// #region route-metrics

// RouteMetrics counts non-sewing transitions and the frame travel they cost.
type RouteMetrics struct {
	JumpCount        int     `json:"jump_count"`
	TrimCount        int     `json:"trim_count"`
	ColorChangeCount int     `json:"color_change_count"`
	TravelDistanceMM float64 `json:"travel_distance_mm"`
}

// ComputeRouteMetrics tallies jumps, trims, color changes, and the travel
// distance accumulated over those transitions.
func ComputeRouteMetrics(d *design.Design) RouteMetrics {
	var m RouteMetrics

	for i, s := range d.Stitches {
		switch s.Type {
		case design.Jump:
			m.JumpCount++
		case design.Trim:
			m.TrimCount++
		case design.ColorChange:
			m.ColorChangeCount++
		}

		if i == 0 {
			continue
		}

		switch s.Type {
		case design.Jump, design.Trim, design.ColorChange:
			prev := d.Stitches[i-1]
			m.TravelDistanceMM += math.Hypot(s.X-prev.X, s.Y-prev.Y)
		}
	}

	return m
}

// #endregion route-metrics

// #region quality-metrics

// Metrics is the seven-number quality summary for one design.
type Metrics struct {
	StitchCount      int     `json:"stitch_count"`
	JumpCount        int     `json:"jump_count"`
	TrimCount        int     `json:"trim_count"`
	TravelDistanceMM float64 `json:"travel_distance_mm"`
	DensityErrorMM   float64 `json:"density_error_mm"`
	AngleErrorDeg    float64 `json:"angle_error_deg"`
	CoverageErrorPct float64 `json:"coverage_error_pct"`
}

// Output is the full quality document: route metrics plus the seven-field
// summary nested under "quality".
type Output struct {
	Route   RouteMetrics `json:"route"`
	Quality Metrics      `json:"quality"`
}

// ComputeMetrics derives the quality summary from a design and the target
// stitch length. stitchLength <= 0 falls back to the default.
//
// Density error is the mean absolute deviation of sewing-segment length from
// the target. Angle error is the mean absolute turning angle between
// successive sewing segments. Coverage error compares total sewn length
// against stitch count times the target length, in percent.
func ComputeMetrics(d *design.Design, stitchLength float64) Metrics {
	if stitchLength <= 0 {
		stitchLength = DefaultStitchLength
	}

	route := ComputeRouteMetrics(d)
	m := Metrics{
		JumpCount:        route.JumpCount,
		TrimCount:        route.TrimCount,
		TravelDistanceMM: route.TravelDistanceMM,
	}

	var segments []segment
	var prev *design.Stitch
	for i := range d.Stitches {
		s := &d.Stitches[i]
		if s.Type != design.Normal {
			prev = nil
			continue
		}
		m.StitchCount++
		if prev != nil {
			segments = append(segments, segment{
				dx:  s.X - prev.X,
				dy:  s.Y - prev.Y,
				len: math.Hypot(s.X-prev.X, s.Y-prev.Y),
			})
		}
		prev = s
	}

	if len(segments) == 0 {
		return m
	}

	var sewnLen, spacingDev float64
	for _, seg := range segments {
		sewnLen += seg.len
		spacingDev += math.Abs(seg.len - stitchLength)
	}
	m.DensityErrorMM = spacingDev / float64(len(segments))

	var turnSum float64
	turns := 0
	for i := 1; i < len(segments); i++ {
		a, b := segments[i-1], segments[i]
		if a.len == 0 || b.len == 0 {
			continue
		}
		turnSum += math.Abs(turnAngleDeg(a, b))
		turns++
	}
	if turns > 0 {
		m.AngleErrorDeg = turnSum / float64(turns)
	}

	expected := float64(len(segments)) * stitchLength
	m.CoverageErrorPct = math.Abs(sewnLen-expected) / math.Max(expected, 1.0) * 100.0

	return m
}

// #endregion quality-metrics

// #region helpers

type segment struct {
	dx, dy, len float64
}

// turnAngleDeg is the signed direction change between two segments in
// degrees, in (-180, 180].
func turnAngleDeg(a, b segment) float64 {
	cross := a.dx*b.dy - a.dy*b.dx
	dot := a.dx*b.dx + a.dy*b.dy
	return math.Atan2(cross, dot) * 180.0 / math.Pi
}

// #endregion helpers
