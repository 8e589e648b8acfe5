// Package design holds the canonical stitch/color document produced by the
// normalizer and consumed by the export and metrics tooling.
package design

import (
	"encoding/json"
	"math"
)

// #region stitch-type

// StitchType enumerates stitch commands in a canonical design.
type StitchType string

const (
	// Normal is a sewing stitch - a needle penetration.
	Normal StitchType = "Normal"
	// Jump moves the frame without sewing.
	Jump StitchType = "Jump"
	// Trim cuts the thread.
	Trim StitchType = "Trim"
	// ColorChange switches to the next thread.
	ColorChange StitchType = "ColorChange"
	// End terminates the design.
	End StitchType = "End"
)

// #endregion stitch-type

// #region types

// Stitch is one command on the needle path. Position is in millimeters.
type Stitch struct {
	X    float64    `json:"x"`
	Y    float64    `json:"y"`
	Type StitchType `json:"stitch_type"`
}

// Color is an RGBA thread color.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// OpaqueBlack is the fallback thread color when a source provides none.
func OpaqueBlack() Color {
	return Color{R: 0, G: 0, B: 0, A: 255}
}

// Design is an ordered stitch plan with its thread palette.
type Design struct {
	Name     string   `json:"name"`
	Stitches []Stitch `json:"stitches"`
	Colors   []Color  `json:"colors"`
}

// #endregion types

// #region unit-stitch

// UnitStitch is a stitch converted to 0.1mm integer units, the native unit
// of most embroidery machine formats.
type UnitStitch struct {
	X    int
	Y    int
	Type StitchType
}

// #endregion unit-stitch

// #region helpers

// Extents returns the bounding box of the design in mm.
// An empty design reports a zero box.
func (d *Design) Extents() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)

	for _, s := range d.Stitches {
		minX = math.Min(minX, s.X)
		minY = math.Min(minY, s.Y)
		maxX = math.Max(maxX, s.X)
		maxY = math.Max(maxY, s.Y)
	}

	if minX > maxX {
		return 0, 0, 0, 0
	}
	return minX, minY, maxX, maxY
}

// ColorChangeCount counts the color-change commands in the design.
func (d *Design) ColorChangeCount() int {
	n := 0
	for _, s := range d.Stitches {
		if s.Type == ColorChange {
			n++
		}
	}
	return n
}

// StitchesInUnits converts the stitch list from mm to 0.1mm units.
func (d *Design) StitchesInUnits() []UnitStitch {
	units := make([]UnitStitch, len(d.Stitches))
	for i, s := range d.Stitches {
		units[i] = UnitStitch{
			X:    int(math.Round(s.X * 10.0)),
			Y:    int(math.Round(s.Y * 10.0)),
			Type: s.Type,
		}
	}
	return units
}

// #endregion helpers

// #region encode

// Encode renders the design as the canonical two-space-indented JSON
// document. Output is deterministic: identical designs encode to identical
// bytes.
func (d *Design) Encode() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// #endregion encode
