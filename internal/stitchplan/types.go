// Package stitchplan defines the reader capability for decoded embroidery
// files and the adapter that maps loosely-typed reader output onto the
// canonical design model.
package stitchplan

// #region reader-interface

// Reader abstracts an embroidery file decoder so the normalizer can be
// tested without a real machine-format parser.
type Reader interface {
	// ReadStitchPlan decodes the file at path into ordered color blocks.
	ReadStitchPlan(path string) ([]ColorBlock, error)
	// UnitsPerMM is the source coordinate scale: raw units per millimeter.
	UnitsPerMM() float64
}

// #endregion reader-interface

// #region raw-types

// RawStitch is one decoded stitch record. Coordinates are in the reader's
// native units; flags are reported as decoded, possibly several at once.
type RawStitch struct {
	X           float64
	Y           float64
	Trim        bool
	Jump        bool
	Stop        bool
	ColorChange bool
}

// ColorBlock is a maximal run of stitches sewn in one thread color.
// RGB may be nil or short when the source carries no usable palette entry.
type ColorBlock struct {
	RGB      []int
	Stitches []RawStitch
}

// #endregion raw-types
