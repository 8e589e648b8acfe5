package stitchplan

import "github.com/DrSh4dow/vision/internal/design"

// #region classify

// Classify maps raw stitch flags to a single stitch type.
// Priority: Trim, then Jump, then Stop or ColorChange, then Normal.
// When several flags are set only the highest-priority one counts.
func Classify(s RawStitch) design.StitchType {
	switch {
	case s.Trim:
		return design.Trim
	case s.Jump:
		return design.Jump
	case s.Stop || s.ColorChange:
		return design.ColorChange
	default:
		return design.Normal
	}
}

// #endregion classify

// #region block-color

// BlockColor derives a block's thread color from its RGB triple.
// Anything short of three components falls back to opaque black; alpha is
// always 255. All palette defaulting happens here and nowhere else.
func BlockColor(b ColorBlock) design.Color {
	if len(b.RGB) < 3 {
		return design.OpaqueBlack()
	}
	return design.Color{
		R: clampByte(b.RGB[0]),
		G: clampByte(b.RGB[1]),
		B: clampByte(b.RGB[2]),
		A: 255,
	}
}

// clampByte restricts v to [0, 255].
func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// #endregion block-color
