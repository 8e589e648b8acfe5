// Package dst decodes Tajima DST embroidery files into stitch plans.
//
// DST records are 3-byte commands carrying balanced-ternary position deltas
// (powers 1/3/9/27/81 per axis, one positive and one negative bit each) plus
// control bits for jump and color change. The file opens with a 512-byte
// text header and the body ends with the marker 00 00 F3.
//
// Reference: https://edutechwiki.unige.ch/en/Embroidery_format_DST
package dst

import (
	"fmt"
	"os"

	"github.com/DrSh4dow/vision/internal/stitchplan"
)

// headerSize is the fixed DST header length in bytes.
const headerSize = 512

// unitsPerMM is the DST coordinate scale: one unit is 0.1mm.
const unitsPerMM = 10.0

// #region reader

// Reader decodes DST files into ordered color blocks.
type Reader struct{}

// NewReader creates a DST reader.
func NewReader() *Reader {
	return &Reader{}
}

// UnitsPerMM reports the DST unit scale (0.1mm units).
func (r *Reader) UnitsPerMM() float64 {
	return unitsPerMM
}

// ReadStitchPlan decodes the DST file at path.
//
// DST carries no thread palette, so every block's RGB is absent and callers
// fall back to their default color. A color-change record closes the current
// block. Trims are recovered from the conventional three-micro-jump
// signature (+1,+1 / -2,-2 / +1,+1) that exporters emit before the real
// move; the move following the signature gets the trim flag.
func (r *Reader) ReadStitchPlan(path string) ([]stitchplan.ColorBlock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dst file: %w", err)
	}
	if len(data) < headerSize {
		return nil, fmt.Errorf("dst file too short: %d bytes, header needs %d", len(data), headerSize)
	}

	records := decodeRecords(data[headerSize:])
	records = foldTrimSignatures(records)

	blocks := []stitchplan.ColorBlock{{}}
	var x, y float64

	for _, rec := range records {
		x += float64(rec.dx)
		y += float64(rec.dy)

		cur := &blocks[len(blocks)-1]
		cur.Stitches = append(cur.Stitches, stitchplan.RawStitch{
			X:           x,
			Y:           y,
			Trim:        rec.trim,
			Jump:        rec.jump,
			ColorChange: rec.colorChange,
		})

		if rec.colorChange {
			blocks = append(blocks, stitchplan.ColorBlock{})
		}
	}

	// A trailing color change leaves an empty block behind.
	if last := len(blocks) - 1; last > 0 && len(blocks[last].Stitches) == 0 {
		blocks = blocks[:last]
	}
	if len(blocks) == 1 && len(blocks[0].Stitches) == 0 {
		return nil, nil
	}
	return blocks, nil
}

// #endregion reader

// #region decode

// record is one decoded 3-byte command.
type record struct {
	dx, dy      int
	jump        bool
	trim        bool
	colorChange bool
}

// decodeRecords walks the stitch body until the end marker or the data runs
// out. Truncated trailing bytes are ignored.
func decodeRecords(body []byte) []record {
	var records []record
	for i := 0; i+3 <= len(body); i += 3 {
		b0, b1, b2 := body[i], body[i+1], body[i+2]

		if b0 == 0x00 && b1 == 0x00 && b2 == 0xF3 {
			break
		}

		rec := record{
			dx: decodeAxis(
				b0&0x04 != 0, b0&0x08 != 0,
				b1&0x04 != 0, b1&0x08 != 0,
				b0&0x01 != 0, b0&0x02 != 0,
				b1&0x01 != 0, b1&0x02 != 0,
				b2&0x04 != 0, b2&0x08 != 0,
			),
			dy: decodeAxis(
				b0&0x80 != 0, b0&0x40 != 0,
				b1&0x80 != 0, b1&0x40 != 0,
				b0&0x20 != 0, b0&0x10 != 0,
				b1&0x20 != 0, b1&0x10 != 0,
				b2&0x20 != 0, b2&0x10 != 0,
			),
		}

		switch b2 & 0xC0 {
		case 0xC0:
			rec.colorChange = true
		case 0x80:
			rec.jump = true
		}

		records = append(records, rec)
	}
	return records
}

// decodeAxis sums the balanced-ternary contributions for one axis.
// Arguments are (positive, negative) bit pairs for powers 1, 3, 9, 27, 81.
func decodeAxis(p1, n1, p3, n3, p9, n9, p27, n27, p81, n81 bool) int {
	v := 0
	v += ternaryDigit(p1, n1) * 1
	v += ternaryDigit(p3, n3) * 3
	v += ternaryDigit(p9, n9) * 9
	v += ternaryDigit(p27, n27) * 27
	v += ternaryDigit(p81, n81) * 81
	return v
}

func ternaryDigit(pos, neg bool) int {
	switch {
	case pos:
		return 1
	case neg:
		return -1
	default:
		return 0
	}
}

// #endregion decode

// #region trim-signature

// foldTrimSignatures collapses the three-micro-jump trim convention.
// The micro jumps net to zero displacement, so dropping them preserves all
// absolute positions.
func foldTrimSignatures(records []record) []record {
	out := make([]record, 0, len(records))
	for i := 0; i < len(records); i++ {
		if i+3 < len(records) && isTrimSignature(records[i:i+3]) {
			next := records[i+3]
			next.trim = true
			out = append(out, next)
			i += 3
			continue
		}
		out = append(out, records[i])
	}
	return out
}

func isTrimSignature(recs []record) bool {
	if len(recs) != 3 {
		return false
	}
	for _, r := range recs {
		if !r.jump || r.colorChange {
			return false
		}
	}
	return recs[0].dx == 1 && recs[0].dy == 1 &&
		recs[1].dx == -2 && recs[1].dy == -2 &&
		recs[2].dx == 1 && recs[2].dy == 1
}

// #endregion trim-signature
