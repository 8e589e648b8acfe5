package design

import (
	"bytes"
	"testing"
)

func makeDesign(stitches ...Stitch) *Design {
	return &Design{
		Name:     "test",
		Stitches: stitches,
		Colors:   []Color{OpaqueBlack()},
	}
}

func TestExtentsEmptyDesign(t *testing.T) {
	d := makeDesign()

	minX, minY, maxX, maxY := d.Extents()

	if minX != 0 || minY != 0 || maxX != 0 || maxY != 0 {
		t.Fatalf("expected zero extents for empty design, got (%v,%v,%v,%v)", minX, minY, maxX, maxY)
	}
}

func TestExtentsBoundingBox(t *testing.T) {
	d := makeDesign(
		Stitch{X: -1.5, Y: 2.0, Type: Normal},
		Stitch{X: 4.0, Y: -3.0, Type: Normal},
		Stitch{X: 0.0, Y: 0.0, Type: Jump},
	)

	minX, minY, maxX, maxY := d.Extents()

	if minX != -1.5 || minY != -3.0 || maxX != 4.0 || maxY != 2.0 {
		t.Fatalf("expected (-1.5,-3,4,2), got (%v,%v,%v,%v)", minX, minY, maxX, maxY)
	}
}

func TestColorChangeCount(t *testing.T) {
	d := makeDesign(
		Stitch{Type: Normal},
		Stitch{Type: ColorChange},
		Stitch{Type: Jump},
		Stitch{Type: ColorChange},
		Stitch{Type: End},
	)

	if got := d.ColorChangeCount(); got != 2 {
		t.Fatalf("expected 2 color changes, got %d", got)
	}
}

func TestStitchesInUnitsRounds(t *testing.T) {
	d := makeDesign(
		Stitch{X: 1.24, Y: -0.26, Type: Normal},
		Stitch{X: 0.05, Y: 0.04, Type: Jump},
	)

	units := d.StitchesInUnits()

	if units[0].X != 12 || units[0].Y != -3 {
		t.Fatalf("expected (12,-3), got (%d,%d)", units[0].X, units[0].Y)
	}
	if units[1].X != 1 || units[1].Y != 0 {
		t.Fatalf("expected (1,0), got (%d,%d)", units[1].X, units[1].Y)
	}
	if units[1].Type != Jump {
		t.Fatalf("expected stitch type preserved, got %s", units[1].Type)
	}
}

func TestStitchesInUnitsHalfUp(t *testing.T) {
	d := makeDesign(Stitch{X: 0.25, Y: -0.25, Type: Normal})

	units := d.StitchesInUnits()

	// rounding is half away from zero on both axes
	if units[0].X != 3 || units[0].Y != -3 {
		t.Fatalf("expected (3,-3), got (%d,%d)", units[0].X, units[0].Y)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	d := makeDesign(
		Stitch{X: 1.0, Y: 2.0, Type: Normal},
		Stitch{X: 1.0, Y: 2.0, Type: End},
	)

	first, err := d.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	second, err := d.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Fatal("expected byte-identical output across encodes")
	}
}

func TestEncodeFieldNames(t *testing.T) {
	d := makeDesign(Stitch{X: 1.5, Y: 0, Type: Trim})

	data, err := d.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	for _, key := range []string{`"name"`, `"stitches"`, `"colors"`, `"stitch_type"`, `"Trim"`, `"a": 255`} {
		if !bytes.Contains(data, []byte(key)) {
			t.Fatalf("expected output to contain %s, got:\n%s", key, data)
		}
	}
}
