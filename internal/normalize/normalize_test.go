package normalize

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DrSh4dow/vision/internal/design"
	"github.com/DrSh4dow/vision/internal/stitchplan"
)

// fakeReader is a deterministic stand-in for a machine-format decoder.
type fakeReader struct {
	blocks []stitchplan.ColorBlock
	units  float64
	err    error
}

func (f *fakeReader) ReadStitchPlan(path string) ([]stitchplan.ColorBlock, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.blocks, nil
}

func (f *fakeReader) UnitsPerMM() float64 {
	if f.units == 0 {
		return 10.0
	}
	return f.units
}

func makeInput(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("stub"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func TestNormalizeAppendsEndStitch(t *testing.T) {
	reader := &fakeReader{blocks: []stitchplan.ColorBlock{{
		RGB: []int{255, 0, 0},
		Stitches: []stitchplan.RawStitch{
			{X: 100, Y: 50},
			{X: 120, Y: 80, Jump: true},
		},
	}}}
	n := New(reader)

	d, err := n.Normalize(makeInput(t, "rose.dst"))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if len(d.Stitches) != 3 {
		t.Fatalf("expected 3 stitches (2 real + End), got %d", len(d.Stitches))
	}
	last := d.Stitches[2]
	prev := d.Stitches[1]
	if last.Type != design.End {
		t.Fatalf("expected final stitch End, got %s", last.Type)
	}
	if last.X != prev.X || last.Y != prev.Y {
		t.Fatalf("expected End at (%v,%v), got (%v,%v)", prev.X, prev.Y, last.X, last.Y)
	}
}

func TestNormalizeConvertsUnitsToMM(t *testing.T) {
	reader := &fakeReader{
		units: 10.0,
		blocks: []stitchplan.ColorBlock{{
			Stitches: []stitchplan.RawStitch{{X: 125, Y: -40}},
		}},
	}
	n := New(reader)

	d, err := n.Normalize(makeInput(t, "scale.dst"))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if d.Stitches[0].X != 12.5 || d.Stitches[0].Y != -4.0 {
		t.Fatalf("expected (12.5,-4), got (%v,%v)", d.Stitches[0].X, d.Stitches[0].Y)
	}
}

func TestNormalizeEmptyPlanGetsBlackPalette(t *testing.T) {
	n := New(&fakeReader{})

	d, err := n.Normalize(makeInput(t, "empty.dst"))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if len(d.Stitches) != 0 {
		t.Fatalf("expected no stitches, got %d", len(d.Stitches))
	}
	if len(d.Colors) != 1 || d.Colors[0] != design.OpaqueBlack() {
		t.Fatalf("expected single opaque black color, got %v", d.Colors)
	}
}

func TestNormalizeNameStripsExtension(t *testing.T) {
	reader := &fakeReader{}
	n := New(reader)

	d, err := n.Normalize(makeInput(t, "petals.dst"))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if d.Name != "petals" {
		t.Fatalf("expected name petals, got %q", d.Name)
	}
}

func TestNormalizeMissingInput(t *testing.T) {
	n := New(&fakeReader{})

	_, err := n.Normalize(filepath.Join(t.TempDir(), "nope.dst"))
	if err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestNormalizeReaderFailureWrapped(t *testing.T) {
	readerErr := errors.New("corrupt header")
	n := New(&fakeReader{err: readerErr})

	_, err := n.Normalize(makeInput(t, "bad.dst"))
	if err == nil {
		t.Fatal("expected error from failing reader")
	}
	if !errors.Is(err, readerErr) {
		t.Fatalf("expected wrapped reader error, got %v", err)
	}
}

func TestNormalizeClassificationFollowsPriority(t *testing.T) {
	reader := &fakeReader{blocks: []stitchplan.ColorBlock{{
		Stitches: []stitchplan.RawStitch{
			{Trim: true, Jump: true},
			{Jump: true, Stop: true},
			{ColorChange: true},
		},
	}}}
	n := New(reader)

	d, err := n.Normalize(makeInput(t, "flags.dst"))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	want := []design.StitchType{design.Trim, design.Jump, design.ColorChange, design.End}
	for i, w := range want {
		if d.Stitches[i].Type != w {
			t.Fatalf("stitch %d: expected %s, got %s", i, w, d.Stitches[i].Type)
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	reader := &fakeReader{blocks: []stitchplan.ColorBlock{{
		RGB: []int{0, 128, 255},
		Stitches: []stitchplan.RawStitch{
			{X: 10, Y: 10},
			{X: 30, Y: 10},
			{X: 30, Y: 30, Trim: true},
		},
	}}}
	n := New(reader)
	input := makeInput(t, "loop.dst")
	outDir := t.TempDir()

	first := filepath.Join(outDir, "first.json")
	second := filepath.Join(outDir, "second.json")
	if err := n.Run(input, first); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := n.Run(input, second); err != nil {
		t.Fatalf("second run: %v", err)
	}

	a, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("read first: %v", err)
	}
	b, err := os.ReadFile(second)
	if err != nil {
		t.Fatalf("read second: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("expected byte-identical output across runs")
	}
}

func TestRunWritesNoFileOnFailure(t *testing.T) {
	n := New(&fakeReader{err: errors.New("boom")})
	out := filepath.Join(t.TempDir(), "out.json")

	if err := n.Run(makeInput(t, "bad.dst"), out); err == nil {
		t.Fatal("expected run to fail")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatal("expected no output file after failed run")
	}
}
