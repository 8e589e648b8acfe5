// Package normalize projects decoded embroidery files into canonical
// design documents.
package normalize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DrSh4dow/vision/internal/design"
	"github.com/DrSh4dow/vision/internal/stitchplan"
)

// #region normalizer

// Normalizer turns a stitch-plan reader's output into a canonical Design.
type Normalizer struct {
	reader stitchplan.Reader
}

// New creates a normalizer using the given reader capability.
func New(reader stitchplan.Reader) *Normalizer {
	return &Normalizer{reader: reader}
}

// #endregion normalizer

// #region normalize

// Normalize decodes inputPath and builds the canonical design.
// Per-stitch and per-block defects are defaulted, never raised; the only
// failure modes are a missing input file and a reader failure.
func (n *Normalizer) Normalize(inputPath string) (*design.Design, error) {
	if _, err := os.Stat(inputPath); err != nil {
		return nil, fmt.Errorf("input file not found: %s", inputPath)
	}

	blocks, err := n.reader.ReadStitchPlan(inputPath)
	if err != nil {
		return nil, fmt.Errorf("read stitch plan: %w", err)
	}

	unitsPerMM := n.reader.UnitsPerMM()

	d := &design.Design{
		Name:     designName(inputPath),
		Stitches: []design.Stitch{},
	}

	for _, block := range blocks {
		d.Colors = append(d.Colors, stitchplan.BlockColor(block))
		for _, raw := range block.Stitches {
			d.Stitches = append(d.Stitches, design.Stitch{
				X:    raw.X / unitsPerMM,
				Y:    raw.Y / unitsPerMM,
				Type: stitchplan.Classify(raw),
			})
		}
	}

	// Terminate a non-empty path with a synthetic End at the last position.
	if len(d.Stitches) > 0 {
		last := d.Stitches[len(d.Stitches)-1]
		d.Stitches = append(d.Stitches, design.Stitch{
			X:    last.X,
			Y:    last.Y,
			Type: design.End,
		})
	}

	if len(d.Colors) == 0 {
		d.Colors = []design.Color{design.OpaqueBlack()}
	}

	return d, nil
}

// #endregion normalize

// #region write

// WriteDesign marshals d and writes it to outPath in one shot.
// The file is only created once the full document has been rendered, so a
// failed run never leaves a partial output behind.
func WriteDesign(d *design.Design, outPath string) error {
	data, err := d.Encode()
	if err != nil {
		return fmt.Errorf("encode design: %w", err)
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write design: %w", err)
	}
	return nil
}

// Run normalizes inputPath and writes the result to outPath.
func (n *Normalizer) Run(inputPath, outPath string) error {
	d, err := n.Normalize(inputPath)
	if err != nil {
		return err
	}
	return WriteDesign(d, outPath)
}

// #endregion write

// #region helpers

// designName is the input base name with its extension removed.
func designName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// #endregion helpers
