package parity

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #region thresholds

// Thresholds holds the parity gate limits. Every field can be overridden by
// a policy file or a CLI flag; comparison logic only ever sees this value.
type Thresholds struct {
	MaxStitchDeltaPct   float64 `yaml:"max_stitch_delta_pct"`
	MaxJumpRatio        float64 `yaml:"max_jump_ratio"`
	MaxTrimRatio        float64 `yaml:"max_trim_ratio"`
	MaxTravelRatio      float64 `yaml:"max_travel_ratio"`
	MaxDensityErrorMM   float64 `yaml:"max_density_error_mm"`
	MaxAngleErrorDeg    float64 `yaml:"max_angle_error_deg"`
	MaxCoverageErrorPct float64 `yaml:"max_coverage_error_pct"`
	MinFixtures         int     `yaml:"min_fixtures"`
}

// DefaultThresholds returns the standard parity gate limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxStitchDeltaPct:   20.0,
		MaxJumpRatio:        1.15,
		MaxTrimRatio:        1.15,
		MaxTravelRatio:      1.10,
		MaxDensityErrorMM:   0.20,
		MaxAngleErrorDeg:    20.0,
		MaxCoverageErrorPct: 3.0,
		MinFixtures:         3,
	}
}

// LoadThresholds overlays a YAML policy file onto the defaults. Fields the
// file omits keep their default values.
func LoadThresholds(path string) (Thresholds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Thresholds{}, fmt.Errorf("read policy %s: %w", path, err)
	}
	t := DefaultThresholds()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Thresholds{}, fmt.Errorf("parse policy %s: %w", path, err)
	}
	return t, nil
}

// #endregion thresholds

// #region fixture-result

// FixtureResult is the outcome of comparing one fixture pair. It exists only
// for the duration of a run: reported, optionally logged, then discarded.
type FixtureResult struct {
	Name           string
	StitchDeltaPct float64
	JumpRatio      float64
	TrimRatio      float64
	TravelRatio    float64
	DensityOver    float64
	AngleOver      float64
	CoverageOver   float64
	Violations     []string
	Passed         bool
}

// #endregion fixture-result

// #region report

// Report aggregates one comparator run over a fixture set.
type Report struct {
	Results  []FixtureResult
	Failures []string
	Compared int
}

// Passed reports the batch verdict: no failures and enough compared
// fixtures. The verdict is a reduction over all fixtures and does not depend
// on evaluation order.
func (r Report) Passed(minFixtures int) bool {
	return len(r.Failures) == 0 && r.Compared >= minFixtures
}

// #endregion report
