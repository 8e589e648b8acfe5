// Package parity gates a candidate pipeline's quality summaries against a
// trusted baseline within configured tolerances.
package parity

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// metricsGlob selects quality-summary files inside a fixture directory.
const metricsGlob = "*.metrics.json"

// #region comparator

// Comparator evaluates baseline/candidate fixture pairs against thresholds.
type Comparator struct {
	thresholds Thresholds
}

// NewComparator creates a comparator with the given thresholds.
func NewComparator(thresholds Thresholds) *Comparator {
	return &Comparator{thresholds: thresholds}
}

// Thresholds returns the active gate limits.
func (c *Comparator) Thresholds() Thresholds {
	return c.thresholds
}

// #endregion comparator

// #region safe-ratio

// safeRatio divides num by den, treating a non-positive denominator
// specially: 0 when the numerator is also non-positive, +Inf otherwise.
func safeRatio(num, den float64) float64 {
	if den <= 0 {
		if num <= 0 {
			return 0
		}
		return math.Inf(1)
	}
	return num / den
}

// #endregion safe-ratio

// #region compare-fixture

// CompareFixture evaluates one baseline/candidate metrics pair. All seven
// rules are checked independently; every violated one is collected.
func (c *Comparator) CompareFixture(name string, baseline, candidate Metrics) FixtureResult {
	t := c.thresholds

	r := FixtureResult{
		Name:           name,
		StitchDeltaPct: math.Abs(candidate.StitchCount-baseline.StitchCount) / math.Max(baseline.StitchCount, 1.0) * 100.0,
		JumpRatio:      safeRatio(candidate.JumpCount, baseline.JumpCount),
		TrimRatio:      safeRatio(candidate.TrimCount, baseline.TrimCount),
		TravelRatio:    safeRatio(candidate.TravelDistanceMM, baseline.TravelDistanceMM),
		DensityOver:    candidate.DensityErrorMM - baseline.DensityErrorMM,
		AngleOver:      candidate.AngleErrorDeg - baseline.AngleErrorDeg,
		CoverageOver:   candidate.CoverageErrorPct - baseline.CoverageErrorPct,
	}

	if r.StitchDeltaPct > t.MaxStitchDeltaPct {
		r.Violations = append(r.Violations, fmt.Sprintf("stitch_delta_pct=%.2f", r.StitchDeltaPct))
	}
	if r.JumpRatio > t.MaxJumpRatio {
		r.Violations = append(r.Violations, fmt.Sprintf("jump_ratio=%.2f", r.JumpRatio))
	}
	if r.TrimRatio > t.MaxTrimRatio {
		r.Violations = append(r.Violations, fmt.Sprintf("trim_ratio=%.2f", r.TrimRatio))
	}
	if r.TravelRatio > t.MaxTravelRatio {
		r.Violations = append(r.Violations, fmt.Sprintf("travel_ratio=%.2f", r.TravelRatio))
	}
	if r.DensityOver > t.MaxDensityErrorMM {
		r.Violations = append(r.Violations, fmt.Sprintf("density_over_mm=%.3f", r.DensityOver))
	}
	if r.AngleOver > t.MaxAngleErrorDeg {
		r.Violations = append(r.Violations, fmt.Sprintf("angle_over_deg=%.2f", r.AngleOver))
	}
	if r.CoverageOver > t.MaxCoverageErrorPct {
		r.Violations = append(r.Violations, fmt.Sprintf("coverage_over_pct=%.2f", r.CoverageOver))
	}

	r.Passed = len(r.Violations) == 0
	return r
}

// #endregion compare-fixture

// #region summary-line

// SummaryLine renders the per-fixture diagnostic line. It is emitted for
// every compared fixture regardless of outcome.
func (r FixtureResult) SummaryLine() string {
	return fmt.Sprintf(
		"%s: stitchΔ=%.2f%% jump×=%.2f trim×=%.2f travel×=%.2f densityΔ=%.3f angleΔ=%.2f coverageΔ=%.2f",
		r.Name, r.StitchDeltaPct, r.JumpRatio, r.TrimRatio, r.TravelRatio,
		r.DensityOver, r.AngleOver, r.CoverageOver,
	)
}

// #endregion summary-line

// #region run

// Run walks every quality summary in baselineDir in filename-sorted order
// and compares it against the same-named file in candidateDir, writing a
// summary line per fixture to out.
//
// Missing candidate files become per-fixture failures and are excluded from
// the compared count. A missing directory or an empty baseline set is a
// fatal error before/without any fixture work.
func (c *Comparator) Run(candidateDir, baselineDir string, out io.Writer) (Report, error) {
	if _, err := os.Stat(candidateDir); err != nil {
		return Report{}, fmt.Errorf("Vision metrics dir not found: %s", candidateDir)
	}
	if _, err := os.Stat(baselineDir); err != nil {
		return Report{}, fmt.Errorf("baseline metrics dir not found: %s", baselineDir)
	}

	baselineFiles, err := filepath.Glob(filepath.Join(baselineDir, metricsGlob))
	if err != nil {
		return Report{}, fmt.Errorf("scan baseline dir: %w", err)
	}
	sort.Strings(baselineFiles)

	if len(baselineFiles) == 0 {
		return Report{}, fmt.Errorf("no baseline files in %s", baselineDir)
	}

	var report Report
	for _, baselinePath := range baselineFiles {
		name := filepath.Base(baselinePath)
		candidatePath := filepath.Join(candidateDir, name)

		if _, err := os.Stat(candidatePath); err != nil {
			report.Failures = append(report.Failures, fmt.Sprintf("%s: missing Vision metrics file", name))
			continue
		}

		baseline, err := ReadMetrics(baselinePath)
		if err != nil {
			return Report{}, err
		}
		candidate, err := ReadMetrics(candidatePath)
		if err != nil {
			return Report{}, err
		}

		report.Compared++
		result := c.CompareFixture(name, baseline, candidate)
		report.Results = append(report.Results, result)

		if !result.Passed {
			report.Failures = append(report.Failures, fmt.Sprintf("%s: %s", name, strings.Join(result.Violations, ", ")))
		}

		fmt.Fprintln(out, result.SummaryLine())
	}

	return report, nil
}

// #endregion run
