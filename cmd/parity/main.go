package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/DrSh4dow/vision/internal/parity"
	"github.com/DrSh4dow/vision/internal/runlog"
)

// #region main

func main() {
	defaults := parity.DefaultThresholds()

	visionDir := flag.String("vision-dir", "", "directory with Vision *.metrics.json files")
	baselineDir := flag.String("baseline-dir", "", "directory with baseline *.metrics.json files")
	policyPath := flag.String("policy", "", "optional YAML policy file with threshold overrides")
	logDB := flag.String("log-db", "", "optional SQLite database recording run history")
	history := flag.Int("history", 0, "print the last N recorded runs from --log-db and exit")

	maxStitchDelta := flag.Float64("max-stitch-delta-pct", defaults.MaxStitchDeltaPct, "max stitch count delta in percent")
	maxJumpRatio := flag.Float64("max-jump-ratio", defaults.MaxJumpRatio, "max candidate/baseline jump ratio")
	maxTrimRatio := flag.Float64("max-trim-ratio", defaults.MaxTrimRatio, "max candidate/baseline trim ratio")
	maxTravelRatio := flag.Float64("max-travel-ratio", defaults.MaxTravelRatio, "max candidate/baseline travel ratio")
	maxDensityError := flag.Float64("max-density-error-mm", defaults.MaxDensityErrorMM, "max density error increase in mm")
	maxAngleError := flag.Float64("max-angle-error-deg", defaults.MaxAngleErrorDeg, "max angle error increase in degrees")
	maxCoverageError := flag.Float64("max-coverage-error-pct", defaults.MaxCoverageErrorPct, "max coverage error increase in percent")
	minFixtures := flag.Int("min-fixtures", defaults.MinFixtures, "minimum compared fixtures for a valid pass")
	flag.Parse()

	if *history > 0 {
		os.Exit(printHistory(*logDB, *history))
	}

	if *visionDir == "" || *baselineDir == "" {
		fmt.Fprintln(os.Stderr, "usage: parity --vision-dir dir --baseline-dir dir [--policy file.yaml] [flags]")
		os.Exit(2)
	}

	thresholds, err := resolveThresholds(*policyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	applyFlagOverrides(&thresholds, flagValues{
		maxStitchDelta:   *maxStitchDelta,
		maxJumpRatio:     *maxJumpRatio,
		maxTrimRatio:     *maxTrimRatio,
		maxTravelRatio:   *maxTravelRatio,
		maxDensityError:  *maxDensityError,
		maxAngleError:    *maxAngleError,
		maxCoverageError: *maxCoverageError,
		minFixtures:      *minFixtures,
	})

	os.Exit(run(*visionDir, *baselineDir, thresholds, *logDB))
}

// #endregion main

// #region run

func run(visionDir, baselineDir string, thresholds parity.Thresholds, logDB string) int {
	comparator := parity.NewComparator(thresholds)

	report, err := comparator.Run(visionDir, baselineDir, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	passed := report.Passed(thresholds.MinFixtures)

	if logDB != "" {
		if err := logRun(logDB, report, visionDir, baselineDir, passed); err != nil {
			fmt.Fprintf(os.Stderr, "record run history: %v\n", err)
			return 1
		}
	}

	if len(report.Failures) > 0 {
		fmt.Fprintln(os.Stderr, "\nParity check failed:")
		for _, failure := range report.Failures {
			fmt.Fprintf(os.Stderr, "- %s\n", failure)
		}
		return 1
	}

	if report.Compared < thresholds.MinFixtures {
		fmt.Fprintf(os.Stderr, "\nParity check failed: only %d fixture(s) compared, need at least %d.\n",
			report.Compared, thresholds.MinFixtures)
		return 1
	}

	fmt.Println("\nParity check passed.")
	return 0
}

// #endregion run

// #region thresholds

// flagValues carries the threshold flags so explicitly-set ones can override
// a policy file.
type flagValues struct {
	maxStitchDelta   float64
	maxJumpRatio     float64
	maxTrimRatio     float64
	maxTravelRatio   float64
	maxDensityError  float64
	maxAngleError    float64
	maxCoverageError float64
	minFixtures      int
}

func resolveThresholds(policyPath string) (parity.Thresholds, error) {
	if policyPath == "" {
		return parity.DefaultThresholds(), nil
	}
	return parity.LoadThresholds(policyPath)
}

// applyFlagOverrides applies only the flags the user actually passed, so a
// policy file keeps its values for everything left at the defaults.
func applyFlagOverrides(t *parity.Thresholds, v flagValues) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "max-stitch-delta-pct":
			t.MaxStitchDeltaPct = v.maxStitchDelta
		case "max-jump-ratio":
			t.MaxJumpRatio = v.maxJumpRatio
		case "max-trim-ratio":
			t.MaxTrimRatio = v.maxTrimRatio
		case "max-travel-ratio":
			t.MaxTravelRatio = v.maxTravelRatio
		case "max-density-error-mm":
			t.MaxDensityErrorMM = v.maxDensityError
		case "max-angle-error-deg":
			t.MaxAngleErrorDeg = v.maxAngleError
		case "max-coverage-error-pct":
			t.MaxCoverageErrorPct = v.maxCoverageError
		case "min-fixtures":
			t.MinFixtures = v.minFixtures
		}
	})
}

// #endregion thresholds

// #region history

func logRun(dbPath string, report parity.Report, visionDir, baselineDir string, passed bool) error {
	store, err := runlog.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.LogRun(report, visionDir, baselineDir, passed)
	return err
}

func printHistory(dbPath string, n int) int {
	if dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: parity --history N --log-db path/to/parity.db")
		return 2
	}

	store, err := runlog.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open run history: %v\n", err)
		return 1
	}
	defer store.Close()

	runs, err := store.ListRuns(n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list run history: %v\n", err)
		return 1
	}

	fmt.Printf("%-36s| %-8s| %-8s| %s\n", "Run", "Fixtures", "Verdict", "When")
	for _, r := range runs {
		verdict := "FAIL"
		if r.Passed {
			verdict = "PASS"
		}
		fmt.Printf("%-36s| %-8d| %-8s| %s\n", r.RunID, r.Compared, verdict, r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return 0
}

// #endregion history
