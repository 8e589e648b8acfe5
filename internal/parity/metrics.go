package parity

import (
	"encoding/json"
	"fmt"
	"os"
)

// #region metrics

// Metrics is the seven-number quality summary for one fixture. Fields absent
// from the source document stay 0.
type Metrics struct {
	StitchCount      float64 `json:"stitch_count"`
	JumpCount        float64 `json:"jump_count"`
	TrimCount        float64 `json:"trim_count"`
	TravelDistanceMM float64 `json:"travel_distance_mm"`
	DensityErrorMM   float64 `json:"density_error_mm"`
	AngleErrorDeg    float64 `json:"angle_error_deg"`
	CoverageErrorPct float64 `json:"coverage_error_pct"`
}

// #endregion metrics

// #region read-metrics

// ReadMetrics loads a quality summary from path. The document is either the
// seven fields at the top level or nested under a "quality" key.
func ReadMetrics(path string) (Metrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Metrics{}, fmt.Errorf("read metrics %s: %w", path, err)
	}

	var envelope struct {
		Quality json.RawMessage `json:"quality"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Metrics{}, fmt.Errorf("parse metrics %s: %w", path, err)
	}
	if envelope.Quality != nil {
		data = envelope.Quality
	}

	var m Metrics
	if err := json.Unmarshal(data, &m); err != nil {
		return Metrics{}, fmt.Errorf("parse metrics %s: %w", path, err)
	}
	return m, nil
}

// #endregion read-metrics
