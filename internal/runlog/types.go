package runlog

import "time"

// #region run-record

// RunRecord is one persisted parity run.
type RunRecord struct {
	RunID        string
	BaselineDir  string
	CandidateDir string
	Compared     int
	Passed       bool
	CreatedAt    time.Time
}

// #endregion run-record

// #region fixture-record

// FixtureRecord is one persisted per-fixture outcome within a run.
type FixtureRecord struct {
	RunID      string
	Fixture    string
	Passed     bool
	Violations string // comma-joined violation list, empty when passed
	DeltasJSON string // serialized deltas/ratios for later inspection
	CreatedAt  time.Time
}

// #endregion fixture-record
