// Package runlog persists one record per finished scheduling run and lets
// the CLI query them back.
package runlog

import (
	"context"
	"time"

	"github.com/kilianp07/horizon/core/metrics"
)

// RunRecord captures the outcome of one run.
type RunRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	RunID      string    `json:"run_id"`
	Scenario   string    `json:"scenario"`
	Steps      int       `json:"steps"`
	Schedules  int       `json:"schedules"`
	BestID     string    `json:"best_id,omitempty"`
	BestValue  float64   `json:"best_value"`
	MeanValue  float64   `json:"mean_value"`
	StdDev     float64   `json:"std_dev"`
	DurationMS int64     `json:"duration_ms"`
}

// FromSummary converts a run summary into a record.
func FromSummary(sum metrics.RunSummary) RunRecord {
	ts := sum.Finished
	if ts.IsZero() {
		ts = time.Now()
	}
	return RunRecord{
		Timestamp:  ts.UTC(),
		RunID:      sum.RunID,
		Scenario:   sum.Scenario,
		Steps:      sum.Steps,
		Schedules:  sum.Schedules,
		BestID:     sum.BestID,
		BestValue:  sum.BestValue,
		MeanValue:  sum.MeanValue,
		StdDev:     sum.StdDev,
		DurationMS: sum.Duration.Milliseconds(),
	}
}

// RunQuery defines filters for retrieving records. Zero fields match
// everything; Limit keeps the most recent records.
type RunQuery struct {
	Start    time.Time
	End      time.Time
	Scenario string
	RunID    string
	Limit    int
}

func (q RunQuery) matches(r RunRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Scenario != "" && r.Scenario != q.Scenario {
		return false
	}
	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	return true
}

// limit keeps the last n records of a chronologically ordered slice.
func (q RunQuery) limit(recs []RunRecord) []RunRecord {
	if q.Limit > 0 && len(recs) > q.Limit {
		return recs[len(recs)-q.Limit:]
	}
	return recs
}

// RunStore persists RunRecords and supports querying.
type RunStore interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q RunQuery) ([]RunRecord, error)
	Close() error
}
