// Package export serializes final schedules for downstream tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/horizon/core/schedule"
)

// AssignmentRecord is the exported form of one asset's share of an event.
type AssignmentRecord struct {
	Asset     string  `json:"asset"`
	Task      string  `json:"task,omitempty"`
	TaskType  string  `json:"task_type,omitempty"`
	TaskStart float64 `json:"task_start"`
	TaskEnd   float64 `json:"task_end"`
}

// EventRecord is the exported form of an event.
type EventRecord struct {
	Start       float64            `json:"start"`
	End         float64            `json:"end"`
	Assignments []AssignmentRecord `json:"assignments"`
}

// ScheduleRecord is the exported form of a branch.
type ScheduleRecord struct {
	ID        string        `json:"id"`
	Value     float64       `json:"value"`
	Hash      string        `json:"hash"`
	StateHash string        `json:"state_hash,omitempty"`
	Events    []EventRecord `json:"events"`
}

// Records converts branches to their exported form, keeping list order.
func Records(list []*schedule.SystemSchedule) []ScheduleRecord {
	out := make([]ScheduleRecord, len(list))
	for i, s := range list {
		rec := ScheduleRecord{ID: s.ID, Value: s.Value, Hash: s.Hash(), StateHash: s.StateHash, Events: []EventRecord{}}
		for _, ev := range s.History.Events() {
			er := EventRecord{Start: ev.Start(), End: ev.End()}
			for _, a := range ev.Assignments() {
				ar := AssignmentRecord{Asset: a.Asset.Name, TaskStart: a.TaskStart, TaskEnd: a.TaskEnd}
				if a.Task != nil {
					ar.Task, ar.TaskType = a.Task.Name, a.Task.Type
				}
				er.Assignments = append(er.Assignments, ar)
			}
			rec.Events = append(rec.Events, er)
		}
		out[i] = rec
	}
	return out
}

// WriteJSON writes the branches to w as a JSON array.
func WriteJSON(w io.Writer, list []*schedule.SystemSchedule) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Records(list))
}

// WriteCSV writes every state sample visible from each branch's final state,
// one row per sample.
func WriteCSV(w io.Writer, list []*schedule.SystemSchedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"schedule_id", "schedule_value", "variable", "time", "value"}); err != nil {
		return err
	}
	for _, s := range list {
		st := s.History.LastState()
		value := strconv.FormatFloat(s.Value, 'f', 2, 64)
		for _, name := range st.Keys() {
			for _, p := range st.Points(name) {
				rec := []string{s.ID, value, name, strconv.FormatFloat(p.Time, 'f', 2, 64), p.Value}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
