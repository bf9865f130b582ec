package system

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// CallRecord is one tracked CanPerform invocation.
type CallRecord struct {
	Order     int64
	Asset     string
	Subsystem string
	TaskType  string
	Mutated   bool
}

func (r CallRecord) String() string {
	mutation := "NO"
	if r.Mutated {
		mutation = "YES"
	}
	return fmt.Sprintf("[Order:%d] %s.%s.CanPerform called for task: %s | State Mutation: %s",
		r.Order, r.Asset, r.Subsystem, r.TaskType, mutation)
}

// CallTracker is an append-only, concurrency-safe log of subsystem calls.
// Orders come from an atomic counter and only reflect arrival order; nothing
// in the search depends on them.
type CallTracker struct {
	order   atomic.Int64
	mu      sync.Mutex
	records []CallRecord
}

// NewCallTracker returns an empty tracker.
func NewCallTracker() *CallTracker { return &CallTracker{} }

// Track appends a record.
func (t *CallTracker) Track(asset, subsystem, taskType string, mutated bool) {
	rec := CallRecord{
		Order:     t.order.Add(1),
		Asset:     asset,
		Subsystem: subsystem,
		TaskType:  taskType,
		Mutated:   mutated,
	}
	t.mu.Lock()
	t.records = append(t.records, rec)
	t.mu.Unlock()
}

// Reset drops every record and restarts the counter.
func (t *CallTracker) Reset() {
	t.mu.Lock()
	t.records = nil
	t.order.Store(0)
	t.mu.Unlock()
}

// Len returns the number of records.
func (t *CallTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

// Records returns every record sorted by call order.
func (t *CallTracker) Records() []CallRecord {
	return t.filter(func(CallRecord) bool { return true })
}

// ForSubsystem returns the records of the named subsystem, case-insensitive.
func (t *CallTracker) ForSubsystem(name string) []CallRecord {
	return t.filter(func(r CallRecord) bool { return strings.EqualFold(r.Subsystem, name) })
}

// ForAsset returns the records of the named asset, case-insensitive.
func (t *CallTracker) ForAsset(name string) []CallRecord {
	return t.filter(func(r CallRecord) bool { return strings.EqualFold(r.Asset, name) })
}

func (t *CallTracker) filter(keep func(CallRecord) bool) []CallRecord {
	t.mu.Lock()
	out := make([]CallRecord, 0, len(t.records))
	for _, r := range t.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	t.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
