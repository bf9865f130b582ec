package metrics

import "errors"

// MultiSink fans records out to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordStep forwards to every sink and joins their errors.
func (m *MultiSink) RecordStep(s StepStats) error {
	var errs []error
	for _, sink := range m.Sinks {
		if err := sink.RecordStep(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordRun forwards to the sinks implementing RunRecorder.
func (m *MultiSink) RecordRun(r RunSummary) error {
	var errs []error
	for _, sink := range m.Sinks {
		if rec, ok := sink.(RunRecorder); ok {
			if err := rec.RecordRun(r); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes the sinks that hold resources.
func (m *MultiSink) Close() {
	for _, sink := range m.Sinks {
		if c, ok := sink.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
