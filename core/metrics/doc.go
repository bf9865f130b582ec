// Package metrics defines the sinks that observe a scheduler run. The
// scheduler reports one StepStats per time step and, when the sink supports
// it, a RunSummary once the search finished. Sinks such as PromSink and
// InfluxSink live in infra/metrics and register themselves through
// RegisterMetricsSink; NewMetricsSink returns a MultiSink when several are
// configured.
package metrics
