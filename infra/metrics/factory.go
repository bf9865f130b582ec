package metrics

import (
	"github.com/kilianp07/horizon/core/factory"
	coremetrics "github.com/kilianp07/horizon/core/metrics"
)

// init registers the built-in sinks.
func init() {
	_ = coremetrics.RegisterMetricsSink("nop", func(factory.ComponentConfig) (coremetrics.MetricsSink, error) {
		return coremetrics.NopSink{}, nil
	})

	// metrics.prometheus_port starts the HTTP endpoint; the sink only feeds
	// the default registry.
	_ = coremetrics.RegisterMetricsSink("prometheus", func(factory.ComponentConfig) (coremetrics.MetricsSink, error) {
		return NewPromSink()
	})

	_ = coremetrics.RegisterMetricsSink("influx", func(cfg factory.ComponentConfig) (coremetrics.MetricsSink, error) {
		var c InfluxConfig
		if err := factory.Decode(cfg.Params, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c), nil
	})
}
