package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/horizon/core/metrics"
	"github.com/kilianp07/horizon/infra/logger"
)

// InfluxConfig locates the InfluxDB bucket.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
	// Scenario tags every point.
	Scenario string `json:"scenario"`
}

// InfluxSink writes step and run points to InfluxDB.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	scenario string
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		scenario: cfg.Scenario,
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the instance and returns a NopSink when
// the health check fails, so a missing database never stops a run.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordStep writes a scheduler_step point.
func (s *InfluxSink) RecordStep(st coremetrics.StepStats) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("scheduler_step").
		AddTag("run_id", st.RunID).
		AddTag("step", strconv.Itoa(st.Step))
	if s.scenario != "" {
		p = p.AddTag("scenario", s.scenario)
	}
	p = p.AddField("sim_time", round3(st.Time)).
		AddField("potential", st.Potential).
		AddField("generated", st.Generated).
		AddField("carried_over", st.CarriedOver).
		AddField("cropped", st.Cropped).
		AddField("total", st.Total).
		AddField("best_value", round3(st.BestValue)).
		AddField("duration_ms", round3(float64(st.Duration.Microseconds())/1000)).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordRun writes a scheduler_run point.
func (s *InfluxSink) RecordRun(r coremetrics.RunSummary) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("scheduler_run").
		AddTag("run_id", r.RunID)
	if s.scenario != "" {
		p = p.AddTag("scenario", s.scenario)
	}
	p = p.AddField("steps", r.Steps).
		AddField("schedules", r.Schedules).
		AddField("best_value", round3(r.BestValue)).
		AddField("mean_value", round3(r.MeanValue)).
		AddField("stddev_value", round3(r.StdDev)).
		AddField("duration_ms", round3(float64(r.Duration.Microseconds())/1000)).
		SetTime(r.Finished)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
