package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/horizon/core/logger"
	"github.com/kilianp07/horizon/core/schedule"
	"github.com/kilianp07/horizon/core/scheduler"
	"github.com/kilianp07/horizon/pkg/export"
)

// PlanMessage is the payload published on the plan topic.
type PlanMessage struct {
	RunID       string                  `json:"run_id"`
	Scenario    string                  `json:"scenario,omitempty"`
	PublishedAt int64                   `json:"published_at"`
	Best        *export.ScheduleRecord  `json:"best,omitempty"`
	Schedules   []export.ScheduleRecord `json:"schedules"`
}

// ProgressMessage is the payload published on "<topic>/progress".
type ProgressMessage struct {
	RunID     string  `json:"run_id"`
	Step      int     `json:"step"`
	Time      float64 `json:"time"`
	Total     int     `json:"total"`
	BestID    string  `json:"best_id,omitempty"`
	BestValue float64 `json:"best_value"`
	Final     bool    `json:"final"`
}

// PlanPublisher sends run results to the broker.
type PlanPublisher struct {
	cli        pahoClient
	topic      string
	qos        byte
	retain     bool
	logger     logger.Logger
	maxRetries int
	backoff    time.Duration
}

// NewPlanPublisher connects to the broker.
func NewPlanPublisher(cfg Config, log logger.Logger) (*PlanPublisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	opts.OnConnect = func(paho.Client) { log.Infof("MQTT connected to %s", cfg.Broker) }
	opts.OnConnectionLost = func(_ paho.Client, err error) { log.Errorf("connection lost: %v", err) }
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &PlanPublisher{
		cli:        c,
		topic:      cfg.Topic,
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		logger:     log,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
	}, nil
}

// Topic returns the plan topic.
func (p *PlanPublisher) Topic() string { return p.topic }

// PublishPlan publishes the final branches of a run, best first.
func (p *PlanPublisher) PublishPlan(runID, scenario string, list []*schedule.SystemSchedule) error {
	msg := PlanMessage{
		RunID:       runID,
		Scenario:    scenario,
		PublishedAt: time.Now().UnixMilli(),
		Schedules:   export.Records(list),
	}
	if len(msg.Schedules) > 0 {
		msg.Best = &msg.Schedules[0]
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := p.send(p.topic, p.qos, p.retain, payload); err != nil {
		return err
	}
	p.logger.Infof("published plan of run %s to %s", runID, p.topic)
	return nil
}

// PublishProgress publishes one step event, without retries.
func (p *PlanPublisher) PublishProgress(ev scheduler.StepEvent) error {
	payload, err := json.Marshal(ProgressMessage{
		RunID:     ev.RunID,
		Step:      ev.Step,
		Time:      ev.Time,
		Total:     ev.Total,
		BestID:    ev.BestID,
		BestValue: ev.BestValue,
		Final:     ev.Final,
	})
	if err != nil {
		return err
	}
	token := p.cli.Publish(p.topic+"/progress", 0, false, payload)
	token.Wait()
	return token.Error()
}

func (p *PlanPublisher) send(topic string, qos byte, retain bool, payload []byte) error {
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(topic, qos, retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			return nil
		}
		p.logger.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt < p.maxRetries {
			time.Sleep(p.backoff * time.Duration(1<<attempt))
		}
	}
	return fmt.Errorf("publish %s: %w", topic, publishErr)
}

// Close disconnects from the broker.
func (p *PlanPublisher) Close() error {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
	return nil
}
