package mqtt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/horizon/core/evaluator"
	"github.com/kilianp07/horizon/core/metrics"
	"github.com/kilianp07/horizon/core/scheduler"
	"github.com/kilianp07/horizon/internal/toy"
)

type published struct {
	topic   string
	qos     byte
	retain  bool
	payload []byte
}

// mockClient implements pahoClient for tests.
type mockClient struct {
	mu          sync.Mutex
	opts        *paho.ClientOptions
	connectErr  error
	published   []published
	publishErrs []error
	connected   bool
}

func (m *mockClient) IsConnected() bool { return m.connected }
func (m *mockClient) Connect() paho.Token {
	if m.connectErr != nil {
		return &dummyToken{err: m.connectErr}
	}
	m.connected = true
	if m.opts != nil && m.opts.OnConnect != nil {
		m.opts.OnConnect(nil)
	}
	return &dummyToken{}
}
func (m *mockClient) Disconnect(uint) { m.connected = false }
func (m *mockClient) Publish(topic string, qos byte, retain bool, payload interface{}) paho.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, published{topic: topic, qos: qos, retain: retain, payload: payload.([]byte)})
	if len(m.publishErrs) > 0 {
		err := m.publishErrs[0]
		m.publishErrs = m.publishErrs[1:]
		return &dummyToken{err: err}
	}
	return &dummyToken{}
}

type dummyToken struct{ err error }

func (d dummyToken) Wait() bool                     { return true }
func (d dummyToken) WaitTimeout(time.Duration) bool { return true }
func (d dummyToken) Done() <-chan struct{}          { ch := make(chan struct{}); close(ch); return ch }
func (d dummyToken) Error() error                   { return d.err }

func useMock(t *testing.T, mc *mockClient) {
	t.Helper()
	prev := newMQTTClient
	newMQTTClient = func(o *paho.ClientOptions) pahoClient { mc.opts = o; return mc }
	t.Cleanup(func() { newMQTTClient = prev })
}

func toyRun(t *testing.T) *scheduler.Run {
	t.Helper()
	sc, err := toy.New(toy.Options{})
	require.NoError(t, err)
	ev, err := evaluator.NewTargetValue("")
	require.NoError(t, err)
	s, err := scheduler.New(scheduler.Params{End: 12, Step: 12, Workers: 1, Console: scheduler.ConsoleOff}, ev)
	require.NoError(t, err)
	run, err := s.Run(sc.System, sc.Tasks, sc.Initial)
	require.NoError(t, err)
	return run
}

func TestPublishPlan(t *testing.T) {
	mc := &mockClient{}
	useMock(t, mc)
	p, err := NewPlanPublisher(Config{Broker: "tcp://localhost:1883", QoS: 1, Retain: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, "horizon/plan", p.Topic())

	run := toyRun(t)
	require.NoError(t, p.PublishPlan(run.ID, "toy", run.Schedules))

	require.Len(t, mc.published, 1)
	msg := mc.published[0]
	assert.Equal(t, "horizon/plan", msg.topic)
	assert.Equal(t, byte(1), msg.qos)
	assert.True(t, msg.retain)

	var plan PlanMessage
	require.NoError(t, json.Unmarshal(msg.payload, &plan))
	assert.Equal(t, run.ID, plan.RunID)
	assert.Equal(t, "toy", plan.Scenario)
	require.Len(t, plan.Schedules, 5)
	require.NotNil(t, plan.Best)
	assert.Equal(t, "0.5", plan.Best.ID)
	assert.Equal(t, 20.0, plan.Best.Value)
	require.Len(t, plan.Best.Events, 1)
	assert.Len(t, plan.Best.Events[0].Assignments, 2)
}

func TestPublishPlanEmptyList(t *testing.T) {
	mc := &mockClient{}
	useMock(t, mc)
	p, err := NewPlanPublisher(Config{Broker: "tcp://localhost:1883"}, nil)
	require.NoError(t, err)
	require.NoError(t, p.PublishPlan("r", "", nil))

	var plan PlanMessage
	require.NoError(t, json.Unmarshal(mc.published[0].payload, &plan))
	assert.Nil(t, plan.Best)
	assert.Empty(t, plan.Schedules)
}

func TestPublishRetries(t *testing.T) {
	mc := &mockClient{publishErrs: []error{errors.New("net fail"), nil}}
	useMock(t, mc)
	p, err := NewPlanPublisher(Config{Broker: "tcp://localhost:1883", MaxRetries: 1, BackoffMS: 1}, nil)
	require.NoError(t, err)
	require.NoError(t, p.PublishPlan("r", "", nil))
	assert.Len(t, mc.published, 2)
}

func TestPublishGivesUp(t *testing.T) {
	fail := errors.New("net fail")
	mc := &mockClient{publishErrs: []error{fail, fail, fail}}
	useMock(t, mc)
	p, err := NewPlanPublisher(Config{Broker: "tcp://localhost:1883", MaxRetries: 2, BackoffMS: 1}, nil)
	require.NoError(t, err)
	err = p.PublishPlan("r", "", nil)
	require.ErrorIs(t, err, fail)
	assert.Len(t, mc.published, 3)
}

func TestPublishProgress(t *testing.T) {
	mc := &mockClient{}
	useMock(t, mc)
	p, err := NewPlanPublisher(Config{Broker: "tcp://localhost:1883", Topic: "sat/plan"}, nil)
	require.NoError(t, err)

	ev := scheduler.StepEvent{StepStats: metrics.StepStats{RunID: "r", Step: 2, Time: 12, Total: 6, BestValue: 31}, BestID: "0.5.1", Final: true}
	require.NoError(t, p.PublishProgress(ev))

	require.Len(t, mc.published, 1)
	assert.Equal(t, "sat/plan/progress", mc.published[0].topic)
	assert.False(t, mc.published[0].retain)
	var got ProgressMessage
	require.NoError(t, json.Unmarshal(mc.published[0].payload, &got))
	assert.Equal(t, ProgressMessage{RunID: "r", Step: 2, Time: 12, Total: 6, BestID: "0.5.1", BestValue: 31, Final: true}, got)
}

func TestConnectError(t *testing.T) {
	mc := &mockClient{connectErr: errors.New("refused")}
	useMock(t, mc)
	_, err := NewPlanPublisher(Config{Broker: "tcp://localhost:1883"}, nil)
	assert.ErrorContains(t, err, "refused")
}

func TestCloseDisconnects(t *testing.T) {
	mc := &mockClient{}
	useMock(t, mc)
	p, err := NewPlanPublisher(Config{Broker: "tcp://localhost:1883"}, nil)
	require.NoError(t, err)
	assert.True(t, mc.connected)
	require.NoError(t, p.Close())
	assert.False(t, mc.connected)
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var off Config
	assert.False(t, off.Enabled())
	assert.NoError(t, off.Validate())

	c := Config{Broker: "tcp://b:1883"}
	c.SetDefaults()
	assert.Equal(t, "horizon/plan", c.Topic)
	assert.Contains(t, c.ClientID, "horizon-")
	assert.Equal(t, 3, c.MaxRetries)
	assert.Equal(t, 100, c.BackoffMS)
	assert.NoError(t, c.Validate())

	c.QoS = 3
	c.UseTLS = true
	err := c.Validate()
	assert.ErrorContains(t, err, "qos")
	assert.ErrorContains(t, err, "tls")
}

func TestNewClientOptionsAuth(t *testing.T) {
	opts, err := NewClientOptions(Config{Broker: "tcp://localhost:1883", ClientID: "id", Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "u", opts.Username)
	assert.Equal(t, "p", opts.Password)
	assert.Equal(t, "id", opts.ClientID)
}

func generateCert(t *testing.T) (certFile, keyFile, caFile string) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tmpl := x509.Certificate{SerialNumber: big.NewInt(1), Subject: pkix.Name{CommonName: "test"}, NotBefore: time.Now(), NotAfter: time.Now().Add(time.Hour)}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &priv.PublicKey, priv)
	require.NoError(t, err)
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})

	dir := t.TempDir()
	certFile = filepath.Join(dir, "cert.pem")
	keyFile = filepath.Join(dir, "key.pem")
	caFile = filepath.Join(dir, "ca.pem")
	require.NoError(t, os.WriteFile(certFile, certPEM, 0o644))
	require.NoError(t, os.WriteFile(keyFile, keyPEM, 0o644))
	require.NoError(t, os.WriteFile(caFile, certPEM, 0o644))
	return
}

func TestLoadTLSConfig(t *testing.T) {
	cert, key, ca := generateCert(t)
	cfg := Config{Broker: "ssl://b:8883", UseTLS: true, ClientCert: cert, ClientKey: key, CABundle: ca}
	require.NoError(t, cfg.Validate())
	tlsCfg, err := cfg.LoadTLSConfig()
	require.NoError(t, err)
	assert.Len(t, tlsCfg.Certificates, 1)
	assert.NotNil(t, tlsCfg.RootCAs)

	_, err = Config{UseTLS: true}.LoadTLSConfig()
	assert.Error(t, err)
}
