package mqtt

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	coremetrics "github.com/kilianp07/energycore/core/metrics"
	coremqtt "github.com/kilianp07/energycore/core/mqtt"
	corestore "github.com/kilianp07/energycore/core/store"
	"github.com/kilianp07/energycore/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Enabled    bool            `json:"enabled"`
	Broker     string          `json:"broker"`
	ClientID   string          `json:"client_id"`
	Username   string          `json:"username"`
	Password   string          `json:"password"`
	Topic      string          `json:"topic"`
	UseTLS     bool            `json:"use_tls"`
	ClientCert string          `json:"client_cert"`
	ClientKey  string          `json:"client_key"`
	CABundle   string          `json:"ca_bundle"`
	AuthMethod string          `json:"auth_method"`
	QoS        map[string]byte `json:"qos"`
	LWTTopic   string          `json:"lwt_topic"`
	LWTPayload string          `json:"lwt_payload"`
	LWTQoS     byte            `json:"lwt_qos"`
	LWTRetain  bool            `json:"lwt_retain"`
	MaxRetries int             `json:"max_retries"`
	BackoffMS  int             `json:"backoff_ms"`
	TLSConfig  *tls.Config     `json:"-"`
}

// SetDefaults fills empty fields.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "energycore-ingestor"
	}
	if c.Topic == "" {
		c.Topic = coremqtt.EnergyTopicFilter
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.BackoffMS <= 0 {
		c.BackoffMS = 100
	}
}

// Validate checks the settings of an enabled ingestor.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("mqtt.broker is required when mqtt is enabled")
	}
	if c.UseTLS && c.TLSConfig == nil && (c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "") {
		return fmt.Errorf("mqtt tls requires client_cert, client_key and ca_bundle")
	}
	return nil
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

// Ingestor subscribes to vehicle energy reports and stores them as energy logs.
type Ingestor struct {
	cli     pahoClient
	store   corestore.EnergyLogStore
	metrics coremetrics.Sink
	topic   string
	qos     map[string]byte

	logger     logger.Logger
	maxRetries int
	backoff    time.Duration
	timeout    time.Duration

	mu      sync.Mutex
	handled int

	acks     chan pendingAck
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type pendingAck struct {
	vehicleID string
	ack       coremqtt.Ack
}

// ackQueueSize bounds the acks waiting for the publisher; further acks are dropped.
const ackQueueSize = 256

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// NewIngestor connects to the MQTT broker and subscribes to the energy topic.
// The subscription is renewed on every reconnect.
func NewIngestor(cfg Config, store corestore.EnergyLogStore, sink coremetrics.Sink) (*Ingestor, error) {
	cfg.SetDefaults()
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	if sink == nil {
		sink = coremetrics.NopSink{}
	}

	log := logger.New("mqtt_ingestor")
	in := &Ingestor{
		store:      store,
		metrics:    sink,
		topic:      cfg.Topic,
		qos:        cfg.QoS,
		logger:     log,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		timeout:    5 * time.Second,
		acks:       make(chan pendingAck, ackQueueSize),
		stop:       make(chan struct{}),
	}

	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected")
		if token := c.Subscribe(in.topic, in.qosFor("energy"), in.onEnergy); token.Wait() && token.Error() != nil {
			log.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	// retained reports may arrive from inside Connect
	in.cli = newMQTTClient(opts)
	in.wg.Add(1)
	go in.ackLoop()
	if token := in.cli.Connect(); token.Wait() && token.Error() != nil {
		in.stopAcks()
		return nil, token.Error()
	}
	return in, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.AuthMethod == "username_password" || cfg.AuthMethod == "both" || cfg.AuthMethod == "" {
		if cfg.Username != "" {
			opts.SetUsername(cfg.Username)
		}
		if cfg.Password != "" {
			opts.SetPassword(cfg.Password)
		}
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	if cfg.LWTTopic != "" {
		opts.SetWill(cfg.LWTTopic, cfg.LWTPayload, cfg.LWTQoS, cfg.LWTRetain)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	cfg := &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}
	return cfg, nil
}

func (in *Ingestor) qosFor(kind string) byte {
	if q, ok := in.qos[kind]; ok {
		return q
	}
	return 0
}

func (in *Ingestor) onEnergy(_ paho.Client, msg paho.Message) {
	ack := in.handle(msg.Topic(), msg.Payload())
	in.mu.Lock()
	in.handled++
	in.mu.Unlock()
	if rec, ok := in.metrics.(coremetrics.EnergyLogRecorder); ok {
		if err := rec.RecordEnergyLog("mqtt", ack.Accepted); err != nil {
			in.logger.Warnf("metrics record error: %v", err)
		}
	}
	vehicleID, err := coremqtt.VehicleIDFromTopic(msg.Topic())
	if err != nil {
		return
	}
	in.enqueueAck(pendingAck{vehicleID: vehicleID, ack: ack})
}

// enqueueAck hands ack to the publisher without blocking the paho callback.
func (in *Ingestor) enqueueAck(p pendingAck) {
	select {
	case <-in.stop:
		return
	default:
	}
	select {
	case in.acks <- p:
	default:
		in.logger.Warnf("ack queue full, dropping ack for %s", p.vehicleID)
	}
}

func (in *Ingestor) ackLoop() {
	defer in.wg.Done()
	for {
		select {
		case p := <-in.acks:
			in.sendAck(p)
		case <-in.stop:
			for {
				select {
				case p := <-in.acks:
					in.sendAck(p)
				default:
					return
				}
			}
		}
	}
}

func (in *Ingestor) sendAck(p pendingAck) {
	if err := in.publishAck(p.vehicleID, p.ack); err != nil {
		in.logger.Errorf("ack publish failed for %s: %v", p.vehicleID, err)
	}
}

func (in *Ingestor) stopAcks() {
	in.stopOnce.Do(func() { close(in.stop) })
	in.wg.Wait()
}

// handle decodes and stores one report.
func (in *Ingestor) handle(topic string, payload []byte) coremqtt.Ack {
	vehicleID, err := coremqtt.VehicleIDFromTopic(topic)
	if err != nil {
		in.logger.Warnf("ignoring message: %v", err)
		return coremqtt.Ack{Error: err.Error()}
	}
	var m coremqtt.EnergyLogMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		in.logger.Errorf("failed to decode energy report from %s: %v", vehicleID, err)
		return coremqtt.Ack{Error: "invalid payload"}
	}
	ack := coremqtt.Ack{MessageID: m.MessageID}
	rec, err := m.Record(vehicleID)
	if err != nil {
		in.logger.Warnf("rejected energy report from %s: %v", vehicleID, err)
		ack.Error = err.Error()
		return ack
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	ctx, cancel := context.WithTimeout(context.Background(), in.timeout)
	defer cancel()
	saved, err := in.store.AddEnergyLog(ctx, rec)
	if err != nil {
		in.logger.Errorf("store energy log for %s: %v", vehicleID, err)
		ack.Error = "storage failure"
		return ack
	}
	in.logger.Debugw("energy log stored", map[string]any{
		"vehicle_id": vehicleID,
		"log_id":     saved.ID,
		"energy":     saved.EnergyConsumed,
	})
	ack.LogID = saved.ID
	ack.Accepted = true
	return ack
}

// publishAck sends ack to the vehicle, retrying with exponential backoff.
// Backoff ends early once the ingestor is stopping.
func (in *Ingestor) publishAck(vehicleID string, ack coremqtt.Ack) error {
	payload, err := json.Marshal(ack)
	if err != nil {
		return err
	}
	topic := coremqtt.AckTopic(vehicleID)
	qos := in.qosFor("ack")
	var publishErr error
	for attempt := 0; attempt <= in.maxRetries; attempt++ {
		token := in.cli.Publish(topic, qos, false, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			return nil
		}
		in.logger.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt == in.maxRetries {
			break
		}
		select {
		case <-time.After(in.backoff * time.Duration(1<<attempt)):
		case <-in.stop:
			return publishErr
		}
	}
	return publishErr
}

// Handled returns the number of messages processed so far.
func (in *Ingestor) Handled() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.handled
}

// Disconnect flushes queued acks and closes the MQTT connection.
func (in *Ingestor) Disconnect() {
	in.stopAcks()
	if in.cli != nil && in.cli.IsConnected() {
		in.cli.Disconnect(250)
	}
}
