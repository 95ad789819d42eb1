package telemetry

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

// bufferCapacity bounds how many lifecycle messages are held while the
// broker is unreachable. Lifecycle traffic is sparse, so a small buffer
// covers long outages.
const bufferCapacity = 64

// RealPublisher publishes to an actual MQTT broker. While disconnected it
// buffers messages in a ring and replays them on reconnect.
type RealPublisher struct {
	client paho.Client
	log    zerolog.Logger

	mu  sync.Mutex
	buf *ringBuffer
}

// NewRealPublisher creates a publisher connected to the given broker.
// The client auto-reconnects; a broker outage after startup only delays
// delivery.
func NewRealPublisher(broker string, log zerolog.Logger) (*RealPublisher, error) {
	p := &RealPublisher{
		log: log,
		buf: newRingBuffer(bufferCapacity),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("encoderd").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(paho.Client) { p.drain() })

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return p, nil
}

// PublishSystem sends a lifecycle event to the broker, or buffers it when
// the connection is down.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once): shutdown events especially must arrive.
	msg := bufferedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained}

	if !p.client.IsConnected() {
		p.mu.Lock()
		dropped := p.buf.push(msg)
		p.mu.Unlock()
		if dropped {
			p.log.Warn().Int("capacity", bufferCapacity).Msg("telemetry buffer full, dropped oldest message")
		}
		return nil
	}

	return p.send(msg)
}

// drain replays buffered messages after a (re)connect. Failures are logged
// and the message dropped; lifecycle telemetry is best-effort.
func (p *RealPublisher) drain() {
	p.mu.Lock()
	msgs := p.buf.drainAll()
	p.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	p.log.Info().Int("buffered", len(msgs)).Msg("replaying telemetry buffered while disconnected")
	for _, msg := range msgs {
		if err := p.send(msg); err != nil {
			p.log.Warn().Err(err).Msg("replay of buffered telemetry failed")
		}
	}
}

func (p *RealPublisher) send(msg bufferedMsg) error {
	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker, allowing in-flight messages to finish.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // milliseconds
	return nil
}
