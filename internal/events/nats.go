package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/teemow/todoist-mcp/internal/instrumentation"
	"github.com/teemow/todoist-mcp/internal/logging"
)

// drainTimeout bounds how long Close waits for buffered messages.
const drainTimeout = 2 * time.Second

// NATSPublisher publishes events as JSON messages on a NATS connection.
type NATSPublisher struct {
	conn    *nats.Conn
	prefix  string
	logger  logging.Logger
	metrics *instrumentation.Metrics
}

// Option configures a NATSPublisher.
type Option func(*NATSPublisher)

// WithLogger sets the publisher's logger.
func WithLogger(logger logging.Logger) Option {
	return func(p *NATSPublisher) {
		p.logger = logger
	}
}

// WithMetrics sets the recorder for publish metrics.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(p *NATSPublisher) {
		p.metrics = m
	}
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url, prefix string, opts ...Option) (*NATSPublisher, error) {
	if url == "" {
		return nil, errors.New("nats url is required")
	}

	conn, err := nats.Connect(url,
		nats.Name("todoist-mcp"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats at %s: %w", url, err)
	}

	return NewNATSPublisherWithConn(conn, prefix, opts...), nil
}

// NewNATSPublisherWithConn wraps an existing connection. The publisher takes
// ownership of conn and closes it on Close.
func NewNATSPublisherWithConn(conn *nats.Conn, prefix string, opts ...Option) *NATSPublisher {
	p := &NATSPublisher{
		conn:   conn,
		prefix: prefix,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish sends ev on its subject. The call returns once the message is
// buffered by the client, it does not wait for subscribers.
func (p *NATSPublisher) Publish(ctx context.Context, ev Event) error {
	subject := Subject(p.prefix, ev.Entity, ev.Action)

	if ev.Tool == "" && ev.InvocationID == "" {
		ev.Tool, ev.InvocationID = InvocationFromContext(ctx)
	}

	data, err := json.Marshal(ev)
	if err != nil {
		p.metrics.RecordEventPublished(ctx, subject, instrumentation.StatusError)
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if err := p.conn.Publish(subject, data); err != nil {
		p.metrics.RecordEventPublished(ctx, subject, instrumentation.StatusError)
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}

	p.metrics.RecordEventPublished(ctx, subject, instrumentation.StatusSuccess)
	p.logger.Debug("event published", "subject", subject, "entity_id", ev.EntityID)
	return nil
}

// Close drains the connection, forcing it closed if draining takes too long.
func (p *NATSPublisher) Close() error {
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}

	drainDone := make(chan error, 1)
	go func() {
		drainDone <- p.conn.Drain()
	}()

	select {
	case err := <-drainDone:
		if err != nil {
			p.conn.Close()
			return fmt.Errorf("failed to drain nats connection: %w", err)
		}
	case <-time.After(drainTimeout):
		p.conn.Close()
		return errors.New("timed out draining nats connection")
	}
	return nil
}
