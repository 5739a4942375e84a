package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/teemow/todoist-mcp/internal/events"
	"github.com/teemow/todoist-mcp/internal/instrumentation"
	"github.com/teemow/todoist-mcp/internal/todoist"
)

// ServerContext holds the dependencies shared by all tool handlers.
type ServerContext struct {
	ctx              context.Context
	cancel           context.CancelFunc
	todoist          todoist.API
	publisher        events.Publisher
	batchConcurrency int
	logger           *slog.Logger
	metrics          *instrumentation.Metrics
	auditLogger      *instrumentation.AuditLogger
	mu               sync.RWMutex
	shutdown         bool
}

// Option configures a ServerContext.
type Option func(*ServerContext)

// WithPublisher sets the change-event publisher. The default discards events.
func WithPublisher(p events.Publisher) Option {
	return func(sc *ServerContext) {
		if p != nil {
			sc.publisher = p
		}
	}
}

// WithBatchConcurrency caps the number of concurrent remote calls per batch.
// Zero means unlimited.
func WithBatchConcurrency(n int) Option {
	return func(sc *ServerContext) {
		sc.batchConcurrency = n
	}
}

// WithLogger sets the logger handed to tool handlers.
func WithLogger(logger *slog.Logger) Option {
	return func(sc *ServerContext) {
		if logger != nil {
			sc.logger = logger
		}
	}
}

// NewServerContext creates a new server context around a Todoist client.
func NewServerContext(ctx context.Context, client todoist.API, opts ...Option) (*ServerContext, error) {
	if client == nil {
		return nil, errors.New("todoist client is required")
	}

	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:       shutdownCtx,
		cancel:    cancel,
		todoist:   client,
		publisher: events.NopPublisher{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(sc)
	}

	if sc.batchConcurrency < 0 {
		cancel()
		return nil, fmt.Errorf("batch concurrency must not be negative, got %d", sc.batchConcurrency)
	}

	return sc, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Todoist returns the Todoist API client
func (sc *ServerContext) Todoist() todoist.API {
	return sc.todoist
}

// Publisher returns the change-event publisher
func (sc *ServerContext) Publisher() events.Publisher {
	return sc.publisher
}

// BatchConcurrency returns the per-batch concurrency cap (0 = unlimited)
func (sc *ServerContext) BatchConcurrency() int {
	return sc.batchConcurrency
}

// Logger returns the server logger
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Metrics returns the metrics recorder, or nil if instrumentation is off
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// AuditLogger returns the audit logger, or nil if auditing is off
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown cancels the server context and closes the event publisher.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()

	if err := sc.publisher.Close(); err != nil {
		return fmt.Errorf("failed to close event publisher: %w", err)
	}
	return nil
}
