package server

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/todoist-mcp/internal/events"
	"github.com/teemow/todoist-mcp/internal/instrumentation"
	"github.com/teemow/todoist-mcp/internal/todoist/todoisttest"
)

type closingPublisher struct {
	events.NopPublisher
	closed int
	err    error
}

func (p *closingPublisher) Close() error {
	p.closed++
	return p.err
}

func TestNewServerContext(t *testing.T) {
	tests := []struct {
		name        string
		build       func() (*ServerContext, error)
		errContains string
	}{
		{
			name: "defaults",
			build: func() (*ServerContext, error) {
				return NewServerContext(context.Background(), todoisttest.NewFake())
			},
		},
		{
			name: "nil client",
			build: func() (*ServerContext, error) {
				return NewServerContext(context.Background(), nil)
			},
			errContains: "todoist client is required",
		},
		{
			name: "negative concurrency",
			build: func() (*ServerContext, error) {
				return NewServerContext(context.Background(), todoisttest.NewFake(), WithBatchConcurrency(-1))
			},
			errContains: "must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := tt.build()
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				assert.Nil(t, sc)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, sc.Todoist())
			assert.IsType(t, events.NopPublisher{}, sc.Publisher())
			assert.Equal(t, 0, sc.BatchConcurrency())
			assert.NotNil(t, sc.Logger())
			assert.Nil(t, sc.Metrics())
			assert.Nil(t, sc.AuditLogger())
		})
	}
}

func TestServerContext_Options(t *testing.T) {
	pub := &closingPublisher{}
	sc, err := NewServerContext(context.Background(), todoisttest.NewFake(),
		WithPublisher(pub),
		WithBatchConcurrency(4),
		WithLogger(nil),
	)
	require.NoError(t, err)

	assert.Same(t, pub, sc.Publisher())
	assert.Equal(t, 4, sc.BatchConcurrency())
	assert.NotNil(t, sc.Logger(), "nil logger keeps the default")

	audit := instrumentation.NewAuditLogger(nil)
	sc.SetAuditLogger(audit)
	assert.Same(t, audit, sc.AuditLogger())
}

func TestServerContext_Shutdown(t *testing.T) {
	pub := &closingPublisher{}
	sc, err := NewServerContext(context.Background(), todoisttest.NewFake(), WithPublisher(pub))
	require.NoError(t, err)

	assert.False(t, sc.IsShutdown())
	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())
	assert.ErrorIs(t, sc.Context().Err(), context.Canceled)

	require.NoError(t, sc.Shutdown())
	assert.Equal(t, 1, pub.closed, "publisher closed once")
}

func TestServerContext_ShutdownPublisherError(t *testing.T) {
	pub := &closingPublisher{err: errors.New("drain timeout")}
	sc, err := NewServerContext(context.Background(), todoisttest.NewFake(), WithPublisher(pub))
	require.NoError(t, err)

	err = sc.Shutdown()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "drain timeout")
	assert.True(t, sc.IsShutdown())
}
