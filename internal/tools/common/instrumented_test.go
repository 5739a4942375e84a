package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/teemow/todoist-mcp/internal/events"
	"github.com/teemow/todoist-mcp/internal/instrumentation"
	"github.com/teemow/todoist-mcp/internal/server"
	"github.com/teemow/todoist-mcp/internal/todoist/todoisttest"
)

func newServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), todoisttest.NewFake())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestInstrumentedToolHandler_Success(t *testing.T) {
	sc := newServerContext(t)

	called := false
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		tool, id := events.InvocationFromContext(ctx)
		assert.Equal(t, "test_tool", tool)
		assert.NotEmpty(t, id)
		return mcp.NewToolResultText("success"), nil
	}

	result, err := InstrumentedToolHandler("test_tool", "tasks", sc, handler)(context.Background(), callRequest(nil))

	require.NoError(t, err)
	assert.True(t, called)
	require.NotNil(t, result)
	assert.False(t, result.IsError)
}

func TestInstrumentedToolHandler_Error(t *testing.T) {
	sc := newServerContext(t)

	expectedErr := errors.New("test error")
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, expectedErr
	}

	_, err := InstrumentedToolHandler("test_tool", "tasks", sc, handler)(context.Background(), callRequest(nil))
	assert.ErrorIs(t, err, expectedErr)
}

func TestInstrumentedToolHandler_WithMetrics(t *testing.T) {
	sc := newServerContext(t)

	metrics, err := instrumentation.NewMetrics(noop.NewMeterProvider().Meter("test"), false)
	require.NoError(t, err)
	sc.SetMetrics(metrics)

	var buf bytes.Buffer
	sc.SetAuditLogger(instrumentation.NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil))))

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("Error: Task not found: milk"), nil
	}

	result, err := InstrumentedToolHandler("todoist_delete_task", "tasks", sc, handler)(
		context.Background(), callRequest(map[string]any{"task_name": "milk"}))

	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, buf.String(), `"tool":"todoist_delete_task"`)
	assert.Contains(t, buf.String(), "Task not found: milk")
	assert.Contains(t, buf.String(), `"invocation_id"`)
}

func TestTargetsFromArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        map[string]any
		wantSize    int
		wantTargets []string
	}{
		{
			name:     "nil args",
			args:     nil,
			wantSize: 0,
		},
		{
			name:        "single by id",
			args:        map[string]any{"task_id": "123", "task_name": "milk"},
			wantTargets: []string{"123"},
		},
		{
			name:        "single create",
			args:        map[string]any{"content": "Buy milk"},
			wantTargets: []string{"Buy milk"},
		},
		{
			name: "batch",
			args: map[string]any{"tasks": []any{
				map[string]any{"task_name": "milk"},
				"not an object",
				map[string]any{"task_id": "42"},
			}},
			wantSize:    3,
			wantTargets: []string{"milk", "42"},
		},
		{
			name:     "empty batch falls back to single",
			args:     map[string]any{"tasks": []any{}},
			wantSize: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size, targets := targetsFromArgs(tt.args)
			assert.Equal(t, tt.wantSize, size)
			assert.Equal(t, tt.wantTargets, targets)
		})
	}
}
