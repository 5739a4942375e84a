package batch

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringOrArray(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    []string
		wantErr string
	}{
		{name: "single string", input: "123", want: []string{"123"}},
		{name: "array of strings", input: []any{"1", "2", "3"}, want: []string{"1", "2", "3"}},
		{name: "typed string slice", input: []string{"a", "b"}, want: []string{"a", "b"}},
		{name: "nil input", input: nil, wantErr: "ids is required"},
		{name: "empty string", input: "", wantErr: "ids cannot be empty"},
		{name: "empty array", input: []any{}, wantErr: "ids cannot be empty"},
		{name: "array with non-string", input: []any{"1", 2}, wantErr: "ids[1] must be a string"},
		{name: "array with empty string", input: []any{"1", ""}, wantErr: "ids[1] cannot be empty"},
		{name: "wrong type", input: 42.0, wantErr: "ids must be a string or array of strings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringOrArray(tt.input, "ids")
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInput(t *testing.T) {
	single := Single("a")
	assert.False(t, single.Batch)
	assert.Equal(t, 1, single.Len())

	many := Many([]string{"a", "b"})
	assert.True(t, many.Batch)
	assert.Equal(t, 2, many.Len())
}

func TestRun_PreservesInputOrder(t *testing.T) {
	in := Many([]int{30, 10, 20, 0})

	results := Run(context.Background(), in, 0, func(_ context.Context, i int, delay int) Result {
		time.Sleep(time.Duration(delay) * time.Millisecond)
		return Result{Success: true, TaskID: string(rune('a' + i))}
	})

	require.Len(t, results, 4)
	for i, r := range results {
		assert.Equal(t, string(rune('a'+i)), r.TaskID)
	}
}

func TestRun_PartialFailure(t *testing.T) {
	in := Many([]string{"ok", "bad", "ok"})

	results := Run(context.Background(), in, 0, func(_ context.Context, _ int, item string) Result {
		if item == "bad" {
			return Failure(errors.New("Task not found: bad"))
		}
		return Result{Success: true, TaskName: item}
	})

	env := NewEnvelope(results)
	assert.Equal(t, Summary{Total: 3, Succeeded: 2, Failed: 1}, env.Summary)
	assert.False(t, env.Success)
	assert.True(t, env.IsError())
	assert.Equal(t, "Task not found: bad", env.Results[1].Error)
}

func TestRun_RecoversPanics(t *testing.T) {
	in := Many([]string{"boom", "fine"})

	results := Run(context.Background(), in, 0, func(_ context.Context, _ int, item string) Result {
		if item == "boom" {
			panic("nil task")
		}
		return Result{Success: true}
	})

	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "panic: nil task")
	assert.True(t, results[1].Success)
}

func TestRun_RespectsLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	items := make([]int, 8)

	Run(context.Background(), Many(items), 2, func(_ context.Context, _ int, _ int) Result {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return Result{Success: true}
	})

	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestNewEnvelope_Empty(t *testing.T) {
	env := NewEnvelope(nil)
	assert.True(t, env.Success)
	assert.False(t, env.IsError())
	assert.NotNil(t, env.Results)
}

func TestEnvelope_ToolResultBody(t *testing.T) {
	res := NewEnvelope([]Result{
		{Success: true, TaskID: "1", Content: "Buy milk"},
		{Success: false, TaskName: "ghost", Error: "Task not found: ghost"},
	}).ToolResult()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	out := text.Text

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	summary := decoded["summary"].(map[string]any)
	assert.Equal(t, float64(2), summary["total"])
	assert.Equal(t, float64(1), summary["succeeded"])
	assert.Equal(t, float64(1), summary["failed"])
	assert.Equal(t, false, decoded["success"])

	results := decoded["results"].([]any)
	first := results[0].(map[string]any)
	assert.NotContains(t, first, "error")
	assert.NotContains(t, first, "task")
	assert.True(t, strings.HasPrefix(out, "{\n  \"success\""))
}

func TestEnvelope_ToolResult(t *testing.T) {
	res := NewEnvelope([]Result{{Success: true}, {Success: false, Error: "x"}}).ToolResult()
	assert.True(t, res.IsError)
	require.Len(t, res.Content, 1)

	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, `"failed": 1`)

	ok2 := NewEnvelope([]Result{{Success: true}}).ToolResult()
	assert.False(t, ok2.IsError)
}
