package task_tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/todoist-mcp/internal/todoist"
)

func TestUpdateTask_ByID(t *testing.T) {
	env := newTestEnv(t)
	seedTasks(env.fake, todoist.Task{ID: "42", Content: "Buy milk", Priority: 1})

	result, text := env.call(t, toolUpdateTask, map[string]any{
		"task_id":  "42",
		"priority": float64(3),
	})

	require.False(t, result.IsError, text)
	resp := decode[taskResponse](t, text)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Task)
	assert.Equal(t, 3, resp.Task.Priority)
	assert.Zero(t, env.fake.CallCount("GetTasks"), "an ID never triggers a task listing")
}

func TestUpdateTask_ByName(t *testing.T) {
	env := newTestEnv(t)
	seedTasks(env.fake,
		todoist.Task{ID: "1", Content: "Call mom"},
		todoist.Task{ID: "2", Content: "Buy milk and eggs"},
	)

	result, text := env.call(t, toolUpdateTask, map[string]any{
		"task_name": "MILK",
		"content":   "Buy oat milk",
	})

	require.False(t, result.IsError, text)
	resp := decode[taskResponse](t, text)
	assert.Equal(t, "Buy oat milk", resp.Task.Content)
	assert.Zero(t, resp.AmbiguousMatches)

	calls := env.fake.CallsTo("UpdateTask")
	require.Len(t, calls, 1)
	assert.Equal(t, "2", calls[0].ID)
}

func TestUpdateTask_AmbiguousName(t *testing.T) {
	env := newTestEnv(t)
	seedTasks(env.fake,
		todoist.Task{ID: "1", Content: "Report draft"},
		todoist.Task{ID: "2", Content: "Report final"},
	)

	_, text := env.call(t, toolUpdateTask, map[string]any{"task_name": "report", "priority": float64(2)})

	resp := decode[taskResponse](t, text)
	assert.True(t, resp.Success)
	assert.Equal(t, "1", resp.Task.ID, "the first match in API order wins")
	assert.Equal(t, 2, resp.AmbiguousMatches)
}

func TestUpdateTask_NotFound(t *testing.T) {
	env := newTestEnv(t)
	seedTasks(env.fake, todoist.Task{ID: "1", Content: "Call mom"})

	result, text := env.call(t, toolUpdateTask, map[string]any{"task_name": "Nonexistent", "priority": float64(2)})

	assert.True(t, result.IsError)
	resp := decode[taskResponse](t, text)
	assert.False(t, resp.Success)
	assert.Equal(t, "Task not found: Nonexistent", resp.Error)
	assert.Zero(t, env.fake.MutationCount())
}

func TestUpdateTask_Duration(t *testing.T) {
	tests := []struct {
		name      string
		args      map[string]any
		wantDur   *todoist.Duration
		wantClear bool
	}{
		{
			name:    "pair",
			args:    map[string]any{"task_id": "1", "duration": float64(2), "duration_unit": "day"},
			wantDur: &todoist.Duration{Amount: 2, Unit: "day"},
		},
		{
			name:      "null clears",
			args:      map[string]any{"task_id": "1", "duration": nil},
			wantClear: true,
		},
		{
			name: "amount alone is dropped",
			args: map[string]any{"task_id": "1", "duration": float64(15)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			seedTasks(env.fake, todoist.Task{ID: "1", Content: "x", Duration: &todoist.Duration{Amount: 5, Unit: "minute"}})

			result, text := env.call(t, toolUpdateTask, tt.args)
			require.False(t, result.IsError, text)

			calls := env.fake.CallsTo("UpdateTask")
			require.Len(t, calls, 1)
			sent := calls[0].Args.(todoist.UpdateTaskArgs)
			assert.Equal(t, tt.wantDur, sent.Duration)
			assert.Equal(t, tt.wantClear, sent.ClearDuration)
		})
	}
}

func TestUpdateTask_Batch(t *testing.T) {
	env := newTestEnv(t)
	seedTasks(env.fake,
		todoist.Task{ID: "1", Content: "Buy milk"},
		todoist.Task{ID: "2", Content: "Call mom"},
	)

	result, text := env.call(t, toolUpdateTask, map[string]any{
		"tasks": []any{
			map[string]any{"task_id": "1", "priority": float64(4)},
			map[string]any{"task_name": "mom", "content": "Call mom tonight"},
			map[string]any{"task_name": "dentist", "priority": float64(2)},
		},
	})

	assert.True(t, result.IsError)
	out := decode[envelope](t, text)
	assert.False(t, out.Success)
	assert.Equal(t, 3, out.Summary.Total)
	assert.Equal(t, 2, out.Summary.Succeeded)
	assert.Equal(t, 1, out.Summary.Failed)

	assert.Equal(t, "1", out.Results[0]["task_id"])
	assert.Equal(t, map[string]any{"priority": float64(4)}, out.Results[0]["updated"])
	assert.NotContains(t, out.Results[0], "task")

	assert.Equal(t, "2", out.Results[1]["task_id"])
	assert.Equal(t, map[string]any{"content": "Call mom tonight"}, out.Results[1]["updated"])

	assert.Equal(t, false, out.Results[2]["success"])
	assert.Equal(t, "Task not found: dentist", out.Results[2]["error"])
	assert.Equal(t, "dentist", out.Results[2]["task_data"].(map[string]any)["task_name"])

	assert.Equal(t, 1, env.fake.CallCount("GetTasks"), "name lookups share one listing")
	assert.Equal(t, 2, env.fake.CallCount("UpdateTask"))
}

func TestUpdateTask_Invalid(t *testing.T) {
	env := newTestEnv(t)

	result, text := env.call(t, toolUpdateTask, map[string]any{"priority": float64(2)})

	assert.True(t, result.IsError)
	assert.Equal(t, "Error: Invalid arguments for todoist_update_task", text)
	assert.Zero(t, len(env.fake.Calls))
}
