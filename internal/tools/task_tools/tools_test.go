package task_tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/todoist-mcp/internal/server"
	"github.com/teemow/todoist-mcp/internal/todoist"
	"github.com/teemow/todoist-mcp/internal/todoist/todoisttest"
	"github.com/teemow/todoist-mcp/internal/tools/dispatch"
)

type testEnv struct {
	fake *todoisttest.Fake
	sc   *server.ServerContext
	d    *dispatch.Dispatcher
}

func newTestEnv(t *testing.T, opts ...dispatch.Option) *testEnv {
	t.Helper()
	fake := todoisttest.NewFake()
	sc, err := server.NewServerContext(context.Background(), fake)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	d := dispatch.New(nil, opts...)
	require.NoError(t, RegisterTaskTools(d, sc))
	return &testEnv{fake: fake, sc: sc, d: d}
}

func (e *testEnv) call(t *testing.T, tool string, args any) (*mcp.CallToolResult, string) {
	t.Helper()
	result := e.d.Dispatch(context.Background(), tool, args)
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return result, text.Text
}

func decode[T any](t *testing.T, text string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(text), &v), text)
	return v
}

type envelope struct {
	Success bool `json:"success"`
	Summary struct {
		Total     int `json:"total"`
		Succeeded int `json:"succeeded"`
		Failed    int `json:"failed"`
	} `json:"summary"`
	Results []map[string]any `json:"results"`
}

func seedTasks(fake *todoisttest.Fake, tasks ...todoist.Task) {
	fake.Tasks = append(fake.Tasks, tasks...)
}

func TestRegisterTaskTools(t *testing.T) {
	env := newTestEnv(t)

	var names []string
	for _, op := range env.d.Operations() {
		names = append(names, op.Name())
		assert.Equal(t, category, op.Category)
	}
	assert.ElementsMatch(t, []string{
		toolCreateTask, toolGetTasks, toolUpdateTask, toolDeleteTask, toolCompleteTask,
	}, names)
}

func TestRegisterTaskTools_ReadOnly(t *testing.T) {
	env := newTestEnv(t, dispatch.WithReadOnly(true))

	ops := env.d.Operations()
	require.Len(t, ops, 1)
	assert.Equal(t, toolGetTasks, ops[0].Name())
}

func TestTaskToolSchemas(t *testing.T) {
	tool := createTaskTool()
	props := tool.InputSchema.Properties

	for _, f := range createFields {
		assert.Contains(t, props, f.name)
	}
	tasks, ok := props["tasks"].(map[string]any)
	require.True(t, ok)
	items, ok := tasks["items"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"content"}, items["required"])

	unit, ok := props["duration_unit"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"minute", "day"}, unit["enum"])

	update := updateTaskTool()
	assert.Contains(t, update.InputSchema.Properties, "task_id")
	assert.Contains(t, update.InputSchema.Properties, "task_name")
	assert.NotContains(t, update.InputSchema.Properties, "parent_id")
}

func TestTaskToolSchemas_PriorityEnum(t *testing.T) {
	itemProps := func(t *testing.T, tool mcp.Tool) map[string]any {
		t.Helper()
		tasks, ok := tool.InputSchema.Properties["tasks"].(map[string]any)
		require.True(t, ok)
		items, ok := tasks["items"].(map[string]any)
		require.True(t, ok)
		props, ok := items["properties"].(map[string]any)
		require.True(t, ok)
		return props
	}

	tests := []struct {
		name  string
		props func(t *testing.T) map[string]any
	}{
		{name: "create", props: func(*testing.T) map[string]any { return createTaskTool().InputSchema.Properties }},
		{name: "create item", props: func(t *testing.T) map[string]any { return itemProps(t, createTaskTool()) }},
		{name: "update", props: func(*testing.T) map[string]any { return updateTaskTool().InputSchema.Properties }},
		{name: "update item", props: func(t *testing.T) map[string]any { return itemProps(t, updateTaskTool()) }},
		{name: "get tasks", props: func(*testing.T) map[string]any { return getTasksTool().InputSchema.Properties }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			priority, ok := tt.props(t)["priority"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "number", priority["type"])
			assert.Equal(t, []int{1, 2, 3, 4}, priority["enum"])
			assert.NotContains(t, priority, "minimum")
			assert.NotContains(t, priority, "maximum")
		})
	}
}
