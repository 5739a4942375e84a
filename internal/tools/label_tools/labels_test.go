package label_tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/todoist-mcp/internal/server"
	"github.com/teemow/todoist-mcp/internal/todoist"
	"github.com/teemow/todoist-mcp/internal/todoist/todoisttest"
	"github.com/teemow/todoist-mcp/internal/tools/dispatch"
)

func setup(t *testing.T) (*dispatch.Dispatcher, *todoisttest.Fake) {
	t.Helper()
	fake := todoisttest.NewFake()
	sc, err := server.NewServerContext(context.Background(), fake)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	d := dispatch.New(nil)
	require.NoError(t, RegisterLabelTools(d, sc))
	return d, fake
}

func call(t *testing.T, d *dispatch.Dispatcher, tool string, args any) (*mcp.CallToolResult, string) {
	t.Helper()
	result := d.Dispatch(context.Background(), tool, args)
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return result, text.Text
}

func TestRegisterLabelTools(t *testing.T) {
	d, _ := setup(t)

	ops := d.Operations()
	require.Len(t, ops, 6)
	for _, op := range ops {
		assert.Equal(t, category, op.Category, op.Name())
	}

	readOnly := dispatch.New(nil, dispatch.WithReadOnly(true))
	sc, err := server.NewServerContext(context.Background(), todoisttest.NewFake())
	require.NoError(t, err)
	require.NoError(t, RegisterLabelTools(readOnly, sc))

	var names []string
	for _, op := range readOnly.Operations() {
		names = append(names, op.Name())
	}
	assert.ElementsMatch(t, []string{toolGetLabels, toolGetLabel}, names)
}

func TestLabelLifecycle(t *testing.T) {
	d, fake := setup(t)

	result, text := call(t, d, toolCreateLabel, map[string]any{
		"name":        "urgent",
		"color":       "red",
		"order":       float64(1),
		"is_favorite": true,
	})
	require.False(t, result.IsError, text)
	assert.True(t, strings.HasPrefix(text, "Label created:\n{"), text)
	require.Len(t, fake.Labels, 1)
	id := fake.Labels[0].ID
	assert.Equal(t, todoist.Label{ID: id, Name: "urgent", Color: "red", Order: 1, IsFavorite: true}, fake.Labels[0])

	result, text = call(t, d, toolGetLabel, map[string]any{"label_id": id})
	require.False(t, result.IsError, text)
	assert.Contains(t, text, `"name": "urgent"`)

	result, text = call(t, d, toolUpdateLabel, map[string]any{"label_id": id, "name": "later"})
	require.False(t, result.IsError, text)
	assert.True(t, strings.HasPrefix(text, "Label updated:\n"), text)
	assert.Equal(t, todoist.UpdateLabelArgs{Name: todoist.String("later")}, fake.CallsTo("UpdateLabel")[0].Args)

	result, text = call(t, d, toolGetLabels, map[string]any{})
	require.False(t, result.IsError, text)
	assert.Contains(t, text, `"name": "later"`)

	result, text = call(t, d, toolDeleteLabel, map[string]any{"label_id": id})
	require.False(t, result.IsError, text)
	assert.Equal(t, "Successfully deleted label with ID: "+id, text)
	assert.Empty(t, fake.Labels)
}

func TestLabelErrors(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		args     any
		wantText string
	}{
		{
			name:     "no arguments",
			tool:     toolGetLabels,
			args:     nil,
			wantText: "Error: No arguments provided",
		},
		{
			name:     "missing label id",
			tool:     toolGetLabel,
			args:     map[string]any{},
			wantText: "Error: Invalid arguments for todoist_get_personal_label",
		},
		{
			name:     "unknown label",
			tool:     toolDeleteLabel,
			args:     map[string]any{"label_id": "nope"},
			wantText: "Error: todoist API error (404) on DELETE /labels/nope: Label not found",
		},
		{
			name:     "labels not an array",
			tool:     toolUpdateTaskLabels,
			args:     map[string]any{"task_name": "x", "labels": "urgent"},
			wantText: "Error: Invalid arguments for todoist_update_task_labels",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := setup(t)
			result, text := call(t, d, tt.tool, tt.args)
			assert.True(t, result.IsError)
			assert.Equal(t, tt.wantText, text)
		})
	}
}

func TestUpdateTaskLabels(t *testing.T) {
	d, fake := setup(t)
	fake.Tasks = []todoist.Task{
		{ID: "1", Content: "Call mom"},
		{ID: "2", Content: "Buy milk", Labels: []string{"old"}},
	}

	result, text := call(t, d, toolUpdateTaskLabels, map[string]any{
		"task_name": "milk",
		"labels":    []any{"errand", "home"},
	})

	require.False(t, result.IsError, text)
	assert.True(t, strings.HasPrefix(text, "Labels updated for task \"Buy milk\":\n{"), text)
	task, ok := fake.Task("2")
	require.True(t, ok)
	assert.Equal(t, []string{"errand", "home"}, task.Labels)
}

func TestUpdateTaskLabels_NotFound(t *testing.T) {
	d, fake := setup(t)
	fake.Tasks = []todoist.Task{{ID: "1", Content: "Call mom"}}

	result, text := call(t, d, toolUpdateTaskLabels, map[string]any{
		"task_name": "dentist",
		"labels":    []any{"health"},
	})

	assert.True(t, result.IsError)
	assert.Equal(t, `Could not find a task matching "dentist"`, text)
	assert.Zero(t, fake.MutationCount())
}

func TestUpdateTaskLabels_ListingFails(t *testing.T) {
	d, fake := setup(t)
	fake.Errors = map[string]error{"GetTasks": errors.New("rate limited")}

	result, text := call(t, d, toolUpdateTaskLabels, map[string]any{
		"task_name": "x",
		"labels":    []any{},
	})

	assert.True(t, result.IsError)
	assert.Equal(t, "Error: rate limited", text)
}
