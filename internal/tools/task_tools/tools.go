package task_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/todoist-mcp/internal/server"
	"github.com/teemow/todoist-mcp/internal/todoist"
	"github.com/teemow/todoist-mcp/internal/tools/batch"
	"github.com/teemow/todoist-mcp/internal/tools/common"
	"github.com/teemow/todoist-mcp/internal/tools/dispatch"
)

// Tool names
const (
	toolCreateTask   = "todoist_create_task"
	toolGetTasks     = "todoist_get_tasks"
	toolUpdateTask   = "todoist_update_task"
	toolDeleteTask   = "todoist_delete_task"
	toolCompleteTask = "todoist_complete_task"
)

const category = "tasks"

// RegisterTaskTools adds the task tools to the dispatcher. In read-only mode
// only todoist_get_tasks is kept.
func RegisterTaskTools(d *dispatch.Dispatcher, sc *server.ServerContext) error {
	createItem := dispatch.RequireString("content")

	ops := []dispatch.Operation{
		{
			Tool:     createTaskTool(),
			Category: category,
			Validate: dispatch.BatchOr(createItem, createItem),
			Handle:   handleCreateTask(sc),
		},
		{
			Tool:     getTasksTool(),
			Category: category,
			ReadOnly: true,
			Handle:   handleGetTasks(sc),
		},
		{
			Tool:     updateTaskTool(),
			Category: category,
			Validate: dispatch.BatchOr(dispatch.IDOrName, dispatch.IDOrName),
			Handle:   handleUpdateTask(sc),
		},
		{
			Tool:     lifecycleTool(toolDeleteTask, "Delete one or more tasks from Todoist", "delete"),
			Category: category,
			Validate: dispatch.BatchOr(dispatch.IDOrName, dispatch.IDOrName),
			Handle:   handleLifecycle(sc, deleteTask),
		},
		{
			Tool:     lifecycleTool(toolCompleteTask, "Mark one or more tasks as complete in Todoist", "complete"),
			Category: category,
			Validate: dispatch.BatchOr(dispatch.IDOrName, dispatch.IDOrName),
			Handle:   handleLifecycle(sc, completeTask),
		},
	}

	for _, op := range ops {
		if err := d.Add(op); err != nil {
			return fmt.Errorf("failed to register task tools: %w", err)
		}
	}
	return nil
}

// taskResponse is the body of a single-task call.
type taskResponse struct {
	Success          bool          `json:"success"`
	Task             *todoist.Task `json:"task,omitempty"`
	Message          string        `json:"message,omitempty"`
	AmbiguousMatches int           `json:"ambiguous_matches,omitempty"`
	Error            string        `json:"error,omitempty"`
}

func failure(msg string) *mcp.CallToolResult {
	return common.JSONError(taskResponse{Success: false, Error: msg})
}

// runItems executes fn over the call's items and renders a batch envelope, or
// hands the single result to single when the call was not a batch.
func runItems(
	ctx context.Context,
	sc *server.ServerContext,
	tool string,
	in batch.Input[map[string]any],
	fn batch.ItemFunc[map[string]any],
	single func(batch.Result) *mcp.CallToolResult,
) *mcp.CallToolResult {
	results := batch.Run(ctx, in, sc.BatchConcurrency(), fn)
	if !in.Batch {
		return single(results[0])
	}

	env := batch.NewEnvelope(results)
	sc.Metrics().RecordBatchItems(ctx, tool, env.Summary.Succeeded, env.Summary.Failed)
	if env.IsError() {
		sc.Logger().Debug("batch finished with failures",
			"tool", tool,
			"succeeded", env.Summary.Succeeded,
			"failed", env.Summary.Failed,
		)
	}
	return env.ToolResult()
}
