package task_tools

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/todoist-mcp/internal/events"
	"github.com/teemow/todoist-mcp/internal/server"
	"github.com/teemow/todoist-mcp/internal/tools/batch"
	"github.com/teemow/todoist-mcp/internal/tools/common"
	"github.com/teemow/todoist-mcp/internal/tools/dispatch"
)

var errNoContent = errors.New("Either 'content' or 'tasks' must be provided") //nolint:staticcheck // surfaced verbatim to agents

func handleCreateTask(sc *server.ServerContext) dispatch.HandlerFunc {
	return func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		in := taskInput(args)
		if !in.Batch {
			if content, _ := common.StringArg(args, "content"); content == "" {
				return failure(errNoContent.Error()), nil
			}
		}

		createOne := func(ctx context.Context, _ int, item map[string]any) batch.Result {
			task, err := sc.Todoist().AddTask(ctx, createArgs(item))
			if err != nil {
				res := batch.Failure(err)
				res.TaskData = item
				return res
			}
			common.PublishChange(ctx, sc, events.EntityTask, events.ActionCreated, task.ID, task)
			return batch.Result{Success: true, Task: task}
		}

		return runItems(ctx, sc, toolCreateTask, in, createOne, func(r batch.Result) *mcp.CallToolResult {
			if !r.Success {
				return failure(r.Error)
			}
			return common.JSONText(taskResponse{Success: true, Task: r.Task})
		}), nil
	}
}
