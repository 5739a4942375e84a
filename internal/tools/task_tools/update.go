package task_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/todoist-mcp/internal/events"
	"github.com/teemow/todoist-mcp/internal/server"
	"github.com/teemow/todoist-mcp/internal/tools/batch"
	"github.com/teemow/todoist-mcp/internal/tools/common"
	"github.com/teemow/todoist-mcp/internal/tools/dispatch"
)

func handleUpdateTask(sc *server.ServerContext) dispatch.HandlerFunc {
	return func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		in := taskInput(args)
		resolver := NewResolver(sc.Todoist(), sc.Metrics())

		updateOne := func(ctx context.Context, _ int, item map[string]any) batch.Result {
			tgt, err := resolver.Target(ctx, item)
			if err != nil {
				res := batch.Failure(err)
				res.TaskData = item
				return res
			}

			update := updateArgs(item)
			task, err := sc.Todoist().UpdateTask(ctx, tgt.ID, update)
			if err != nil {
				res := batch.Failure(err)
				res.TaskData = item
				return res
			}

			common.PublishChange(ctx, sc, events.EntityTask, events.ActionUpdated, tgt.ID, task)
			return batch.Result{
				Success:          true,
				TaskID:           tgt.ID,
				Task:             task,
				Updated:          update.Fields(),
				AmbiguousMatches: tgt.Ambiguous,
			}
		}

		return runItems(ctx, sc, toolUpdateTask, in, func(ctx context.Context, i int, item map[string]any) batch.Result {
			res := updateOne(ctx, i, item)
			if in.Batch {
				// Batch items report what was sent, not the whole task.
				res.Task = nil
			}
			return res
		}, func(r batch.Result) *mcp.CallToolResult {
			if !r.Success {
				return failure(r.Error)
			}
			return common.JSONText(taskResponse{
				Success:          true,
				Task:             r.Task,
				AmbiguousMatches: r.AmbiguousMatches,
			})
		}), nil
	}
}
