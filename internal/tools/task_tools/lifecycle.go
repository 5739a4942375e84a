package task_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/todoist-mcp/internal/events"
	"github.com/teemow/todoist-mcp/internal/server"
	"github.com/teemow/todoist-mcp/internal/todoist"
	"github.com/teemow/todoist-mcp/internal/tools/batch"
	"github.com/teemow/todoist-mcp/internal/tools/common"
	"github.com/teemow/todoist-mcp/internal/tools/dispatch"
)

// lifecycleAction is a terminal operation on a task: delete or complete.
type lifecycleAction struct {
	tool   string
	past   string
	action string
	call   func(ctx context.Context, api todoist.API, id string) error
}

var (
	deleteTask = lifecycleAction{
		tool:   toolDeleteTask,
		past:   "deleted",
		action: events.ActionDeleted,
		call: func(ctx context.Context, api todoist.API, id string) error {
			return api.DeleteTask(ctx, id)
		},
	}

	completeTask = lifecycleAction{
		tool:   toolCompleteTask,
		past:   "completed",
		action: events.ActionCompleted,
		call: func(ctx context.Context, api todoist.API, id string) error {
			return api.CloseTask(ctx, id)
		},
	}
)

// message renders the single-mode confirmation. Tasks addressed by ID are
// named by ID because their content was never fetched.
func (a lifecycleAction) message(tgt target) string {
	if tgt.Content != "" {
		return fmt.Sprintf("Successfully %s task: \"%s\"", a.past, tgt.Content)
	}
	return fmt.Sprintf("Successfully %s task with ID: %s", a.past, tgt.ID)
}

func handleLifecycle(sc *server.ServerContext, a lifecycleAction) dispatch.HandlerFunc {
	return func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		in := taskInput(args)
		resolver := NewResolver(sc.Todoist(), sc.Metrics())
		targets := make([]target, in.Len())

		runOne := func(ctx context.Context, i int, item map[string]any) batch.Result {
			tgt, err := resolver.Target(ctx, item)
			if err != nil {
				res := batch.Failure(err)
				if errors.Is(err, ErrTaskNotFound) {
					res.TaskName = tgt.Name
				} else {
					res.TaskData = item
				}
				return res
			}
			targets[i] = tgt

			if err := a.call(ctx, sc.Todoist(), tgt.ID); err != nil {
				res := batch.Failure(err)
				res.TaskData = item
				return res
			}

			common.PublishChange(ctx, sc, events.EntityTask, a.action, tgt.ID, nil)

			content := tgt.Content
			if content == "" {
				content = "Task ID: " + tgt.ID
			}
			return batch.Result{
				Success:          true,
				TaskID:           tgt.ID,
				Content:          content,
				AmbiguousMatches: tgt.Ambiguous,
			}
		}

		return runItems(ctx, sc, a.tool, in, runOne, func(r batch.Result) *mcp.CallToolResult {
			if !r.Success {
				return failure(r.Error)
			}
			return common.JSONText(taskResponse{
				Success:          true,
				Message:          a.message(targets[0]),
				AmbiguousMatches: r.AmbiguousMatches,
			})
		}), nil
	}
}
