package task_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/todoist-mcp/internal/server"
	"github.com/teemow/todoist-mcp/internal/todoist"
	"github.com/teemow/todoist-mcp/internal/tools/batch"
	"github.com/teemow/todoist-mcp/internal/tools/common"
	"github.com/teemow/todoist-mcp/internal/tools/dispatch"
)

// defaultLimit is advertised in the schema. It only applies when the caller
// sends it.
const defaultLimit = 10

type taskListResponse struct {
	Success bool           `json:"success"`
	Tasks   []todoist.Task `json:"tasks"`
	Count   int            `json:"count"`
}

func handleGetTasks(sc *server.ServerContext) dispatch.HandlerFunc {
	return func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		query, err := listQuery(args)
		if err != nil {
			return failure(err.Error()), nil
		}

		tasks, err := sc.Todoist().GetTasks(ctx, query)
		if err != nil {
			sc.Logger().Debug("get tasks failed", "error", err)
			return failure(err.Error()), nil
		}

		if priority, ok := common.IntArg(args, "priority"); ok && priority != 0 {
			filtered := make([]todoist.Task, 0, len(tasks))
			for _, t := range tasks {
				if t.Priority == priority {
					filtered = append(filtered, t)
				}
			}
			tasks = filtered
		}

		if limit, ok := common.IntArg(args, "limit"); ok && limit > 0 && len(tasks) > limit {
			tasks = tasks[:limit]
		}

		if tasks == nil {
			tasks = []todoist.Task{}
		}
		return common.JSONText(taskListResponse{Success: true, Tasks: tasks, Count: len(tasks)}), nil
	}
}

// listQuery builds the server-side filters. Empty values are not sent.
func listQuery(args map[string]any) (todoist.GetTasksArgs, error) {
	str := func(key string) string {
		s, _ := common.StringArg(args, key)
		return s
	}

	query := todoist.GetTasksArgs{
		ProjectID: str("project_id"),
		SectionID: str("section_id"),
		Label:     str("label"),
		Filter:    str("filter"),
		Lang:      str("lang"),
	}

	raw, ok := args["ids"]
	if !ok || raw == nil {
		return query, nil
	}
	if items, isArray := raw.([]any); isArray && len(items) == 0 {
		return query, nil
	}
	ids, err := batch.ParseStringOrArray(raw, "ids")
	if err != nil {
		return todoist.GetTasksArgs{}, err
	}
	query.IDs = ids
	return query, nil
}
