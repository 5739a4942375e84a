package label_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/todoist-mcp/internal/events"
	"github.com/teemow/todoist-mcp/internal/server"
	"github.com/teemow/todoist-mcp/internal/todoist"
	"github.com/teemow/todoist-mcp/internal/tools/common"
	"github.com/teemow/todoist-mcp/internal/tools/dispatch"
	"github.com/teemow/todoist-mcp/internal/tools/task_tools"
)

func handleGetLabels(sc *server.ServerContext) dispatch.HandlerFunc {
	return func(ctx context.Context, _ map[string]any) (*mcp.CallToolResult, error) {
		labels, err := sc.Todoist().GetLabels(ctx)
		if err != nil {
			return nil, err
		}
		if labels == nil {
			labels = []todoist.Label{}
		}
		return common.JSONText(labels), nil
	}
}

func handleCreateLabel(sc *server.ServerContext) dispatch.HandlerFunc {
	return func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		req := todoist.AddLabelArgs{}
		req.Name, _ = common.StringArg(args, "name")
		req.Color, _ = common.StringArg(args, "color")
		if order, ok := common.IntArg(args, "order"); ok {
			req.Order = todoist.Int(order)
		}
		if favorite, ok := common.BoolArg(args, "is_favorite"); ok {
			req.IsFavorite = todoist.Bool(favorite)
		}

		label, err := sc.Todoist().AddLabel(ctx, req)
		if err != nil {
			return nil, err
		}

		common.PublishChange(ctx, sc, events.EntityLabel, events.ActionCreated, label.ID, label)
		return common.PrefixedJSON("Label created:\n", label), nil
	}
}

func handleGetLabel(sc *server.ServerContext) dispatch.HandlerFunc {
	return func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		id, _ := common.StringArg(args, "label_id")
		label, err := sc.Todoist().GetLabel(ctx, id)
		if err != nil {
			return nil, err
		}
		return common.JSONText(label), nil
	}
}

func handleUpdateLabel(sc *server.ServerContext) dispatch.HandlerFunc {
	return func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		id, _ := common.StringArg(args, "label_id")

		var req todoist.UpdateLabelArgs
		if name, ok := common.StringArg(args, "name"); ok {
			req.Name = todoist.String(name)
		}
		if color, ok := common.StringArg(args, "color"); ok {
			req.Color = todoist.String(color)
		}
		if order, ok := common.IntArg(args, "order"); ok {
			req.Order = todoist.Int(order)
		}
		if favorite, ok := common.BoolArg(args, "is_favorite"); ok {
			req.IsFavorite = todoist.Bool(favorite)
		}

		label, err := sc.Todoist().UpdateLabel(ctx, id, req)
		if err != nil {
			return nil, err
		}

		common.PublishChange(ctx, sc, events.EntityLabel, events.ActionUpdated, label.ID, label)
		return common.PrefixedJSON("Label updated:\n", label), nil
	}
}

func handleDeleteLabel(sc *server.ServerContext) dispatch.HandlerFunc {
	return func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		id, _ := common.StringArg(args, "label_id")
		if err := sc.Todoist().DeleteLabel(ctx, id); err != nil {
			return nil, err
		}

		common.PublishChange(ctx, sc, events.EntityLabel, events.ActionDeleted, id, nil)
		return mcp.NewToolResultText("Successfully deleted label with ID: " + id), nil
	}
}

// handleUpdateTaskLabels replaces the full label set of the first task whose
// content contains task_name.
func handleUpdateTaskLabels(sc *server.ServerContext) dispatch.HandlerFunc {
	return func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		name, _ := common.StringArg(args, "task_name")
		labels, ok := common.StringSliceArg(args, "labels")
		if !ok {
			return nil, &dispatch.ValidationError{Tool: toolUpdateTaskLabels, Reason: "labels must be an array of strings"}
		}

		resolver := task_tools.NewResolver(sc.Todoist(), sc.Metrics())
		task, _, err := resolver.Resolve(ctx, name)
		if errors.Is(err, task_tools.ErrTaskNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("Could not find a task matching \"%s\"", name)), nil
		}
		if err != nil {
			return nil, err
		}

		updated, err := sc.Todoist().UpdateTask(ctx, task.ID, todoist.UpdateTaskArgs{Labels: labels})
		if err != nil {
			return nil, err
		}

		common.PublishChange(ctx, sc, events.EntityTask, events.ActionUpdated, task.ID, updated)
		return common.PrefixedJSON(fmt.Sprintf("Labels updated for task \"%s\":\n", task.Content), updated), nil
	}
}
