package project_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/todoist-mcp/internal/events"
	"github.com/teemow/todoist-mcp/internal/server"
	"github.com/teemow/todoist-mcp/internal/todoist"
	"github.com/teemow/todoist-mcp/internal/tools/common"
	"github.com/teemow/todoist-mcp/internal/tools/dispatch"
)

func handleGetProjects(sc *server.ServerContext) dispatch.HandlerFunc {
	return func(ctx context.Context, _ map[string]any) (*mcp.CallToolResult, error) {
		projects, err := sc.Todoist().GetProjects(ctx)
		if err != nil {
			return nil, err
		}
		if projects == nil {
			projects = []todoist.Project{}
		}
		return common.JSONText(projects), nil
	}
}

func handleCreateProject(sc *server.ServerContext) dispatch.HandlerFunc {
	return func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		name, _ := common.StringArg(args, "name")
		req := todoist.AddProjectArgs{Name: name}
		req.ParentID, _ = common.StringArg(args, "parent_id")
		req.Color, _ = common.StringArg(args, "color")
		if favorite, ok := common.BoolArg(args, "favorite"); ok {
			req.IsFavorite = todoist.Bool(favorite)
		}

		project, err := sc.Todoist().AddProject(ctx, req)
		if err != nil {
			return nil, err
		}

		common.PublishChange(ctx, sc, events.EntityProject, events.ActionCreated, project.ID, project)
		return common.PrefixedJSON("Project created:\n", project), nil
	}
}

func handleUpdateProject(sc *server.ServerContext) dispatch.HandlerFunc {
	return func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		id, _ := common.StringArg(args, "project_id")

		var req todoist.UpdateProjectArgs
		if name, ok := common.StringArg(args, "name"); ok {
			req.Name = todoist.String(name)
		}
		if color, ok := common.StringArg(args, "color"); ok {
			req.Color = todoist.String(color)
		}
		if favorite, ok := common.BoolArg(args, "favorite"); ok {
			req.IsFavorite = todoist.Bool(favorite)
		}

		project, err := sc.Todoist().UpdateProject(ctx, id, req)
		if err != nil {
			return nil, err
		}

		common.PublishChange(ctx, sc, events.EntityProject, events.ActionUpdated, project.ID, project)
		return common.PrefixedJSON("Project updated:\n", project), nil
	}
}
