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

func handleGetProjectSections(sc *server.ServerContext) dispatch.HandlerFunc {
	return func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		projectID, _ := common.StringArg(args, "project_id")

		sections, err := sc.Todoist().GetSections(ctx, projectID)
		if err != nil {
			return nil, err
		}
		if sections == nil {
			sections = []todoist.Section{}
		}
		return common.JSONText(sections), nil
	}
}

func handleCreateSection(sc *server.ServerContext) dispatch.HandlerFunc {
	return func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		req := todoist.AddSectionArgs{}
		req.ProjectID, _ = common.StringArg(args, "project_id")
		req.Name, _ = common.StringArg(args, "name")
		if order, ok := common.IntArg(args, "order"); ok {
			req.Order = todoist.Int(order)
		}

		section, err := sc.Todoist().AddSection(ctx, req)
		if err != nil {
			return nil, err
		}

		common.PublishChange(ctx, sc, events.EntitySection, events.ActionCreated, section.ID, section)
		return common.PrefixedJSON("Section created:\n", section), nil
	}
}
