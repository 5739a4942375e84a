package label_tools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/todoist-mcp/internal/server"
	"github.com/teemow/todoist-mcp/internal/todoist"
	"github.com/teemow/todoist-mcp/internal/tools/dispatch"
)

const (
	toolGetLabels        = "todoist_get_personal_labels"
	toolCreateLabel      = "todoist_create_personal_label"
	toolGetLabel         = "todoist_get_personal_label"
	toolUpdateLabel      = "todoist_update_personal_label"
	toolDeleteLabel      = "todoist_delete_personal_label"
	toolUpdateTaskLabels = "todoist_update_task_labels"
)

const category = "labels"

// RegisterLabelTools adds the label tools to the dispatcher
func RegisterLabelTools(d *dispatch.Dispatcher, sc *server.ServerContext) error {
	labelID := func(desc string) mcp.ToolOption {
		return mcp.WithString("label_id", mcp.Required(), mcp.Description(desc))
	}

	ops := []dispatch.Operation{
		{
			Tool: mcp.NewTool(toolGetLabels,
				mcp.WithDescription("Get all personal labels from Todoist"),
			),
			ReadOnly: true,
			Handle:   handleGetLabels(sc),
		},
		{
			Tool: mcp.NewTool(toolCreateLabel,
				mcp.WithDescription("Create a new personal label in Todoist"),
				mcp.WithString("name", mcp.Required(), mcp.Description("Name of the label")),
				mcp.WithString("color", mcp.Description("Color of the label (optional)"), mcp.Enum(todoist.Colors...)),
				mcp.WithNumber("order", mcp.Description("Order of the label (optional)")),
				mcp.WithBoolean("is_favorite", mcp.Description("Whether the label is a favorite (optional)")),
			),
			Validate: dispatch.RequireString("name"),
			Handle:   handleCreateLabel(sc),
		},
		{
			Tool: mcp.NewTool(toolGetLabel,
				mcp.WithDescription("Get a personal label by ID"),
				labelID("ID of the label to retrieve"),
			),
			ReadOnly: true,
			Validate: dispatch.RequireString("label_id"),
			Handle:   handleGetLabel(sc),
		},
		{
			Tool: mcp.NewTool(toolUpdateLabel,
				mcp.WithDescription("Update an existing personal label in Todoist"),
				labelID("ID of the label to update"),
				mcp.WithString("name", mcp.Description("New name for the label (optional)")),
				mcp.WithString("color", mcp.Description("New color for the label (optional)"), mcp.Enum(todoist.Colors...)),
				mcp.WithNumber("order", mcp.Description("New order for the label (optional)")),
				mcp.WithBoolean("is_favorite", mcp.Description("Whether the label is a favorite (optional)")),
			),
			Validate: dispatch.RequireString("label_id"),
			Handle:   handleUpdateLabel(sc),
		},
		{
			Tool: mcp.NewTool(toolDeleteLabel,
				mcp.WithDescription("Delete a personal label from Todoist"),
				labelID("ID of the label to delete"),
			),
			Validate: dispatch.RequireString("label_id"),
			Handle:   handleDeleteLabel(sc),
		},
		{
			Tool: mcp.NewTool(toolUpdateTaskLabels,
				mcp.WithDescription("Update the labels of a task in Todoist"),
				mcp.WithString("task_name", mcp.Required(), mcp.Description("Name/content of the task to update labels for")),
				mcp.WithArray("labels", mcp.Required(), mcp.Description("Array of label names to set for the task"), mcp.WithStringItems()),
			),
			Validate: dispatch.All(dispatch.RequireString("task_name"), dispatch.RequireArray("labels")),
			Handle:   handleUpdateTaskLabels(sc),
		},
	}

	for _, op := range ops {
		op.Category = category
		if err := d.Add(op); err != nil {
			return fmt.Errorf("failed to register label tools: %w", err)
		}
	}
	return nil
}
