package project_tools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/todoist-mcp/internal/server"
	"github.com/teemow/todoist-mcp/internal/todoist"
	"github.com/teemow/todoist-mcp/internal/tools/dispatch"
)

const (
	toolGetProjects        = "todoist_get_projects"
	toolCreateProject      = "todoist_create_project"
	toolUpdateProject      = "todoist_update_project"
	toolGetProjectSections = "todoist_get_project_sections"
	toolCreateSection      = "todoist_create_section"
)

const (
	categoryProjects = "projects"
	categorySections = "sections"
)

// RegisterProjectTools adds the project and section tools to the dispatcher
func RegisterProjectTools(d *dispatch.Dispatcher, sc *server.ServerContext) error {
	ops := []dispatch.Operation{
		{
			Tool: mcp.NewTool(toolGetProjects,
				mcp.WithDescription("Get all projects from Todoist"),
			),
			Category: categoryProjects,
			ReadOnly: true,
			Handle:   handleGetProjects(sc),
		},
		{
			Tool: mcp.NewTool(toolCreateProject,
				mcp.WithDescription("Create a new project in Todoist"),
				mcp.WithString("name", mcp.Required(), mcp.Description("Name of the project")),
				mcp.WithString("parent_id", mcp.Description("Parent project ID for nested projects (optional)")),
				mcp.WithString("color", mcp.Description("Color of the project (optional)"), mcp.Enum(todoist.Colors...)),
				mcp.WithBoolean("favorite", mcp.Description("Whether the project is a favorite (optional)")),
			),
			Category: categoryProjects,
			Validate: dispatch.RequireString("name"),
			Handle:   handleCreateProject(sc),
		},
		{
			Tool: mcp.NewTool(toolUpdateProject,
				mcp.WithDescription("Update an existing project in Todoist"),
				mcp.WithString("project_id", mcp.Required(), mcp.Description("ID of the project to update")),
				mcp.WithString("name", mcp.Description("New name for the project (optional)")),
				mcp.WithString("color", mcp.Description("New color for the project (optional)"), mcp.Enum(todoist.Colors...)),
				mcp.WithBoolean("favorite", mcp.Description("Whether the project should be a favorite (optional)")),
			),
			Category: categoryProjects,
			Validate: dispatch.RequireString("project_id"),
			Handle:   handleUpdateProject(sc),
		},
		{
			Tool: mcp.NewTool(toolGetProjectSections,
				mcp.WithDescription("Get all sections in a Todoist project"),
				mcp.WithString("project_id", mcp.Required(), mcp.Description("ID of the project")),
			),
			Category: categorySections,
			ReadOnly: true,
			Validate: dispatch.RequireString("project_id"),
			Handle:   handleGetProjectSections(sc),
		},
		{
			Tool: mcp.NewTool(toolCreateSection,
				mcp.WithDescription("Create a new section in a Todoist project"),
				mcp.WithString("project_id", mcp.Required(), mcp.Description("ID of the project")),
				mcp.WithString("name", mcp.Required(), mcp.Description("Name of the section")),
				mcp.WithNumber("order", mcp.Description("Order of the section (optional)")),
			),
			Category: categorySections,
			Validate: dispatch.RequireString("project_id", "name"),
			Handle:   handleCreateSection(sc),
		},
	}

	for _, op := range ops {
		if err := d.Add(op); err != nil {
			return fmt.Errorf("failed to register project tools: %w", err)
		}
	}
	return nil
}
