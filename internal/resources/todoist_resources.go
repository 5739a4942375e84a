package resources

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/todoist-mcp/internal/server"
	"github.com/teemow/todoist-mcp/internal/todoist"
	"github.com/teemow/todoist-mcp/internal/tools/common"
)

// Resource URIs
const (
	ProjectsURI = "todoist://projects"
	LabelsURI   = "todoist://labels"
)

// RegisterTodoistResources registers the project and label resources
func RegisterTodoistResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if s == nil || sc == nil {
		return fmt.Errorf("mcp server and server context are required")
	}

	s.AddResource(
		mcp.NewResource(ProjectsURI, "Todoist Projects",
			mcp.WithResourceDescription("All projects of the Todoist account"),
			mcp.WithMIMEType("application/json"),
		),
		projectsHandler(sc),
	)

	s.AddResource(
		mcp.NewResource(LabelsURI, "Todoist Labels",
			mcp.WithResourceDescription("All personal labels of the Todoist account"),
			mcp.WithMIMEType("application/json"),
		),
		labelsHandler(sc),
	)

	return nil
}

func projectsHandler(sc *server.ServerContext) mcpserver.ResourceHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		projects, err := sc.Todoist().GetProjects(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get projects: %w", err)
		}
		if projects == nil {
			projects = []todoist.Project{}
		}
		return jsonContents(request.Params.URI, projects)
	}
}

func labelsHandler(sc *server.ServerContext) mcpserver.ResourceHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		labels, err := sc.Todoist().GetLabels(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get labels: %w", err)
		}
		if labels == nil {
			labels = []todoist.Label{}
		}
		return jsonContents(request.Params.URI, labels)
	}
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	text, err := common.MarshalIndent(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		},
	}, nil
}
