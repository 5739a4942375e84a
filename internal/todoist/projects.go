package todoist

import (
	"context"
	"net/http"
	"net/url"

	"github.com/teemow/todoist-mcp/internal/instrumentation"
)

// GetProjects lists all projects of the user.
func (c *Client) GetProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	err := c.do(ctx, call{
		resource:  instrumentation.ResourceProjects,
		operation: instrumentation.OperationList,
		method:    http.MethodGet,
		path:      "/projects",
	}, &projects)
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// AddProject creates a project.
func (c *Client) AddProject(ctx context.Context, args AddProjectArgs) (*Project, error) {
	var project Project
	err := c.do(ctx, call{
		resource:  instrumentation.ResourceProjects,
		operation: instrumentation.OperationCreate,
		method:    http.MethodPost,
		path:      "/projects",
		body:      args,
	}, &project)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject updates a project and returns its new state.
func (c *Client) UpdateProject(ctx context.Context, id string, args UpdateProjectArgs) (*Project, error) {
	var project Project
	err := c.do(ctx, call{
		resource:  instrumentation.ResourceProjects,
		operation: instrumentation.OperationUpdate,
		method:    http.MethodPost,
		path:      "/projects/" + escape(id),
		body:      args,
	}, &project)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetSections lists the sections of a project.
func (c *Client) GetSections(ctx context.Context, projectID string) ([]Section, error) {
	var sections []Section
	err := c.do(ctx, call{
		resource:  instrumentation.ResourceSections,
		operation: instrumentation.OperationList,
		method:    http.MethodGet,
		path:      "/sections",
		query:     url.Values{"project_id": {projectID}},
	}, &sections)
	if err != nil {
		return nil, err
	}
	return sections, nil
}

// AddSection creates a section in a project.
func (c *Client) AddSection(ctx context.Context, args AddSectionArgs) (*Section, error) {
	var section Section
	err := c.do(ctx, call{
		resource:  instrumentation.ResourceSections,
		operation: instrumentation.OperationCreate,
		method:    http.MethodPost,
		path:      "/sections",
		body:      args,
	}, &section)
	if err != nil {
		return nil, err
	}
	return &section, nil
}
