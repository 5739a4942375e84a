package todoist

import "context"

// API is the subset of the Todoist REST API used by the MCP tools.
// *Client implements it; tests substitute todoisttest.Fake.
type API interface {
	GetProjects(ctx context.Context) ([]Project, error)
	AddProject(ctx context.Context, args AddProjectArgs) (*Project, error)
	UpdateProject(ctx context.Context, id string, args UpdateProjectArgs) (*Project, error)

	GetSections(ctx context.Context, projectID string) ([]Section, error)
	AddSection(ctx context.Context, args AddSectionArgs) (*Section, error)

	GetTasks(ctx context.Context, args GetTasksArgs) ([]Task, error)
	AddTask(ctx context.Context, args AddTaskArgs) (*Task, error)
	UpdateTask(ctx context.Context, id string, args UpdateTaskArgs) (*Task, error)
	DeleteTask(ctx context.Context, id string) error
	CloseTask(ctx context.Context, id string) error

	GetLabels(ctx context.Context) ([]Label, error)
	GetLabel(ctx context.Context, id string) (*Label, error)
	AddLabel(ctx context.Context, args AddLabelArgs) (*Label, error)
	UpdateLabel(ctx context.Context, id string, args UpdateLabelArgs) (*Label, error)
	DeleteLabel(ctx context.Context, id string) error
}

var _ API = (*Client)(nil)
