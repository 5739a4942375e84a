package todoist

import (
	"context"
	"net/http"

	"github.com/teemow/todoist-mcp/internal/instrumentation"
)

// GetTasks lists active tasks matching the given filters. Zero-value args
// list every active task in API order.
func (c *Client) GetTasks(ctx context.Context, args GetTasksArgs) ([]Task, error) {
	var tasks []Task
	err := c.do(ctx, call{
		resource:  instrumentation.ResourceTasks,
		operation: instrumentation.OperationList,
		method:    http.MethodGet,
		path:      "/tasks",
		query:     args.Query(),
	}, &tasks)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// AddTask creates a task.
func (c *Client) AddTask(ctx context.Context, args AddTaskArgs) (*Task, error) {
	var task Task
	err := c.do(ctx, call{
		resource:  instrumentation.ResourceTasks,
		operation: instrumentation.OperationCreate,
		method:    http.MethodPost,
		path:      "/tasks",
		body:      args,
	}, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask sends the supplied fields and returns the updated task.
func (c *Client) UpdateTask(ctx context.Context, id string, args UpdateTaskArgs) (*Task, error) {
	var task Task
	err := c.do(ctx, call{
		resource:  instrumentation.ResourceTasks,
		operation: instrumentation.OperationUpdate,
		method:    http.MethodPost,
		path:      "/tasks/" + escape(id),
		body:      args,
	}, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask permanently deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, call{
		resource:  instrumentation.ResourceTasks,
		operation: instrumentation.OperationDelete,
		method:    http.MethodDelete,
		path:      "/tasks/" + escape(id),
	}, nil)
}

// CloseTask marks a task as completed.
func (c *Client) CloseTask(ctx context.Context, id string) error {
	return c.do(ctx, call{
		resource:  instrumentation.ResourceTasks,
		operation: instrumentation.OperationClose,
		method:    http.MethodPost,
		path:      "/tasks/" + escape(id) + "/close",
	}, nil)
}
