package todoist

import (
	"context"
	"net/http"

	"github.com/teemow/todoist-mcp/internal/instrumentation"
)

// GetLabels lists all personal labels.
func (c *Client) GetLabels(ctx context.Context) ([]Label, error) {
	var labels []Label
	err := c.do(ctx, call{
		resource:  instrumentation.ResourceLabels,
		operation: instrumentation.OperationList,
		method:    http.MethodGet,
		path:      "/labels",
	}, &labels)
	if err != nil {
		return nil, err
	}
	return labels, nil
}

// GetLabel fetches a single personal label.
func (c *Client) GetLabel(ctx context.Context, id string) (*Label, error) {
	var label Label
	err := c.do(ctx, call{
		resource:  instrumentation.ResourceLabels,
		operation: instrumentation.OperationGet,
		method:    http.MethodGet,
		path:      "/labels/" + escape(id),
	}, &label)
	if err != nil {
		return nil, err
	}
	return &label, nil
}

// AddLabel creates a personal label.
func (c *Client) AddLabel(ctx context.Context, args AddLabelArgs) (*Label, error) {
	var label Label
	err := c.do(ctx, call{
		resource:  instrumentation.ResourceLabels,
		operation: instrumentation.OperationCreate,
		method:    http.MethodPost,
		path:      "/labels",
		body:      args,
	}, &label)
	if err != nil {
		return nil, err
	}
	return &label, nil
}

// UpdateLabel updates a personal label and returns its new state.
func (c *Client) UpdateLabel(ctx context.Context, id string, args UpdateLabelArgs) (*Label, error) {
	var label Label
	err := c.do(ctx, call{
		resource:  instrumentation.ResourceLabels,
		operation: instrumentation.OperationUpdate,
		method:    http.MethodPost,
		path:      "/labels/" + escape(id),
		body:      args,
	}, &label)
	if err != nil {
		return nil, err
	}
	return &label, nil
}

// DeleteLabel deletes a personal label. Tasks keep working without it.
func (c *Client) DeleteLabel(ctx context.Context, id string) error {
	return c.do(ctx, call{
		resource:  instrumentation.ResourceLabels,
		operation: instrumentation.OperationDelete,
		method:    http.MethodDelete,
		path:      "/labels/" + escape(id),
	}, nil)
}
