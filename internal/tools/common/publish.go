package common

import (
	"context"

	"github.com/teemow/todoist-mcp/internal/events"
	"github.com/teemow/todoist-mcp/internal/logging"
	"github.com/teemow/todoist-mcp/internal/server"
)

// PublishChange emits a change event for a successful mutation. Publishing
// never fails the tool call, errors are logged only.
func PublishChange(ctx context.Context, sc *server.ServerContext, entity, action, id string, data any) {
	ev := events.New(entity, action, id, data)
	if err := sc.Publisher().Publish(ctx, ev); err != nil {
		sc.Logger().Warn("failed to publish change event",
			"entity", entity,
			"action", action,
			"entity_id", id,
			logging.Err(err),
		)
	}
}
