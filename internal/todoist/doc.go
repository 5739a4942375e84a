// Package todoist provides a client for the Todoist REST API (v2).
//
// The client covers the four entity types the MCP server exposes:
//   - Projects (list, create, update)
//   - Sections (list by project, create)
//   - Tasks (list with filters, create, update, delete, close)
//   - Personal labels (list, get, create, update, delete)
//
// Authentication uses a static personal API token, sent as a Bearer token by an
// oauth2 transport. Every mutating request carries a fresh X-Request-Id so that
// Todoist can de-duplicate accidental replays.
//
// # Example Usage
//
//	client, err := todoist.NewClient(token)
//	if err != nil {
//	    return err
//	}
//
//	task, err := client.AddTask(ctx, todoist.AddTaskArgs{
//	    Content:  "Buy milk",
//	    Priority: todoist.Int(4),
//	    Duration: &todoist.Duration{Amount: 30, Unit: todoist.DurationMinute},
//	})
//
// Non-2xx responses are returned as *APIError, whose message is safe to show to
// an agent verbatim.
package todoist
