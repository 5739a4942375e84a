// Package events publishes change notifications for successful Todoist
// mutations made through the MCP tools.
//
// Publishing is optional. With no NATS URL configured the server uses
// NopPublisher. With one, every successful create, update, delete or complete
// is published as JSON on
//
//	<prefix>.<entity>.<action>
//
// for example todoist.task.completed. Publishing is fire-and-forget: a failed
// publish is logged and counted but never turns a successful tool call into an
// error.
package events
