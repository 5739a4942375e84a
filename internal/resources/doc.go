// Package resources exposes read-only Todoist data as MCP resources so
// clients can pull the project and label lists into context without a tool
// call.
package resources
