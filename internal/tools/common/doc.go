// Package common provides shared utilities for MCP tool implementations.
// It contains the instrumentation wrapper applied to every tool, typed
// accessors for untyped tool arguments, result builders, and the change
// event helper used after successful mutations.
package common
