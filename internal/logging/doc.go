// Package logging provides structured logging utilities for todoist-mcp.
//
// All logging goes through the standard library's slog package. Loggers always
// write to stderr: in stdio mode stdout carries the MCP protocol stream and a
// single stray log line would corrupt it.
//
// # Usage Patterns
//
// Build the process logger from configuration:
//
//	logger, err := logging.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format)
//
// Attach standard attributes:
//
//	logger := logging.WithTool(slog.Default(), "todoist_update_task")
//	logger.Info("task updated",
//	    logging.TaskID(task.ID),
//	    logging.Status(logging.StatusSuccess))
//
// # Security Considerations
//
//   - API tokens are never logged directly, use SanitizeToken
//   - Task content is user data and is only logged at debug level
package logging
