package common

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/todoist-mcp/internal/events"
	"github.com/teemow/todoist-mcp/internal/instrumentation"
	"github.com/teemow/todoist-mcp/internal/server"
)

// ToolHandler is the handler signature mcp-go expects for a tool.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a tool handler with tracing, metrics and audit logging.
// Every call gets an invocation ID that is attached to the context so change
// events published by the handler carry it too.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", "tasks", sc, handler))
func InstrumentedToolHandler(
	toolName string,
	category string,
	sc *server.ServerContext,
	handler ToolHandler,
) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		invocationID := uuid.NewString()
		ctx = events.WithInvocation(ctx, toolName, invocationID)

		args := request.GetArguments()
		batchSize, targets := targetsFromArgs(args)

		spanAttrs := instrumentation.NewSpanAttributeBuilder().
			WithCategory(category).
			WithBatchSize(batchSize).
			Build()
		ctx, span := instrumentation.StartToolSpan(ctx, toolName, spanAttrs...)
		defer span.End()

		// Get metrics and audit logger (may be nil if not configured)
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithInvocationID(invocationID).
			WithCategory(category).
			WithBatch(batchSize, targets).
			WithSpanContext(ctx)

		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			resultErr := resultError(result)
			invocation.CompleteWithError(resultErr)
			instrumentation.SetSpanError(span, resultErr)
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		metrics.RecordToolInvocationWithCategory(ctx, toolName, status, category, duration)
		auditLogger.LogToolInvocation(invocation)

		return result, err
	}
}

// targetsFromArgs reports the batch size and the task identifiers a call
// addresses. Single calls report a batch size of zero.
func targetsFromArgs(args map[string]any) (int, []string) {
	if items, ok := args["tasks"].([]any); ok && len(items) > 0 {
		targets := make([]string, 0, len(items))
		for _, item := range items {
			if m, ok := item.(map[string]any); ok {
				if target := targetOf(m); target != "" {
					targets = append(targets, target)
				}
			}
		}
		return len(items), targets
	}

	if target := targetOf(args); target != "" {
		return 0, []string{target}
	}
	return 0, nil
}

func targetOf(m map[string]any) string {
	for _, key := range []string{"task_id", "task_name", "content"} {
		if v, ok := m[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// resultError extracts the text of an error result for audit and span status.
func resultError(result *mcp.CallToolResult) error {
	for _, c := range result.Content {
		if text, ok := c.(mcp.TextContent); ok {
			return toolError(text.Text)
		}
	}
	return toolError("tool returned an error result")
}

type toolError string

func (e toolError) Error() string { return string(e) }
