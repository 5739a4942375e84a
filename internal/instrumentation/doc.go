// Package instrumentation provides OpenTelemetry instrumentation for the
// todoist-mcp server.
//
// This package enables observability through:
//   - OpenTelemetry metrics for the HTTP transport, Todoist API calls and MCP tools
//   - Distributed tracing for tool invocations and Todoist API calls
//   - Prometheus metrics export via /metrics endpoint on a dedicated port
//   - OTLP export support for modern observability platforms
//   - Audit logging of every tool invocation
//
// # Metrics
//
// HTTP transport metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Todoist API metrics:
//   - todoist_api_requests_total: Counter of REST calls by resource, operation and status class
//   - todoist_api_request_duration_seconds: Histogram of REST call durations
//   - todoist_api_retries_total: Counter of rate-limited calls that were retried
//
// MCP tool metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//   - batch_items_total: Counter of batch items by tool and outcome
//   - name_resolutions_total: Counter of task name lookups by outcome
//   - events_published_total: Counter of change events by status
//
// # Tracing
//
// Spans are created for:
//   - MCP tool invocations (tool.<name>)
//   - Todoist API calls (todoist.<resource>.<operation>)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: todoist-mcp)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordAPIRequest(ctx, instrumentation.ResourceTasks, instrumentation.OperationList, 200, time.Since(start))
//	recorder.RecordToolInvocation(ctx, "todoist_get_tasks", instrumentation.StatusSuccess, time.Since(start))
package instrumentation
