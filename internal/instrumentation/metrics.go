package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrResource  = "resource"
	attrOperation = "operation"
	attrResult    = "result"
	attrTool      = "tool"
	attrCategory  = "category"
	attrSubject   = "subject"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// HTTP transport metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Todoist REST API metrics
	apiRequestsTotal   metric.Int64Counter
	apiRequestDuration metric.Float64Histogram
	apiRetriesTotal    metric.Int64Counter

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// Batch and name resolution metrics
	batchItemsTotal      metric.Int64Counter
	nameResolutionsTotal metric.Int64Counter

	// Change event metrics
	eventsPublishedTotal metric.Int64Counter

	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.apiRequestsTotal, err = meter.Int64Counter(
		"todoist_api_requests_total",
		metric.WithDescription("Total number of Todoist REST API requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create todoist_api_requests_total counter: %w", err)
	}

	m.apiRequestDuration, err = meter.Float64Histogram(
		"todoist_api_request_duration_seconds",
		metric.WithDescription("Todoist REST API request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create todoist_api_request_duration_seconds histogram: %w", err)
	}

	m.apiRetriesTotal, err = meter.Int64Counter(
		"todoist_api_retries_total",
		metric.WithDescription("Total number of Todoist REST API requests retried after rate limiting"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create todoist_api_retries_total counter: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	m.batchItemsTotal, err = meter.Int64Counter(
		"batch_items_total",
		metric.WithDescription("Total number of batch items processed by task tools"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch_items_total counter: %w", err)
	}

	m.nameResolutionsTotal, err = meter.Int64Counter(
		"name_resolutions_total",
		metric.WithDescription("Total number of task name lookups by outcome"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create name_resolutions_total counter: %w", err)
	}

	m.eventsPublishedTotal, err = meter.Int64Counter(
		"events_published_total",
		metric.WithDescription("Total number of change events published"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create events_published_total counter: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordAPIRequest records a Todoist REST API request.
//
// Parameters:
//   - resource: Todoist resource (projects, sections, tasks, labels)
//   - operation: Operation type (list, get, create, update, delete, close)
//   - statusCode: HTTP status code, or 0 when the request never got a response
//   - duration: Time taken for the request
func (m *Metrics) RecordAPIRequest(ctx context.Context, resource, operation string, statusCode int, duration time.Duration) {
	if m == nil || m.apiRequestsTotal == nil || m.apiRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrResource, resource),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, StatusClass(statusCode)),
	}

	m.apiRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.apiRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordAPIRetry records a rate-limited request that is about to be retried.
func (m *Metrics) RecordAPIRetry(ctx context.Context, resource string) {
	if m == nil || m.apiRetriesTotal == nil {
		return // Instrumentation not initialized
	}

	m.apiRetriesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResource, resource)))
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
//
// Parameters:
//   - toolName: Name of the MCP tool (e.g., "todoist_create_task")
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the tool execution
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	m.RecordToolInvocationWithCategory(ctx, toolName, status, "", duration)
}

// RecordToolInvocationWithCategory records an MCP tool invocation with its category.
// The category label is only included when detailedLabels is enabled.
func (m *Metrics) RecordToolInvocationWithCategory(ctx context.Context, toolName, status, category string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	if m.detailedLabels && category != "" {
		attrs = append(attrs, attribute.String(attrCategory, category))
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordBatchItems records the outcome of a batch run.
func (m *Metrics) RecordBatchItems(ctx context.Context, toolName string, succeeded, failed int) {
	if m == nil || m.batchItemsTotal == nil {
		return // Instrumentation not initialized
	}

	if succeeded > 0 {
		m.batchItemsTotal.Add(ctx, int64(succeeded), metric.WithAttributes(
			attribute.String(attrTool, toolName),
			attribute.String(attrStatus, StatusSuccess),
		))
	}
	if failed > 0 {
		m.batchItemsTotal.Add(ctx, int64(failed), metric.WithAttributes(
			attribute.String(attrTool, toolName),
			attribute.String(attrStatus, StatusError),
		))
	}
}

// RecordNameResolution records a task name lookup.
// Result should be one of: "matched", "not_found", "ambiguous"
func (m *Metrics) RecordNameResolution(ctx context.Context, result string) {
	if m == nil || m.nameResolutionsTotal == nil {
		return // Instrumentation not initialized
	}

	m.nameResolutionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordEventPublished records a change event publication attempt.
// The subject label is only included when detailedLabels is enabled.
func (m *Metrics) RecordEventPublished(ctx context.Context, subject, status string) {
	if m == nil || m.eventsPublishedTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels && subject != "" {
		attrs = append(attrs, attribute.String(attrSubject, subject))
	}

	m.eventsPublishedTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}
