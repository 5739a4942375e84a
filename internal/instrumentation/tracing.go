package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for the todoist-mcp module.
const TracerName = "github.com/teemow/todoist-mcp"

// Span attribute keys for operations.
const (
	// SpanAttrTool is the MCP tool name attribute.
	SpanAttrTool = "mcp.tool"

	// SpanAttrCategory is the tool category attribute (tasks, projects, ...).
	SpanAttrCategory = "mcp.category"

	// SpanAttrBatchSize is the number of items in a batch call.
	SpanAttrBatchSize = "mcp.batch_size"

	// SpanAttrResource is the Todoist resource attribute.
	SpanAttrResource = "todoist.resource"

	// SpanAttrOperation is the operation type attribute.
	SpanAttrOperation = "todoist.operation"

	// SpanAttrHTTPStatus is the response status code of a Todoist API call.
	SpanAttrHTTPStatus = "http.status_code"

	// SpanAttrRequestID is the X-Request-Id sent with a mutating call.
	SpanAttrRequestID = "todoist.request_id"

	// SpanAttrResolution is the outcome of a task name lookup.
	SpanAttrResolution = "todoist.name_resolution"

	// SpanAttrMatches is the number of tasks a name lookup matched.
	SpanAttrMatches = "todoist.matches"
)

// SpanEventNameResolution marks a task name lookup on the tool span.
const SpanEventNameResolution = "name_resolution"

// SpanAttributeBuilder helps construct OpenTelemetry span attributes
// with consistent naming.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewSpanAttributeBuilder creates a new SpanAttributeBuilder.
func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 10),
	}
}

// WithCategory adds the tool category attribute.
func (b *SpanAttributeBuilder) WithCategory(category string) *SpanAttributeBuilder {
	if category != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrCategory, category))
	}
	return b
}

// WithBatchSize adds the batch size attribute.
func (b *SpanAttributeBuilder) WithBatchSize(size int) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.Int(SpanAttrBatchSize, size))
	return b
}

// Build returns the constructed attributes.
func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}

// StartToolSpan starts a span for an MCP tool invocation.
// Automatically adds tool name and sets appropriate span kind.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	allAttrs = append(allAttrs, attribute.String(SpanAttrTool, toolName))
	allAttrs = append(allAttrs, attrs...)

	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "tool."+toolName,
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// StartTodoistAPISpan starts a client span for a Todoist REST API call.
// The span is named todoist.<resource>.<operation>.
func StartTodoistAPISpan(ctx context.Context, resource, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+2)
	allAttrs = append(allAttrs,
		attribute.String(SpanAttrResource, resource),
		attribute.String(SpanAttrOperation, operation),
	)
	allAttrs = append(allAttrs, attrs...)

	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "todoist."+resource+"."+operation,
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// SetSpanError records an error on the span and sets the status to error.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess sets the span status to OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// AddSpanEvent adds an event to the span carried by ctx. It does nothing
// when ctx carries no recording span.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(attrs...))
}
