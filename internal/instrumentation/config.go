package instrumentation

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	// ServiceName is the name of the service (default: todoist-mcp)
	ServiceName string

	// ServiceVersion is the version of the service
	ServiceVersion string

	// ServiceInstanceID is the unique instance identifier (default: hostname)
	// In Kubernetes, this is typically the pod name
	ServiceInstanceID string

	// K8sNamespace is the Kubernetes namespace where the service is running
	K8sNamespace string

	// K8sPodName is the Kubernetes pod name
	K8sPodName string

	// Enabled determines if instrumentation is active (default: true)
	// Set to false via INSTRUMENTATION_ENABLED=false to disable metrics and tracing
	Enabled bool

	// MetricsExporter specifies the metrics exporter type
	// Options: "prometheus", "otlp", "stdout" (default: "prometheus")
	MetricsExporter string

	// TracingExporter specifies the tracing exporter type
	// Options: "otlp", "stdout", "none" (default: "none")
	TracingExporter string

	// OTLPEndpoint is the OTLP collector endpoint
	// Example: "localhost:4318" (without protocol prefix)
	OTLPEndpoint string

	// OTLPInsecure controls whether to use insecure HTTP for OTLP export
	// When false (default), uses TLS for secure transport
	// Set to true only for local development or testing with unencrypted endpoints
	// WARNING: Never use insecure transport in production - traces may contain
	// sensitive metadata and should be encrypted in transit
	OTLPInsecure bool

	// TraceSamplingRate is the sampling rate for traces (0.0 to 1.0, default: 0.1)
	TraceSamplingRate float64

	// PrometheusEndpoint is the path for the Prometheus metrics endpoint (default: "/metrics")
	PrometheusEndpoint string

	// DetailedLabels controls whether high-cardinality labels are included.
	// When false (default), only essential labels are included.
	// When true, additional labels like tool category and event subject are added.
	// For production, keep detailedLabels disabled to avoid cardinality explosion.
	DetailedLabels bool

	// AuditLogging configures audit logging behavior.
	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig holds configuration for audit logging.
type AuditLoggingConfig struct {
	// Enabled determines if audit logging is active (default: true)
	Enabled bool

	// IncludePII controls whether to include targeted task names in audit logs.
	// When false (default), only tool names, counts and IDs of the call are logged.
	IncludePII bool

	// LogLevel sets the slog level for audit log messages (default: INFO).
	// Options: "debug", "info", "warn", "error"
	// Note: Audit events are always logged regardless of this level.
	LogLevel string
}

// envBindings maps config keys to the environment variables read by
// DefaultConfig, in lookup order.
var envBindings = map[string][]string{
	"service_name":        {"OTEL_SERVICE_NAME"},
	"service_instance_id": {"OTEL_SERVICE_INSTANCE_ID"},
	"k8s_namespace":       {"K8S_NAMESPACE", "POD_NAMESPACE"},
	"k8s_pod_name":        {"K8S_POD_NAME", "HOSTNAME"},
	"enabled":             {"INSTRUMENTATION_ENABLED"},
	"metrics_exporter":    {"METRICS_EXPORTER"},
	"tracing_exporter":    {"TRACING_EXPORTER"},
	"otlp_endpoint":       {"OTEL_EXPORTER_OTLP_ENDPOINT"},
	"otlp_insecure":       {"OTEL_EXPORTER_OTLP_INSECURE"},
	"trace_sampling_rate": {"OTEL_TRACES_SAMPLER_ARG"},
	"prometheus_endpoint": {"PROMETHEUS_ENDPOINT"},
	"detailed_labels":     {"METRICS_DETAILED_LABELS"},
	"audit.enabled":       {"AUDIT_LOGGING_ENABLED"},
	"audit.include_pii":   {"AUDIT_LOGGING_INCLUDE_PII"},
	"audit.level":         {"AUDIT_LOGGING_LEVEL"},
}

// DefaultConfig returns a Config with defaults overridden by the standard
// OTEL_* and instrumentation environment variables.
func DefaultConfig() Config {
	v := viper.New()
	v.SetDefault("service_name", "todoist-mcp")
	v.SetDefault("enabled", true)
	v.SetDefault("metrics_exporter", ExporterPrometheus)
	v.SetDefault("tracing_exporter", ExporterNone)
	v.SetDefault("trace_sampling_rate", 0.1)
	v.SetDefault("prometheus_endpoint", "/metrics")
	v.SetDefault("audit.enabled", true)
	v.SetDefault("audit.level", "info")

	for key, envs := range envBindings {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}

	return Config{
		ServiceName:        v.GetString("service_name"),
		ServiceVersion:     "unknown",
		ServiceInstanceID:  v.GetString("service_instance_id"),
		K8sNamespace:       v.GetString("k8s_namespace"),
		K8sPodName:         v.GetString("k8s_pod_name"),
		Enabled:            v.GetBool("enabled"),
		MetricsExporter:    v.GetString("metrics_exporter"),
		TracingExporter:    v.GetString("tracing_exporter"),
		OTLPEndpoint:       v.GetString("otlp_endpoint"),
		OTLPInsecure:       v.GetBool("otlp_insecure"),
		TraceSamplingRate:  v.GetFloat64("trace_sampling_rate"),
		PrometheusEndpoint: v.GetString("prometheus_endpoint"),
		DetailedLabels:     v.GetBool("detailed_labels"),
		AuditLogging: AuditLoggingConfig{
			Enabled:    v.GetBool("audit.enabled"),
			IncludePII: v.GetBool("audit.include_pii"),
			LogLevel:   v.GetString("audit.level"),
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	// Validate sampling rate is within bounds
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}

	// Validate metrics exporter
	validMetricsExporters := map[string]bool{ExporterPrometheus: true, ExporterOTLP: true, ExporterStdout: true}
	if c.MetricsExporter != "" && !validMetricsExporters[c.MetricsExporter] {
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter)
	}

	// Validate tracing exporter
	validTracingExporters := map[string]bool{ExporterOTLP: true, ExporterStdout: true, ExporterNone: true}
	if c.TracingExporter != "" && !validTracingExporters[c.TracingExporter] {
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter)
	}

	// OTLP endpoint required when using OTLP exporters
	if c.TracingExporter == ExporterOTLP && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP endpoint is required when using OTLP tracing exporter")
	}
	if c.MetricsExporter == ExporterOTLP && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP endpoint is required when using OTLP metrics exporter")
	}

	return nil
}

// Constants for metric label values.
const (
	// Status values
	StatusSuccess = "success"
	StatusError   = "error"
	StatusUnknown = "unknown"

	// Todoist resource names
	ResourceProjects = "projects"
	ResourceSections = "sections"
	ResourceTasks    = "tasks"
	ResourceLabels   = "labels"

	// Exporter types
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"

	// Metric recording intervals
	DefaultMetricInterval = 10 * time.Second
)
