package instrumentation

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// # Warning
//
// High cardinality in metrics can cause:
// - Increased memory usage in Prometheus/metrics backends
// - Slower query performance
// - Higher storage costs
//
// Never record task IDs, project IDs or task content as label values.

// StatusClass collapses an HTTP status code into its class.
//
// Example:
//
//	StatusClass(200)  // "2xx"
//	StatusClass(404)  // "4xx"
//	StatusClass(503)  // "5xx"
//	StatusClass(0)    // "unknown"
func StatusClass(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500 && code < 600:
		return "5xx"
	default:
		return StatusUnknown
	}
}

// Operation types for Todoist API metrics.
// Status and resource constants are defined in config.go.
const (
	OperationList   = "list"
	OperationGet    = "get"
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
	OperationClose  = "close"
)

// Name resolution outcomes.
const (
	ResolutionMatched   = "matched"
	ResolutionNotFound  = "not_found"
	ResolutionAmbiguous = "ambiguous"
)
