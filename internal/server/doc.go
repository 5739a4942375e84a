// Package server provides the MCP server context and the HTTP surfaces of
// the todoist-mcp application.
//
// # Key Components
//
// ServerContext carries the dependencies every tool handler needs: the
// Todoist API client, the change-event publisher, the batch concurrency cap,
// and the optional metrics and audit recorders. Tools receive it at
// registration time instead of reaching for globals, so tests can hand in a
// fake client.
//
// HTTPServer serves the MCP protocol over streamable HTTP at /mcp next to
// the Kubernetes-style health endpoints:
//   - /healthz: liveness
//   - /readyz: readiness (false while shutting down)
//   - /healthz/detailed: uptime plus registered dependency checks
//
// MetricsServer exposes Prometheus metrics on a dedicated port so that
// operational data stays off the MCP listener.
package server
