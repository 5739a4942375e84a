package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/todoist-mcp/internal/logging"
)

const (
	// DefaultHTTPAddr is the default listen address of the streamable HTTP transport.
	DefaultHTTPAddr = "127.0.0.1:8080"

	// MCPEndpointPath is where the MCP protocol is served.
	MCPEndpointPath = "/mcp"
)

// HTTPServerConfig configures the streamable HTTP transport.
type HTTPServerConfig struct {
	// Addr is the listen address (default 127.0.0.1:8080).
	Addr string

	// DisableStreaming turns off SSE streaming of responses.
	DisableStreaming bool

	// UnknownTool, if set, answers tools/call requests for unregistered
	// tool names.
	UnknownTool UnknownToolFunc
}

// maxInterceptBody bounds how much of a request body is buffered to look for
// unknown tool calls.
const maxInterceptBody = 4 << 20

// HTTPServer serves the MCP protocol over streamable HTTP together with the
// health endpoints. HTTP metrics are recorded for every request when the
// server context carries a metrics recorder.
type HTTPServer struct {
	mcpServer  *mcpserver.MCPServer
	sc         *ServerContext
	health     *HealthChecker
	config     HTTPServerConfig
	httpServer *http.Server
	mu         sync.Mutex
	addr       string
}

// NewHTTPServer creates a streamable HTTP server for mcpServer.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, sc *ServerContext, health *HealthChecker, config HTTPServerConfig) (*HTTPServer, error) {
	if mcpServer == nil {
		return nil, errors.New("mcp server is required")
	}
	if config.Addr == "" {
		config.Addr = DefaultHTTPAddr
	}
	if health == nil {
		health = NewHealthChecker(sc)
	}

	return &HTTPServer{
		mcpServer: mcpServer,
		sc:        sc,
		health:    health,
		config:    config,
		addr:      config.Addr,
	}, nil
}

// Handler returns the root handler: /mcp plus the health endpoints.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mcpHandler := mcpserver.NewStreamableHTTPServer(s.mcpServer,
		mcpserver.WithEndpointPath(MCPEndpointPath),
		mcpserver.WithDisableStreaming(s.config.DisableStreaming),
	)
	interceptor := NewToolCallInterceptor(s.mcpServer, s.config.UnknownTool)
	mux.Handle(MCPEndpointPath, interceptToolCalls(interceptor, mcpHandler))

	s.health.RegisterHealthEndpoints(mux)

	return s.withMetrics(mux)
}

// Start listens on the configured address and serves until Shutdown.
// ready, if non-nil, is closed once the listener is bound.
func (s *HTTPServer) Start(ready chan<- struct{}) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}

	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	if ready != nil {
		close(ready)
	}

	slog.Info("starting streamable HTTP server", "addr", s.Addr(), "endpoint", MCPEndpointPath)
	return srv.Serve(ln)
}

// Shutdown marks the server not ready and gracefully stops it.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	slog.Info("shutting down streamable HTTP server")
	return srv.Shutdown(ctx)
}

// Addr returns the bound address once started, the configured one before.
func (s *HTTPServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// interceptToolCalls answers POSTed tools/call requests for unknown tools
// directly and hands everything else to next with the body restored.
func interceptToolCalls(interceptor *ToolCallInterceptor, next http.Handler) http.Handler {
	if interceptor == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Body == nil {
			next.ServeHTTP(w, r)
			return
		}

		original := r.Body
		body, err := io.ReadAll(io.LimitReader(original, maxInterceptBody+1))
		if err != nil {
			_ = original.Close()
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}

		if len(body) <= maxInterceptBody {
			if response, ok := interceptor.Intercept(r.Context(), body); ok {
				_ = original.Close()
				if sessionID := r.Header.Get(mcpserver.HeaderKeySessionID); sessionID != "" {
					w.Header().Set(mcpserver.HeaderKeySessionID, sessionID)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				_ = json.NewEncoder(w).Encode(response)
				return
			}
		}

		r.Body = struct {
			io.Reader
			io.Closer
		}{io.MultiReader(bytes.NewReader(body), original), original}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE streaming working through the wrapper.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *HTTPServer) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		if s.sc == nil {
			return
		}
		s.sc.Metrics().RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, rec.status, time.Since(start))
		if rec.status >= http.StatusInternalServerError {
			s.sc.Logger().Warn("http request failed",
				"method", r.Method,
				"path", r.URL.Path,
				logging.Status(fmt.Sprint(rec.status)),
			)
		}
	})
}
