package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/todoist-mcp/internal/config"
	"github.com/teemow/todoist-mcp/internal/credential"
	"github.com/teemow/todoist-mcp/internal/events"
	"github.com/teemow/todoist-mcp/internal/instrumentation"
	"github.com/teemow/todoist-mcp/internal/logging"
	"github.com/teemow/todoist-mcp/internal/resources"
	"github.com/teemow/todoist-mcp/internal/server"
	"github.com/teemow/todoist-mcp/internal/todoist"
	"github.com/teemow/todoist-mcp/internal/tools/dispatch"
	"github.com/teemow/todoist-mcp/internal/tools/label_tools"
	"github.com/teemow/todoist-mcp/internal/tools/project_tools"
	"github.com/teemow/todoist-mcp/internal/tools/task_tools"
)

// serverName is announced to MCP clients during initialize.
const serverName = "todoist-mcp-server"

// openCredentialStore is replaced in tests.
var openCredentialStore = func() (credential.Store, error) {
	return credential.Open()
}

func newServeCmd() *cobra.Command {
	var (
		configPath       string
		debugMode        bool
		disableStreaming bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the MCP server exposing the Todoist tools.

The API token is read from TODOIST_API_TOKEN, the config file or the OS
keyring (see "todoist-mcp auth set-token").

Supports two transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP server on --http-addr`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			if debugMode {
				cfg.Log.Level = "debug"
			}
			return runServe(cfg, disableStreaming)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Config file (default: ~/.config/todoist-mcp/config.yaml)")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().String("transport", config.TransportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().String("http-addr", server.DefaultHTTPAddr, "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&disableStreaming, "disable-streaming", false, "Disable SSE streaming of responses (for streamable-http transport)")
	cmd.Flags().Bool("read-only", false, "Only register tools that do not modify Todoist data")
	cmd.Flags().Int("batch-concurrency", 0, "Maximum concurrent Todoist calls per batch (0 = unlimited)")
	cmd.Flags().Bool("metrics-enabled", false, "Serve Prometheus metrics on a dedicated port")
	cmd.Flags().String("metrics-addr", "127.0.0.1:9090", "Metrics server address")
	cmd.Flags().String("nats-url", "", "Publish change events to this NATS server")
	cmd.Flags().String("log-level", "info", "Log level: debug, info, warn, error")
	cmd.Flags().String("log-format", logging.FormatText, "Log format: text or json")

	return cmd
}

func runServe(cfg *config.Config, disableStreaming bool) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// stdout is the MCP channel for stdio, so logs always go to stderr.
	logger, err := logging.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	token, err := resolveToken(cfg, logger)
	if err != nil {
		return err
	}

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	metricsServer, err := startMetricsServer(cfg, provider, logger)
	if err != nil {
		return err
	}
	if metricsServer != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("error during metrics server shutdown", logging.Err(err))
			}
		}()
	}

	adapter := logging.NewSlogAdapter(logger)
	client, err := todoist.NewClient(token,
		todoist.WithBaseURL(cfg.Todoist.BaseURL),
		todoist.WithTimeout(cfg.Todoist.Timeout),
		todoist.WithMaxRetries(cfg.Todoist.MaxRetries),
		todoist.WithLogger(adapter),
		todoist.WithMetrics(provider.Metrics()),
	)
	if err != nil {
		return fmt.Errorf("failed to create todoist client: %w", err)
	}

	opts := []server.Option{
		server.WithBatchConcurrency(cfg.Batch.Concurrency),
		server.WithLogger(logger),
	}
	if cfg.Events.NATSURL != "" {
		publisher, err := events.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.SubjectPrefix,
			events.WithLogger(adapter),
			events.WithMetrics(provider.Metrics()),
		)
		if err != nil {
			return err
		}
		logger.Info("publishing change events", "nats_url", cfg.Events.NATSURL, "subject_prefix", cfg.Events.SubjectPrefix)
		opts = append(opts, server.WithPublisher(publisher))
	}

	serverContext, err := server.NewServerContext(shutdownCtx, client, opts...)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("error during server context shutdown", logging.Err(err))
		}
	}()

	// Set metrics and audit logger on server context for tool instrumentation
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging))
	}

	mcpSrv, dispatcher, err := newMCPServer(serverContext, cfg.Server.ReadOnly, logger)
	if err != nil {
		return err
	}

	if cfg.Server.ReadOnly {
		logger.Info("starting in read-only mode", "tools", len(dispatcher.Operations()))
	}

	// Start the appropriate server based on transport type
	switch cfg.Server.Transport {
	case config.TransportStdio:
		return runStdioServer(shutdownCtx, mcpSrv, dispatcher)
	case config.TransportStreamableHTTP:
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, server.HTTPServerConfig{
			Addr:             cfg.Server.HTTPAddr,
			DisableStreaming: disableStreaming,
			UnknownTool:      dispatcher.Dispatch,
		}, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", cfg.Server.Transport)
	}
}

// resolveToken prefers the configured token and only opens the keyring
// when none is set.
func resolveToken(cfg *config.Config, logger *slog.Logger) (string, error) {
	if cfg.Todoist.APIToken != "" {
		return config.ResolveToken(cfg, nil)
	}

	store, err := openCredentialStore()
	if err != nil {
		logger.Debug("keyring unavailable", logging.Err(err))
		store = nil
	}
	return config.ResolveToken(cfg, store)
}

// startMetricsServer starts the dedicated Prometheus endpoint if enabled.
// It returns nil when metrics are off.
func startMetricsServer(cfg *config.Config, provider *instrumentation.Provider, logger *slog.Logger) (*server.MetricsServer, error) {
	if !cfg.Metrics.Enabled || !provider.Enabled() {
		return nil, nil
	}

	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    cfg.Metrics.Addr,
		Enabled:                 true,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	// Use ready channel to confirm metrics server started successfully
	metricsReady := make(chan struct{})
	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && !errors.Is(err, http.ErrServerClosed) {
			metricsErr <- err
		}
		close(metricsErr)
	}()

	select {
	case <-metricsReady:
		logger.Info("metrics server started", "addr", metricsServer.Addr())
		return metricsServer, nil
	case err := <-metricsErr:
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("metrics server startup timed out")
	}
}

// newMCPServer creates the MCP server with every tool and resource
// registered. Tool calls go through the returned dispatcher.
func newMCPServer(sc *server.ServerContext, readOnly bool, logger *slog.Logger) (*mcpserver.MCPServer, *dispatch.Dispatcher, error) {
	mcpSrv := mcpserver.NewMCPServer(serverName, version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
	)

	dispatcher := dispatch.New(logger, dispatch.WithReadOnly(readOnly))
	if err := registerAllTools(dispatcher, sc); err != nil {
		return nil, nil, err
	}
	dispatcher.Register(mcpSrv, sc)

	if err := resources.RegisterTodoistResources(mcpSrv, sc); err != nil {
		return nil, nil, fmt.Errorf("failed to register resources: %w", err)
	}

	return mcpSrv, dispatcher, nil
}

// runStdioServer serves MCP on stdin/stdout. Calls to tools that are not
// registered are answered by the dispatcher with an error result.
func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, d *dispatch.Dispatcher) error {
	interceptor := server.NewToolCallInterceptor(mcpSrv, d.Dispatch)
	if err := server.ServeStdio(ctx, mcpSrv, interceptor, os.Stdin, os.Stdout); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers every tool group with the dispatcher
func registerAllTools(d *dispatch.Dispatcher, sc *server.ServerContext) error {
	type toolRegistration struct {
		name     string
		register func(*dispatch.Dispatcher, *server.ServerContext) error
	}

	registrations := []toolRegistration{
		{name: "Project", register: project_tools.RegisterProjectTools},
		{name: "Task", register: task_tools.RegisterTaskTools},
		{name: "Label", register: label_tools.RegisterLabelTools},
	}

	for _, reg := range registrations {
		if err := reg.register(d, sc); err != nil {
			return fmt.Errorf("failed to register %s tools: %w", reg.name, err)
		}
	}

	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, httpConfig server.HTTPServerConfig, logger *slog.Logger) error {
	health := server.NewHealthChecker(sc)
	health.AddCheck("todoist", server.TodoistCheck(sc))

	httpServer, err := server.NewHTTPServer(mcpSrv, sc, health, httpConfig)
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	ready := make(chan struct{})
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(ready); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ready:
		logger.Info("MCP server listening",
			"transport", config.TransportStreamableHTTP,
			"url", "http://"+httpServer.Addr()+server.MCPEndpointPath,
		)
	case err := <-serverDone:
		return fmt.Errorf("HTTP server failed to start: %w", err)
	}

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
		return nil
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	}
}
