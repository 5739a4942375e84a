package server

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/todoist-mcp/internal/instrumentation"
)

func TestNewMetricsServer(t *testing.T) {
	tests := []struct {
		name        string
		config      func(t *testing.T) MetricsServerConfig
		errContains string
	}{
		{
			name: "valid config",
			config: func(t *testing.T) MetricsServerConfig {
				return MetricsServerConfig{Addr: ":9090", Enabled: true, InstrumentationProvider: createTestProvider(t)}
			},
		},
		{
			name: "default addr",
			config: func(t *testing.T) MetricsServerConfig {
				return MetricsServerConfig{Enabled: true, InstrumentationProvider: createTestProvider(t)}
			},
		},
		{
			name: "nil provider",
			config: func(*testing.T) MetricsServerConfig {
				return MetricsServerConfig{Addr: ":9090", Enabled: true}
			},
			errContains: "instrumentation provider is required",
		},
		{
			name: "disabled provider",
			config: func(t *testing.T) MetricsServerConfig {
				return MetricsServerConfig{Addr: ":9090", Enabled: true, InstrumentationProvider: createDisabledProvider(t)}
			},
			errContains: "instrumentation provider is not enabled",
		},
		{
			name: "non-prometheus exporter",
			config: func(t *testing.T) MetricsServerConfig {
				return MetricsServerConfig{Addr: ":9090", Enabled: true, InstrumentationProvider: createStdoutProvider(t)}
			},
			errContains: "requires the prometheus exporter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, err := NewMetricsServer(tt.config(t))
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, server)
		})
	}
}

func TestMetricsServer_DefaultAddr(t *testing.T) {
	server, err := NewMetricsServer(MetricsServerConfig{InstrumentationProvider: createTestProvider(t)})
	require.NoError(t, err)
	assert.Equal(t, DefaultMetricsAddr, server.Addr())
}

func TestMetricsServer_StartAndShutdown(t *testing.T) {
	provider := createTestProvider(t)
	provider.Metrics().RecordToolInvocation(context.Background(), "get_projects", "success", time.Millisecond)

	server, err := NewMetricsServer(MetricsServerConfig{
		Addr:                    "127.0.0.1:0",
		Enabled:                 true,
		InstrumentationProvider: provider,
	})
	require.NoError(t, err)

	ready := make(chan struct{})
	serverErr := make(chan error, 1)
	go func() {
		if err := server.StartWithReadySignal(ready); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ready:
	case err := <-serverErr:
		t.Fatalf("metrics server failed to start: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server did not become ready")
	}

	assert.NotEqual(t, "127.0.0.1:0", server.Addr())

	resp, err := http.Get("http://" + server.Addr() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get("http://" + server.Addr() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "mcp_tool_invocations_total")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(ctx))

	select {
	case err := <-serverErr:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
	}
}

func TestMetricsServer_StartBindError(t *testing.T) {
	server, err := NewMetricsServer(MetricsServerConfig{
		Addr:                    "256.0.0.1:bad",
		InstrumentationProvider: createTestProvider(t),
	})
	require.NoError(t, err)

	err = server.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}

func TestMetricsServer_ShutdownWithoutStart(t *testing.T) {
	server, err := NewMetricsServer(MetricsServerConfig{
		Addr:                    ":9090",
		Enabled:                 true,
		InstrumentationProvider: createTestProvider(t),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, server.Shutdown(ctx))
}

func TestMetricsServer_Addr(t *testing.T) {
	server, err := NewMetricsServer(MetricsServerConfig{
		Addr:                    ":9091",
		Enabled:                 true,
		InstrumentationProvider: createTestProvider(t),
	})
	require.NoError(t, err)
	assert.Equal(t, ":9091", server.Addr())
}

// Helper functions

func createTestProvider(t *testing.T) *instrumentation.Provider {
	t.Helper()
	return newProvider(t, instrumentation.Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
	})
}

func createStdoutProvider(t *testing.T) *instrumentation.Provider {
	t.Helper()
	return newProvider(t, instrumentation.Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "stdout",
		TracingExporter: "none",
	})
}

func createDisabledProvider(t *testing.T) *instrumentation.Provider {
	t.Helper()
	return newProvider(t, instrumentation.Config{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Enabled:        false,
	})
}

func newProvider(t *testing.T, cfg instrumentation.Config) *instrumentation.Provider {
	t.Helper()
	ctx := context.Background()
	provider, err := instrumentation.NewProvider(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = provider.Shutdown(ctx)
	})
	return provider
}
