package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// lockedWriter serializes whole-line writes from mcp-go and the interceptor.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// ServeStdio runs the MCP stdio transport on in/out until in is exhausted or
// ctx is canceled. Lines are screened by the interceptor before they reach
// mcp-go. A nil interceptor passes every line through.
func ServeStdio(ctx context.Context, s *mcpserver.MCPServer, interceptor *ToolCallInterceptor, in io.Reader, out io.Writer) error {
	if s == nil {
		return errors.New("mcp server is required")
	}

	w := &lockedWriter{w: out}
	pr, pw := io.Pipe()
	defer func() { _ = pr.Close() }()

	go pumpStdin(ctx, interceptor, in, pw, w)

	err := mcpserver.NewStdioServer(s).Listen(ctx, pr, w)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// pumpStdin forwards every line that the interceptor does not answer to
// mcp-go. It closes pw when in is exhausted so Listen sees EOF.
func pumpStdin(ctx context.Context, interceptor *ToolCallInterceptor, in io.Reader, pw *io.PipeWriter, out io.Writer) {
	reader := bufio.NewReader(in)
	for {
		line, readErr := reader.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			if response, ok := interceptor.Intercept(ctx, line); ok {
				if err := writeLine(out, response); err != nil {
					_ = pw.CloseWithError(err)
					return
				}
			} else {
				if line[len(line)-1] != '\n' {
					line = append(line, '\n')
				}
				if _, err := pw.Write(line); err != nil {
					return
				}
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				_ = pw.Close()
			} else {
				_ = pw.CloseWithError(readErr)
			}
			return
		}
	}
}

func writeLine(out io.Writer, message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	_, err = out.Write(append(data, '\n'))
	return err
}
