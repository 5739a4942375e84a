package dispatch

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/todoist-mcp/internal/server"
	"github.com/teemow/todoist-mcp/internal/tools/common"
)

// Register adds every operation to the MCP server. Each handler is wrapped
// with tracing, metrics and audit logging.
func (d *Dispatcher) Register(s *mcpserver.MCPServer, sc *server.ServerContext) {
	for _, op := range d.Operations() {
		name := op.Name()
		handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return d.Dispatch(ctx, name, request.Params.Arguments), nil
		}
		s.AddTool(op.Tool, common.InstrumentedToolHandler(name, op.Category, sc, handler))
	}
}
