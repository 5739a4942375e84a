package server

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// UnknownToolFunc answers a tools/call for a name the MCP server has no tool
// registered under. The result is sent as a regular tool result.
type UnknownToolFunc func(ctx context.Context, name string, args any) *mcp.CallToolResult

// ToolCallInterceptor sits in front of MCPServer.HandleMessage. mcp-go
// rejects calls to unregistered tools with a JSON-RPC error; the interceptor
// turns those into error-flagged tool results instead. Every other message is
// left to mcp-go.
type ToolCallInterceptor struct {
	mcpServer *mcpserver.MCPServer
	unknown   UnknownToolFunc
}

// NewToolCallInterceptor returns nil when unknown is nil, which disables
// interception.
func NewToolCallInterceptor(s *mcpserver.MCPServer, unknown UnknownToolFunc) *ToolCallInterceptor {
	if s == nil || unknown == nil {
		return nil
	}
	return &ToolCallInterceptor{mcpServer: s, unknown: unknown}
}

type toolCallMessage struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      *mcp.RequestId `json:"id"`
	Method  string         `json:"method"`
	Params  struct {
		Name      string `json:"name"`
		Arguments any    `json:"arguments"`
	} `json:"params"`
}

// Intercept returns the response to raw if it is a tools/call request for an
// unregistered tool. ok is false for anything mcp-go should handle itself,
// including malformed messages.
func (i *ToolCallInterceptor) Intercept(ctx context.Context, raw []byte) (response mcp.JSONRPCMessage, ok bool) {
	if i == nil {
		return nil, false
	}

	var msg toolCallMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, false
	}
	if msg.JSONRPC != mcp.JSONRPC_VERSION || msg.ID == nil || msg.Method != string(mcp.MethodToolsCall) {
		return nil, false
	}
	if msg.Params.Name == "" || i.mcpServer.GetTool(msg.Params.Name) != nil {
		return nil, false
	}

	return mcp.JSONRPCResponse{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      *msg.ID,
		Result:  i.unknown(ctx, msg.Params.Name, msg.Params.Arguments),
	}, true
}
