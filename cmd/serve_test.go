package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/todoist-mcp/internal/config"
	"github.com/teemow/todoist-mcp/internal/credential"
	"github.com/teemow/todoist-mcp/internal/server"
	"github.com/teemow/todoist-mcp/internal/todoist/todoisttest"
	"github.com/teemow/todoist-mcp/internal/tools/dispatch"
)

// useStore swaps the keyring for an in-memory one for the duration of t.
func useStore(t *testing.T, items ...keyring.Item) *credential.KeyringStore {
	t.Helper()
	store := credential.NewKeyringStore(keyring.NewArrayKeyring(items))
	orig := openCredentialStore
	openCredentialStore = func() (credential.Store, error) { return store, nil }
	t.Cleanup(func() { openCredentialStore = orig })
	return store
}

func newTestServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), todoisttest.NewFake())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func toolNames(d *dispatch.Dispatcher) []string {
	var names []string
	for _, op := range d.Operations() {
		names = append(names, op.Name())
	}
	return names
}

func TestRegisterAllTools(t *testing.T) {
	tests := []struct {
		name     string
		readOnly bool
		want     []string
	}{
		{
			name: "all tools",
			want: []string{
				"todoist_complete_task",
				"todoist_create_personal_label",
				"todoist_create_project",
				"todoist_create_section",
				"todoist_create_task",
				"todoist_delete_personal_label",
				"todoist_delete_task",
				"todoist_get_personal_label",
				"todoist_get_personal_labels",
				"todoist_get_project_sections",
				"todoist_get_projects",
				"todoist_get_tasks",
				"todoist_update_personal_label",
				"todoist_update_project",
				"todoist_update_task",
				"todoist_update_task_labels",
			},
		},
		{
			name:     "read-only",
			readOnly: true,
			want: []string{
				"todoist_get_personal_label",
				"todoist_get_personal_labels",
				"todoist_get_project_sections",
				"todoist_get_projects",
				"todoist_get_tasks",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := dispatch.New(nil, dispatch.WithReadOnly(tt.readOnly))
			require.NoError(t, registerAllTools(d, newTestServerContext(t)))
			assert.Equal(t, tt.want, toolNames(d))
		})
	}
}

func TestRegisterAllTools_Twice(t *testing.T) {
	d := dispatch.New(nil)
	sc := newTestServerContext(t)
	require.NoError(t, registerAllTools(d, sc))

	err := registerAllTools(d, sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to register Project tools")
}

func TestGenerateToolsMarkdown(t *testing.T) {
	d := dispatch.New(nil)
	require.NoError(t, registerAllTools(d, newTestServerContext(t)))

	md := generateToolsMarkdown(d.Operations())

	assert.True(t, strings.HasPrefix(md, "# MCP Tools Reference\n\n"))
	for _, section := range []string{"## Projects", "## Sections", "## Tasks", "## Labels"} {
		assert.Contains(t, md, section)
	}
	assert.NotContains(t, md, "## Other")
	assert.Less(t, strings.Index(md, "## Projects"), strings.Index(md, "## Sections"))
	assert.Less(t, strings.Index(md, "## Tasks"), strings.Index(md, "## Labels"))

	assert.Contains(t, md, "### todoist_create_task\n\nCreate one or more tasks in Todoist with full parameter support")
	assert.Contains(t, md, "- `name` (string, required): Name of the project")
	assert.Contains(t, md, "One of: `minute`, `day`.")
	assert.Contains(t, md, "- [Labels](#labels)")
}

func TestServe_MissingToken(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.TokenEnv, "")
	t.Setenv("TODOIST_MCP_TODOIST_API_TOKEN", "")
	useStore(t)

	cmd := newServeCmd()
	cmd.SetArgs([]string{"--log-level", "error"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	require.ErrorIs(t, err, config.ErrMissingToken)
	assert.Equal(t, "TODOIST_API_TOKEN environment variable is required", err.Error())
}

func TestServe_InvalidTransport(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cmd := newServeCmd()
	cmd.SetArgs([]string{"--transport", "sse"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported transport "sse"`)
}

type rpcResponse struct {
	ID     int `json:"id"`
	Result *struct {
		IsError bool `json:"isError"`
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	} `json:"result"`
	Error *struct {
		Code int `json:"code"`
	} `json:"error"`
}

// serveLines runs the stdio transport over the given JSON-RPC lines and
// returns the responses keyed by request id.
func serveLines(t *testing.T, readOnly bool, lines ...string) map[int]rpcResponse {
	t.Helper()
	mcpSrv, d, err := newMCPServer(newTestServerContext(t), readOnly, nil)
	require.NoError(t, err)

	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	interceptor := server.NewToolCallInterceptor(mcpSrv, d.Dispatch)
	require.NoError(t, server.ServeStdio(context.Background(), mcpSrv, interceptor, in, &out))

	responses := make(map[int]rpcResponse)
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var resp rpcResponse
		require.NoError(t, json.Unmarshal([]byte(line), &resp), line)
		responses[resp.ID] = resp
	}
	return responses
}

func TestStdio_ToolCalls(t *testing.T) {
	tests := []struct {
		name     string
		readOnly bool
		request  string
		isError  bool
		text     string
	}{
		{
			name:    "unknown tool",
			request: `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"todoist_bogus","arguments":{}}}`,
			isError: true,
			text:    "Unknown tool: todoist_bogus",
		},
		{
			name:     "mutating tool in read-only mode",
			readOnly: true,
			request:  `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"todoist_create_task","arguments":{"content":"Buy milk"}}}`,
			isError:  true,
			text:     "Unknown tool: todoist_create_task",
		},
		{
			name:    "unknown tool without arguments",
			request: `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"todoist_bogus"}}`,
			isError: true,
			text:    "Error: No arguments provided",
		},
		{
			name:    "registered tool",
			request: `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"todoist_get_projects","arguments":{}}}`,
			text:    "[]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responses := serveLines(t, tt.readOnly, tt.request)

			resp, ok := responses[1]
			require.True(t, ok)
			require.Nil(t, resp.Error)
			require.NotNil(t, resp.Result)
			assert.Equal(t, tt.isError, resp.Result.IsError)
			require.Len(t, resp.Result.Content, 1)
			assert.Equal(t, tt.text, resp.Result.Content[0].Text)
		})
	}
}

func TestStdio_OtherMessagesReachServer(t *testing.T) {
	responses := serveLines(t, false,
		`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"todoist_bogus","arguments":{}}}`,
		`{"jsonrpc":"2.0","id":3,"method":"resources/read","params":{"uri":"todoist://labels"}}`,
	)

	require.Len(t, responses, 3)
	for _, id := range []int{1, 3} {
		assert.Nil(t, responses[id].Error, "request %d", id)
	}
	require.NotNil(t, responses[2].Result)
	assert.True(t, responses[2].Result.IsError)
}
