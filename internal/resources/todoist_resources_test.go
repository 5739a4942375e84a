package resources

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/todoist-mcp/internal/server"
	"github.com/teemow/todoist-mcp/internal/todoist"
	"github.com/teemow/todoist-mcp/internal/todoist/todoisttest"
)

func newServerContext(t *testing.T) (*server.ServerContext, *todoisttest.Fake) {
	t.Helper()
	fake := todoisttest.NewFake()
	sc, err := server.NewServerContext(context.Background(), fake)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc, fake
}

func read(t *testing.T, h mcpserver.ResourceHandlerFunc, uri string) (string, error) {
	t.Helper()
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri

	contents, err := h(context.Background(), req)
	if err != nil {
		return "", err
	}
	require.Len(t, contents, 1)
	text, ok := contents[0].(*mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, uri, text.URI)
	assert.Equal(t, "application/json", text.MIMEType)
	return text.Text, nil
}

func TestRegisterTodoistResources(t *testing.T) {
	sc, _ := newServerContext(t)
	s := mcpserver.NewMCPServer("test", "0.0.0", mcpserver.WithResourceCapabilities(false, false))

	require.NoError(t, RegisterTodoistResources(s, sc))
	assert.Error(t, RegisterTodoistResources(nil, sc))
}

func TestProjectsResource(t *testing.T) {
	sc, fake := newServerContext(t)

	text, err := read(t, projectsHandler(sc), ProjectsURI)
	require.NoError(t, err)
	assert.Equal(t, "[]", text)

	fake.Projects = []todoist.Project{{ID: "p1", Name: "Inbox"}}
	text, err = read(t, projectsHandler(sc), ProjectsURI)
	require.NoError(t, err)
	assert.Contains(t, text, `"name": "Inbox"`)
}

func TestLabelsResource(t *testing.T) {
	sc, fake := newServerContext(t)
	fake.Labels = []todoist.Label{{ID: "l1", Name: "urgent"}}

	text, err := read(t, labelsHandler(sc), LabelsURI)
	require.NoError(t, err)
	assert.Contains(t, text, `"name": "urgent"`)

	fake.Errors = map[string]error{"GetLabels": errors.New("unauthorized")}
	_, err = read(t, labelsHandler(sc), LabelsURI)
	assert.EqualError(t, err, "failed to get labels: unauthorized")
}
