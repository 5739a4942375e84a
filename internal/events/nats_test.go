package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startEmbeddedNATS(t *testing.T) *server.Server {
	t.Helper()

	ns, err := server.NewServer(&server.Options{DontListen: true})
	require.NoError(t, err)

	go ns.Start()
	if !ns.ReadyForConnections(4 * time.Second) {
		t.Fatal("nats server failed to start within timeout")
	}
	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})
	return ns
}

func connectInProcess(t *testing.T, ns *server.Server) *nats.Conn {
	t.Helper()

	nc, err := nats.Connect("", nats.InProcessServer(ns))
	require.NoError(t, err)
	return nc
}

func TestNATSPublisher_Publish(t *testing.T) {
	ns := startEmbeddedNATS(t)

	sub := connectInProcess(t, ns)
	defer sub.Close()

	msgs := make(chan *nats.Msg, 4)
	subscription, err := sub.ChanSubscribe("todoist.task.>", msgs)
	require.NoError(t, err)
	defer func() { _ = subscription.Unsubscribe() }()
	require.NoError(t, sub.Flush())

	pub := NewNATSPublisherWithConn(connectInProcess(t, ns), "todoist")
	defer func() { _ = pub.Close() }()

	ctx := WithInvocation(context.Background(), "todoist_complete_task", "inv-1")
	require.NoError(t, pub.Publish(ctx, New(EntityTask, ActionCompleted, "42", nil)))

	select {
	case msg := <-msgs:
		assert.Equal(t, "todoist.task.completed", msg.Subject)

		var ev Event
		require.NoError(t, json.Unmarshal(msg.Data, &ev))
		assert.Equal(t, "42", ev.EntityID)
		assert.Equal(t, EntityTask, ev.Entity)
		assert.Equal(t, ActionCompleted, ev.Action)
		assert.Equal(t, "todoist_complete_task", ev.Tool)
		assert.Equal(t, "inv-1", ev.InvocationID)
		assert.NotEmpty(t, ev.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestNATSPublisher_CloseIsIdempotent(t *testing.T) {
	ns := startEmbeddedNATS(t)

	pub := NewNATSPublisherWithConn(connectInProcess(t, ns), "")
	require.NoError(t, pub.Close())

	require.Eventually(t, func() bool { return pub.conn.IsClosed() }, 2*time.Second, 10*time.Millisecond)
	assert.NoError(t, pub.Close())
}

func TestNATSPublisher_PublishAfterClose(t *testing.T) {
	ns := startEmbeddedNATS(t)

	nc := connectInProcess(t, ns)
	pub := NewNATSPublisherWithConn(nc, "todoist")
	nc.Close()

	err := pub.Publish(context.Background(), New(EntityLabel, ActionDeleted, "7", nil))
	assert.Error(t, err)
}

func TestNewNATSPublisher_RequiresURL(t *testing.T) {
	_, err := NewNATSPublisher("", "todoist")
	assert.Error(t, err)
}

func TestSubject(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"todoist", "todoist.task.created"},
		{"", "todoist.task.created"},
		{"acme.todoist.", "acme.todoist.task.created"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Subject(tt.prefix, EntityTask, ActionCreated))
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), New(EntityProject, ActionCreated, "1", nil)))
	assert.NoError(t, p.Close())
}

func TestInvocationFromContext_Empty(t *testing.T) {
	tool, id := InvocationFromContext(context.Background())
	assert.Empty(t, tool)
	assert.Empty(t, id)
}
