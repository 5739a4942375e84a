package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultSubjectPrefix is used when no prefix is configured.
const DefaultSubjectPrefix = "todoist"

// Entities
const (
	EntityProject = "project"
	EntitySection = "section"
	EntityTask    = "task"
	EntityLabel   = "label"
)

// Actions
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"
	ActionCompleted = "completed"
)

// Event describes one successful mutation.
type Event struct {
	ID           string    `json:"id"`
	Entity       string    `json:"entity"`
	Action       string    `json:"action"`
	EntityID     string    `json:"entity_id"`
	Tool         string    `json:"tool,omitempty"`
	InvocationID string    `json:"invocation_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
	Data         any       `json:"data,omitempty"`
}

// New returns an event with a fresh ID and timestamp.
func New(entity, action, entityID string, data any) Event {
	return Event{
		ID:         uuid.NewString(),
		Entity:     entity,
		Action:     action,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// Publisher delivers events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }

// Subject builds the subject an event is published on.
func Subject(prefix, entity, action string) string {
	prefix = strings.Trim(prefix, ".")
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return prefix + "." + entity + "." + action
}

type invocationKey struct{}

// WithInvocation attaches the tool name and invocation ID to ctx so published
// events can be correlated with audit logs.
func WithInvocation(ctx context.Context, tool, invocationID string) context.Context {
	return context.WithValue(ctx, invocationKey{}, [2]string{tool, invocationID})
}

// InvocationFromContext returns the tool name and invocation ID stored by
// WithInvocation.
func InvocationFromContext(ctx context.Context) (tool, invocationID string) {
	v, ok := ctx.Value(invocationKey{}).([2]string)
	if !ok {
		return "", ""
	}
	return v[0], v[1]
}
