package task_tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/todoist-mcp/internal/instrumentation"
	"github.com/teemow/todoist-mcp/internal/todoist"
	"github.com/teemow/todoist-mcp/internal/tools/common"
)

var (
	// ErrTaskNotFound is returned when no active task matches a name.
	ErrTaskNotFound = errors.New("Task not found") //nolint:staticcheck // surfaced verbatim to agents

	// errNoTarget is returned when an item names neither an ID nor a name.
	errNoTarget = errors.New("Either task_id or task_name must be provided") //nolint:staticcheck // surfaced verbatim to agents
)

// Resolver maps task names to tasks. The active task list is fetched lazily
// on the first name lookup and shared by every later lookup, so a call
// addressing tasks only by ID never lists tasks.
type Resolver struct {
	api     todoist.API
	metrics *instrumentation.Metrics

	once  sync.Once
	tasks []todoist.Task
	err   error
}

// NewResolver creates a Resolver for one tool call.
func NewResolver(api todoist.API, metrics *instrumentation.Metrics) *Resolver {
	return &Resolver{api: api, metrics: metrics}
}

func (r *Resolver) load(ctx context.Context) ([]todoist.Task, error) {
	r.once.Do(func() {
		r.tasks, r.err = r.api.GetTasks(ctx, todoist.GetTasksArgs{})
	})
	return r.tasks, r.err
}

// Resolve returns the first active task whose content contains name,
// ignoring case, in the order the API returned them. matches is the total
// number of tasks that matched.
func (r *Resolver) Resolve(ctx context.Context, name string) (task todoist.Task, matches int, err error) {
	tasks, err := r.load(ctx)
	if err != nil {
		return todoist.Task{}, 0, err
	}

	task, matches = findTask(tasks, name)
	result := instrumentation.ResolutionMatched
	switch {
	case matches == 0:
		result = instrumentation.ResolutionNotFound
	case matches > 1:
		result = instrumentation.ResolutionAmbiguous
	}
	r.metrics.RecordNameResolution(ctx, result)
	instrumentation.AddSpanEvent(ctx, instrumentation.SpanEventNameResolution,
		attribute.String(instrumentation.SpanAttrResolution, result),
		attribute.Int(instrumentation.SpanAttrMatches, matches),
	)

	if matches == 0 {
		return todoist.Task{}, 0, fmt.Errorf("%w: %s", ErrTaskNotFound, name)
	}
	return task, matches, nil
}

func findTask(tasks []todoist.Task, name string) (todoist.Task, int) {
	needle := strings.ToLower(name)
	var (
		first   todoist.Task
		matches int
	)
	for _, t := range tasks {
		if !strings.Contains(strings.ToLower(t.Content), needle) {
			continue
		}
		if matches == 0 {
			first = t
		}
		matches++
	}
	return first, matches
}

// target is a task an item addresses.
type target struct {
	ID   string
	Name string

	// Content is only known when the task was resolved by name.
	Content string

	// Ambiguous is the match count when more than one task matched.
	Ambiguous int
}

// Target resolves the task an item addresses. task_id wins over task_name.
func (r *Resolver) Target(ctx context.Context, item map[string]any) (target, error) {
	if id, _ := common.StringArg(item, "task_id"); id != "" {
		return target{ID: id}, nil
	}

	name, _ := common.StringArg(item, "task_name")
	if name == "" {
		return target{}, errNoTarget
	}

	task, matches, err := r.Resolve(ctx, name)
	if err != nil {
		return target{Name: name}, err
	}

	t := target{ID: task.ID, Name: name, Content: task.Content}
	if matches > 1 {
		t.Ambiguous = matches
	}
	return t, nil
}
