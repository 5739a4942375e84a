// Package todoisttest provides an in-memory todoist.API for tests.
package todoisttest

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"sync"

	"github.com/teemow/todoist-mcp/internal/todoist"
)

// Call records one method invocation on the Fake.
type Call struct {
	Method string
	ID     string
	Args   any
}

// Fake is a concurrency-safe in-memory implementation of todoist.API.
// Unknown IDs produce a 404 *todoist.APIError like the real service.
type Fake struct {
	mu sync.Mutex

	Projects []todoist.Project
	Sections []todoist.Section
	Tasks    []todoist.Task
	Labels   []todoist.Label

	// Errors forces a method (e.g. "AddTask") to fail with the given error.
	Errors map[string]error

	// ErrorsByID forces calls addressing a specific ID to fail.
	ErrorsByID map[string]error

	// Calls lists every invocation in order.
	Calls []Call

	nextID int
}

var _ todoist.API = (*Fake)(nil)

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{nextID: 1000}
}

// CallCount returns how many times method was invoked.
func (f *Fake) CallCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, c := range f.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// CallsTo returns the recorded invocations of method.
func (f *Fake) CallsTo(method string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Call
	for _, c := range f.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// MutationCount returns the number of calls that would change remote state.
func (f *Fake) MutationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, c := range f.Calls {
		switch c.Method {
		case "GetProjects", "GetSections", "GetTasks", "GetLabels", "GetLabel":
		default:
			n++
		}
	}
	return n
}

// Task returns the stored task with the given ID.
func (f *Fake) Task(id string) (todoist.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, t := range f.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return todoist.Task{}, false
}

// record must be called with mu held.
func (f *Fake) record(method, id string, args any) error {
	f.Calls = append(f.Calls, Call{Method: method, ID: id, Args: args})
	if err := f.Errors[method]; err != nil {
		return err
	}
	if id != "" {
		if err := f.ErrorsByID[id]; err != nil {
			return err
		}
	}
	return nil
}

func (f *Fake) newID() string {
	f.nextID++
	return strconv.Itoa(f.nextID)
}

func notFound(entity, method, path string) error {
	return &todoist.APIError{StatusCode: http.StatusNotFound, Method: method, Path: path, Body: entity + " not found"}
}

func (f *Fake) GetProjects(_ context.Context) ([]todoist.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("GetProjects", "", nil); err != nil {
		return nil, err
	}
	return slices.Clone(f.Projects), nil
}

func (f *Fake) AddProject(_ context.Context, args todoist.AddProjectArgs) (*todoist.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("AddProject", "", args); err != nil {
		return nil, err
	}
	p := todoist.Project{ID: f.newID(), Name: args.Name, Color: args.Color}
	if args.ParentID != "" {
		parent := args.ParentID
		p.ParentID = &parent
	}
	if args.IsFavorite != nil {
		p.IsFavorite = *args.IsFavorite
	}
	f.Projects = append(f.Projects, p)
	return &p, nil
}

func (f *Fake) UpdateProject(_ context.Context, id string, args todoist.UpdateProjectArgs) (*todoist.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("UpdateProject", id, args); err != nil {
		return nil, err
	}
	for i := range f.Projects {
		p := &f.Projects[i]
		if p.ID != id {
			continue
		}
		if args.Name != nil {
			p.Name = *args.Name
		}
		if args.Color != nil {
			p.Color = *args.Color
		}
		if args.IsFavorite != nil {
			p.IsFavorite = *args.IsFavorite
		}
		out := *p
		return &out, nil
	}
	return nil, notFound("Project", http.MethodPost, "/projects/"+id)
}

func (f *Fake) GetSections(_ context.Context, projectID string) ([]todoist.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("GetSections", projectID, nil); err != nil {
		return nil, err
	}
	var out []todoist.Section
	for _, s := range f.Sections {
		if s.ProjectID == projectID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *Fake) AddSection(_ context.Context, args todoist.AddSectionArgs) (*todoist.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("AddSection", "", args); err != nil {
		return nil, err
	}
	s := todoist.Section{ID: f.newID(), ProjectID: args.ProjectID, Name: args.Name}
	if args.Order != nil {
		s.Order = *args.Order
	}
	f.Sections = append(f.Sections, s)
	return &s, nil
}

func (f *Fake) GetTasks(_ context.Context, args todoist.GetTasksArgs) ([]todoist.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("GetTasks", "", args); err != nil {
		return nil, err
	}
	var out []todoist.Task
	for _, t := range f.Tasks {
		if args.ProjectID != "" && t.ProjectID != args.ProjectID {
			continue
		}
		if args.SectionID != "" && (t.SectionID == nil || *t.SectionID != args.SectionID) {
			continue
		}
		if args.Label != "" && !slices.Contains(t.Labels, args.Label) {
			continue
		}
		if len(args.IDs) > 0 && !slices.Contains(args.IDs, t.ID) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *Fake) AddTask(_ context.Context, args todoist.AddTaskArgs) (*todoist.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("AddTask", "", args); err != nil {
		return nil, err
	}
	t := todoist.Task{
		ID:          f.newID(),
		Content:     args.Content,
		Description: args.Description,
		ProjectID:   args.ProjectID,
		Labels:      args.Labels,
		Priority:    1,
		Duration:    args.Duration,
	}
	if args.Priority != nil {
		t.Priority = *args.Priority
	}
	if args.SectionID != "" {
		section := args.SectionID
		t.SectionID = &section
	}
	if args.ParentID != "" {
		parent := args.ParentID
		t.ParentID = &parent
	}
	if args.DueString != "" || args.DueDate != "" {
		t.Due = &todoist.Due{String: args.DueString, Date: args.DueDate, Lang: args.DueLang}
	}
	if args.DeadlineDate != "" {
		t.Deadline = &todoist.Deadline{Date: args.DeadlineDate, Lang: args.DeadlineLang}
	}
	f.Tasks = append(f.Tasks, t)
	return &t, nil
}

func (f *Fake) UpdateTask(_ context.Context, id string, args todoist.UpdateTaskArgs) (*todoist.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("UpdateTask", id, args); err != nil {
		return nil, err
	}
	for i := range f.Tasks {
		t := &f.Tasks[i]
		if t.ID != id {
			continue
		}
		if args.Content != nil {
			t.Content = *args.Content
		}
		if args.Description != nil {
			t.Description = *args.Description
		}
		if args.ProjectID != nil {
			t.ProjectID = *args.ProjectID
		}
		if args.Labels != nil {
			t.Labels = slices.Clone(args.Labels)
		}
		if args.Priority != nil {
			t.Priority = *args.Priority
		}
		switch {
		case args.ClearDuration:
			t.Duration = nil
		case args.Duration != nil:
			d := *args.Duration
			t.Duration = &d
		}
		out := *t
		return &out, nil
	}
	return nil, notFound("Task", http.MethodPost, "/tasks/"+id)
}

func (f *Fake) DeleteTask(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("DeleteTask", id, nil); err != nil {
		return err
	}
	return f.removeTask(id, http.MethodDelete, "/tasks/"+id)
}

func (f *Fake) CloseTask(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("CloseTask", id, nil); err != nil {
		return err
	}
	return f.removeTask(id, http.MethodPost, fmt.Sprintf("/tasks/%s/close", id))
}

func (f *Fake) removeTask(id, method, path string) error {
	idx := slices.IndexFunc(f.Tasks, func(t todoist.Task) bool { return t.ID == id })
	if idx < 0 {
		return notFound("Task", method, path)
	}
	f.Tasks = slices.Delete(f.Tasks, idx, idx+1)
	return nil
}

func (f *Fake) GetLabels(_ context.Context) ([]todoist.Label, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("GetLabels", "", nil); err != nil {
		return nil, err
	}
	return slices.Clone(f.Labels), nil
}

func (f *Fake) GetLabel(_ context.Context, id string) (*todoist.Label, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("GetLabel", id, nil); err != nil {
		return nil, err
	}
	for _, l := range f.Labels {
		if l.ID == id {
			out := l
			return &out, nil
		}
	}
	return nil, notFound("Label", http.MethodGet, "/labels/"+id)
}

func (f *Fake) AddLabel(_ context.Context, args todoist.AddLabelArgs) (*todoist.Label, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("AddLabel", "", args); err != nil {
		return nil, err
	}
	l := todoist.Label{ID: f.newID(), Name: args.Name, Color: args.Color}
	if args.Order != nil {
		l.Order = *args.Order
	}
	if args.IsFavorite != nil {
		l.IsFavorite = *args.IsFavorite
	}
	f.Labels = append(f.Labels, l)
	return &l, nil
}

func (f *Fake) UpdateLabel(_ context.Context, id string, args todoist.UpdateLabelArgs) (*todoist.Label, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("UpdateLabel", id, args); err != nil {
		return nil, err
	}
	for i := range f.Labels {
		l := &f.Labels[i]
		if l.ID != id {
			continue
		}
		if args.Name != nil {
			l.Name = *args.Name
		}
		if args.Color != nil {
			l.Color = *args.Color
		}
		if args.Order != nil {
			l.Order = *args.Order
		}
		if args.IsFavorite != nil {
			l.IsFavorite = *args.IsFavorite
		}
		out := *l
		return &out, nil
	}
	return nil, notFound("Label", http.MethodPost, "/labels/"+id)
}

func (f *Fake) DeleteLabel(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("DeleteLabel", id, nil); err != nil {
		return err
	}
	idx := slices.IndexFunc(f.Labels, func(l todoist.Label) bool { return l.ID == id })
	if idx < 0 {
		return notFound("Label", http.MethodDelete, "/labels/"+id)
	}
	f.Labels = slices.Delete(f.Labels, idx, idx+1)
	return nil
}
