package todoist

import (
	"encoding/json"
	"net/url"
	"strings"
)

// Duration units accepted by Todoist.
const (
	DurationMinute = "minute"
	DurationDay    = "day"
)

// Colors is the fixed palette Todoist accepts for projects and labels.
var Colors = []string{
	"berry_red", "red", "orange", "yellow", "olive_green",
	"lime_green", "green", "mint_green", "teal", "sky_blue",
	"light_blue", "blue", "grape", "violet", "lavender",
	"magenta", "salmon", "charcoal", "grey", "taupe",
}

// Project represents a Todoist project. Projects may be nested via ParentID.
type Project struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	ParentID       *string `json:"parent_id"`
	Color          string  `json:"color"`
	Order          int     `json:"order"`
	CommentCount   int     `json:"comment_count"`
	IsShared       bool    `json:"is_shared"`
	IsFavorite     bool    `json:"is_favorite"`
	IsInboxProject bool    `json:"is_inbox_project"`
	IsTeamInbox    bool    `json:"is_team_inbox"`
	ViewStyle      string  `json:"view_style"`
	URL            string  `json:"url"`
}

// Section represents a section within a project
type Section struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Order     int    `json:"order"`
	Name      string `json:"name"`
}

// Task represents a Todoist task
type Task struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	SectionID    *string   `json:"section_id"`
	Content      string    `json:"content"`
	Description  string    `json:"description"`
	IsCompleted  bool      `json:"is_completed"`
	Labels       []string  `json:"labels"`
	ParentID     *string   `json:"parent_id"`
	Order        int       `json:"order"`
	Priority     int       `json:"priority"`
	Due          *Due      `json:"due"`
	Deadline     *Deadline `json:"deadline"`
	Duration     *Duration `json:"duration"`
	URL          string    `json:"url"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    string    `json:"created_at"`
	CreatorID    string    `json:"creator_id"`
	AssigneeID   *string   `json:"assignee_id"`
	AssignerID   *string   `json:"assigner_id"`
}

// Due describes when a task is due
type Due struct {
	String      string `json:"string"`
	Date        string `json:"date"`
	IsRecurring bool   `json:"is_recurring"`
	Datetime    string `json:"datetime,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	Lang        string `json:"lang,omitempty"`
}

// Deadline is a hard date a task must be finished by
type Deadline struct {
	Date string `json:"date"`
	Lang string `json:"lang,omitempty"`
}

// Duration is the estimated time a task takes
type Duration struct {
	Amount int    `json:"amount"`
	Unit   string `json:"unit"`
}

// Label represents a personal label
type Label struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Order      int    `json:"order"`
	IsFavorite bool   `json:"is_favorite"`
}

// AddProjectArgs holds the fields for creating a project
type AddProjectArgs struct {
	Name       string `json:"name"`
	ParentID   string `json:"parent_id,omitempty"`
	Color      string `json:"color,omitempty"`
	IsFavorite *bool  `json:"is_favorite,omitempty"`
}

// UpdateProjectArgs holds the fields for updating a project.
// Nil fields are left unchanged.
type UpdateProjectArgs struct {
	Name       *string `json:"name,omitempty"`
	Color      *string `json:"color,omitempty"`
	IsFavorite *bool   `json:"is_favorite,omitempty"`
}

// AddSectionArgs holds the fields for creating a section
type AddSectionArgs struct {
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Order     *int   `json:"order,omitempty"`
}

// GetTasksArgs filters the active task listing. Empty fields are not sent.
type GetTasksArgs struct {
	ProjectID string
	SectionID string
	Label     string
	Filter    string
	Lang      string
	IDs       []string
}

// Query encodes the filters as URL query parameters
func (a GetTasksArgs) Query() url.Values {
	q := url.Values{}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set("project_id", a.ProjectID)
	set("section_id", a.SectionID)
	set("label", a.Label)
	set("filter", a.Filter)
	set("lang", a.Lang)
	if len(a.IDs) > 0 {
		q.Set("ids", strings.Join(a.IDs, ","))
	}
	return q
}

// AddTaskArgs holds the fields for creating a task.
// Duration is sent as the duration/duration_unit pair the API expects.
type AddTaskArgs struct {
	Content      string    `json:"content"`
	Description  string    `json:"description,omitempty"`
	ProjectID    string    `json:"project_id,omitempty"`
	SectionID    string    `json:"section_id,omitempty"`
	ParentID     string    `json:"parent_id,omitempty"`
	Order        *int      `json:"order,omitempty"`
	Labels       []string  `json:"labels,omitempty"`
	Priority     *int      `json:"priority,omitempty"`
	DueString    string    `json:"due_string,omitempty"`
	DueDate      string    `json:"due_date,omitempty"`
	DueDatetime  string    `json:"due_datetime,omitempty"`
	DueLang      string    `json:"due_lang,omitempty"`
	AssigneeID   string    `json:"assignee_id,omitempty"`
	Duration     *Duration `json:"-"`
	DeadlineDate string    `json:"deadline_date,omitempty"`
	DeadlineLang string    `json:"deadline_lang,omitempty"`
}

// MarshalJSON flattens Duration into the wire fields
func (a AddTaskArgs) MarshalJSON() ([]byte, error) {
	type alias AddTaskArgs
	wire := struct {
		alias
		Duration     *int   `json:"duration,omitempty"`
		DurationUnit string `json:"duration_unit,omitempty"`
	}{alias: alias(a)}
	if a.Duration != nil {
		amount := a.Duration.Amount
		wire.Duration = &amount
		wire.DurationUnit = a.Duration.Unit
	}
	return json.Marshal(wire)
}

// UpdateTaskArgs holds the fields for updating a task. Only non-nil fields are
// sent; a nil Labels slice leaves labels untouched while an empty one clears them.
// ClearDuration sends an explicit null duration and takes precedence over Duration.
type UpdateTaskArgs struct {
	Content       *string
	Description   *string
	ProjectID     *string
	SectionID     *string
	Labels        []string
	Priority      *int
	DueString     *string
	DueDate       *string
	DueDatetime   *string
	DueLang       *string
	AssigneeID    *string
	Duration      *Duration
	ClearDuration bool
	DeadlineDate  *string
	DeadlineLang  *string
}

// Fields returns the wire representation of the supplied fields
func (a UpdateTaskArgs) Fields() map[string]any {
	m := make(map[string]any)
	putString := func(key string, v *string) {
		if v != nil {
			m[key] = *v
		}
	}
	putString("content", a.Content)
	putString("description", a.Description)
	putString("project_id", a.ProjectID)
	putString("section_id", a.SectionID)
	if a.Labels != nil {
		m["labels"] = a.Labels
	}
	if a.Priority != nil {
		m["priority"] = *a.Priority
	}
	putString("due_string", a.DueString)
	putString("due_date", a.DueDate)
	putString("due_datetime", a.DueDatetime)
	putString("due_lang", a.DueLang)
	putString("assignee_id", a.AssigneeID)
	switch {
	case a.ClearDuration:
		m["duration"] = nil
	case a.Duration != nil:
		m["duration"] = a.Duration.Amount
		m["duration_unit"] = a.Duration.Unit
	}
	putString("deadline_date", a.DeadlineDate)
	putString("deadline_lang", a.DeadlineLang)
	return m
}

// MarshalJSON encodes only the supplied fields
func (a UpdateTaskArgs) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Fields())
}

// AddLabelArgs holds the fields for creating a personal label
type AddLabelArgs struct {
	Name       string `json:"name"`
	Color      string `json:"color,omitempty"`
	Order      *int   `json:"order,omitempty"`
	IsFavorite *bool  `json:"is_favorite,omitempty"`
}

// UpdateLabelArgs holds the fields for updating a personal label
type UpdateLabelArgs struct {
	Name       *string `json:"name,omitempty"`
	Color      *string `json:"color,omitempty"`
	Order      *int    `json:"order,omitempty"`
	IsFavorite *bool   `json:"is_favorite,omitempty"`
}

// String returns a pointer to s
func String(s string) *string { return &s }

// Int returns a pointer to i
func Int(i int) *int { return &i }

// Bool returns a pointer to b
func Bool(b bool) *bool { return &b }
