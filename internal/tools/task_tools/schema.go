package task_tools

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/todoist-mcp/internal/todoist"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindNumber
	kindStringArray
	kindPriority
	kindDurationUnit
)

// priorities are the values Todoist accepts, 4 being the most urgent.
var priorities = []int{1, 2, 3, 4}

// priorityEnum restricts a number property to priorities.
func priorityEnum() mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["enum"] = priorities
	}
}

// field describes one task property shared by the single and batch forms.
type field struct {
	name string
	kind fieldKind
	desc string
}

var (
	addressFields = []field{
		{"task_id", kindString, "ID of the task (preferred)"},
		{"task_name", kindString, "Name/content of the task to search for (if ID not provided)"},
	}

	createFields = []field{
		{"content", kindString, "The content/title of the task"},
		{"description", kindString, "Detailed description of the task (optional)"},
		{"project_id", kindString, "ID of the project to add the task to (optional)"},
		{"section_id", kindString, "ID of the section to add the task to (optional)"},
		{"parent_id", kindString, "ID of the parent task for subtasks (optional)"},
		{"order", kindNumber, "Position in the project or parent task (optional)"},
		{"labels", kindStringArray, "Array of label names to apply to the task (optional)"},
		{"priority", kindPriority, "Task priority from 1 (normal) to 4 (urgent) (optional)"},
		{"due_string", kindString, "Natural language due date like 'tomorrow', 'next Monday' (optional)"},
		{"due_date", kindString, "Due date in YYYY-MM-DD format (optional)"},
		{"due_datetime", kindString, "Due date and time in RFC3339 format (optional)"},
		{"due_lang", kindString, "2-letter language code for due date parsing (optional)"},
		{"assignee_id", kindString, "User ID to assign the task to (optional)"},
		{"duration", kindNumber, "The duration amount of the task (optional)"},
		{"duration_unit", kindDurationUnit, "The duration unit ('minute' or 'day') (optional)"},
		{"deadline_date", kindString, "Deadline date in YYYY-MM-DD format (optional)"},
		{"deadline_lang", kindString, "2-letter language code for deadline parsing (optional)"},
	}

	updateFields = []field{
		{"content", kindString, "New content/title for the task (optional)"},
		{"description", kindString, "New description for the task (optional)"},
		{"project_id", kindString, "Move task to this project ID (optional)"},
		{"section_id", kindString, "Move task to this section ID (optional)"},
		{"labels", kindStringArray, "New array of label names for the task (optional)"},
		{"priority", kindPriority, "New priority level from 1 (normal) to 4 (urgent) (optional)"},
		{"due_string", kindString, "New due date in natural language (optional)"},
		{"due_date", kindString, "New due date in YYYY-MM-DD format (optional)"},
		{"due_datetime", kindString, "New due date and time in RFC3339 format (optional)"},
		{"due_lang", kindString, "2-letter language code for due date parsing (optional)"},
		{"assignee_id", kindString, "New user ID to assign the task to (optional)"},
		{"duration", kindNumber, "New duration amount of the task, or null to remove it (optional)"},
		{"duration_unit", kindDurationUnit, "New duration unit ('minute' or 'day') (optional)"},
		{"deadline_date", kindString, "New deadline date in YYYY-MM-DD format (optional)"},
		{"deadline_lang", kindString, "2-letter language code for deadline parsing (optional)"},
	}
)

var durationUnits = []string{todoist.DurationMinute, todoist.DurationDay}

// toolOptions declares fields as top-level tool properties.
func toolOptions(fields []field) []mcp.ToolOption {
	opts := make([]mcp.ToolOption, 0, len(fields))
	for _, f := range fields {
		desc := mcp.Description(f.desc)
		switch f.kind {
		case kindString:
			opts = append(opts, mcp.WithString(f.name, desc))
		case kindNumber:
			opts = append(opts, mcp.WithNumber(f.name, desc))
		case kindStringArray:
			opts = append(opts, mcp.WithArray(f.name, desc, mcp.WithStringItems()))
		case kindPriority:
			opts = append(opts, mcp.WithNumber(f.name, desc, priorityEnum()))
		case kindDurationUnit:
			opts = append(opts, mcp.WithString(f.name, desc, mcp.Enum(durationUnits...)))
		}
	}
	return opts
}

// itemSchema returns the JSON schema of one element of the "tasks" array.
func itemSchema(fields []field, required []string, anyOf [][]string) map[string]any {
	props := make(map[string]any, len(fields))
	for _, f := range fields {
		prop := map[string]any{"description": f.desc}
		switch f.kind {
		case kindString:
			prop["type"] = "string"
		case kindNumber:
			prop["type"] = "number"
		case kindStringArray:
			prop["type"] = "array"
			prop["items"] = map[string]any{"type": "string"}
		case kindPriority:
			prop["type"] = "number"
			prop["enum"] = priorities
		case kindDurationUnit:
			prop["type"] = "string"
			prop["enum"] = durationUnits
		}
		props[f.name] = prop
	}

	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	if len(anyOf) > 0 {
		alternatives := make([]map[string]any, 0, len(anyOf))
		for _, req := range anyOf {
			alternatives = append(alternatives, map[string]any{"required": req})
		}
		schema["anyOf"] = alternatives
	}
	return schema
}

func tasksArray(desc string, schema map[string]any) mcp.ToolOption {
	return mcp.WithArray("tasks", mcp.Description(desc), mcp.Items(schema))
}

var addressAnyOf = [][]string{{"task_id"}, {"task_name"}}

func createTaskTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Create one or more tasks in Todoist with full parameter support"),
		tasksArray("Array of tasks to create (for batch operations)", itemSchema(createFields, []string{"content"}, nil)),
	}
	opts = append(opts, toolOptions(createFields)...)
	return mcp.NewTool(toolCreateTask, opts...)
}

func getTasksTool() mcp.Tool {
	return mcp.NewTool(toolGetTasks,
		mcp.WithDescription("Get a list of tasks from Todoist with various filters - handles both single and batch retrieval"),
		mcp.WithString("project_id", mcp.Description("Filter tasks by project ID (optional)")),
		mcp.WithString("section_id", mcp.Description("Filter tasks by section ID (optional)")),
		mcp.WithString("label", mcp.Description("Filter tasks by label name (optional)")),
		mcp.WithString("filter", mcp.Description("Natural language filter like 'today', 'tomorrow', 'next week', 'priority 1', 'overdue' (optional)")),
		mcp.WithString("lang", mcp.Description("IETF language tag defining what language filter is written in (optional)")),
		mcp.WithArray("ids", mcp.Description("Array of specific task IDs to retrieve (optional)"), mcp.WithStringItems()),
		mcp.WithNumber("priority", mcp.Description("Filter by priority level (1-4) (optional)"), priorityEnum()),
		mcp.WithNumber("limit", mcp.Description("Maximum number of tasks to return (optional, client-side filtering)"), mcp.DefaultNumber(defaultLimit)),
	)
}

func updateTaskTool() mcp.Tool {
	itemFields := append(append([]field{}, addressFields...), updateFields...)
	opts := []mcp.ToolOption{
		mcp.WithDescription("Update one or more tasks in Todoist with full parameter support"),
		tasksArray("Array of tasks to update (for batch operations)", itemSchema(itemFields, nil, addressAnyOf)),
	}
	opts = append(opts, toolOptions(itemFields)...)
	return mcp.NewTool(toolUpdateTask, opts...)
}

func lifecycleTool(name, desc, verb string) mcp.Tool {
	fields := []field{
		{"task_id", kindString, "ID of the task to " + verb + " (preferred)"},
		{"task_name", kindString, "Name/content of the task to search for and " + verb + " (if ID not provided)"},
	}
	opts := []mcp.ToolOption{
		mcp.WithDescription(desc),
		tasksArray("Array of tasks to "+verb+" (for batch operations)", itemSchema(fields, nil, addressAnyOf)),
	}
	opts = append(opts, toolOptions(fields)...)
	return mcp.NewTool(name, opts...)
}
