package task_tools

import (
	"github.com/teemow/todoist-mcp/internal/todoist"
	"github.com/teemow/todoist-mcp/internal/tools/batch"
	"github.com/teemow/todoist-mcp/internal/tools/common"
)

// taskInput splits a call into its items. A non-empty "tasks" array selects
// batch mode, anything else is a batch of one built from the top level.
func taskInput(args map[string]any) batch.Input[map[string]any] {
	if items, ok := common.ObjectSliceArg(args, "tasks"); ok && len(items) > 0 {
		return batch.Many(items)
	}
	return batch.Single(args)
}

// createArgs maps a create item onto the REST payload. A duration is only
// built when both a non-zero amount and a unit are given.
func createArgs(item map[string]any) todoist.AddTaskArgs {
	str := func(key string) string {
		s, _ := common.StringArg(item, key)
		return s
	}

	args := todoist.AddTaskArgs{
		Content:      str("content"),
		Description:  str("description"),
		ProjectID:    str("project_id"),
		SectionID:    str("section_id"),
		ParentID:     str("parent_id"),
		DueString:    str("due_string"),
		DueDate:      str("due_date"),
		DueDatetime:  str("due_datetime"),
		DueLang:      str("due_lang"),
		AssigneeID:   str("assignee_id"),
		DeadlineDate: str("deadline_date"),
		DeadlineLang: str("deadline_lang"),
	}
	if order, ok := common.IntArg(item, "order"); ok {
		args.Order = todoist.Int(order)
	}
	if priority, ok := common.IntArg(item, "priority"); ok {
		args.Priority = todoist.Int(priority)
	}
	if labels, ok := common.StringSliceArg(item, "labels"); ok {
		args.Labels = labels
	}

	amount, _ := common.IntArg(item, "duration")
	unit := str("duration_unit")
	if amount != 0 && unit != "" {
		args.Duration = &todoist.Duration{Amount: amount, Unit: unit}
	}

	return args
}

// updateArgs maps an update item onto the REST payload. Only supplied fields
// are set. An explicit null duration clears it.
func updateArgs(item map[string]any) todoist.UpdateTaskArgs {
	str := func(key string) *string {
		if s, ok := common.StringArg(item, key); ok {
			return &s
		}
		return nil
	}

	args := todoist.UpdateTaskArgs{
		Content:      str("content"),
		Description:  str("description"),
		ProjectID:    str("project_id"),
		SectionID:    str("section_id"),
		DueString:    str("due_string"),
		DueDate:      str("due_date"),
		DueDatetime:  str("due_datetime"),
		DueLang:      str("due_lang"),
		AssigneeID:   str("assignee_id"),
		DeadlineDate: str("deadline_date"),
		DeadlineLang: str("deadline_lang"),
	}
	if labels, ok := common.StringSliceArg(item, "labels"); ok {
		args.Labels = labels
	}
	if priority, ok := common.IntArg(item, "priority"); ok {
		args.Priority = todoist.Int(priority)
	}

	amount, hasAmount := common.IntArg(item, "duration")
	unit, hasUnit := common.StringArg(item, "duration_unit")
	switch {
	case hasAmount && hasUnit:
		args.Duration = &todoist.Duration{Amount: amount, Unit: unit}
	case common.IsNull(item, "duration"):
		args.ClearDuration = true
	}

	return args
}
