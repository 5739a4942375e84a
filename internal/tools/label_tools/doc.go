// Package label_tools provides the personal label tools and
// todoist_update_task_labels, which replaces the labels of a task found by
// name.
package label_tools
