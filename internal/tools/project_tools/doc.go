// Package project_tools provides the project and section tools.
//
// Projects:
//   - todoist_get_projects
//   - todoist_create_project
//   - todoist_update_project
//
// Sections:
//   - todoist_get_project_sections
//   - todoist_create_section
//
// Remote failures are returned as handler errors and reach the agent as
// "Error: <message>".
package project_tools
