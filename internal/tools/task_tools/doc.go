// Package task_tools provides the Todoist task tools: create, list, update,
// delete and complete.
//
// The mutating tools accept either a single task on the top-level object or
// a "tasks" array. Both forms are normalized into a batch.Input once, so the
// per-item code path is identical; only the response shape differs. Batch
// items run concurrently and one item's failure never aborts its siblings.
//
// Tasks can be addressed by task_id or by task_name. Names are resolved with
// a case-insensitive substring match against the active task list, which is
// fetched at most once per call and only if some item actually needs it.
package task_tools
