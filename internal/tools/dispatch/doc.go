// Package dispatch routes tool invocations to their handlers.
//
// A Dispatcher owns the registry of Operations. Each Operation pairs an MCP
// tool declaration with a structural Validator and a handler. Dispatch runs
// the fixed pipeline intake, lookup, validate, handle and always returns a
// result: unknown tools, invalid arguments, handler errors and handler
// panics all become error-flagged text results instead of Go errors.
package dispatch
