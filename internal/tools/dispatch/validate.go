package dispatch

import (
	"errors"
	"fmt"
)

// ErrInvalidArguments marks every structural validation failure.
var ErrInvalidArguments = errors.New("invalid arguments")

// ValidationError reports arguments that do not match a tool's input shape.
// Error() names only the tool, Reason carries the detail for logs.
type ValidationError struct {
	Tool   string
	Reason string
}

func (e *ValidationError) Error() string {
	return "Invalid arguments for " + e.Tool
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidArguments
}

// Validator checks the shape of a tool's arguments. Unknown fields are
// ignored and referential existence is left to the remote API.
type Validator func(args map[string]any) error

// All accepts args only if every validator does.
func All(validators ...Validator) Validator {
	return func(args map[string]any) error {
		for _, v := range validators {
			if v == nil {
				continue
			}
			if err := v(args); err != nil {
				return err
			}
		}
		return nil
	}
}

// RequireString requires each key to be present with a string value.
func RequireString(keys ...string) Validator {
	return func(args map[string]any) error {
		for _, key := range keys {
			if _, ok := args[key].(string); !ok {
				return fmt.Errorf("%s must be a string", key)
			}
		}
		return nil
	}
}

// RequireArray requires key to be present with an array value.
func RequireArray(key string) Validator {
	return func(args map[string]any) error {
		if _, ok := args[key].([]any); !ok {
			return fmt.Errorf("%s must be an array", key)
		}
		return nil
	}
}

// AnyString requires at least one of keys to be present with a string value.
func AnyString(keys ...string) Validator {
	return func(args map[string]any) error {
		for _, key := range keys {
			if _, ok := args[key].(string); ok {
				return nil
			}
		}
		return fmt.Errorf("one of %v must be a string", keys)
	}
}

// IDOrName accepts a task addressed by task_id or task_name.
var IDOrName = AnyString("task_id", "task_name")

// BatchOr validates a batch-capable tool. When a "tasks" array is present
// every element must be an object accepted by item. Otherwise single is
// applied to the top-level object.
func BatchOr(item, single Validator) Validator {
	return func(args map[string]any) error {
		items, ok := args["tasks"].([]any)
		if !ok {
			return single(args)
		}
		for i, raw := range items {
			m, ok := raw.(map[string]any)
			if !ok {
				return fmt.Errorf("tasks[%d] must be an object", i)
			}
			if err := item(m); err != nil {
				return fmt.Errorf("tasks[%d]: %w", i, err)
			}
		}
		return nil
	}
}
