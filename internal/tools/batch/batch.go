package batch

import (
	"fmt"

	"github.com/teemow/todoist-mcp/internal/todoist"
)

// Result is the outcome of one item in a batch. Fields that do not apply to a
// given tool are omitted from the JSON.
type Result struct {
	Success          bool           `json:"success"`
	TaskID           string         `json:"task_id,omitempty"`
	TaskName         string         `json:"task_name,omitempty"`
	Content          string         `json:"content,omitempty"`
	Task             *todoist.Task  `json:"task,omitempty"`
	Updated          map[string]any `json:"updated,omitempty"`
	AmbiguousMatches int            `json:"ambiguous_matches,omitempty"`
	Error            string         `json:"error,omitempty"`
	TaskData         any            `json:"task_data,omitempty"`
}

// Failure returns a failed result carrying err's message verbatim.
func Failure(err error) Result {
	return Result{Success: false, Error: err.Error()}
}

// ParseStringOrArray parses a parameter that can be either a single string or an array of strings
func ParseStringOrArray(param any, paramName string) ([]string, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	var result []string

	switch v := param.(type) {
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		result = []string{v}
	case []string:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		result = append(result, v...)
	case []any:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			if str == "" {
				return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
			}
			result = append(result, str)
		}
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}

	return result, nil
}
