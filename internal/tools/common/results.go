package common

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// MarshalIndent renders v the way every tool response is rendered.
func MarshalIndent(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// JSONText returns v as an indented JSON text result.
func JSONText(v any) *mcp.CallToolResult {
	return PrefixedJSON("", v)
}

// PrefixedJSON returns prefix followed by v as indented JSON.
func PrefixedJSON(prefix string, v any) *mcp.CallToolResult {
	text, err := MarshalIndent(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: failed to encode response: %v", err))
	}
	return mcp.NewToolResultText(prefix + text)
}

// JSONError returns v as indented JSON with the error flag set.
func JSONError(v any) *mcp.CallToolResult {
	result := JSONText(v)
	result.IsError = true
	return result
}

// ErrorText renders err as "Error: <message>" with the error flag set.
func ErrorText(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError("Error: " + err.Error())
}
