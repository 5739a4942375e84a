package batch

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// Summary counts the outcomes of a batch.
type Summary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Envelope is the response body of a batch call.
type Envelope struct {
	Success bool     `json:"success"`
	Summary Summary  `json:"summary"`
	Results []Result `json:"results"`
}

// NewEnvelope aggregates results into an envelope.
func NewEnvelope(results []Result) Envelope {
	env := Envelope{
		Summary: Summary{Total: len(results)},
		Results: results,
	}
	if env.Results == nil {
		env.Results = []Result{}
	}

	for _, r := range results {
		if r.Success {
			env.Summary.Succeeded++
		} else {
			env.Summary.Failed++
		}
	}
	env.Success = env.Summary.Succeeded == env.Summary.Total

	return env
}

// IsError reports whether any item failed.
func (e Envelope) IsError() bool {
	return e.Summary.Succeeded < e.Summary.Total
}

// ToolResult renders the envelope as an MCP text result, flagged as an error
// when any item failed.
func (e Envelope) ToolResult() *mcp.CallToolResult {
	jsonBytes, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to encode batch results: " + err.Error())
	}
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = e.IsError()
	return result
}
