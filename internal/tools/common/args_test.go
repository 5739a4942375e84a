package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntArg(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		want   int
		wantOk bool
	}{
		{"float64", float64(4), 4, true},
		{"fractional", 1.5, 0, false},
		{"int", 3, 3, true},
		{"json number", json.Number("30"), 30, true},
		{"bad json number", json.Number("x"), 0, false},
		{"string", "4", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := IntArg(map[string]any{"n": tt.value}, "n")
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringSliceArg(t *testing.T) {
	got, ok := StringSliceArg(map[string]any{"labels": []any{"a", "b"}}, "labels")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	got, ok = StringSliceArg(map[string]any{"labels": []any{}}, "labels")
	assert.True(t, ok)
	assert.Empty(t, got)

	_, ok = StringSliceArg(map[string]any{"labels": []any{"a", 1}}, "labels")
	assert.False(t, ok)

	_, ok = StringSliceArg(map[string]any{"labels": "a"}, "labels")
	assert.False(t, ok)
}

func TestPresenceHelpers(t *testing.T) {
	args := map[string]any{"duration": nil, "content": "x", "flag": true}

	assert.True(t, Has(args, "duration"))
	assert.True(t, IsNull(args, "duration"))
	assert.False(t, IsNull(args, "content"))
	assert.False(t, Has(args, "missing"))

	s, ok := StringArg(args, "content")
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = StringArg(args, "flag")
	assert.False(t, ok)

	b, ok := BoolArg(args, "flag")
	assert.True(t, ok)
	assert.True(t, b)
}

func TestObjectSliceArg(t *testing.T) {
	items, ok := ObjectSliceArg(map[string]any{"tasks": []any{map[string]any{"content": "a"}, 5}}, "tasks")
	assert.True(t, ok)
	assert.Len(t, items, 2)
	assert.Equal(t, "a", items[0]["content"])
	assert.Nil(t, items[1])

	_, ok = ObjectSliceArg(map[string]any{"tasks": "nope"}, "tasks")
	assert.False(t, ok)
}
