package batch

// Input is the normalized form of a tool call that accepts either one item or
// a "tasks" array. Items always holds at least one element; Batch records
// which form the caller used so the response can mirror it.
type Input[T any] struct {
	Items []T
	Batch bool
}

// Single wraps one item as a batch of one.
func Single[T any](item T) Input[T] {
	return Input[T]{Items: []T{item}}
}

// Many wraps a caller-supplied array.
func Many[T any](items []T) Input[T] {
	return Input[T]{Items: items, Batch: true}
}

// Len returns the number of items.
func (in Input[T]) Len() int {
	return len(in.Items)
}
