package dispatch

import (
	"fmt"
	"runtime/debug"
)

// PanicError wraps a recovered panic with the stack trace at the point of
// the panic. Error() omits the stack so the message is safe to return to an
// agent; log StackTrace separately.
type PanicError struct {
	Value      any
	StackTrace string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// RecoverWithResult runs fn and converts a panic into a *PanicError with a
// zero result.
func RecoverWithResult[T any](fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result = zero
			err = &PanicError{
				Value:      r,
				StackTrace: string(debug.Stack()),
			}
		}
	}()
	return fn()
}
