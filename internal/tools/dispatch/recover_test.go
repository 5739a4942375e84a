package dispatch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverWithResult(t *testing.T) {
	n, err := RecoverWithResult(func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = RecoverWithResult(func() (int, error) { panic(errors.New("bad")) })
	var panicErr *PanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Equal(t, 0, n)
	assert.Equal(t, "panic: bad", err.Error())
	assert.Contains(t, panicErr.StackTrace, "goroutine")

	want := errors.New("plain")
	_, err = RecoverWithResult(func() (string, error) { return "", want })
	assert.Equal(t, want, err)
}
