package mvc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	err := newError(BindingErrorCode, nil, "bad %s", "value")
	wrapped := fmt.Errorf("outer: %w", err)

	assert.ErrorIs(t, wrapped, ErrBinding)
	assert.NotErrorIs(t, wrapped, ErrInjection)
	assert.Equal(t, BindingErrorCode, CodeOf(wrapped))
	assert.Equal(t, UnknownErrorCode, CodeOf(errors.New("plain")))
}

func TestError_Message(t *testing.T) {
	cause := errors.New("root cause")
	err := newError(DuplicateRouteErrorCode, cause, "path %s is already mapped", "/a").
		With("handler", "A.B")

	assert.Equal(t, "DuplicateRouteError: path /a is already mapped (handler=A.B): root cause", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "NotFoundError", NotFoundErrorCode.String())
	assert.Equal(t, "HandlerInvocationError", HandlerInvocationErrorCode.String())
	assert.Equal(t, "UnknownError", ErrorCode(99).String())
}

func TestAssign(t *testing.T) {
	var s fmt.Stringer
	assert.Error(t, Assign(&s, 42))
	assert.NoError(t, Assign(&s, nil))
	assert.Nil(t, s)

	var n int
	assert.NoError(t, Assign(&n, 7))
	assert.Equal(t, 7, n)
}

func TestArg(t *testing.T) {
	args := []any{"x", nil, 3}
	assert.Equal(t, "x", Arg[string](args, 0))
	assert.Equal(t, "", Arg[string](args, 1))
	assert.Equal(t, 3, Arg[int](args, 2))
	assert.Equal(t, 0, Arg[int](args, 5))
	assert.Panics(t, func() { Arg[int](args, 0) })
}
