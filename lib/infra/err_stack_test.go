package infra

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewErrorStack(t *testing.T) {
	err := NewErrorStack("boom")
	require.Error(t, err)
	require.Equal(t, "boom", err.Error())

	verbose := fmt.Sprintf("%+v", err)
	require.True(t, strings.HasPrefix(verbose, "boom"))
	require.Contains(t, verbose, "err_stack_test.go")
}

func TestWrapErrorStack(t *testing.T) {
	require.NoError(t, WrapErrorStack(nil))

	cause := errors.New("cause")
	err := WrapErrorStackWithMessage(cause, "ctx")
	require.Equal(t, "ctx: cause", err.Error())
	require.ErrorIs(t, err, cause)

	// Re-wrapping must not shadow the original frames.
	rewrapped := WrapErrorStack(err)
	require.Same(t, err, rewrapped)
}

func TestWrapErrorStackWithMessage_NilCause(t *testing.T) {
	require.NoError(t, WrapErrorStackWithMessage(nil, ""))

	err := WrapErrorStackWithMessage(nil, "only message")
	require.Error(t, err)
	require.Equal(t, "only message", err.Error())
}

func TestErrorStackMarshalLogObject(t *testing.T) {
	es, ok := WrapErrorStackWithMessage(errors.New("cause"), "ctx").(*ErrorStack)
	require.True(t, ok)

	enc := zapcore.NewMapObjectEncoder()
	require.NoError(t, es.MarshalLogObject(enc))
	require.Equal(t, "ctx: cause", enc.Fields["error"])
	frames, ok := enc.Fields["frames"].([]any)
	require.True(t, ok)
	require.Greater(t, len(frames), 0)
}
