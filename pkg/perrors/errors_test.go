package perrors

import (
	"errors"
	"testing"

	gerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	require.Equal(t, "JFR0001 - Could not determine output type", NewIndeterminateOutputError().Error())
	require.Equal(t, "JFR0003 - Cannot create struct type. The struct type expects 2 fields, but it got a mapping with 3 fields",
		NewStructFieldCountError(2, 3).Error())
	require.Equal(t, `JFR0003 - Expected struct, got "x"`, NewExpectedStructError("x").Error())
	require.Equal(t, "JFR0006 - Unknown column: price", NewUnknownColumnError("price").Error())
	require.Equal(t, "JFR0007 - Invalid expression: 100% wrong", NewInvalidExpressionError("100% wrong").Error())
}

func TestHasCode(t *testing.T) {
	err := NewUnknownColumnError("a")
	require.True(t, HasCode(err, UnknownColumn))
	require.False(t, HasCode(err, InvalidTable))
	require.True(t, HasCode(gerrors.Wrap(err, "compile"), UnknownColumn))
	require.False(t, HasCode(errors.New("plain"), UnknownColumn))
	require.False(t, HasCode(nil, UnknownColumn))

	internal := NewInternalError("row count %d != %d", 1, 2)
	require.True(t, HasCode(internal, InternalError))
	require.Contains(t, internal.Error(), "Internal error - row count 1 != 2")
}

func TestMaybeAddStack(t *testing.T) {
	fe := NewInvalidTableError("bad")
	require.Equal(t, error(fe), MaybeAddStack(fe))

	plain := errors.New("plain")
	wrapped := MaybeAddStack(plain)
	require.NotEqual(t, plain, wrapped)
	require.Same(t, plain, gerrors.Cause(wrapped))
}
