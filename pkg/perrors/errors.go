package perrors

import (
	"fmt"

	gerrors "github.com/pkg/errors"
)

type ErrorCode int

const (
	InternalError ErrorCode = iota
	IndeterminateOutput
	AmbiguousNestedIntent
	StructShapeMismatch
	NestedOutputMismatch
	InvalidTable
	UnknownColumn
	InvalidExpression
	InvalidConfiguration
	UnsupportedOutputType
)

func NewInternalError(msgFormat string, args ...interface{}) error {
	return gerrors.WithStack(NewFrameErrorf(InternalError, "Internal error - "+msgFormat, args...))
}

func NewIndeterminateOutputError() FrameError {
	return NewFrameErrorf(IndeterminateOutput, "Could not determine output type")
}

func NewAmbiguousNestedIntentError() FrameError {
	return NewFrameErrorf(AmbiguousNestedIntent, "A list output type is invalid. Do you mean to create a nested column? Then return a *frame.Column (series(...) in expressions)")
}

func NewExpectedStructError(got interface{}) FrameError {
	return NewFrameErrorf(StructShapeMismatch, "Expected struct, got %#v", got)
}

func NewStructFieldCountError(expected, actual int) FrameError {
	return NewFrameErrorf(StructShapeMismatch, "Cannot create struct type. The struct type expects %d fields, but it got a mapping with %d fields", expected, actual)
}

func NewNestedOutputMismatchError(msg string) FrameError {
	return NewFrameErrorf(NestedOutputMismatch, "Nested column output mismatch: %s", msg)
}

func NewInvalidTableError(msg string) FrameError {
	return NewFrameErrorf(InvalidTable, "Invalid table: %s", msg)
}

func NewUnknownColumnError(name string) FrameError {
	return NewFrameErrorf(UnknownColumn, "Unknown column: %s", name)
}

func NewInvalidExpressionError(msg string) FrameError {
	return NewFrameErrorf(InvalidExpression, "Invalid expression: %s", msg)
}

func NewInvalidConfigurationError(msg string) FrameError {
	return NewFrameErrorf(InvalidConfiguration, "Invalid configuration: %s", msg)
}

func NewUnsupportedOutputTypeError(typ fmt.Stringer) FrameError {
	return NewFrameErrorf(UnsupportedOutputType, "Unsupported output type: %s", typ)
}

func NewFrameErrorf(errorCode ErrorCode, msgFormat string, args ...interface{}) FrameError {
	msg := fmt.Sprintf(fmt.Sprintf("JFR%04d - %s", errorCode, msgFormat), args...)
	return FrameError{Code: errorCode, Msg: msg}
}

// FrameError is any error that is reported to the caller of an apply or to the CLI user
type FrameError struct {
	Code ErrorCode
	Msg  string
}

func (u FrameError) Error() string {
	return u.Msg
}

// HasCode reports whether err, or any error it wraps, is a FrameError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var fe FrameError
	return gerrors.As(err, &fe) && fe.Code == code
}

func MaybeAddStack(err error) error {
	_, ok := err.(FrameError)
	if !ok {
		return gerrors.WithStack(err)
	}
	return err
}
