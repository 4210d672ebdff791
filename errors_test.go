package emit

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLimitErrorIs(t *testing.T) {
	err := error(&LimitError{Key: "k", Limit: 2})
	require.ErrorIs(t, err, ErrLimitExceeded)
	require.NotErrorIs(t, err, ErrInvalidHandler)
}

func TestAggregateErrorUnwrap(t *testing.T) {
	var pe *PanicError
	err := error(&AggregateError{Key: "k", Errors: []error{io.EOF, &PanicError{Key: "k", Value: "x"}}})
	require.ErrorIs(t, err, io.EOF)
	require.ErrorIs(t, err, ErrHandlerPanic)
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "x", pe.Value)
}

func TestPanicErrorUnwrap(t *testing.T) {
	err := error(&PanicError{Key: "k", Value: io.ErrUnexpectedEOF})
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	require.ErrorIs(t, err, ErrHandlerPanic)

	err = &PanicError{Key: "k", Value: 3}
	require.Nil(t, errors.Unwrap(err))
	require.Equal(t, "emit: handler for event k panicked: 3", err.Error())
}

func TestModeString(t *testing.T) {
	require.Equal(t, "concurrent", Concurrent.String())
	require.Equal(t, "sequential", Sequential.String())
	require.Equal(t, "unknown", Mode(9).String())
}
