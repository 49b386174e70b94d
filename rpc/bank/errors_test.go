package bank

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFault(t *testing.T) {
	require.NoError(t, ParseFault(nil))

	other := errors.New("connection refused")
	require.Equal(t, other, ParseFault(other))

	for _, e := range contractErrors {
		cause := errors.New("invocation failed: at instruction 1337 (THROW): unhandled exception: \"" + e.Error() + "\"")
		err := ParseFault(cause)
		require.ErrorIs(t, err, e)
		require.ErrorIs(t, err, cause)
	}

	err := ParseFaultException("unhandled exception: \"insufficient funds\"", nil)
	require.ErrorIs(t, err, ErrInsufficientFunds)

	require.NoError(t, ParseFaultException("", nil))
	require.EqualError(t, ParseFaultException("some other fault", nil), "some other fault")
}
