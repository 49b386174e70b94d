package bank

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	h := util.Uint160{0x01, 0x02, 0x03, 0xFF}

	res, err := ParseAddress(address.Uint160ToString(h))
	require.NoError(t, err)
	require.Equal(t, h, res)

	res, err = ParseAddress(h.StringLE())
	require.NoError(t, err)
	require.Equal(t, h, res)

	for _, s := range []string{
		"",
		"not an address",
		h.StringLE()[:38] + "zz",
		// Valid base58, but no checksum.
		base58.Encode(append([]byte{address.NEO3Prefix}, h.BytesBE()...)),
	} {
		_, err := ParseAddress(s)
		require.ErrorIs(t, err, ErrInvalidAddress, s)
	}
}
