package bank

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// ParseAddress parses account or contract address given either as a Neo
// address (N...) or as a 40-character little-endian hex script hash. Any
// other input results in ErrInvalidAddress.
func ParseAddress(s string) (util.Uint160, error) {
	if len(s) == 2*util.Uint160Size {
		u, err := util.Uint160DecodeStringLE(s)
		if err != nil {
			return util.Uint160{}, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
		}
		return u, nil
	}

	u, err := address.StringToUint160(s)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	return u, nil
}
