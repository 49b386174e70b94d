package main

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// parseAmount converts decimal token amount (e.g. "1.5") into integer
// amount of the token with given decimals.
func parseAmount(s string, decimals int) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	if d.IsNegative() {
		return nil, errors.New("negative amount")
	}

	d = d.Shift(int32(decimals))
	if !d.Equal(d.Truncate(0)) {
		return nil, fmt.Errorf("amount %q has more than %d decimal places", s, decimals)
	}

	return d.BigInt(), nil
}

// formatAmount is the reverse of parseAmount.
func formatAmount(v *big.Int, decimals int) string {
	return decimal.NewFromBigInt(v, -int32(decimals)).String()
}
