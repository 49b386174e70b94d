package token

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	decimals = 8

	totalSupplyKey = "s"
	frozenKey      = "f"
	balancePrefix  = "b"
)

// Symbol returns token symbol.
func Symbol() string {
	return "TKN"
}

// Decimals returns the number of token decimals.
func Decimals() int {
	return decimals
}

// TotalSupply returns the amount of tokens minted so far.
func TotalSupply() int {
	return getInt(storage.GetReadOnlyContext(), []byte(totalSupplyKey))
}

// BalanceOf returns token balance of the account.
func BalanceOf(account interop.Hash160) int {
	if len(account) != interop.Hash160Len {
		panic("invalid account")
	}
	return getInt(storage.GetReadOnlyContext(), balanceKey(account))
}

// Transfer follows NEP-17. It returns false when token is frozen.
func Transfer(from, to interop.Hash160, amount int, data any) bool {
	if len(from) != interop.Hash160Len || len(to) != interop.Hash160Len {
		panic("invalid account")
	}
	if amount < 0 {
		panic("invalid amount")
	}
	if !runtime.CheckWitness(from) {
		return false
	}

	ctx := storage.GetContext()
	if storage.Get(ctx, frozenKey) != nil {
		return false
	}

	balance := getInt(ctx, balanceKey(from))
	if balance < amount {
		return false
	}

	if !from.Equals(to) {
		storage.Put(ctx, balanceKey(from), balance-amount)
		storage.Put(ctx, balanceKey(to), getInt(ctx, balanceKey(to))+amount)
	}

	postTransfer(from, to, amount, data)
	return true
}

// Mint issues new tokens to any account without any checks.
func Mint(to interop.Hash160, amount int) {
	if len(to) != interop.Hash160Len {
		panic("invalid account")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, balanceKey(to), getInt(ctx, balanceKey(to))+amount)
	storage.Put(ctx, totalSupplyKey, getInt(ctx, []byte(totalSupplyKey))+amount)

	postTransfer(nil, to, amount, nil)
}

// SetFrozen makes all further transfers fail (or succeed again).
func SetFrozen(frozen bool) {
	ctx := storage.GetContext()
	if frozen {
		storage.Put(ctx, frozenKey, 1)
	} else {
		storage.Delete(ctx, frozenKey)
	}
}

func postTransfer(from, to interop.Hash160, amount int, data any) {
	runtime.Notify("Transfer", from, to, amount)
	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP17Payment", contract.All, from, amount, data)
	}
}

func balanceKey(acc interop.Hash160) []byte {
	return append([]byte(balancePrefix), acc...)
}

func getInt(ctx storage.Context, key []byte) int {
	val := storage.Get(ctx, key)
	if val == nil {
		return 0
	}
	return val.(int)
}
