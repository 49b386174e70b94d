package bank

import (
	"github.com/nspcc-dev/bank-contract/contracts/bank/bankconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

func balanceKey(acc interop.Hash160) []byte {
	return append([]byte(bankconst.BalancesPrefix), acc...)
}

// getBalance returns account balance, missing accounts have zero balance.
func getBalance(ctx storage.Context, acc interop.Hash160) int {
	val := storage.Get(ctx, balanceKey(acc))
	if val == nil {
		return 0
	}

	return val.(int)
}

func getTotal(ctx storage.Context) int {
	val := storage.Get(ctx, bankconst.TotalKey)
	if val == nil {
		return 0
	}

	return val.(int)
}

// credit increases account balance by amount. Resulting balance must not
// exceed bankconst.MaxBalance.
func credit(ctx storage.Context, acc interop.Hash160, amount int) {
	balance := getBalance(ctx, acc)

	limit := std.Atoi(bankconst.MaxBalance, 10)
	if amount > limit-balance {
		panic(bankconst.ErrArithmeticOverflow)
	}

	storage.Put(ctx, balanceKey(acc), balance+amount)
	storage.Put(ctx, bankconst.TotalKey, getTotal(ctx)+amount)
}

// debit decreases account balance by amount. Zero balances are kept in
// storage.
func debit(ctx storage.Context, acc interop.Hash160, amount int) {
	balance := getBalance(ctx, acc)
	if balance < amount {
		panic(bankconst.ErrInsufficientFunds)
	}

	storage.Put(ctx, balanceKey(acc), balance-amount)
	storage.Put(ctx, bankconst.TotalKey, getTotal(ctx)-amount)
}
