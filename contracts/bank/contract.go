package bank

import (
	"github.com/nspcc-dev/bank-contract/common"
	"github.com/nspcc-dev/bank-contract/contracts/bank/bankconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Config structure stores contract settings set on deployment. It is never
// changed afterwards.
type Config struct {
	// Sender of the deployment transaction.
	Owner interop.Hash160
	// NEP-17 contract which tokens are accepted and paid out.
	Token interop.Hash160
}

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()

	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	if data == nil {
		panic(bankconst.ErrInvalidAddress)
	}

	args := data.(struct {
		token interop.Hash160
	})

	checkAddress(args.token)

	tx := runtime.GetScriptContainer()
	cfg := Config{
		Owner: tx.Sender,
		Token: args.token,
	}

	common.SetSerialized(ctx, bankconst.ConfigKey, cfg)

	runtime.Notify("Initialize", cfg.Owner, cfg.Token)
	runtime.Log("bank contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("bank contract updated")
}

// OnNEP17Payment is a callback for the accepted NEP-17 token. It credits
// the sender with the transferred amount. Payments from any other contract
// are rejected.
//
// It produces Deposit notification.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	ctx := storage.GetContext()
	cfg := getConfig(ctx)

	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(cfg.Token) {
		panic(bankconst.ErrUnauthorized)
	}

	checkAddress(from)
	checkAmount(amount)

	credit(ctx, from, amount)

	runtime.Notify("Deposit", from, amount)
}

// Withdraw transfers the specified amount of the accepted token from the
// contract account back to the user and decreases user balance accordingly.
// It can be invoked only by the user.
//
// Token transfer is done within the same invocation, so if it fails, balance
// change is reverted too. It produces Withdraw notification.
func Withdraw(user interop.Hash160, amount int) {
	checkAddress(user)
	common.CheckWitness(user)
	checkAmount(amount)

	ctx := storage.GetContext()
	cfg := getConfig(ctx)

	debit(ctx, user, amount)

	transferred := contract.Call(cfg.Token, "transfer", contract.All,
		runtime.GetExecutingScriptHash(), user, amount, nil).(bool)
	if !transferred {
		panic(bankconst.ErrTransferFailed)
	}

	runtime.Notify("Withdraw", user, amount)
}

// BalanceOf returns recorded balance of the specified account. Accounts that
// have never deposited have zero balance.
func BalanceOf(account interop.Hash160) int {
	checkAddress(account)

	ctx := storage.GetReadOnlyContext()
	return getBalance(ctx, account)
}

// TotalBalance returns the sum of all account balances. It never exceeds the
// amount of the accepted token owned by the contract.
func TotalBalance() int {
	ctx := storage.GetReadOnlyContext()
	return getTotal(ctx)
}

// ListBalances returns an iterator over all accounts that have ever deposited.
// Iterator values are structures with account script hash and its balance.
func ListBalances() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte(bankconst.BalancesPrefix), storage.RemovePrefix)
}

// Owner returns the address of the account that deployed the contract.
func Owner() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getConfig(ctx).Owner
}

// Token returns the address of the accepted NEP-17 contract.
func Token() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getConfig(ctx).Token
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func getConfig(ctx storage.Context) Config {
	return common.GetSerialized(ctx, bankconst.ConfigKey).(Config)
}

func checkAddress(addr interop.Hash160) {
	if len(addr) != interop.Hash160Len {
		panic(bankconst.ErrInvalidAddress)
	}
}

func checkAmount(amount int) {
	if amount < 0 {
		panic(bankconst.ErrInvalidAmount)
	}
}
