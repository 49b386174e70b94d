// Package bank contains RPC wrappers for Bank contract.
package bank

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/nep17"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// BalanceEntry is a single item of ListBalances iterator.
type BalanceEntry struct {
	Account util.Uint160
	Amount  *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	nep17.Invoker

	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	nep17.Actor

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	Sender() util.Uint160
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Hash returns contract script hash.
func (c *ContractReader) Hash() util.Uint160 {
	return c.hash
}

// BalanceOf invokes `balanceOf` method of contract.
func (c *ContractReader) BalanceOf(account util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "balanceOf", account))
}

// TotalBalance invokes `totalBalance` method of contract.
func (c *ContractReader) TotalBalance() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "totalBalance"))
}

// Owner invokes `owner` method of contract.
func (c *ContractReader) Owner() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "owner"))
}

// Token invokes `token` method of contract.
func (c *ContractReader) Token() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "token"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// ListBalances invokes `listBalances` method of contract. Iterator items
// can be converted with BalanceEntry.FromStackItem.
func (c *ContractReader) ListBalances() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "listBalances"))
}

// ListBalancesExpanded is similar to ListBalances (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) ListBalancesExpanded(_numOfIteratorItems int) ([]*BalanceEntry, error) {
	items, err := unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "listBalances", _numOfIteratorItems))
	if err != nil {
		return nil, err
	}

	return itemsToBalanceEntries(items)
}

// ForEachBalance reads all account balances through the iterator session
// in batches of the given size and passes them to f. The session is
// terminated on return. Batch size must be positive.
func (c *ContractReader) ForEachBalance(batch int, f func(*BalanceEntry) error) error {
	if batch <= 0 {
		return fmt.Errorf("invalid batch size %d", batch)
	}

	sid, iter, err := c.ListBalances()
	if err != nil {
		return fmt.Errorf("open balance iterator: %w", err)
	}
	defer func() { _ = c.invoker.TerminateSession(sid) }()

	for {
		items, err := c.invoker.TraverseIterator(sid, &iter, batch)
		if err != nil {
			return fmt.Errorf("traverse balance iterator: %w", err)
		}

		entries, err := itemsToBalanceEntries(items)
		if err != nil {
			return err
		}

		for i := range entries {
			if err := f(entries[i]); err != nil {
				return err
			}
		}

		if len(items) == 0 || len(items) < batch {
			return nil
		}
	}
}

// Deposit creates a transaction invoking `transfer` method of the accepted
// token contract which moves the amount from the actor's account to the
// bank. Token contract hash is fetched from the bank first.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Deposit(amount *big.Int) (util.Uint256, uint32, error) {
	token, err := c.Token()
	if err != nil {
		return util.Uint256{}, 0, fmt.Errorf("get accepted token: %w", err)
	}

	return nep17.New(c.actor, token).Transfer(c.actor.Sender(), c.hash, amount, nil)
}

// Withdraw creates a transaction invoking `withdraw` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Withdraw(user util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "withdraw", user, amount)
}

// WithdrawTransaction creates a transaction invoking `withdraw` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) WithdrawTransaction(user util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "withdraw", user, amount)
}

// WithdrawUnsigned creates a transaction invoking `withdraw` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) WithdrawUnsigned(user util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "withdraw", nil, user, amount)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

func itemsToBalanceEntries(items []stackitem.Item) ([]*BalanceEntry, error) {
	res := make([]*BalanceEntry, len(items))
	for i := range items {
		res[i] = new(BalanceEntry)
		if err := res[i].FromStackItem(items[i]); err != nil {
			return nil, fmt.Errorf("balance entry #%d: %w", i, err)
		}
	}

	return res, nil
}

// FromStackItem retrieves fields of BalanceEntry from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *BalanceEntry) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Account, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Account: %w", err)
	}

	index++
	res.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return util.Uint160{}, err
	}
	return u, nil
}
