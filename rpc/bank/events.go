package bank

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// InitializeEvent represents "Initialize" event emitted by the contract.
type InitializeEvent struct {
	Owner util.Uint160
	Token util.Uint160
}

// DepositEvent represents "Deposit" event emitted by the contract.
type DepositEvent struct {
	From   util.Uint160
	Amount *big.Int
}

// WithdrawEvent represents "Withdraw" event emitted by the contract.
type WithdrawEvent struct {
	User   util.Uint160
	Amount *big.Int
}

// InitializeEventsFromApplicationLog retrieves a set of all emitted events
// with "Initialize" name from the provided [result.ApplicationLog].
func InitializeEventsFromApplicationLog(log *result.ApplicationLog) ([]*InitializeEvent, error) {
	return eventsFromApplicationLog(log, "Initialize", func() *InitializeEvent { return new(InitializeEvent) })
}

// DepositEventsFromApplicationLog retrieves a set of all emitted events
// with "Deposit" name from the provided [result.ApplicationLog].
func DepositEventsFromApplicationLog(log *result.ApplicationLog) ([]*DepositEvent, error) {
	return eventsFromApplicationLog(log, "Deposit", func() *DepositEvent { return new(DepositEvent) })
}

// WithdrawEventsFromApplicationLog retrieves a set of all emitted events
// with "Withdraw" name from the provided [result.ApplicationLog].
func WithdrawEventsFromApplicationLog(log *result.ApplicationLog) ([]*WithdrawEvent, error) {
	return eventsFromApplicationLog(log, "Withdraw", func() *WithdrawEvent { return new(WithdrawEvent) })
}

type event interface {
	FromStackItem(item *stackitem.Array) error
}

func eventsFromApplicationLog[T event](log *result.ApplicationLog, name string, alloc func() T) ([]T, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []T
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != name {
				continue
			}
			ev := alloc()
			err := ev.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize %sEvent from stackitem (execution #%d, event #%d): %w", name, i, j, err)
			}
			res = append(res, ev)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to InitializeEvent or
// returns an error if it's not possible to do to so.
func (e *InitializeEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 2)
	if err != nil {
		return err
	}

	e.Owner, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	e.Token, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Token: %w", err)
	}

	return nil
}

// FromStackItem converts provided [stackitem.Array] to DepositEvent or
// returns an error if it's not possible to do to so.
func (e *DepositEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 2)
	if err != nil {
		return err
	}

	e.From, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field From: %w", err)
	}

	e.Amount, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// FromStackItem converts provided [stackitem.Array] to WithdrawEvent or
// returns an error if it's not possible to do to so.
func (e *WithdrawEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 2)
	if err != nil {
		return err
	}

	e.User, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field User: %w", err)
	}

	e.Amount, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

func eventFields(item *stackitem.Array, n int) ([]stackitem.Item, error) {
	if item == nil {
		return nil, errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	if len(arr) != n {
		return nil, errors.New("wrong number of structure elements")
	}
	return arr, nil
}
