package bank

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

type testInv struct {
	err error
	res *result.Invoke

	// batches returned by TraverseIterator one by one.
	batches    [][]stackitem.Item
	terminated []uuid.UUID
}

func (t *testInv) Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	return t.res, t.err
}

func (t *testInv) CallAndExpandIterator(contract util.Uint160, operation string, i int, params ...any) (*result.Invoke, error) {
	return t.res, t.err
}

func (t *testInv) TraverseIterator(uuid.UUID, *result.Iterator, int) ([]stackitem.Item, error) {
	if len(t.batches) == 0 {
		return nil, nil
	}
	b := t.batches[0]
	t.batches = t.batches[1:]
	return b, nil
}

func (t *testInv) TerminateSession(id uuid.UUID) error {
	t.terminated = append(t.terminated, id)
	return nil
}

func halt(items ...stackitem.Item) *result.Invoke {
	return &result.Invoke{State: "HALT", Stack: items}
}

func balanceItem(acc util.Uint160, amount int64) stackitem.Item {
	return stackitem.NewStruct([]stackitem.Item{
		stackitem.NewByteArray(acc.BytesBE()),
		stackitem.NewBigInteger(big.NewInt(amount)),
	})
}

func TestReader(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})
	require.Equal(t, util.Uint160{1, 2, 3}, r.Hash())

	ti.err = errors.New("bad")
	_, err := r.BalanceOf(util.Uint160{})
	require.Error(t, err)

	ti.err = nil
	ti.res = &result.Invoke{State: "FAULT", FaultException: "at instruction 1: " + ErrInvalidAddress.Error()}
	_, err = r.BalanceOf(util.Uint160{})
	require.Error(t, err)

	ti.res = halt(stackitem.Make(100500))
	b, err := r.BalanceOf(util.Uint160{})
	require.NoError(t, err)
	require.EqualValues(t, 100500, b.Int64())

	tb, err := r.TotalBalance()
	require.NoError(t, err)
	require.EqualValues(t, 100500, tb.Int64())

	token := util.Uint160{9, 8, 7}
	ti.res = halt(stackitem.NewByteArray(token.BytesBE()))
	h, err := r.Token()
	require.NoError(t, err)
	require.Equal(t, token, h)

	h, err = r.Owner()
	require.NoError(t, err)
	require.Equal(t, token, h)
}

func TestListBalancesExpanded(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})

	acc1, acc2 := util.Uint160{1}, util.Uint160{2}
	ti.res = halt(stackitem.NewArray([]stackitem.Item{
		balanceItem(acc1, 10),
		balanceItem(acc2, 0),
	}))

	res, err := r.ListBalancesExpanded(10)
	require.NoError(t, err)
	require.Len(t, res, 2)
	require.Equal(t, acc1, res[0].Account)
	require.EqualValues(t, 10, res[0].Amount.Int64())
	require.Equal(t, acc2, res[1].Account)
	require.EqualValues(t, 0, res[1].Amount.Int64())

	ti.res = halt(stackitem.NewArray([]stackitem.Item{
		stackitem.NewStruct([]stackitem.Item{stackitem.Make(1)}),
	}))
	_, err = r.ListBalancesExpanded(10)
	require.Error(t, err)
}

func TestForEachBalance(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})

	sid := uuid.New()
	iterID := uuid.New()
	ti.res = halt(stackitem.NewInterop(result.Iterator{ID: &iterID}))
	ti.res.Session = sid
	ti.batches = [][]stackitem.Item{
		{balanceItem(util.Uint160{1}, 1), balanceItem(util.Uint160{2}, 2)},
		{balanceItem(util.Uint160{3}, 3)},
	}

	var sum int64
	err := r.ForEachBalance(2, func(e *BalanceEntry) error {
		sum += e.Amount.Int64()
		return nil
	})
	require.NoError(t, err)
	require.EqualValues(t, 6, sum)
	require.Equal(t, []uuid.UUID{sid}, ti.terminated)

	ti.batches = [][]stackitem.Item{{balanceItem(util.Uint160{1}, 1)}}
	stop := errors.New("stop")
	err = r.ForEachBalance(2, func(*BalanceEntry) error { return stop })
	require.ErrorIs(t, err, stop)

	for _, batch := range []int{0, -1} {
		ti.terminated = nil
		ti.batches = [][]stackitem.Item{{balanceItem(util.Uint160{1}, 1)}}
		err = r.ForEachBalance(batch, func(*BalanceEntry) error {
			t.Fatal("unexpected entry")
			return nil
		})
		require.Error(t, err)
		require.Empty(t, ti.terminated)
	}
}

func TestBalanceEntryFromStackItem(t *testing.T) {
	var e BalanceEntry

	require.Error(t, e.FromStackItem(stackitem.Make(1)))
	require.Error(t, e.FromStackItem(stackitem.NewStruct(nil)))
	require.Error(t, e.FromStackItem(stackitem.NewStruct([]stackitem.Item{
		stackitem.NewByteArray([]byte{1, 2, 3}),
		stackitem.Make(1),
	})))
	require.Error(t, e.FromStackItem(stackitem.NewStruct([]stackitem.Item{
		stackitem.NewByteArray(make([]byte, util.Uint160Size)),
		stackitem.NewArray(nil),
	})))

	acc := util.Uint160{0xAB, 0xCD}
	require.NoError(t, e.FromStackItem(balanceItem(acc, 42)))
	require.Equal(t, acc, e.Account)
	require.EqualValues(t, 42, e.Amount.Int64())
}
