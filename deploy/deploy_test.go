package deploy

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testChain struct {
	exists    bool
	stErr     error
	tokenHash util.Uint160
	ver       int64

	deployed   []any
	updated    []util.Uint160
	deployErr  error
	updateErr  error
	versionErr error
}

func (c *testChain) contractState(addr util.Uint160) (*state.Contract, error) {
	if c.stErr != nil {
		return nil, c.stErr
	}
	if !c.exists {
		return nil, errUnknownContract
	}
	return &state.Contract{ContractBase: state.ContractBase{Hash: addr}}, nil
}

func (c *testChain) version(util.Uint160) (*big.Int, error) {
	return big.NewInt(c.ver), c.versionErr
}

func (c *testChain) token(util.Uint160) (util.Uint160, error) {
	return c.tokenHash, nil
}

func (c *testChain) deploy(_ context.Context, _ *nef.File, _ *manifest.Manifest, data any) error {
	if c.deployErr != nil {
		return c.deployErr
	}
	c.deployed = append(c.deployed, data)
	c.exists = true
	return nil
}

func (c *testChain) update(_ context.Context, addr util.Uint160, _ *nef.File, _ *manifest.Manifest) error {
	if c.updateErr != nil {
		return c.updateErr
	}
	c.updated = append(c.updated, addr)
	return nil
}

func newSyncPrm(t *testing.T, c chain) syncBankContractPrm {
	_nef, err := nef.NewFile(make([]byte, 32))
	require.NoError(t, err)

	return syncBankContractPrm{
		logger:        zaptest.NewLogger(t),
		chain:         c,
		sender:        util.Uint160{1, 2, 3},
		localNEF:      *_nef,
		localManifest: *manifest.NewManifest("Bank"),
		localVersion:  1_000,
		token:         util.Uint160{4, 5, 6},
	}
}

func TestSyncBankContract(t *testing.T) {
	ctx := context.Background()

	t.Run("deploy", func(t *testing.T) {
		c := new(testChain)
		prm := newSyncPrm(t, c)

		addr, err := syncBankContract(ctx, prm)
		require.NoError(t, err)
		require.Equal(t, state.CreateContractHash(prm.sender, prm.localNEF.Checksum, "Bank"), addr)
		require.Equal(t, []any{[]any{prm.token}}, c.deployed)
		require.Empty(t, c.updated)
	})

	t.Run("deploy failure", func(t *testing.T) {
		c := &testChain{deployErr: errors.New("any")}

		_, err := syncBankContract(ctx, newSyncPrm(t, c))
		require.ErrorIs(t, err, c.deployErr)
	})

	t.Run("state failure", func(t *testing.T) {
		c := &testChain{stErr: errors.New("connection lost")}

		_, err := syncBankContract(ctx, newSyncPrm(t, c))
		require.ErrorIs(t, err, c.stErr)
		require.Empty(t, c.deployed)
	})

	t.Run("same version", func(t *testing.T) {
		c := &testChain{exists: true, tokenHash: util.Uint160{4, 5, 6}, ver: 1_000}

		_, err := syncBankContract(ctx, newSyncPrm(t, c))
		require.NoError(t, err)
		require.Empty(t, c.deployed)
		require.Empty(t, c.updated)
	})

	t.Run("update", func(t *testing.T) {
		c := &testChain{exists: true, tokenHash: util.Uint160{4, 5, 6}, ver: 999}

		addr, err := syncBankContract(ctx, newSyncPrm(t, c))
		require.NoError(t, err)
		require.Empty(t, c.deployed)
		require.Equal(t, []util.Uint160{addr}, c.updated)
	})

	t.Run("update failure", func(t *testing.T) {
		c := &testChain{exists: true, tokenHash: util.Uint160{4, 5, 6}, ver: 999, updateErr: errors.New("any")}

		_, err := syncBankContract(ctx, newSyncPrm(t, c))
		require.ErrorIs(t, err, c.updateErr)
	})

	t.Run("newer on chain", func(t *testing.T) {
		c := &testChain{exists: true, tokenHash: util.Uint160{4, 5, 6}, ver: 1_001}

		_, err := syncBankContract(ctx, newSyncPrm(t, c))
		require.Error(t, err)
		require.Empty(t, c.updated)
	})

	t.Run("version failure", func(t *testing.T) {
		c := &testChain{exists: true, tokenHash: util.Uint160{4, 5, 6}, versionErr: errors.New("any")}

		_, err := syncBankContract(ctx, newSyncPrm(t, c))
		require.ErrorIs(t, err, c.versionErr)
	})

	t.Run("another token", func(t *testing.T) {
		c := &testChain{exists: true, tokenHash: util.Uint160{7}, ver: 999}

		_, err := syncBankContract(ctx, newSyncPrm(t, c))
		require.Error(t, err)
		require.Empty(t, c.updated)
	})
}
