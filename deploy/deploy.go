package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/nspcc-dev/bank-contract/common"
	bankrpc "github.com/nspcc-dev/bank-contract/rpc/bank"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for Bank contract deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to
	// the blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by
	// its address. GetContractStateByHash returns error with 'Unknown
	// contract' substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Prm groups all parameters of the Bank contract deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy the contract to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// It is the owner of the deployed contract. Contract updates require
	// committee witness, so for them the account must be a committee one.
	LocalAccount *wallet.Account

	Bank CommonDeployPrm

	// Accepted NEP-17 token, it can't be changed after deployment.
	Token util.Uint160
}

// Deploy synchronizes Bank contract on the chain with the given one:
//   - if the contract is missing, it's deployed with Prm.Token as accepted
//     token;
//   - if on-chain contract version is older than common.Version, the
//     contract is updated;
//   - otherwise nothing is done.
//
// In any case on-chain accepted token must be the same as Prm.Token.
// Deploy returns the address of the on-chain contract.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	localActor, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	return syncBankContract(ctx, syncBankContractPrm{
		logger:        prm.Logger,
		chain:         &rpcChain{b: prm.Blockchain, a: localActor},
		sender:        prm.LocalAccount.ScriptHash(),
		localNEF:      prm.Bank.NEF,
		localManifest: prm.Bank.Manifest,
		localVersion:  common.Version,
		token:         prm.Token,
	})
}

// chain is a set of blockchain operations used by syncBankContract.
type chain interface {
	contractState(util.Uint160) (*state.Contract, error)
	version(util.Uint160) (*big.Int, error)
	token(util.Uint160) (util.Uint160, error)
	deploy(context.Context, *nef.File, *manifest.Manifest, any) error
	update(context.Context, util.Uint160, *nef.File, *manifest.Manifest) error
}

type syncBankContractPrm struct {
	logger *zap.Logger
	chain  chain

	sender        util.Uint160
	localNEF      nef.File
	localManifest manifest.Manifest
	localVersion  int
	token         util.Uint160
}

var errUnknownContract = errors.New("unknown contract")

func syncBankContract(ctx context.Context, prm syncBankContractPrm) (util.Uint160, error) {
	addr := state.CreateContractHash(prm.sender, prm.localNEF.Checksum, prm.localManifest.Name)
	l := prm.logger.With(zap.Stringer("address", addr))

	_, err := prm.chain.contractState(addr)
	if err != nil {
		if !errors.Is(err, errUnknownContract) {
			return addr, fmt.Errorf("get contract state: %w", err)
		}

		l.Info("Bank contract is missing on the chain, deploying...", zap.Stringer("token", prm.token))

		err = prm.chain.deploy(ctx, &prm.localNEF, &prm.localManifest, []any{prm.token})
		if err != nil {
			return addr, fmt.Errorf("deploy contract: %w", err)
		}

		l.Info("Bank contract successfully deployed")
		return addr, nil
	}

	token, err := prm.chain.token(addr)
	if err != nil {
		return addr, fmt.Errorf("get accepted token: %w", err)
	}
	if !token.Equals(prm.token) {
		return addr, fmt.Errorf("on-chain contract accepts token %s instead of %s", token.StringLE(), prm.token.StringLE())
	}

	onChainVersion, err := prm.chain.version(addr)
	if err != nil {
		return addr, fmt.Errorf("get contract version: %w", err)
	}

	switch onChainVersion.Cmp(big.NewInt(int64(prm.localVersion))) {
	case 0:
		l.Info("Bank contract is already of the latest version, skip", zap.Stringer("version", onChainVersion))
		return addr, nil
	case 1:
		return addr, fmt.Errorf("on-chain contract version %s is newer than the local one %d", onChainVersion, prm.localVersion)
	}

	l.Info("updating Bank contract...",
		zap.Stringer("from", onChainVersion), zap.Int("to", prm.localVersion))

	err = prm.chain.update(ctx, addr, &prm.localNEF, &prm.localManifest)
	if err != nil {
		return addr, fmt.Errorf("update contract: %w", err)
	}

	l.Info("Bank contract successfully updated")
	return addr, nil
}

// rpcChain implements chain through the RPC node.
type rpcChain struct {
	b Blockchain
	a *actor.Actor
}

func (c *rpcChain) contractState(addr util.Uint160) (*state.Contract, error) {
	st, err := c.b.GetContractStateByHash(addr)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), errUnknownContract.Error()) {
			return nil, fmt.Errorf("%w: %w", errUnknownContract, err)
		}
		return nil, err
	}
	return st, nil
}

func (c *rpcChain) version(addr util.Uint160) (*big.Int, error) {
	return bankrpc.NewReader(c.a, addr).Version()
}

func (c *rpcChain) token(addr util.Uint160) (util.Uint160, error) {
	return bankrpc.NewReader(c.a, addr).Token()
}

func (c *rpcChain) deploy(ctx context.Context, n *nef.File, m *manifest.Manifest, data any) error {
	h, vub, err := management.New(c.a).Deploy(n, m, data)
	if err != nil {
		return fmt.Errorf("send deployment transaction: %w", err)
	}

	return c.await(ctx, h, vub)
}

func (c *rpcChain) update(ctx context.Context, addr util.Uint160, n *nef.File, m *manifest.Manifest) error {
	rawNEF, err := n.Bytes()
	if err != nil {
		return fmt.Errorf("encode NEF: %w", err)
	}

	rawManifest, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	h, vub, err := bankrpc.New(c.a, addr).Update(rawNEF, rawManifest, nil)
	if err != nil {
		return fmt.Errorf("send update transaction: %w", bankrpc.ParseFault(err))
	}

	return c.await(ctx, h, vub)
}

func (c *rpcChain) await(ctx context.Context, h util.Uint256, vub uint32) error {
	res, err := c.a.WaitAny(ctx, vub, h)
	if err != nil {
		return fmt.Errorf("wait for transaction %s: %w", h.StringLE(), err)
	}

	if res.VMState != vmstate.Halt {
		err = bankrpc.ParseFaultException(res.FaultException, nil)
		if err == nil {
			err = errors.New("empty fault exception")
		}
		return fmt.Errorf("transaction %s failed with %s state: %w", h.StringLE(), res.VMState, err)
	}

	return nil
}
