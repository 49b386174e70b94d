package main

import (
	"context"
	"fmt"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
)

// wrapper over rpcNeo providing blockchain services needed for bank commands.
type remoteBlockchain struct {
	rpc   *rpcclient.Client
	actor *actor.Actor
	acc   *wallet.Account
}

// newRemoteBlockChain dials Neo RPC server and returns remoteBlockchain based
// on the opened connection. Transactions are signed by acc, random account
// is used when acc is nil (read-only commands). Connection and all requests
// are done within the given timeout.
func newRemoteBlockChain(ctx context.Context, blockChainRPCEndpoint string, acc *wallet.Account, timeout time.Duration) (*remoteBlockchain, error) {
	if acc == nil {
		var err error
		acc, err = wallet.NewAccount()
		if err != nil {
			return nil, fmt.Errorf("generate new Neo account: %w", err)
		}
	}

	c, err := rpcclient.New(ctx, blockChainRPCEndpoint, rpcclient.Options{
		DialTimeout:    timeout,
		RequestTimeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	err = c.Init()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("RPC client init: %w", err)
	}

	act, err := actor.NewSimple(c, acc)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init actor: %w", err)
	}

	return &remoteBlockchain{
		rpc:   c,
		actor: act,
		acc:   acc,
	}, nil
}

func (x *remoteBlockchain) close() {
	x.rpc.Close()
}

// iterateContractStorage iterates over all storage items of the Neo smart
// contract referenced by given address and passes them into f.
// iterateContractStorage breaks on any f's error and returns it.
func (x *remoteBlockchain) iterateContractStorage(contract util.Uint160, f func(key, value []byte) error) error {
	nLatestBlock, err := x.actor.GetBlockCount()
	if err != nil {
		return fmt.Errorf("get number of the latest block: %w", err)
	}

	stateRoot, err := x.rpc.GetStateRootByHeight(nLatestBlock - 1)
	if err != nil {
		return fmt.Errorf("get state root at penult block #%d: %w", nLatestBlock-1, err)
	}

	var start []byte

	for {
		res, err := x.rpc.FindStates(stateRoot.Root, contract, nil, start, nil)
		if err != nil {
			return fmt.Errorf("get historical storage items of the requested contract at state root '%s': %w", stateRoot.Root, err)
		}

		for i := range res.Results {
			err = f(res.Results[i].Key, res.Results[i].Value)
			if err != nil {
				return err
			}
		}

		if !res.Truncated {
			return nil
		}

		start = res.Results[len(res.Results)-1].Key
	}
}
