package main

import (
	"errors"
	"fmt"

	bankrpc "github.com/nspcc-dev/bank-contract/rpc/bank"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/urfave/cli/v2"
)

// readAccount opens wallet and returns decrypted account selected by flags.
func readAccount(c *cli.Context) (*wallet.Account, error) {
	path := c.String(walletFlag.Name)
	if path == "" {
		return nil, errors.New("wallet is required")
	}

	w, err := wallet.NewWalletFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}
	defer w.Close()

	return selectAccount(w, c.String(accountFlag.Name), c.String(passwordFlag.Name))
}

func selectAccount(w *wallet.Wallet, addr string, password string) (*wallet.Account, error) {
	var acc *wallet.Account

	if addr == "" {
		if len(w.Accounts) == 0 {
			return nil, errors.New("wallet has no accounts")
		}

		acc = w.Accounts[0]
		for _, a := range w.Accounts {
			if a.Default {
				acc = a
				break
			}
		}
	} else {
		h, err := bankrpc.ParseAddress(addr)
		if err != nil {
			return nil, fmt.Errorf("account: %w", err)
		}

		acc = w.GetAccount(h)
		if acc == nil {
			return nil, fmt.Errorf("account %s is missing in the wallet", addr)
		}
	}

	err := acc.Decrypt(password, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account %s: %w", acc.Address, err)
	}

	return acc, nil
}

func contractAddress(c *cli.Context) (util.Uint160, error) {
	s := c.String(contractFlag.Name)
	if s == "" {
		return util.Uint160{}, errors.New("contract address is required")
	}

	h, err := bankrpc.ParseAddress(s)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("contract: %w", err)
	}

	return h, nil
}
