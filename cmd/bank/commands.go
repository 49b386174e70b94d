package main

import (
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"

	"github.com/nspcc-dev/bank-contract/contracts"
	"github.com/nspcc-dev/bank-contract/deploy"
	bankrpc "github.com/nspcc-dev/bank-contract/rpc/bank"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/nep17"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/urfave/cli/v2"
)

// Deploy command deploys Bank contract or updates it to the local version.
var Deploy = cli.Command{
	Action: deployContract,
	Name:   "deploy",
	Usage:  "deploys Bank contract or updates it to the local version",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "root",
			Usage: "repository root containing compiled " + contracts.BankDir,
			Value: ".",
		},
		&cli.StringFlag{
			Name:     "token",
			Usage:    "accepted NEP-17 token address",
			EnvVars:  []string{"BANK_TOKEN"},
			Required: true,
		},
	},
}

// Deposit command transfers tokens from the account to Bank contract.
var Deposit = cli.Command{
	Action:    deposit,
	Name:      "deposit",
	Usage:     "transfers tokens from the account to the Bank",
	ArgsUsage: "<amount>",
}

// Withdraw command pays tokens back from Bank contract to the account.
var Withdraw = cli.Command{
	Action:    withdraw,
	Name:      "withdraw",
	Usage:     "transfers tokens from the Bank back to the account",
	ArgsUsage: "<amount>",
}

// Balance command prints the amount held in Bank contract for the account.
var Balance = cli.Command{
	Action:    balance,
	Name:      "balance",
	Usage:     "prints Bank balance of the given address (or the account)",
	ArgsUsage: "[address]",
}

// Info command prints Bank contract settings and totals.
var Info = cli.Command{
	Action: info,
	Name:   "info",
	Usage:  "prints Bank contract settings",
}

// Dump command writes all balances or raw contract storage in CSV format.
var Dump = cli.Command{
	Action: dump,
	Name:   "dump",
	Usage:  "writes all account balances as CSV",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "output file, stdout if not set",
		},
		&cli.BoolFlag{
			Name:  "raw",
			Usage: "dump raw contract storage items instead of balances",
		},
		&cli.IntFlag{
			Name:  "batch",
			Usage: "number of iterator items requested at once",
			Value: 100,
		},
	},
}

func deployContract(c *cli.Context) error {
	token, err := bankrpc.ParseAddress(c.String("token"))
	if err != nil {
		return fmt.Errorf("token: %w", err)
	}

	ctr, err := contracts.Read(os.DirFS(c.String("root")), contracts.BankDir)
	if err != nil {
		return err
	}

	log, err := newLogger(c)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	b, err := connect(c, true)
	if err != nil {
		return err
	}
	defer b.close()

	addr, err := deploy.Deploy(c.Context, deploy.Prm{
		Logger:       log,
		Blockchain:   b.rpc,
		LocalAccount: b.acc,
		Bank: deploy.CommonDeployPrm{
			NEF:      ctr.NEF,
			Manifest: ctr.Manifest,
		},
		Token: token,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Bank contract: %s (%s)\n", address.Uint160ToString(addr), addr.StringLE())
	return nil
}

func deposit(c *cli.Context) error {
	return sendAmount(c, "deposit", func(bank *bankrpc.Contract, _ util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
		return bank.Deposit(amount)
	}, func(log *result.ApplicationLog) (string, error) {
		evs, err := bankrpc.DepositEventsFromApplicationLog(log)
		if err != nil || len(evs) == 0 {
			return "", err
		}
		return address.Uint160ToString(evs[0].From), nil
	})
}

func withdraw(c *cli.Context) error {
	return sendAmount(c, "withdraw", func(bank *bankrpc.Contract, sender util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
		return bank.Withdraw(sender, amount)
	}, func(log *result.ApplicationLog) (string, error) {
		evs, err := bankrpc.WithdrawEventsFromApplicationLog(log)
		if err != nil || len(evs) == 0 {
			return "", err
		}
		return address.Uint160ToString(evs[0].User), nil
	})
}

type bankSender = func(bank *bankrpc.Contract, sender util.Uint160, amount *big.Int) (util.Uint256, uint32, error)

func sendAmount(c *cli.Context, op string, send bankSender, account func(*result.ApplicationLog) (string, error)) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("%s: exactly one amount argument is required", op)
	}

	b, err := connect(c, true)
	if err != nil {
		return err
	}
	defer b.close()

	h, err := contractAddress(c)
	if err != nil {
		return err
	}

	bank := bankrpc.New(b.actor, h)

	decimals, err := tokenDecimals(b, bank)
	if err != nil {
		return err
	}

	amount, err := parseAmount(c.Args().First(), decimals)
	if err != nil {
		return err
	}

	txHash, vub, err := send(bank, b.acc.ScriptHash(), amount)
	res, err := b.actor.Wait(txHash, vub, err)
	if err != nil {
		return fmt.Errorf("%s: %w", op, bankrpc.ParseFault(err))
	}
	if res.VMState != vmstate.Halt {
		return fmt.Errorf("%s: transaction %s failed: %w", op, txHash.StringLE(), faultError(res.FaultException))
	}

	acc, err := account(&result.ApplicationLog{
		Container:  txHash,
		Executions: []state.Execution{res.Execution},
	})
	if err != nil {
		return fmt.Errorf("%s: read notifications: %w", op, err)
	}

	fmt.Fprintf(c.App.Writer, "%s of %s for %s accepted in transaction %s\n",
		op, formatAmount(amount, decimals), acc, txHash.StringLE())
	return nil
}

func balance(c *cli.Context) error {
	var (
		acc util.Uint160
		err error
	)

	withAccount := c.Args().Len() == 0
	if !withAccount {
		acc, err = bankrpc.ParseAddress(c.Args().First())
		if err != nil {
			return err
		}
	}

	b, err := connect(c, withAccount)
	if err != nil {
		return err
	}
	defer b.close()

	if withAccount {
		acc = b.acc.ScriptHash()
	}

	h, err := contractAddress(c)
	if err != nil {
		return err
	}

	bank := bankrpc.NewReader(b.actor, h)

	decimals, err := tokenDecimals(b, bank)
	if err != nil {
		return err
	}

	v, err := bank.BalanceOf(acc)
	if err != nil {
		return fmt.Errorf("get balance: %w", bankrpc.ParseFault(err))
	}

	fmt.Fprintln(c.App.Writer, formatAmount(v, decimals))
	return nil
}

func info(c *cli.Context) error {
	b, err := connect(c, false)
	if err != nil {
		return err
	}
	defer b.close()

	h, err := contractAddress(c)
	if err != nil {
		return err
	}

	bank := bankrpc.NewReader(b.actor, h)

	owner, err := bank.Owner()
	if err != nil {
		return fmt.Errorf("get owner: %w", err)
	}

	token, err := bank.Token()
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}

	version, err := bank.Version()
	if err != nil {
		return fmt.Errorf("get version: %w", err)
	}

	total, err := bank.TotalBalance()
	if err != nil {
		return fmt.Errorf("get total balance: %w", err)
	}

	tokenReader := nep17.NewReader(b.actor, token)

	symbol, err := tokenReader.Symbol()
	if err != nil {
		return fmt.Errorf("get token symbol: %w", err)
	}

	decimals, err := tokenReader.Decimals()
	if err != nil {
		return fmt.Errorf("get token decimals: %w", err)
	}

	held, err := tokenReader.BalanceOf(h)
	if err != nil {
		return fmt.Errorf("get token balance of the contract: %w", err)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Contract:      %s\n", address.Uint160ToString(h))
	fmt.Fprintf(w, "Version:       %s\n", version)
	fmt.Fprintf(w, "Owner:         %s\n", address.Uint160ToString(owner))
	fmt.Fprintf(w, "Token:         %s (%s)\n", address.Uint160ToString(token), symbol)
	fmt.Fprintf(w, "Total balance: %s %s\n", formatAmount(total, decimals), symbol)
	fmt.Fprintf(w, "Tokens held:   %s %s\n", formatAmount(held, decimals), symbol)
	return nil
}

func dump(c *cli.Context) error {
	if batch := c.Int("batch"); batch <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", batch)
	}

	b, err := connect(c, false)
	if err != nil {
		return err
	}
	defer b.close()

	h, err := contractAddress(c)
	if err != nil {
		return err
	}

	out := c.App.Writer
	if path := c.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if c.Bool("raw") {
		return dumpStorage(out, b, h)
	}

	return dumpBalances(out, bankrpc.NewReader(b.actor, h), c.Int("batch"))
}

type balanceLister interface {
	ForEachBalance(batch int, f func(*bankrpc.BalanceEntry) error) error
}

func dumpBalances(out io.Writer, bank balanceLister, batch int) error {
	w := csv.NewWriter(out)

	err := w.Write([]string{"address", "script_hash", "amount"})
	if err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	err = bank.ForEachBalance(batch, func(e *bankrpc.BalanceEntry) error {
		return w.Write([]string{
			address.Uint160ToString(e.Account),
			e.Account.StringLE(),
			e.Amount.String(),
		})
	})
	if err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func dumpStorage(out io.Writer, b *remoteBlockchain, h util.Uint160) error {
	w := csv.NewWriter(out)

	err := w.Write([]string{"key", "value", "value_len"})
	if err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	err = b.iterateContractStorage(h, func(key, value []byte) error {
		return w.Write([]string{hex.EncodeToString(key), hex.EncodeToString(value), strconv.Itoa(len(value))})
	})
	if err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func faultError(exception string) error {
	err := bankrpc.ParseFaultException(exception, nil)
	if err == nil {
		err = errors.New("empty fault exception")
	}
	return err
}

type tokenGetter interface {
	Token() (util.Uint160, error)
}

func tokenDecimals(b *remoteBlockchain, bank tokenGetter) (int, error) {
	token, err := bank.Token()
	if err != nil {
		return 0, fmt.Errorf("get accepted token: %w", err)
	}

	decimals, err := nep17.NewReader(b.actor, token).Decimals()
	if err != nil {
		return 0, fmt.Errorf("get token decimals: %w", err)
	}

	return decimals, nil
}

func connect(c *cli.Context, withAccount bool) (*remoteBlockchain, error) {
	if !withAccount {
		return newRemoteBlockChain(c.Context, c.String(rpcFlag.Name), nil, c.Duration(timeoutFlag.Name))
	}

	a, err := readAccount(c)
	if err != nil {
		return nil, err
	}

	return newRemoteBlockChain(c.Context, c.String(rpcFlag.Name), a, c.Duration(timeoutFlag.Name))
}
