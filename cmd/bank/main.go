package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// envFile is loaded on start if it exists. Variables already set in the
// environment are not overridden.
const envFile = ".env"

var (
	rpcFlag = &cli.StringFlag{
		Name:     "rpc",
		Usage:    "network address of the Neo RPC server",
		EnvVars:  []string{"BANK_RPC"},
		Required: true,
	}
	walletFlag = &cli.StringFlag{
		Name:    "wallet",
		Aliases: []string{"w"},
		Usage:   "path to the NEP-6 wallet",
		EnvVars: []string{"BANK_WALLET"},
	}
	accountFlag = &cli.StringFlag{
		Name:    "account",
		Aliases: []string{"a"},
		Usage:   "wallet account address, default one is used if not set",
		EnvVars: []string{"BANK_ACCOUNT"},
	}
	passwordFlag = &cli.StringFlag{
		Name:    "password",
		Usage:   "wallet account password",
		EnvVars: []string{"BANK_PASSWORD"},
	}
	contractFlag = &cli.StringFlag{
		Name:    "contract",
		Usage:   "Bank contract address",
		EnvVars: []string{"BANK_CONTRACT"},
	}
	timeoutFlag = &cli.DurationFlag{
		Name:    "timeout",
		Usage:   "RPC dial and request timeout",
		EnvVars: []string{"BANK_TIMEOUT"},
		Value:   15 * time.Second,
	}
	debugFlag = &cli.BoolFlag{
		Name:    "debug",
		Usage:   "enable debug logging",
		EnvVars: []string{"BANK_DEBUG"},
	}
)

func main() {
	if err := loadEnv(envFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "bank",
		Usage: "manage and use Bank contract",
		Flags: []cli.Flag{
			rpcFlag,
			walletFlag,
			accountFlag,
			passwordFlag,
			contractFlag,
			timeoutFlag,
			debugFlag,
		},
		Commands: []*cli.Command{
			&Deploy,
			&Deposit,
			&Withdraw,
			&Balance,
			&Info,
			&Dump,
		},
	}
}

func loadEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func newLogger(c *cli.Context) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if c.Bool(debugFlag.Name) {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true

	return cfg.Build()
}
