package bankconst

const (
	// ConfigKey is a storage key of the serialized contract configuration.
	ConfigKey = "config"
	// BalancesPrefix is a storage key prefix of account balances. It is
	// followed by 20-byte account script hash.
	BalancesPrefix = "balances"
	// TotalKey is a storage key of the sum of all account balances.
	TotalKey = "total"

	// MaxBalance is the largest amount a single account can hold (2^128-1).
	// Decimal string form is used since it does not fit into int64.
	MaxBalance = "340282366920938463463374607431768211455"

	// ErrInvalidAddress is thrown when malformed account or contract
	// address is passed.
	ErrInvalidAddress = "invalid address"
	// ErrInvalidAmount is thrown on negative amounts.
	ErrInvalidAmount = "invalid amount"
	// ErrUnauthorized is thrown when deposit notification comes from any
	// contract other than the accepted token.
	ErrUnauthorized = "unauthorized"
	// ErrInsufficientFunds is thrown when withdrawal amount exceeds account
	// balance.
	ErrInsufficientFunds = "insufficient funds"
	// ErrArithmeticOverflow is thrown when deposit makes account balance
	// exceed MaxBalance.
	ErrArithmeticOverflow = "arithmetic overflow"
	// ErrTransferFailed is thrown when accepted token refuses to pay out
	// withdrawn funds.
	ErrTransferFailed = "token transfer failed"
)
