package bank

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/bank-contract/contracts/bank/bankconst"
)

// Errors thrown by the contract. Use ParseFault to get them from the
// invocation errors.
var (
	ErrInvalidAddress     = errors.New(bankconst.ErrInvalidAddress)
	ErrInvalidAmount      = errors.New(bankconst.ErrInvalidAmount)
	ErrUnauthorized       = errors.New(bankconst.ErrUnauthorized)
	ErrInsufficientFunds  = errors.New(bankconst.ErrInsufficientFunds)
	ErrArithmeticOverflow = errors.New(bankconst.ErrArithmeticOverflow)
	ErrTransferFailed     = errors.New(bankconst.ErrTransferFailed)
)

var contractErrors = []error{
	ErrInvalidAddress,
	ErrInvalidAmount,
	ErrUnauthorized,
	ErrInsufficientFunds,
	ErrArithmeticOverflow,
	ErrTransferFailed,
}

// ParseFault checks whether err (or the fault exception text it carries)
// is caused by one of the contract errors and wraps it with the
// corresponding sentinel error so it can be checked with [errors.Is].
// Other errors are returned as is, nil stays nil.
func ParseFault(err error) error {
	if err == nil {
		return nil
	}
	return ParseFaultException(err.Error(), err)
}

// ParseFaultException is the same as ParseFault for raw FAULT exception
// message (e.g. [state.Execution.FaultException]). cause is returned when
// the message doesn't match any contract error and may be nil.
func ParseFaultException(exception string, cause error) error {
	for _, e := range contractErrors {
		if !strings.Contains(exception, e.Error()) {
			continue
		}
		if cause == nil {
			return fmt.Errorf("%w: %s", e, exception)
		}
		return fmt.Errorf("%w: %w", e, cause)
	}

	if cause == nil && exception != "" {
		return errors.New(exception)
	}
	return cause
}
