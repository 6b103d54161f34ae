package errors

import (
	"errors"
	"fmt"
)

// Categories.
var (
	ErrValidation  = errors.New("validation failed")
	ErrPersistence = errors.New("persistence failed")
)

// Validation failures. Each one also matches ErrValidation.
var (
	ErrInvalidName      = fmt.Errorf("%w: invalid account name", ErrValidation)
	ErrDuplicateAccount = fmt.Errorf("%w: account already exists", ErrValidation)
	ErrUnknownAccount   = fmt.Errorf("%w: unknown account", ErrValidation)
	ErrUnknownMaterial  = fmt.Errorf("%w: unknown material", ErrValidation)
	ErrUnknownReward    = fmt.Errorf("%w: unknown reward", ErrValidation)
	ErrInvalidWeight    = fmt.Errorf("%w: invalid weight", ErrValidation)
)

// ErrInsufficientBalance is returned when a redemption costs more than the account holds.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Persistence failures. Each one also matches ErrPersistence.
var (
	ErrPersistenceCorrupt = fmt.Errorf("%w: store is corrupt", ErrPersistence)
	ErrPersistenceWrite   = fmt.Errorf("%w: store write failed", ErrPersistence)
)

// InsufficientBalanceError carries the figures behind a rejected redemption.
type InsufficientBalanceError struct {
	Account string
	Reward  string
	Balance float64
	Cost    float64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: account %q has %v points, reward %q costs %v",
		e.Account, e.Balance, e.Reward, e.Cost)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// Subject wraps sentinel with the value that caused it.
func Subject(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)
}
