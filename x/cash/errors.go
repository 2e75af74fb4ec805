package cash

import "github.com/paktum-network/paktum/errors"

var (
	// ErrInsufficientAllowance is returned when a spender tries to move
	// more than the owner granted.
	ErrInsufficientAllowance = errors.Register(1000, "insufficient allowance")
)
