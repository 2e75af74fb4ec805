package escrow

import "github.com/paktum-network/paktum/errors"

var (
	// ErrAlreadyFunded is returned when funding an agreement that left
	// the unfunded state.
	ErrAlreadyFunded = errors.Register(1010, "already funded")

	// ErrInsufficientFee is returned when the offered fee is below the
	// computed minimum.
	ErrInsufficientFee = errors.Register(1011, "insufficient fee")

	// ErrSettlementSplit is returned when a dispute settlement does not
	// pay out exactly the escrowed amount.
	ErrSettlementSplit = errors.Register(1012, "settlement does not conserve the escrowed amount")
)
