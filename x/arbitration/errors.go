package arbitration

import "github.com/paktum-network/paktum/errors"

var (
	// ErrAlreadyVoted is returned when a signer votes twice on the same
	// proposal.
	ErrAlreadyVoted = errors.Register(1020, "already voted")

	// ErrProposalExecuted is returned when voting on or executing a
	// proposal that was already executed.
	ErrProposalExecuted = errors.Register(1021, "proposal already executed")

	// ErrInsufficientVotes is returned when executing a proposal that
	// did not reach the quorum.
	ErrInsufficientVotes = errors.Register(1022, "insufficient votes")

	// ErrMajorityNotAchieved is returned when the against votes match
	// or outnumber the votes in favor.
	ErrMajorityNotAchieved = errors.Register(1023, "majority not achieved")

	// ErrTargetSettlement is returned when the fast path settlement was
	// rejected by the target agreement.
	ErrTargetSettlement = errors.Register(1024, "target settlement failed")
)
