package arbitration

import (
	"github.com/paktum-network/paktum"
)

// HasVoted returns true when the given address already voted on the
// proposal.
func HasVoted(db paktum.ReadOnlyKVStore, proposalID []byte, addr paktum.Address) (bool, error) {
	var proposal Proposal
	if err := NewProposalBucket().One(db, proposalID, &proposal); err != nil {
		return false, err
	}
	return proposal.HasVoted(addr), nil
}

// Signers returns the current body membership. The order carries no
// meaning.
func Signers(db paktum.ReadOnlyKVStore) ([]paktum.Address, error) {
	set, err := loadSignerSet(db)
	if err != nil {
		return nil, err
	}
	return set.Signers, nil
}

// Quorum returns the number of affirmative votes needed to execute a
// proposal.
func Quorum(db paktum.ReadOnlyKVStore) (int32, error) {
	set, err := loadSignerSet(db)
	if err != nil {
		return 0, err
	}
	return set.Quorum, nil
}
