package arbitration

import (
	"fmt"

	"github.com/tendermint/go-amino"

	"github.com/paktum-network/paktum"
	"github.com/paktum-network/paktum/coin"
	"github.com/paktum-network/paktum/errors"
	"github.com/paktum-network/paktum/orm"
)

var cdc = amino.NewCodec()

// signerSetKey is the fixed key of the one SignerSet record.
var signerSetKey = []byte("signers")

// SignerSet is the body membership: unique signer accounts and the
// quorum needed to execute a proposal. The 1 <= quorum <= |signers|
// bound holds on every mutation.
type SignerSet struct {
	Signers []paktum.Address
	Quorum  int32
}

var _ orm.Model = (*SignerSet)(nil)

func (s *SignerSet) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(s)
}

func (s *SignerSet) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, s)
}

func (s *SignerSet) Validate() error {
	if len(s.Signers) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no signers")
	}
	seen := make(map[string]struct{}, len(s.Signers))
	for _, a := range s.Signers {
		if err := a.Validate(); err != nil {
			return errors.Wrap(err, "signer")
		}
		if _, ok := seen[string(a)]; ok {
			return errors.Wrapf(errors.ErrDuplicate, "signer %s", a)
		}
		seen[string(a)] = struct{}{}
	}
	if s.Quorum < 1 || int(s.Quorum) > len(s.Signers) {
		return errors.Wrapf(errors.ErrInput, "quorum %d with %d signers", s.Quorum, len(s.Signers))
	}
	return nil
}

// Has returns true if the address is a member.
func (s *SignerSet) Has(addr paktum.Address) bool {
	for _, a := range s.Signers {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

// Add appends a new member.
func (s *SignerSet) Add(addr paktum.Address) error {
	if s.Has(addr) {
		return errors.Wrapf(errors.ErrDuplicate, "signer %s", addr)
	}
	s.Signers = append(s.Signers, addr)
	return nil
}

// Remove drops a member using swap and pop, the remaining order is not
// preserved. Removal that would push the quorum out of bounds is
// rejected.
func (s *SignerSet) Remove(addr paktum.Address) error {
	for i, a := range s.Signers {
		if !a.Equals(addr) {
			continue
		}
		if int(s.Quorum) > len(s.Signers)-1 {
			return errors.Wrapf(errors.ErrInput, "quorum %d cannot be met by %d signers", s.Quorum, len(s.Signers)-1)
		}
		last := len(s.Signers) - 1
		s.Signers[i] = s.Signers[last]
		s.Signers = s.Signers[:last]
		return nil
	}
	return errors.Wrapf(errors.ErrNotFound, "signer %s", addr)
}

// ProposalKind selects the effect of an executed proposal.
type ProposalKind int32

const (
	KindAddSigner    ProposalKind = 1
	KindRemoveSigner ProposalKind = 2
	KindUpdateQuorum ProposalKind = 3
	KindWithdrawFees ProposalKind = 4
)

func (k ProposalKind) String() string {
	switch k {
	case KindAddSigner:
		return "add_signer"
	case KindRemoveSigner:
		return "remove_signer"
	case KindUpdateQuorum:
		return "update_quorum"
	case KindWithdrawFees:
		return "withdraw_fees"
	default:
		return fmt.Sprintf("invalid(%d)", int32(k))
	}
}

func (k ProposalKind) validate() error {
	if k < KindAddSigner || k > KindWithdrawFees {
		return errors.Wrapf(errors.ErrInput, "kind %d", int32(k))
	}
	return nil
}

// Proposal is one pending governance action. The payload is fixed at
// creation, only the tally and the executed flag change afterwards.
type Proposal struct {
	Kind ProposalKind

	// Target is the signer to add or remove, or the withdrawal
	// recipient.
	Target    paktum.Address
	NewQuorum int32
	Amount    coin.Coin

	VotesFor     int32
	VotesAgainst int32
	Voters       []paktum.Address
	Executed     bool
}

var _ orm.Model = (*Proposal)(nil)

func (p *Proposal) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(p)
}

func (p *Proposal) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, p)
}

func (p *Proposal) Validate() error {
	if err := p.Kind.validate(); err != nil {
		return err
	}
	switch p.Kind {
	case KindAddSigner, KindRemoveSigner:
		if err := p.Target.Validate(); err != nil {
			return errors.Wrap(err, "target")
		}
	case KindUpdateQuorum:
		if p.NewQuorum < 1 {
			return errors.Wrapf(errors.ErrInput, "quorum %d", p.NewQuorum)
		}
	case KindWithdrawFees:
		if err := p.Target.Validate(); err != nil {
			return errors.Wrap(err, "target")
		}
		if !p.Amount.IsPositive() {
			return errors.Wrap(errors.ErrAmount, "non-positive withdrawal")
		}
		if err := p.Amount.Validate(); err != nil {
			return errors.Wrap(err, "amount")
		}
	}
	if p.VotesFor < 0 || p.VotesAgainst < 0 {
		return errors.Wrap(errors.ErrState, "negative tally")
	}
	if int(p.VotesFor)+int(p.VotesAgainst) != len(p.Voters) {
		return errors.Wrap(errors.ErrState, "tally out of sync with voters")
	}
	return nil
}

// HasVoted returns true if the address already cast a vote.
func (p *Proposal) HasVoted(addr paktum.Address) bool {
	for _, a := range p.Voters {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

// NewSignerBucket returns the bucket holding the singleton signer set.
func NewSignerBucket() orm.ModelBucket {
	return orm.NewModelBucket("arbsigners")
}

// NewProposalBucket returns the bucket of all proposals.
func NewProposalBucket() orm.ModelBucket {
	return orm.NewModelBucket("arbprop")
}

// NewProposalSeq returns the proposal id sequence.
func NewProposalSeq() orm.Sequence {
	return orm.NewSequence("arbprop", "id")
}

// BodyCondition owns the body account that collects arbitration fees.
func BodyCondition() paktum.Condition {
	return paktum.NewCondition("arbit", "body", []byte("fees"))
}

// Initialize stores the initial signer set. It fails when a set is
// already present so genesis cannot overwrite a live body.
func Initialize(db paktum.KVStore, set SignerSet) error {
	bucket := NewSignerBucket()
	switch has, err := bucket.Has(db, signerSetKey); {
	case err != nil:
		return err
	case has:
		return errors.Wrap(errors.ErrImmutable, "signer set exists")
	}
	return bucket.Put(db, signerSetKey, &set)
}

func loadSignerSet(db paktum.ReadOnlyKVStore) (*SignerSet, error) {
	var set SignerSet
	if err := NewSignerBucket().One(db, signerSetKey, &set); err != nil {
		return nil, err
	}
	return &set, nil
}
