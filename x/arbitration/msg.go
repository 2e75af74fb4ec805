package arbitration

import (
	"github.com/paktum-network/paktum"
	"github.com/paktum-network/paktum/coin"
	"github.com/paktum-network/paktum/errors"
)

var (
	_ paktum.Msg = (*CreateProposalMsg)(nil)
	_ paktum.Msg = (*VoteMsg)(nil)
	_ paktum.Msg = (*ExecuteProposalMsg)(nil)
	_ paktum.Msg = (*FastPathSettleMsg)(nil)
)

func validateProposalID(id []byte) error {
	if len(id) != 8 {
		return errors.Wrapf(errors.ErrInput, "proposal id must be 8 bytes, got %d", len(id))
	}
	return nil
}

// CreateProposalMsg opens a new governance proposal. Only a signer may
// create one, the id of the created proposal is returned in the
// delivery data.
type CreateProposalMsg struct {
	Kind      ProposalKind
	Target    paktum.Address
	NewQuorum int32
	Amount    coin.Coin
}

func (CreateProposalMsg) Path() string {
	return "arbitration/create_proposal"
}

func (m *CreateProposalMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *CreateProposalMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *CreateProposalMsg) Validate() error {
	p := Proposal{
		Kind:      m.Kind,
		Target:    m.Target,
		NewQuorum: m.NewQuorum,
		Amount:    m.Amount,
	}
	return p.Validate()
}

// VoteMsg casts the signer's vote on a pending proposal.
type VoteMsg struct {
	ProposalID []byte
	Support    bool
}

func (VoteMsg) Path() string {
	return "arbitration/vote"
}

func (m *VoteMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *VoteMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *VoteMsg) Validate() error {
	return validateProposalID(m.ProposalID)
}

// ExecuteProposalMsg applies a proposal that gathered enough support.
type ExecuteProposalMsg struct {
	ProposalID []byte
}

func (ExecuteProposalMsg) Path() string {
	return "arbitration/execute_proposal"
}

func (m *ExecuteProposalMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ExecuteProposalMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *ExecuteProposalMsg) Validate() error {
	return validateProposalID(m.ProposalID)
}

// FastPathSettleMsg settles a disputed escrow agreement on a single
// signer's order, without going through the proposal pipeline.
type FastPathSettleMsg struct {
	AgreementID []byte
	Refund      coin.Coin
	Release     coin.Coin
}

func (FastPathSettleMsg) Path() string {
	return "arbitration/fast_path_settle"
}

func (m *FastPathSettleMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *FastPathSettleMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *FastPathSettleMsg) Validate() error {
	if len(m.AgreementID) != 8 {
		return errors.Wrapf(errors.ErrInput, "agreement id must be 8 bytes, got %d", len(m.AgreementID))
	}
	if err := m.Refund.Validate(); err != nil {
		return errors.Wrap(err, "refund")
	}
	if err := m.Release.Validate(); err != nil {
		return errors.Wrap(err, "release")
	}
	if !m.Refund.IsNonNegative() || !m.Release.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative split")
	}
	if !m.Refund.SameType(m.Release) {
		return errors.Wrap(errors.ErrCurrency, "refund and release ticker")
	}
	return nil
}
