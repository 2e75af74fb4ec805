package arbitration

import (
	"fmt"

	common "github.com/tendermint/tendermint/libs/common"

	"github.com/paktum-network/paktum"
	"github.com/paktum-network/paktum/errors"
	"github.com/paktum-network/paktum/orm"
	"github.com/paktum-network/paktum/x"
	"github.com/paktum-network/paktum/x/cash"
	"github.com/paktum-network/paktum/x/escrow"
)

const (
	proposalCost int64 = 100
	voteCost     int64 = 50
	executeCost  int64 = 200
	settleCost   int64 = 0
)

// RegisterRoutes will instantiate and register all handlers in this
// package. The engine is the escrow capability the fast path routes
// through, on the body's authority.
func RegisterRoutes(r paktum.Registry, auth x.Authenticator, bank cash.Controller, engine escrow.Arbitrator) {
	signers := NewSignerBucket()
	proposals := NewProposalBucket()

	r.Handle((CreateProposalMsg{}).Path(), CreateProposalHandler{auth: auth, proposals: proposals})
	r.Handle((VoteMsg{}).Path(), VoteHandler{auth: auth, proposals: proposals})
	r.Handle((ExecuteProposalMsg{}).Path(), ExecuteProposalHandler{auth: auth, signers: signers, proposals: proposals, bank: bank})
	r.Handle((FastPathSettleMsg{}).Path(), FastPathSettleHandler{auth: auth, arbitrator: bodyArbitrator{engine: engine}})
}

// signingMember returns the signer condition authorized by the context
// that is a member of the body.
func signingMember(ctx paktum.Context, auth x.Authenticator, set *SignerSet) (paktum.Address, error) {
	for _, c := range auth.GetConditions(ctx) {
		if set.Has(c.Address()) {
			return c.Address(), nil
		}
	}
	return nil, errors.Wrap(errors.ErrUnauthorized, "not a signer")
}

// CreateProposalHandler opens a proposal on a signer's order.
type CreateProposalHandler struct {
	auth      x.Authenticator
	proposals orm.ModelBucket
}

var _ paktum.Handler = CreateProposalHandler{}

func (h CreateProposalHandler) Check(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paktum.CheckResult{GasAllocated: proposalCost}, nil
}

func (h CreateProposalHandler) Deliver(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.DeliverResult, error) {
	msg, _, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	seq := NewProposalSeq()
	key, err := seq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire key")
	}

	proposal := &Proposal{
		Kind:      msg.Kind,
		Target:    msg.Target,
		NewQuorum: msg.NewQuorum,
		Amount:    msg.Amount,
	}
	if err := h.proposals.Put(db, key, proposal); err != nil {
		return nil, errors.Wrap(err, "cannot store proposal")
	}

	res := &paktum.DeliverResult{
		Data: key,
		Tags: tags("proposal_created", key,
			paktum.Pair("arbitration:kind", msg.Kind.String()),
		),
	}
	return res, nil
}

func (h CreateProposalHandler) validate(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*CreateProposalMsg, paktum.Address, error) {
	var msg CreateProposalMsg
	if err := paktum.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	set, err := loadSignerSet(db)
	if err != nil {
		return nil, nil, err
	}
	signer, err := signingMember(ctx, h.auth, set)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}

// VoteHandler records one vote per signer per proposal.
type VoteHandler struct {
	auth      x.Authenticator
	proposals orm.ModelBucket
}

var _ paktum.Handler = VoteHandler{}

func (h VoteHandler) Check(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paktum.CheckResult{GasAllocated: voteCost}, nil
}

func (h VoteHandler) Deliver(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.DeliverResult, error) {
	msg, proposal, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if msg.Support {
		proposal.VotesFor++
	} else {
		proposal.VotesAgainst++
	}
	proposal.Voters = append(proposal.Voters, signer)
	if err := h.proposals.Put(db, msg.ProposalID, proposal); err != nil {
		return nil, errors.Wrap(err, "cannot store proposal")
	}

	res := &paktum.DeliverResult{
		Tags: tags("voted", msg.ProposalID,
			paktum.Pair("arbitration:voter", signer.String()),
			paktum.Pair("arbitration:support", fmt.Sprint(msg.Support)),
		),
	}
	return res, nil
}

func (h VoteHandler) validate(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*VoteMsg, *Proposal, paktum.Address, error) {
	var msg VoteMsg
	if err := paktum.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, err
	}
	set, err := loadSignerSet(db)
	if err != nil {
		return nil, nil, nil, err
	}
	signer, err := signingMember(ctx, h.auth, set)
	if err != nil {
		return nil, nil, nil, err
	}
	var proposal Proposal
	if err := h.proposals.One(db, msg.ProposalID, &proposal); err != nil {
		return nil, nil, nil, err
	}
	if proposal.Executed {
		return nil, nil, nil, errors.Wrapf(ErrProposalExecuted, "proposal %X", msg.ProposalID)
	}
	if proposal.HasVoted(signer) {
		return nil, nil, nil, errors.Wrapf(ErrAlreadyVoted, "signer %s", signer)
	}
	return &msg, &proposal, signer, nil
}

// ExecuteProposalHandler applies the proposal effect once the tally
// carries it.
type ExecuteProposalHandler struct {
	auth      x.Authenticator
	signers   orm.ModelBucket
	proposals orm.ModelBucket
	bank      cash.Controller
}

var _ paktum.Handler = ExecuteProposalHandler{}

func (h ExecuteProposalHandler) Check(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paktum.CheckResult{GasAllocated: executeCost}, nil
}

func (h ExecuteProposalHandler) Deliver(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.DeliverResult, error) {
	msg, proposal, set, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	switch proposal.Kind {
	case KindAddSigner:
		if err := set.Add(proposal.Target); err != nil {
			return nil, err
		}
	case KindRemoveSigner:
		if err := set.Remove(proposal.Target); err != nil {
			return nil, err
		}
	case KindUpdateQuorum:
		if proposal.NewQuorum < 1 || int(proposal.NewQuorum) > len(set.Signers) {
			return nil, errors.Wrapf(errors.ErrInput, "quorum %d with %d signers", proposal.NewQuorum, len(set.Signers))
		}
		set.Quorum = proposal.NewQuorum
	case KindWithdrawFees:
		if err := h.bank.MoveCoins(db, BodyCondition().Address(), proposal.Target, proposal.Amount); err != nil {
			return nil, errors.Wrap(err, "fee withdrawal")
		}
	default:
		return nil, errors.Wrapf(errors.ErrState, "kind %d", proposal.Kind)
	}

	if proposal.Kind != KindWithdrawFees {
		if err := h.signers.Put(db, signerSetKey, set); err != nil {
			return nil, errors.Wrap(err, "cannot store signer set")
		}
	}
	proposal.Executed = true
	if err := h.proposals.Put(db, msg.ProposalID, proposal); err != nil {
		return nil, errors.Wrap(err, "cannot store proposal")
	}

	res := &paktum.DeliverResult{
		Tags: tags("proposal_executed", msg.ProposalID,
			paktum.Pair("arbitration:kind", proposal.Kind.String()),
		),
	}
	return res, nil
}

func (h ExecuteProposalHandler) validate(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*ExecuteProposalMsg, *Proposal, *SignerSet, error) {
	var msg ExecuteProposalMsg
	if err := paktum.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, err
	}
	set, err := loadSignerSet(db)
	if err != nil {
		return nil, nil, nil, err
	}
	if _, err := signingMember(ctx, h.auth, set); err != nil {
		return nil, nil, nil, err
	}
	var proposal Proposal
	if err := h.proposals.One(db, msg.ProposalID, &proposal); err != nil {
		return nil, nil, nil, err
	}
	if proposal.Executed {
		return nil, nil, nil, errors.Wrapf(ErrProposalExecuted, "proposal %X", msg.ProposalID)
	}
	if proposal.VotesFor < set.Quorum {
		return nil, nil, nil, errors.Wrapf(ErrInsufficientVotes, "%d of %d", proposal.VotesFor, set.Quorum)
	}
	if proposal.VotesFor <= proposal.VotesAgainst {
		return nil, nil, nil, errors.Wrapf(ErrMajorityNotAchieved, "%d for, %d against", proposal.VotesFor, proposal.VotesAgainst)
	}
	return &msg, &proposal, set, nil
}

// FastPathSettleHandler lets any single signer settle a dispute
// directly, without a proposal. Settlement only reaches agreements
// that appointed the body as their arbiter.
type FastPathSettleHandler struct {
	auth       x.Authenticator
	arbitrator escrow.Arbitrator
}

var _ paktum.Handler = FastPathSettleHandler{}

func (h FastPathSettleHandler) Check(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paktum.CheckResult{GasAllocated: settleCost}, nil
}

func (h FastPathSettleHandler) Deliver(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.arbitrator.Resolve(ctx, db, msg.AgreementID, msg.Refund, msg.Release); err != nil {
		return nil, errors.Wrapf(ErrTargetSettlement, "%v", err)
	}
	res := &paktum.DeliverResult{
		Tags: []common.KVPair{
			paktum.Pair("arbitration:action", "fast_path_settled"),
			paktum.Pair("arbitration:agreement", fmt.Sprintf("%X", msg.AgreementID)),
			paktum.Pair("arbitration:refund", msg.Refund.String()),
			paktum.Pair("arbitration:release", msg.Release.String()),
		},
	}
	return res, nil
}

func (h FastPathSettleHandler) validate(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*FastPathSettleMsg, error) {
	var msg FastPathSettleMsg
	if err := paktum.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	set, err := loadSignerSet(db)
	if err != nil {
		return nil, err
	}
	if _, err := signingMember(ctx, h.auth, set); err != nil {
		return nil, err
	}
	return &msg, nil
}

func tags(action string, proposalID []byte, extra ...common.KVPair) []common.KVPair {
	res := []common.KVPair{
		paktum.Pair("arbitration:action", action),
		paktum.Pair("arbitration:proposal", fmt.Sprintf("%X", proposalID)),
	}
	return append(res, extra...)
}
