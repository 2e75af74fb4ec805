package escrow

import (
	"fmt"

	common "github.com/tendermint/tendermint/libs/common"

	"github.com/paktum-network/paktum"
	"github.com/paktum-network/paktum/errors"
	"github.com/paktum-network/paktum/x"
	"github.com/paktum-network/paktum/x/cash"
)

const (
	createCost  int64 = 300
	fundCost    int64 = 200
	mutateCost  int64 = 50
	settleCost  int64 = 0
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r paktum.Registry, auth x.Authenticator, bank cash.Controller) {
	ctrl := NewController(bank)

	r.Handle((CreateMsg{}).Path(), CreateHandler{auth: auth, ctrl: ctrl})
	r.Handle((FundMsg{}).Path(), FundHandler{auth: auth, ctrl: ctrl})
	r.Handle((RequestExtensionMsg{}).Path(), RequestExtensionHandler{auth: auth, ctrl: ctrl})
	r.Handle((ApproveExtensionMsg{}).Path(), ApproveExtensionHandler{auth: auth, ctrl: ctrl})
	r.Handle((OpenExtensionDisputeMsg{}).Path(), OpenExtensionDisputeHandler{auth: auth, ctrl: ctrl})
	r.Handle((MarkReadyMsg{}).Path(), MarkReadyHandler{auth: auth, ctrl: ctrl})
	r.Handle((ReleaseMsg{}).Path(), ReleaseHandler{auth: auth, ctrl: ctrl})
	r.Handle((ClaimMsg{}).Path(), ClaimHandler{auth: auth, ctrl: ctrl})
	r.Handle((InitiateDisputeMsg{}).Path(), InitiateDisputeHandler{auth: auth, ctrl: ctrl})
	r.Handle((ResolveMsg{}).Path(), ResolveHandler{auth: auth, ctrl: ctrl})
}

// CreateHandler registers a new unfunded agreement and returns its id.
type CreateHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ paktum.Handler = CreateHandler{}

func (h CreateHandler) Check(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &paktum.CheckResult{GasAllocated: createCost}, nil
}

func (h CreateHandler) Deliver(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}

	seq := NewSeq()
	key, err := seq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire key")
	}

	agreement := &Agreement{
		Buyer:              msg.Buyer,
		Seller:             msg.Seller,
		Arbiter:            msg.Arbiter,
		Ticker:             msg.Ticker,
		Custody:            CustodyCondition(key).Address(),
		FlatFee:            msg.FlatFee,
		FeeRateBp:          msg.FeeRateBp,
		PenaltyRateBp:      msg.PenaltyRateBp,
		CompletionDuration: msg.CompletionDuration,
		ReleaseTimeout:     msg.ReleaseTimeout,
		ResponseTimeout:    msg.ResponseTimeout,
		Status:             StatusUnfunded,
	}
	if err := h.ctrl.save(db, key, agreement); err != nil {
		return nil, errors.Wrap(err, "cannot store agreement")
	}

	res := &paktum.DeliverResult{
		Data: key,
		Tags: tags("created", key,
			paktum.Pair("escrow:buyer", msg.Buyer.String()),
			paktum.Pair("escrow:seller", msg.Seller.String()),
		),
	}
	return res, nil
}

func (h CreateHandler) validate(ctx paktum.Context, tx paktum.Tx) (*CreateMsg, error) {
	var msg CreateMsg
	if err := paktum.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	// any party may register the agreement, but one of them must sign
	if !h.auth.HasAddress(ctx, msg.Buyer) && !h.auth.HasAddress(ctx, msg.Seller) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "neither party signed")
	}
	return &msg, nil
}

// FundHandler deposits the escrowed amount on the buyer's order.
type FundHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ paktum.Handler = FundHandler{}

func (h FundHandler) Check(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paktum.CheckResult{GasAllocated: fundCost}, nil
}

func (h FundHandler) Deliver(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.DeliverResult, error) {
	msg, agreement, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Fund(ctx, db, msg.AgreementID, agreement, msg.Amount, msg.FeeOffer); err != nil {
		return nil, err
	}
	res := &paktum.DeliverResult{
		Tags: tags("funded", msg.AgreementID,
			paktum.Pair("escrow:amount", msg.Amount.String()),
			paktum.Pair("escrow:fee", msg.FeeOffer.String()),
			paktum.Pair("escrow:deadline", agreement.Deadline.String()),
		),
	}
	return res, nil
}

func (h FundHandler) validate(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*FundMsg, *Agreement, error) {
	var msg FundMsg
	if err := paktum.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	agreement, err := h.ctrl.Load(db, msg.AgreementID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, agreement.Buyer) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the buyer can fund")
	}
	return &msg, agreement, nil
}

// RequestExtensionHandler records the seller's ask for more time.
type RequestExtensionHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ paktum.Handler = RequestExtensionHandler{}

func (h RequestExtensionHandler) Check(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paktum.CheckResult{GasAllocated: mutateCost}, nil
}

func (h RequestExtensionHandler) Deliver(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.DeliverResult, error) {
	msg, agreement, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.RequestExtension(ctx, db, msg.AgreementID, agreement, msg.Days); err != nil {
		return nil, err
	}
	res := &paktum.DeliverResult{
		Tags: tags("extension_requested", msg.AgreementID,
			paktum.Pair("escrow:days", fmt.Sprint(msg.Days)),
			paktum.Pair("escrow:requested_at", agreement.ExtensionRequestedAt.String()),
		),
	}
	return res, nil
}

func (h RequestExtensionHandler) validate(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*RequestExtensionMsg, *Agreement, error) {
	var msg RequestExtensionMsg
	if err := paktum.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	agreement, err := h.ctrl.Load(db, msg.AgreementID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, agreement.Seller) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the seller can request an extension")
	}
	return &msg, agreement, nil
}

// ApproveExtensionHandler accepts the pending extension on the buyer's
// order.
type ApproveExtensionHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ paktum.Handler = ApproveExtensionHandler{}

func (h ApproveExtensionHandler) Check(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paktum.CheckResult{GasAllocated: mutateCost}, nil
}

func (h ApproveExtensionHandler) Deliver(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.DeliverResult, error) {
	msg, agreement, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.ApproveExtension(ctx, db, msg.AgreementID, agreement); err != nil {
		return nil, err
	}
	res := &paktum.DeliverResult{
		Tags: tags("extension_approved", msg.AgreementID,
			paktum.Pair("escrow:deadline", agreement.Deadline.String()),
		),
	}
	return res, nil
}

func (h ApproveExtensionHandler) validate(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*ApproveExtensionMsg, *Agreement, error) {
	var msg ApproveExtensionMsg
	if err := paktum.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	agreement, err := h.ctrl.Load(db, msg.AgreementID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, agreement.Buyer) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the buyer can approve")
	}
	return &msg, agreement, nil
}

// OpenExtensionDisputeHandler escalates an ignored extension request.
type OpenExtensionDisputeHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ paktum.Handler = OpenExtensionDisputeHandler{}

func (h OpenExtensionDisputeHandler) Check(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paktum.CheckResult{GasAllocated: mutateCost}, nil
}

func (h OpenExtensionDisputeHandler) Deliver(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.DeliverResult, error) {
	msg, agreement, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.OpenExtensionDispute(ctx, db, msg.AgreementID, agreement); err != nil {
		return nil, err
	}
	res := &paktum.DeliverResult{
		Tags: tags("dispute_initiated", msg.AgreementID,
			paktum.Pair("escrow:initiator", agreement.DisputeInitiator.String()),
			paktum.Pair("escrow:opened_at", agreement.DisputeOpenedAt.String()),
		),
	}
	return res, nil
}

func (h OpenExtensionDisputeHandler) validate(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*OpenExtensionDisputeMsg, *Agreement, error) {
	var msg OpenExtensionDisputeMsg
	if err := paktum.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	agreement, err := h.ctrl.Load(db, msg.AgreementID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, agreement.Seller) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the seller can escalate")
	}
	return &msg, agreement, nil
}

// MarkReadyHandler opens the release window on the seller's order.
type MarkReadyHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ paktum.Handler = MarkReadyHandler{}

func (h MarkReadyHandler) Check(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paktum.CheckResult{GasAllocated: mutateCost}, nil
}

func (h MarkReadyHandler) Deliver(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.DeliverResult, error) {
	msg, agreement, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.MarkReady(ctx, db, msg.AgreementID, agreement); err != nil {
		return nil, err
	}
	res := &paktum.DeliverResult{
		Tags: tags("marked_ready", msg.AgreementID,
			paktum.Pair("escrow:ready_at", agreement.ReadyAt.String()),
			paktum.Pair("escrow:deadline", agreement.Deadline.String()),
		),
	}
	return res, nil
}

func (h MarkReadyHandler) validate(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*MarkReadyMsg, *Agreement, error) {
	var msg MarkReadyMsg
	if err := paktum.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	agreement, err := h.ctrl.Load(db, msg.AgreementID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, agreement.Seller) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the seller can mark ready")
	}
	return &msg, agreement, nil
}

// ReleaseHandler pays out to the seller on the buyer's acceptance.
type ReleaseHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ paktum.Handler = ReleaseHandler{}

func (h ReleaseHandler) Check(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paktum.CheckResult{GasAllocated: settleCost}, nil
}

func (h ReleaseHandler) Deliver(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.DeliverResult, error) {
	msg, agreement, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	paid, penalty, err := h.ctrl.Payout(ctx, db, msg.AgreementID, agreement)
	if err != nil {
		return nil, err
	}
	res := &paktum.DeliverResult{
		Tags: tags("released", msg.AgreementID,
			paktum.Pair("escrow:paid", paid.String()),
			paktum.Pair("escrow:penalty", penalty.String()),
		),
	}
	return res, nil
}

func (h ReleaseHandler) validate(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*ReleaseMsg, *Agreement, error) {
	var msg ReleaseMsg
	if err := paktum.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	agreement, err := h.ctrl.Load(db, msg.AgreementID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, agreement.Buyer) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the buyer can release")
	}
	return &msg, agreement, nil
}

// ClaimHandler pays out to the seller once the release window passed
// without the buyer acting. The deadline boundary is inclusive.
type ClaimHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ paktum.Handler = ClaimHandler{}

func (h ClaimHandler) Check(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paktum.CheckResult{GasAllocated: settleCost}, nil
}

func (h ClaimHandler) Deliver(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.DeliverResult, error) {
	msg, agreement, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	paid, penalty, err := h.ctrl.Payout(ctx, db, msg.AgreementID, agreement)
	if err != nil {
		return nil, err
	}
	res := &paktum.DeliverResult{
		Tags: tags("claimed", msg.AgreementID,
			paktum.Pair("escrow:paid", paid.String()),
			paktum.Pair("escrow:penalty", penalty.String()),
		),
	}
	return res, nil
}

func (h ClaimHandler) validate(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*ClaimMsg, *Agreement, error) {
	var msg ClaimMsg
	if err := paktum.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	agreement, err := h.ctrl.Load(db, msg.AgreementID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, agreement.Seller) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the seller can claim")
	}
	if agreement.Status == StatusReadyForRelease && !paktum.IsExpired(ctx, agreement.Deadline) {
		return nil, nil, errors.Wrapf(errors.ErrTiming, "release window open until %s", agreement.Deadline)
	}
	return &msg, agreement, nil
}

// InitiateDisputeHandler escalates a live agreement on the buyer's
// demand.
type InitiateDisputeHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ paktum.Handler = InitiateDisputeHandler{}

func (h InitiateDisputeHandler) Check(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paktum.CheckResult{GasAllocated: mutateCost}, nil
}

func (h InitiateDisputeHandler) Deliver(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.DeliverResult, error) {
	msg, agreement, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.InitiateDispute(ctx, db, msg.AgreementID, agreement); err != nil {
		return nil, err
	}
	res := &paktum.DeliverResult{
		Tags: tags("dispute_initiated", msg.AgreementID,
			paktum.Pair("escrow:initiator", agreement.DisputeInitiator.String()),
			paktum.Pair("escrow:opened_at", agreement.DisputeOpenedAt.String()),
		),
	}
	return res, nil
}

func (h InitiateDisputeHandler) validate(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*InitiateDisputeMsg, *Agreement, error) {
	var msg InitiateDisputeMsg
	if err := paktum.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	agreement, err := h.ctrl.Load(db, msg.AgreementID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, agreement.Buyer) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the buyer can dispute")
	}
	return &msg, agreement, nil
}

// ResolveHandler settles a dispute on the arbiter's order.
type ResolveHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ paktum.Handler = ResolveHandler{}

func (h ResolveHandler) Check(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &paktum.CheckResult{GasAllocated: settleCost}, nil
}

func (h ResolveHandler) Deliver(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.DeliverResult, error) {
	msg, _, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Resolve(ctx, db, msg.AgreementID, msg.Refund, msg.Release); err != nil {
		return nil, err
	}
	res := &paktum.DeliverResult{
		Tags: tags("dispute_resolved", msg.AgreementID,
			paktum.Pair("escrow:refund", msg.Refund.String()),
			paktum.Pair("escrow:release", msg.Release.String()),
		),
	}
	return res, nil
}

func (h ResolveHandler) validate(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*ResolveMsg, *Agreement, error) {
	var msg ResolveMsg
	if err := paktum.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	agreement, err := h.ctrl.Load(db, msg.AgreementID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, agreement.Arbiter) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the arbiter can resolve")
	}
	return &msg, agreement, nil
}

func tags(action string, agreementID []byte, extra ...common.KVPair) []common.KVPair {
	res := []common.KVPair{
		paktum.Pair("escrow:action", action),
		paktum.Pair("escrow:id", fmt.Sprintf("%X", agreementID)),
	}
	return append(res, extra...)
}
