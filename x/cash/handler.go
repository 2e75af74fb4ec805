package cash

import (
	common "github.com/tendermint/tendermint/libs/common"

	"github.com/paktum-network/paktum"
	"github.com/paktum-network/paktum/errors"
	"github.com/paktum-network/paktum/x"
)

const (
	sendCost         int64 = 100
	setAllowanceCost int64 = 50
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r paktum.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle((SendMsg{}).Path(), SendHandler{auth: auth, ctrl: ctrl})
	r.Handle((SetAllowanceMsg{}).Path(), SetAllowanceHandler{auth: auth, ctrl: ctrl})
}

// SendHandler moves value between wallets on behalf of the source
// account.
type SendHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ paktum.Handler = SendHandler{}

func (h SendHandler) Check(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &paktum.CheckResult{GasAllocated: sendCost}, nil
}

func (h SendHandler) Deliver(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.MoveCoins(db, msg.Src, msg.Dest, msg.Amount); err != nil {
		return nil, err
	}
	res := &paktum.DeliverResult{
		Tags: []common.KVPair{
			paktum.Pair("cash:action", "send"),
			paktum.Pair("cash:src", msg.Src.String()),
			paktum.Pair("cash:dest", msg.Dest.String()),
			paktum.Pair("cash:amount", msg.Amount.String()),
		},
	}
	return res, nil
}

func (h SendHandler) validate(ctx paktum.Context, tx paktum.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := paktum.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, msg.Src) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source not signed")
	}
	return &msg, nil
}

// SetAllowanceHandler lets a wallet owner grant a spender allowance.
type SetAllowanceHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ paktum.Handler = SetAllowanceHandler{}

func (h SetAllowanceHandler) Check(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &paktum.CheckResult{GasAllocated: setAllowanceCost}, nil
}

func (h SetAllowanceHandler) Deliver(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.SetAllowance(db, msg.Owner, msg.Spender, msg.Amount); err != nil {
		return nil, err
	}
	return &paktum.DeliverResult{}, nil
}

func (h SetAllowanceHandler) validate(ctx paktum.Context, tx paktum.Tx) (*SetAllowanceMsg, error) {
	var msg SetAllowanceMsg
	if err := paktum.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, msg.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner not signed")
	}
	return &msg, nil
}
