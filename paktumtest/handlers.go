package paktumtest

import "github.com/paktum-network/paktum"

type Handler struct {
	checkCall   int
	CheckResult paktum.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult paktum.DeliverResult
	DeliverErr    error
}

var _ paktum.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.CheckResult, error) {
	h.checkCall++
	return &h.CheckResult, h.CheckErr
}

func (h *Handler) Deliver(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.DeliverResult, error) {
	h.deliverCall++
	return &h.DeliverResult, h.DeliverErr
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
