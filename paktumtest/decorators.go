package paktumtest

import "github.com/paktum-network/paktum"

// Decorator is a mock implementation of the paktum.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned.
// Each method call is counted. Regardless of the method call result the
// counter is incremented.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ paktum.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx, next paktum.Checker) (*paktum.CheckResult, error) {
	d.checkCall++

	if d.CheckErr != nil {
		return &paktum.CheckResult{}, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx, next paktum.Deliverer) (*paktum.DeliverResult, error) {
	d.deliverCall++

	if d.DeliverErr != nil {
		return &paktum.DeliverResult{}, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate wraps the handler with a single decorator and returns it
// as a plain handler.
func Decorate(h paktum.Handler, d paktum.Decorator) paktum.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn paktum.Handler
	dc paktum.Decorator
}

var _ paktum.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx) (*paktum.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
