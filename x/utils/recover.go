package utils

import (
	"github.com/paktum-network/paktum"
	"github.com/paktum-network/paktum/errors"
)

// Recover catches any panic in transaction processing
// and returns it as an error
type Recover struct{}

var _ paktum.Decorator = Recover{}

// NewRecover creates a Recover decorator
func NewRecover() Recover {
	return Recover{}
}

// Check turns panics into normal errors
func (r Recover) Check(ctx paktum.Context, store paktum.KVStore, tx paktum.Tx, next paktum.Checker) (res *paktum.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recover) Deliver(ctx paktum.Context, store paktum.KVStore, tx paktum.Tx, next paktum.Deliverer) (res *paktum.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
