package utils

import (
	"github.com/paktum-network/paktum"
	"github.com/paktum-network/paktum/errors"
	"github.com/paktum-network/paktum/store"
)

// Savepoint will isolate all data inside of the call,
// and commit/discard at the end.
// This is meant to be a decorator for whole transactions,
// keeping failed transactions from modifying any state.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ paktum.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator, but you must call
// OnCheck/OnDeliver so it triggers
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on checktx
func (s Savepoint) OnCheck() Savepoint {
	return Savepoint{onCheck: true, onDeliver: s.onDeliver}
}

// OnDeliver returns a savepoint that will trigger on delivertx
func (s Savepoint) OnDeliver() Savepoint {
	return Savepoint{onCheck: s.onCheck, onDeliver: true}
}

// Check will optionally set a checkpoint
func (s Savepoint) Check(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx, next paktum.Checker) (*paktum.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, db, tx)
	}
	cstore, ok := db.(store.CacheableKVStore)
	if !ok {
		return nil, errors.Wrap(errors.ErrType, "need cachable kvstore")
	}
	cache := cstore.CacheWrap()
	res, err := next.Check(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return res, err
	}
	if err := cache.Write(); err != nil {
		return nil, err
	}
	return res, nil
}

// Deliver will optionally set a checkpoint
func (s Savepoint) Deliver(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx, next paktum.Deliverer) (*paktum.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, db, tx)
	}
	cstore, ok := db.(store.CacheableKVStore)
	if !ok {
		return nil, errors.Wrap(errors.ErrType, "need cachable kvstore")
	}
	cache := cstore.CacheWrap()
	res, err := next.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return res, err
	}
	if err := cache.Write(); err != nil {
		return nil, err
	}
	return res, nil
}
