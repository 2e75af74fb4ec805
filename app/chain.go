package app

import (
	"reflect"

	"github.com/paktum-network/paktum"
)

// Decorators is a partially built middleware stack. It stays inert
// until WithHandler closes it over the handler doing the actual
// settlement work.
type Decorators struct {
	chain []paktum.Decorator
}

/*
ChainDecorators composes the cross-cutting protocol concerns around the
message router. The order given is the execution order, so recovery and
logging go first and the reentrancy guard wraps the router directly:

  app.ChainDecorators(
    utils.NewRecover(),
    utils.NewLogging(),
    utils.NewSavepoint().OnDeliver(),
    escrow.NewReentrancyGuard(),
  ).WithHandler(
    app.NewRouter(),
  )
*/
func ChainDecorators(chain ...paktum.Decorator) Decorators {
	chain = cutoffNil(chain)
	return Decorators{}.Chain(chain...)
}

// Chain appends more decorators at the bottom of the stack, closest to
// the handler.
func (d Decorators) Chain(chain ...paktum.Decorator) Decorators {
	chain = cutoffNil(chain)
	newChain := append(d.chain, chain...)
	return Decorators{newChain}
}

// cutoffNil in-place removes all nil values from the given slice. A
// conditionally disabled decorator can then be passed as nil instead
// of a pass-through stub.
func cutoffNil(ds []paktum.Decorator) []paktum.Decorator {
	var cutoff int
	for i := 0; i < len(ds); i++ {
		ds[i-cutoff] = ds[i]
		if ds[i] == nil || (reflect.ValueOf(ds[i]).Kind() == reflect.Ptr && reflect.ValueOf(ds[i]).IsNil()) {
			cutoff++
		}
	}
	return ds[:len(ds)-cutoff]
}

// WithHandler resolves the stack into a concrete Handler. Every Check
// and Deliver call then runs through the whole decorator chain before
// reaching h.
func (d Decorators) WithHandler(h paktum.Handler) paktum.Handler {
	// wrap from the last decorator to the first, the top of the chain
	// executes first
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step binds one decorator to the rest of the stack below it.
type step struct {
	d    paktum.Decorator
	next paktum.Handler
}

var _ paktum.Handler = step{}

func (s step) Check(ctx paktum.Context, store paktum.KVStore, tx paktum.Tx) (*paktum.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

func (s step) Deliver(ctx paktum.Context, store paktum.KVStore, tx paktum.Tx) (*paktum.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
