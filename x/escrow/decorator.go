package escrow

import (
	"github.com/paktum-network/paktum"
	"github.com/paktum-network/paktum/errors"
)

// ReentrancyGuard rejects a call targeting an agreement that is
// already being processed further up the stack. Without it a nested
// dispatch could observe a status that was recorded before its backing
// transfer completed.
type ReentrancyGuard struct {
	busy map[string]struct{}
}

var _ paktum.Decorator = (*ReentrancyGuard)(nil)

// NewReentrancyGuard creates a guard with no agreement in flight.
func NewReentrancyGuard() *ReentrancyGuard {
	return &ReentrancyGuard{
		busy: make(map[string]struct{}),
	}
}

func (g *ReentrancyGuard) Check(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx, next paktum.Checker) (*paktum.CheckResult, error) {
	key, err := g.acquire(tx)
	if err != nil {
		return nil, err
	}
	if key != "" {
		defer g.release(key)
	}
	return next.Check(ctx, db, tx)
}

func (g *ReentrancyGuard) Deliver(ctx paktum.Context, db paktum.KVStore, tx paktum.Tx, next paktum.Deliverer) (*paktum.DeliverResult, error) {
	key, err := g.acquire(tx)
	if err != nil {
		return nil, err
	}
	if key != "" {
		defer g.release(key)
	}
	return next.Deliver(ctx, db, tx)
}

// acquire marks the agreement targeted by the transaction as in
// flight. Messages that do not target an agreement pass through with
// an empty key.
func (g *ReentrancyGuard) acquire(tx paktum.Tx) (string, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return "", errors.Wrap(err, "cannot get message")
	}
	ider, ok := msg.(AgreementIDer)
	if !ok {
		return "", nil
	}
	key := string(ider.GetAgreementID())
	if key == "" {
		return "", nil
	}
	if _, inFlight := g.busy[key]; inFlight {
		return "", errors.Wrapf(errors.ErrReentrancy, "agreement %X", key)
	}
	g.busy[key] = struct{}{}
	return key, nil
}

func (g *ReentrancyGuard) release(key string) {
	delete(g.busy, key)
}
