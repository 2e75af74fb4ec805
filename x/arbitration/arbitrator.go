package arbitration

import (
	"github.com/paktum-network/paktum"
	"github.com/paktum-network/paktum/coin"
	"github.com/paktum-network/paktum/errors"
	"github.com/paktum-network/paktum/x/escrow"
)

// bodyArbitrator is the governance routed arbitrator. It resolves
// disputes with the body's authority and refuses agreements that
// appointed a different arbiter, exactly as the direct resolve path
// would refuse a signature that is not the appointed account.
type bodyArbitrator struct {
	engine escrow.Arbitrator
}

var _ escrow.Arbitrator = bodyArbitrator{}

func (b bodyArbitrator) Resolve(ctx paktum.Context, db paktum.KVStore, agreementID []byte, refund, release coin.Coin) error {
	_, _, arbiter, err := escrow.Parties(db, agreementID)
	if err != nil {
		return err
	}
	if !arbiter.Equals(BodyCondition().Address()) {
		return errors.Wrapf(errors.ErrUnauthorized, "agreement appointed %s", arbiter)
	}
	return b.engine.Resolve(ctx, db, agreementID, refund, release)
}
