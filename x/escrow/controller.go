package escrow

import (
	"time"

	"github.com/paktum-network/paktum"
	"github.com/paktum-network/paktum/coin"
	"github.com/paktum-network/paktum/errors"
	"github.com/paktum-network/paktum/orm"
	"github.com/paktum-network/paktum/x/cash"
	"github.com/paktum-network/paktum/x/fee"
)

// Arbitrator resolves a disputed agreement by splitting the escrowed
// amount. The controller is the direct implementation, gated on the
// appointed arbiter account by the resolve handler. The arbitration
// body wraps it with its own routing.
type Arbitrator interface {
	Resolve(ctx paktum.Context, db paktum.KVStore, agreementID []byte, refund, release coin.Coin) error
}

// Controller implements the agreement state transitions. Handlers do
// authorization and delegate the mutation here.
type Controller struct {
	bucket orm.ModelBucket
	bank   cash.Controller
}

var _ Arbitrator = Controller{}

// NewController returns a controller operating on the standard
// agreement bucket.
func NewController(bank cash.Controller) Controller {
	return Controller{
		bucket: NewBucket(),
		bank:   bank,
	}
}

// Load returns the agreement stored under the given id.
func (c Controller) Load(db paktum.ReadOnlyKVStore, agreementID []byte) (*Agreement, error) {
	var a Agreement
	if err := c.bucket.One(db, agreementID, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c Controller) save(db paktum.KVStore, agreementID []byte, a *Agreement) error {
	return c.bucket.Put(db, agreementID, a)
}

// Fund deposits amount into custody and pays the fee offer to the
// arbiter. The fee offer must cover at least the configured minimum.
func (c Controller) Fund(ctx paktum.Context, db paktum.KVStore, agreementID []byte, a *Agreement, amount, feeOffer coin.Coin) error {
	if a.Status != StatusUnfunded {
		return errors.Wrapf(ErrAlreadyFunded, "status %s", a.Status)
	}
	if amount.Ticker != a.Ticker {
		return errors.Wrapf(errors.ErrCurrency, "want %s, got %s", a.Ticker, amount.Ticker)
	}
	minFee, err := fee.SettlementFee(a.FlatFee, a.FeeRateBp, amount)
	if err != nil {
		return err
	}
	if !feeOffer.IsGTE(minFee) {
		return errors.Wrapf(ErrInsufficientFee, "offered %s, want at least %s", feeOffer, minFee)
	}

	if feeOffer.IsPositive() {
		if err := c.bank.MoveCoins(db, a.Buyer, a.Arbiter, feeOffer); err != nil {
			return errors.Wrap(err, "fee transfer")
		}
	}
	if err := c.bank.MoveCoins(db, a.Buyer, a.Custody, amount); err != nil {
		return errors.Wrap(err, "custody transfer")
	}

	now, err := paktum.BlockTime(ctx)
	if err != nil {
		return err
	}
	a.Escrowed = amount
	a.Deadline = paktum.AsUnixTime(now).Add(a.CompletionDuration.Duration())
	a.OriginalDeadline = a.Deadline
	a.move(StatusInProgress)
	return c.save(db, agreementID, a)
}

// RequestExtension records the seller's ask for more days.
func (c Controller) RequestExtension(ctx paktum.Context, db paktum.KVStore, agreementID []byte, a *Agreement, days int32) error {
	if a.Status != StatusInProgress {
		return errors.Wrapf(errors.ErrState, "cannot request extension while %s", a.Status)
	}
	now, err := paktum.BlockTime(ctx)
	if err != nil {
		return err
	}
	a.ExtensionDays = days
	a.ExtensionRequestedAt = paktum.AsUnixTime(now)
	a.move(StatusExtensionRequested)
	return c.save(db, agreementID, a)
}

// ApproveExtension moves the deadline forward by the pending request.
// The new deadline is counted from now or from the original deadline,
// whichever is later, so approving early never shortens the window.
func (c Controller) ApproveExtension(ctx paktum.Context, db paktum.KVStore, agreementID []byte, a *Agreement) error {
	if a.Status != StatusExtensionRequested {
		return errors.Wrapf(errors.ErrState, "no extension requested while %s", a.Status)
	}
	now, err := paktum.BlockTime(ctx)
	if err != nil {
		return err
	}
	base := paktum.AsUnixTime(now)
	if a.OriginalDeadline > base {
		base = a.OriginalDeadline
	}
	a.Deadline = base.Add(days(a.ExtensionDays))
	a.ApprovedDeadline = a.Deadline
	a.ApprovedAt = paktum.AsUnixTime(now)
	a.ExtensionDays = 0
	a.ExtensionRequestedAt = 0
	a.move(StatusInProgress)
	return c.save(db, agreementID, a)
}

// OpenExtensionDispute escalates an unanswered extension request. The
// buyer gets the whole response window, boundary inclusive.
func (c Controller) OpenExtensionDispute(ctx paktum.Context, db paktum.KVStore, agreementID []byte, a *Agreement) error {
	if a.Status != StatusExtensionRequested {
		return errors.Wrapf(errors.ErrState, "no extension requested while %s", a.Status)
	}
	respondBy := a.ExtensionRequestedAt.Add(a.ResponseTimeout.Duration())
	if !paktum.IsExpired(ctx, respondBy) {
		return errors.Wrapf(errors.ErrTiming, "response window open until %s", respondBy)
	}
	return c.openDispute(ctx, db, agreementID, a, a.Seller)
}

// InitiateDispute escalates a live agreement on the buyer's demand.
func (c Controller) InitiateDispute(ctx paktum.Context, db paktum.KVStore, agreementID []byte, a *Agreement) error {
	switch a.Status {
	case StatusInProgress, StatusExtensionRequested, StatusReadyForRelease:
	default:
		return errors.Wrapf(errors.ErrState, "cannot dispute while %s", a.Status)
	}
	return c.openDispute(ctx, db, agreementID, a, a.Buyer)
}

func (c Controller) openDispute(ctx paktum.Context, db paktum.KVStore, agreementID []byte, a *Agreement, initiator paktum.Address) error {
	now, err := paktum.BlockTime(ctx)
	if err != nil {
		return err
	}
	a.DisputeInitiator = initiator
	a.DisputeOpenedAt = paktum.AsUnixTime(now)
	a.ExtensionDays = 0
	a.ExtensionRequestedAt = 0
	a.move(StatusDisputed)
	return c.save(db, agreementID, a)
}

// MarkReady declares the deliverable done and opens the release
// window.
func (c Controller) MarkReady(ctx paktum.Context, db paktum.KVStore, agreementID []byte, a *Agreement) error {
	if a.Status != StatusInProgress {
		return errors.Wrapf(errors.ErrState, "cannot mark ready while %s", a.Status)
	}
	now, err := paktum.BlockTime(ctx)
	if err != nil {
		return err
	}
	a.ReadyAt = paktum.AsUnixTime(now)
	a.Deadline = a.ReadyAt.Add(a.ReleaseTimeout.Duration())
	a.move(StatusReadyForRelease)
	return c.save(db, agreementID, a)
}

// Payout sends the escrowed amount to the seller, minus the late
// penalty which goes back to the buyer. Used by both release and
// claim.
func (c Controller) Payout(ctx paktum.Context, db paktum.KVStore, agreementID []byte, a *Agreement) (seller, penalty coin.Coin, err error) {
	if a.Status != StatusReadyForRelease {
		return seller, penalty, errors.Wrapf(errors.ErrState, "cannot pay out while %s", a.Status)
	}
	deadline := fee.EffectiveDeadline(a.OriginalDeadline, a.ApprovedDeadline, a.ApprovedAt)
	penalty, err = fee.LatePenalty(a.Escrowed, a.ReadyAt, deadline, a.PenaltyRateBp)
	if err != nil {
		return seller, penalty, err
	}
	if penalty.IsGTE(a.Escrowed) {
		penalty = a.Escrowed
	}
	seller, err = a.Escrowed.Subtract(penalty)
	if err != nil {
		return seller, penalty, err
	}

	if seller.IsPositive() {
		if err := c.bank.MoveCoins(db, a.Custody, a.Seller, seller); err != nil {
			return seller, penalty, errors.Wrap(err, "seller payout")
		}
	}
	if penalty.IsPositive() {
		if err := c.bank.MoveCoins(db, a.Custody, a.Buyer, penalty); err != nil {
			return seller, penalty, errors.Wrap(err, "penalty refund")
		}
	}
	a.move(StatusCompleted)
	return seller, penalty, c.save(db, agreementID, a)
}

// Resolve splits the escrowed amount of a disputed agreement. Refund
// goes to the buyer, release to the seller, and together they must be
// exactly the escrowed amount.
func (c Controller) Resolve(ctx paktum.Context, db paktum.KVStore, agreementID []byte, refund, release coin.Coin) error {
	a, err := c.Load(db, agreementID)
	if err != nil {
		return err
	}
	if a.Status != StatusDisputed {
		return errors.Wrapf(errors.ErrState, "cannot settle while %s", a.Status)
	}
	total, err := refund.Add(release)
	if err != nil {
		return err
	}
	if !total.Equals(a.Escrowed) {
		return errors.Wrapf(ErrSettlementSplit, "%s + %s != %s", refund, release, a.Escrowed)
	}

	if refund.IsPositive() {
		if err := c.bank.MoveCoins(db, a.Custody, a.Buyer, refund); err != nil {
			return errors.Wrap(err, "refund transfer")
		}
	}
	if release.IsPositive() {
		if err := c.bank.MoveCoins(db, a.Custody, a.Seller, release); err != nil {
			return errors.Wrap(err, "release transfer")
		}
	}
	a.DisputeInitiator = nil
	a.DisputeOpenedAt = 0
	a.move(StatusCompleted)
	return c.save(db, agreementID, a)
}

func days(n int32) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}
