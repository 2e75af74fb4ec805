package escrow

import (
	"fmt"

	"github.com/tendermint/go-amino"

	"github.com/paktum-network/paktum"
	"github.com/paktum-network/paktum/coin"
	"github.com/paktum-network/paktum/errors"
	"github.com/paktum-network/paktum/orm"
)

var cdc = amino.NewCodec()

// Status is the lifecycle phase of an agreement. Transitions are a
// strict subset of the lifecycle table in the handlers, no other path
// exists.
type Status int32

const (
	StatusUnfunded           Status = 0
	StatusInProgress         Status = 1
	StatusExtensionRequested Status = 2
	StatusReadyForRelease    Status = 3
	StatusDisputed           Status = 4
	StatusCompleted          Status = 5
)

func (s Status) String() string {
	switch s {
	case StatusUnfunded:
		return "unfunded"
	case StatusInProgress:
		return "in_progress"
	case StatusExtensionRequested:
		return "extension_requested"
	case StatusReadyForRelease:
		return "ready_for_release"
	case StatusDisputed:
		return "disputed"
	case StatusCompleted:
		return "completed"
	default:
		return fmt.Sprintf("invalid(%d)", int32(s))
	}
}

func (s Status) validate() error {
	if s < StatusUnfunded || s > StatusCompleted {
		return errors.Wrapf(errors.ErrState, "status %d", int32(s))
	}
	return nil
}

// Agreement is one buyer/seller escrow transaction. It is created
// unfunded and remains inspectable forever once completed.
type Agreement struct {
	// Parties and currency, immutable after creation.
	Buyer   paktum.Address
	Seller  paktum.Address
	Arbiter paktum.Address
	Ticker  string

	// Custody is the account holding the escrowed funds. Derived from
	// the agreement id, nobody controls it directly.
	Custody paktum.Address

	// Economics. Rates are in basis points. Escrowed is set exactly
	// once, at funding, and only settlement pays it out.
	FlatFee       coin.Coin
	FeeRateBp     int64
	PenaltyRateBp int64
	Escrowed      coin.Coin

	// Timing. Deadline is the completion deadline until the seller
	// marks ready, then the end of the release window.
	CompletionDuration paktum.UnixDuration
	ReleaseTimeout     paktum.UnixDuration
	ResponseTimeout    paktum.UnixDuration
	Deadline           paktum.UnixTime
	OriginalDeadline   paktum.UnixTime

	// Pending extension negotiation.
	ExtensionDays        int32
	ExtensionRequestedAt paktum.UnixTime
	ApprovedDeadline     paktum.UnixTime
	ApprovedAt           paktum.UnixTime

	ReadyAt paktum.UnixTime

	Status         Status
	PreviousStatus Status

	// Dispute record, non-default only while Status is disputed.
	DisputeInitiator paktum.Address
	DisputeOpenedAt  paktum.UnixTime
}

var _ orm.Model = (*Agreement)(nil)

func (a *Agreement) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(a)
}

func (a *Agreement) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, a)
}

func (a *Agreement) Validate() error {
	if err := a.Buyer.Validate(); err != nil {
		return errors.Wrap(err, "buyer")
	}
	if err := a.Seller.Validate(); err != nil {
		return errors.Wrap(err, "seller")
	}
	if err := a.Arbiter.Validate(); err != nil {
		return errors.Wrap(err, "arbiter")
	}
	if err := a.Custody.Validate(); err != nil {
		return errors.Wrap(err, "custody")
	}
	if a.Buyer.Equals(a.Seller) {
		return errors.Wrap(errors.ErrInput, "buyer equals seller")
	}
	if err := (coin.Coin{Ticker: a.Ticker}).Validate(); err != nil {
		return errors.Wrap(err, "ticker")
	}
	if err := a.FlatFee.Validate(); err != nil {
		return errors.Wrap(err, "flat fee")
	}
	if !a.FlatFee.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative flat fee")
	}
	if a.FeeRateBp < 0 || a.PenaltyRateBp < 0 {
		return errors.Wrap(errors.ErrInput, "negative rate")
	}
	if err := a.CompletionDuration.Validate(); err != nil {
		return errors.Wrap(err, "completion duration")
	}
	if err := a.ReleaseTimeout.Validate(); err != nil {
		return errors.Wrap(err, "release timeout")
	}
	if err := a.ResponseTimeout.Validate(); err != nil {
		return errors.Wrap(err, "response timeout")
	}
	if err := a.Status.validate(); err != nil {
		return err
	}
	if err := a.PreviousStatus.validate(); err != nil {
		return err
	}
	// Until the seller marks ready the deadline is the completion
	// deadline and extensions only push it forward. From ReadyForRelease
	// on it tracks the release window, which may end earlier.
	switch a.Status {
	case StatusUnfunded, StatusInProgress, StatusExtensionRequested:
		if a.Deadline != 0 && a.Deadline < a.OriginalDeadline {
			return errors.Wrap(errors.ErrState, "deadline before the original deadline")
		}
	}
	disputed := a.Status == StatusDisputed
	if disputed != (len(a.DisputeInitiator) != 0) || disputed != (a.DisputeOpenedAt != 0) {
		return errors.Wrap(errors.ErrState, "dispute record out of sync with status")
	}
	return nil
}

// move updates the status and keeps the previous one for audit.
func (a *Agreement) move(to Status) {
	a.PreviousStatus = a.Status
	a.Status = to
}

// NewBucket returns the bucket holding all agreements.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("agree")
}

// NewSeq returns the agreement id sequence.
func NewSeq() orm.Sequence {
	return orm.NewSequence("agree", "id")
}

// CustodyCondition is the condition owning the escrowed funds of the
// given agreement.
func CustodyCondition(agreementID []byte) paktum.Condition {
	return paktum.NewCondition("escrow", "seq", agreementID)
}
