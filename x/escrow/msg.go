package escrow

import (
	"github.com/paktum-network/paktum"
	"github.com/paktum-network/paktum/coin"
	"github.com/paktum-network/paktum/errors"
)

var (
	_ paktum.Msg = (*CreateMsg)(nil)
	_ paktum.Msg = (*FundMsg)(nil)
	_ paktum.Msg = (*RequestExtensionMsg)(nil)
	_ paktum.Msg = (*ApproveExtensionMsg)(nil)
	_ paktum.Msg = (*OpenExtensionDisputeMsg)(nil)
	_ paktum.Msg = (*MarkReadyMsg)(nil)
	_ paktum.Msg = (*ReleaseMsg)(nil)
	_ paktum.Msg = (*ClaimMsg)(nil)
	_ paktum.Msg = (*InitiateDisputeMsg)(nil)
	_ paktum.Msg = (*ResolveMsg)(nil)
)

// AgreementIDer is implemented by all messages that target an existing
// agreement. The reentrancy guard keys on it.
type AgreementIDer interface {
	GetAgreementID() []byte
}

func validateAgreementID(id []byte) error {
	if len(id) != 8 {
		return errors.Wrapf(errors.ErrInput, "agreement id must be 8 bytes, got %d", len(id))
	}
	return nil
}

// CreateMsg registers a new, unfunded agreement between the parties.
// The id of the created agreement is returned in the delivery data.
type CreateMsg struct {
	Buyer   paktum.Address
	Seller  paktum.Address
	Arbiter paktum.Address
	Ticker  string

	FlatFee       coin.Coin
	FeeRateBp     int64
	PenaltyRateBp int64

	CompletionDuration paktum.UnixDuration
	ReleaseTimeout     paktum.UnixDuration
	ResponseTimeout    paktum.UnixDuration
}

func (CreateMsg) Path() string {
	return "escrow/create"
}

func (m *CreateMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *CreateMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *CreateMsg) Validate() error {
	if err := m.Buyer.Validate(); err != nil {
		return errors.Wrap(err, "buyer")
	}
	if err := m.Seller.Validate(); err != nil {
		return errors.Wrap(err, "seller")
	}
	if err := m.Arbiter.Validate(); err != nil {
		return errors.Wrap(err, "arbiter")
	}
	if m.Buyer.Equals(m.Seller) {
		return errors.Wrap(errors.ErrInput, "buyer equals seller")
	}
	if err := (coin.Coin{Ticker: m.Ticker}).Validate(); err != nil {
		return errors.Wrap(err, "ticker")
	}
	if err := m.FlatFee.Validate(); err != nil {
		return errors.Wrap(err, "flat fee")
	}
	if !m.FlatFee.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative flat fee")
	}
	if m.FlatFee.Ticker != m.Ticker {
		return errors.Wrap(errors.ErrCurrency, "flat fee ticker")
	}
	if m.FeeRateBp < 0 || m.PenaltyRateBp < 0 {
		return errors.Wrap(errors.ErrInput, "negative rate")
	}
	if m.CompletionDuration <= 0 {
		return errors.Wrap(errors.ErrInput, "completion duration")
	}
	if m.ReleaseTimeout <= 0 {
		return errors.Wrap(errors.ErrInput, "release timeout")
	}
	if m.ResponseTimeout <= 0 {
		return errors.Wrap(errors.ErrInput, "response timeout")
	}
	return nil
}

// FundMsg deposits the escrowed amount and pays the arbitration fee.
// Only the buyer may fund, exactly once.
type FundMsg struct {
	AgreementID []byte
	Amount      coin.Coin
	FeeOffer    coin.Coin
}

func (FundMsg) Path() string {
	return "escrow/fund"
}

func (m *FundMsg) GetAgreementID() []byte {
	return m.AgreementID
}

func (m *FundMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *FundMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *FundMsg) Validate() error {
	if err := validateAgreementID(m.AgreementID); err != nil {
		return err
	}
	if !m.Amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount %s", m.Amount)
	}
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if err := m.FeeOffer.Validate(); err != nil {
		return errors.Wrap(err, "fee offer")
	}
	if !m.FeeOffer.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative fee offer")
	}
	if !m.Amount.SameType(m.FeeOffer) {
		return errors.Wrap(errors.ErrCurrency, "fee offer ticker")
	}
	return nil
}

// RequestExtensionMsg is the seller asking for more days before the
// deadline.
type RequestExtensionMsg struct {
	AgreementID []byte
	Days        int32
}

func (RequestExtensionMsg) Path() string {
	return "escrow/request_extension"
}

func (m *RequestExtensionMsg) GetAgreementID() []byte {
	return m.AgreementID
}

func (m *RequestExtensionMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *RequestExtensionMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *RequestExtensionMsg) Validate() error {
	if err := validateAgreementID(m.AgreementID); err != nil {
		return err
	}
	if m.Days < 1 {
		return errors.Wrapf(errors.ErrInput, "extension of %d days", m.Days)
	}
	return nil
}

// ApproveExtensionMsg is the buyer accepting the pending extension.
type ApproveExtensionMsg struct {
	AgreementID []byte
}

func (ApproveExtensionMsg) Path() string {
	return "escrow/approve_extension"
}

func (m *ApproveExtensionMsg) GetAgreementID() []byte {
	return m.AgreementID
}

func (m *ApproveExtensionMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ApproveExtensionMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *ApproveExtensionMsg) Validate() error {
	return validateAgreementID(m.AgreementID)
}

// OpenExtensionDisputeMsg is the seller escalating an ignored
// extension request once the response window elapsed.
type OpenExtensionDisputeMsg struct {
	AgreementID []byte
}

func (OpenExtensionDisputeMsg) Path() string {
	return "escrow/open_extension_dispute"
}

func (m *OpenExtensionDisputeMsg) GetAgreementID() []byte {
	return m.AgreementID
}

func (m *OpenExtensionDisputeMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *OpenExtensionDisputeMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *OpenExtensionDisputeMsg) Validate() error {
	return validateAgreementID(m.AgreementID)
}

// MarkReadyMsg is the seller declaring the deliverable done, opening
// the release window.
type MarkReadyMsg struct {
	AgreementID []byte
}

func (MarkReadyMsg) Path() string {
	return "escrow/mark_ready"
}

func (m *MarkReadyMsg) GetAgreementID() []byte {
	return m.AgreementID
}

func (m *MarkReadyMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *MarkReadyMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *MarkReadyMsg) Validate() error {
	return validateAgreementID(m.AgreementID)
}

// ReleaseMsg is the buyer accepting the deliverable and paying out.
type ReleaseMsg struct {
	AgreementID []byte
}

func (ReleaseMsg) Path() string {
	return "escrow/release"
}

func (m *ReleaseMsg) GetAgreementID() []byte {
	return m.AgreementID
}

func (m *ReleaseMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ReleaseMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *ReleaseMsg) Validate() error {
	return validateAgreementID(m.AgreementID)
}

// ClaimMsg is the seller collecting the payout after the buyer sat out
// the whole release window.
type ClaimMsg struct {
	AgreementID []byte
}

func (ClaimMsg) Path() string {
	return "escrow/claim"
}

func (m *ClaimMsg) GetAgreementID() []byte {
	return m.AgreementID
}

func (m *ClaimMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ClaimMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *ClaimMsg) Validate() error {
	return validateAgreementID(m.AgreementID)
}

// InitiateDisputeMsg is the buyer escalating a live agreement to the
// arbiter.
type InitiateDisputeMsg struct {
	AgreementID []byte
}

func (InitiateDisputeMsg) Path() string {
	return "escrow/initiate_dispute"
}

func (m *InitiateDisputeMsg) GetAgreementID() []byte {
	return m.AgreementID
}

func (m *InitiateDisputeMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *InitiateDisputeMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *InitiateDisputeMsg) Validate() error {
	return validateAgreementID(m.AgreementID)
}

// ResolveMsg is the arbiter splitting the escrowed funds between the
// parties. Refund and release must sum to the escrowed amount exactly.
type ResolveMsg struct {
	AgreementID []byte
	Refund      coin.Coin
	Release     coin.Coin
}

func (ResolveMsg) Path() string {
	return "escrow/resolve"
}

func (m *ResolveMsg) GetAgreementID() []byte {
	return m.AgreementID
}

func (m *ResolveMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ResolveMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *ResolveMsg) Validate() error {
	if err := validateAgreementID(m.AgreementID); err != nil {
		return err
	}
	if err := m.Refund.Validate(); err != nil {
		return errors.Wrap(err, "refund")
	}
	if err := m.Release.Validate(); err != nil {
		return errors.Wrap(err, "release")
	}
	if !m.Refund.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative refund")
	}
	if !m.Release.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative release")
	}
	if !m.Refund.SameType(m.Release) {
		return errors.Wrap(errors.ErrCurrency, "refund and release ticker")
	}
	return nil
}
