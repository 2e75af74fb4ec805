package cash

import (
	"github.com/paktum-network/paktum"
	"github.com/paktum-network/paktum/coin"
	"github.com/paktum-network/paktum/errors"
)

const maxMemoSize = 128

var _ paktum.Msg = (*SendMsg)(nil)

// SendMsg moves the given amount between two wallets.
type SendMsg struct {
	Src    paktum.Address
	Dest   paktum.Address
	Amount coin.Coin
	Memo   string
}

func (SendMsg) Path() string {
	return "cash/send"
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	if !m.Amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive send %s", m.Amount)
	}
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if err := m.Src.Validate(); err != nil {
		return errors.Wrap(err, "src")
	}
	if err := m.Dest.Validate(); err != nil {
		return errors.Wrap(err, "dest")
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrInput, "memo too long")
	}
	return nil
}

var _ paktum.Msg = (*SetAllowanceMsg)(nil)

// SetAllowanceMsg grants the spender the right to move up to amount
// out of the owner wallet.
type SetAllowanceMsg struct {
	Owner   paktum.Address
	Spender paktum.Address
	Amount  coin.Coin
}

func (SetAllowanceMsg) Path() string {
	return "cash/set_allowance"
}

func (m *SetAllowanceMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *SetAllowanceMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *SetAllowanceMsg) Validate() error {
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !m.Amount.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative allowance")
	}
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := m.Spender.Validate(); err != nil {
		return errors.Wrap(err, "spender")
	}
	if m.Owner.Equals(m.Spender) {
		return errors.Wrap(errors.ErrInput, "owner as spender")
	}
	return nil
}
