package cash

import (
	"github.com/tendermint/go-amino"

	"github.com/paktum-network/paktum/coin"
	"github.com/paktum-network/paktum/errors"
)

var cdc = amino.NewCodec()

// Wallet is a set of coins belonging to one account. There is at most
// one entry per ticker.
type Wallet struct {
	Coins []coin.Coin
}

func (w *Wallet) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, w)
}

// Validate ensures every entry is a valid, non-negative coin and that
// no ticker appears twice.
func (w *Wallet) Validate() error {
	seen := make(map[string]struct{}, len(w.Coins))
	for _, c := range w.Coins {
		if err := c.Validate(); err != nil {
			return err
		}
		if !c.IsNonNegative() {
			return errors.Wrapf(errors.ErrAmount, "negative balance %s", c)
		}
		if _, ok := seen[c.Ticker]; ok {
			return errors.Wrapf(errors.ErrDuplicate, "ticker %s", c.Ticker)
		}
		seen[c.Ticker] = struct{}{}
	}
	return nil
}

// Balance returns the amount of the given ticker held in the wallet.
// A missing entry is a zero balance.
func (w *Wallet) Balance(ticker string) coin.Coin {
	for _, c := range w.Coins {
		if c.Ticker == ticker {
			return c
		}
	}
	return coin.Coin{Ticker: ticker}
}

// Add modifies the wallet balance of the coin's ticker. A negative
// coin subtracts. Going below zero is an error and leaves the wallet
// unchanged.
func (w *Wallet) Add(c coin.Coin) error {
	for i, have := range w.Coins {
		if have.Ticker != c.Ticker {
			continue
		}
		sum, err := have.Add(c)
		if err != nil {
			return err
		}
		if !sum.IsNonNegative() {
			return errors.Wrapf(errors.ErrInsufficientAmount, "%s", have)
		}
		if sum.IsZero() {
			w.Coins = append(w.Coins[:i], w.Coins[i+1:]...)
		} else {
			w.Coins[i] = sum
		}
		return nil
	}
	if !c.IsNonNegative() {
		return errors.Wrapf(errors.ErrInsufficientAmount, "empty %s balance", c.Ticker)
	}
	if !c.IsZero() {
		w.Coins = append(w.Coins, c)
	}
	return nil
}

// Allowance is the amount a spender may transfer out of an owner
// wallet. It is stored under the owner|spender composite key.
type Allowance struct {
	Amount coin.Coin
}

func (a *Allowance) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(a)
}

func (a *Allowance) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, a)
}

func (a *Allowance) Validate() error {
	if err := a.Amount.Validate(); err != nil {
		return err
	}
	if !a.Amount.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative allowance")
	}
	return nil
}
