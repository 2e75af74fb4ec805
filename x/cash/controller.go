package cash

import (
	"github.com/paktum-network/paktum"
	"github.com/paktum-network/paktum/coin"
	"github.com/paktum-network/paktum/errors"
	"github.com/paktum-network/paktum/orm"
)

// Controller is the functionality needed by other extensions to move
// value around. Failures never leave a partial effect behind.
type Controller interface {
	// MoveCoins transfers amount from src to dest, failing when src
	// does not hold enough.
	MoveCoins(db paktum.KVStore, src, dest paktum.Address, amount coin.Coin) error

	// MoveCoinsFrom transfers amount out of the owner wallet on behalf
	// of the spender, within the granted allowance.
	MoveCoinsFrom(db paktum.KVStore, owner, spender, dest paktum.Address, amount coin.Coin) error

	// IssueCoins mints amount into the dest wallet.
	IssueCoins(db paktum.KVStore, dest paktum.Address, amount coin.Coin) error

	// Balance returns the current balance of the given ticker.
	Balance(db paktum.ReadOnlyKVStore, addr paktum.Address, ticker string) (coin.Coin, error)

	// SetAllowance grants the spender the right to move up to amount
	// out of the owner wallet. It replaces any previous grant.
	SetAllowance(db paktum.KVStore, owner, spender paktum.Address, amount coin.Coin) error

	// Allowance returns the remaining grant for the owner/spender pair.
	Allowance(db paktum.ReadOnlyKVStore, owner, spender paktum.Address, ticker string) (coin.Coin, error)
}

// CashController implements Controller on top of two orm buckets.
type CashController struct {
	wallets    orm.ModelBucket
	allowances orm.ModelBucket
}

var _ Controller = CashController{}

// NewController returns a ledger backed by the standard buckets.
func NewController() CashController {
	return CashController{
		wallets:    orm.NewModelBucket("cash"),
		allowances: orm.NewModelBucket("allow"),
	}
}

func (c CashController) wallet(db paktum.ReadOnlyKVStore, addr paktum.Address) (*Wallet, error) {
	var w Wallet
	switch err := c.wallets.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	default:
		return nil, err
	}
}

// MoveCoins transfers amount from src to dest.
func (c CashController) MoveCoins(db paktum.KVStore, src, dest paktum.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive transfer %s", amount)
	}
	if src.Equals(dest) {
		return errors.Wrap(errors.ErrInput, "transfer to self")
	}

	sender, err := c.wallet(db, src)
	if err != nil {
		return err
	}
	if err := sender.Add(amount.Negative()); err != nil {
		return errors.Wrapf(err, "sender %s", src)
	}
	recipient, err := c.wallet(db, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return errors.Wrapf(err, "recipient %s", dest)
	}

	if err := c.wallets.Put(db, src, sender); err != nil {
		return err
	}
	return c.wallets.Put(db, dest, recipient)
}

// MoveCoinsFrom transfers amount out of the owner wallet on behalf of
// the spender, consuming that much of the allowance.
func (c CashController) MoveCoinsFrom(db paktum.KVStore, owner, spender, dest paktum.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive transfer %s", amount)
	}

	granted, err := c.Allowance(db, owner, spender, amount.Ticker)
	if err != nil {
		return err
	}
	if !granted.IsGTE(amount) {
		return errors.Wrapf(ErrInsufficientAllowance, "granted %s, want %s", granted, amount)
	}
	left, err := granted.Subtract(amount)
	if err != nil {
		return err
	}
	if err := c.allowances.Put(db, allowanceKey(owner, spender), &Allowance{Amount: left}); err != nil {
		return err
	}
	return c.MoveCoins(db, owner, dest, amount)
}

// IssueCoins mints amount into the dest wallet.
func (c CashController) IssueCoins(db paktum.KVStore, dest paktum.Address, amount coin.Coin) error {
	recipient, err := c.wallet(db, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	return c.wallets.Put(db, dest, recipient)
}

// Balance returns the current balance of the given ticker.
func (c CashController) Balance(db paktum.ReadOnlyKVStore, addr paktum.Address, ticker string) (coin.Coin, error) {
	w, err := c.wallet(db, addr)
	if err != nil {
		return coin.Coin{}, err
	}
	return w.Balance(ticker), nil
}

// SetAllowance replaces the owner/spender grant with amount.
func (c CashController) SetAllowance(db paktum.KVStore, owner, spender paktum.Address, amount coin.Coin) error {
	if spender.Equals(owner) {
		return errors.Wrap(errors.ErrInput, "owner as spender")
	}
	return c.allowances.Put(db, allowanceKey(owner, spender), &Allowance{Amount: amount})
}

// Allowance returns the remaining owner/spender grant. A missing grant
// is zero.
func (c CashController) Allowance(db paktum.ReadOnlyKVStore, owner, spender paktum.Address, ticker string) (coin.Coin, error) {
	var a Allowance
	switch err := c.allowances.One(db, allowanceKey(owner, spender), &a); {
	case err == nil:
		if a.Amount.Ticker != ticker {
			return coin.Coin{Ticker: ticker}, nil
		}
		return a.Amount, nil
	case errors.ErrNotFound.Is(err):
		return coin.Coin{Ticker: ticker}, nil
	default:
		return coin.Coin{}, err
	}
}

func allowanceKey(owner, spender paktum.Address) []byte {
	key := make([]byte, 0, len(owner)+len(spender)+1)
	key = append(key, owner...)
	key = append(key, '|')
	return append(key, spender...)
}
