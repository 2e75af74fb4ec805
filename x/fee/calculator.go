/*
Package fee computes settlement fees and late delivery penalties.

All functions are pure. Rates are expressed in basis points, one basis
point being 1/10000 of the amount. Divisions round down and all
arithmetic is overflow checked.
*/
package fee

import (
	"github.com/paktum-network/paktum"
	"github.com/paktum-network/paktum/coin"
	"github.com/paktum-network/paktum/errors"
)

// basis point denominator
const bpUnit = 10000

const secondsPerDay = 24 * 60 * 60

// SettlementFee returns flat + floor(amount * rateBp / 10000). This is
// the minimum the funder must offer when escrowing the amount.
func SettlementFee(flat coin.Coin, rateBp int64, amount coin.Coin) (coin.Coin, error) {
	if rateBp < 0 {
		return coin.Coin{}, errors.Wrapf(errors.ErrInput, "negative rate %d", rateBp)
	}
	if !flat.SameType(amount) {
		return coin.Coin{}, errors.Wrapf(errors.ErrCurrency, "%s vs %s", flat.Ticker, amount.Ticker)
	}
	variable, err := amount.Ratio(rateBp, bpUnit)
	if err != nil {
		return coin.Coin{}, err
	}
	return flat.Add(variable)
}

// LatePenalty returns the penalty owed by the seller for marking the
// delivery ready after the effective deadline. The penalty is
// floor(escrowed * dailyRateBp * daysLate / 10000) with daysLate
// counted in whole elapsed days. Ready at or before the deadline, or
// less than a full day after it, carries no penalty.
func LatePenalty(escrowed coin.Coin, readyAt, deadline paktum.UnixTime, dailyRateBp int64) (coin.Coin, error) {
	if dailyRateBp < 0 {
		return coin.Coin{}, errors.Wrapf(errors.ErrInput, "negative rate %d", dailyRateBp)
	}
	if readyAt <= deadline {
		return coin.Coin{Ticker: escrowed.Ticker}, nil
	}
	daysLate := int64(readyAt-deadline) / secondsPerDay
	if daysLate == 0 {
		return coin.Coin{Ticker: escrowed.Ticker}, nil
	}
	rate, err := mul64(dailyRateBp, daysLate)
	if err != nil {
		return coin.Coin{}, err
	}
	return escrowed.Ratio(rate, bpUnit)
}

// EffectiveDeadline returns the deadline lateness is measured against.
// An extension counts only when it was approved at or before the
// original deadline, otherwise the original deadline stands.
func EffectiveDeadline(original, approved, approvedAt paktum.UnixTime) paktum.UnixTime {
	if approved == 0 {
		return original
	}
	if approvedAt > original {
		return original
	}
	return approved
}

func mul64(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	res := a * b
	if res/b != a {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d * %d", a, b)
	}
	return res, nil
}
