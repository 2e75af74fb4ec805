package fee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paktum-network/paktum"
	"github.com/paktum-network/paktum/coin"
	"github.com/paktum-network/paktum/errors"
)

func TestSettlementFee(t *testing.T) {
	cases := map[string]struct {
		flat   coin.Coin
		rateBp int64
		amount coin.Coin
		want   int64
	}{
		"flat plus variable": {
			flat:   coin.NewCoin(50, "PAK"),
			rateBp: 250,
			amount: coin.NewCoin(1000, "PAK"),
			want:   75,
		},
		"variable part rounds down": {
			flat:   coin.NewCoin(10, "PAK"),
			rateBp: 250,
			amount: coin.NewCoin(39, "PAK"),
			want:   10,
		},
		"zero rate": {
			flat:   coin.NewCoin(7, "PAK"),
			rateBp: 0,
			amount: coin.NewCoin(123456, "PAK"),
			want:   7,
		},
		"zero flat": {
			flat:   coin.NewCoin(0, "PAK"),
			rateBp: 10000,
			amount: coin.NewCoin(42, "PAK"),
			want:   42,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := SettlementFee(tc.flat, tc.rateBp, tc.amount)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Amount)
		})
	}

	t.Run("ticker mismatch", func(t *testing.T) {
		_, err := SettlementFee(coin.NewCoin(1, "PAK"), 100, coin.NewCoin(1, "DOGE"))
		assert.True(t, errors.ErrCurrency.Is(err))
	})
	t.Run("negative rate", func(t *testing.T) {
		_, err := SettlementFee(coin.NewCoin(1, "PAK"), -1, coin.NewCoin(1, "PAK"))
		assert.True(t, errors.ErrInput.Is(err))
	})
}

func TestLatePenalty(t *testing.T) {
	const day = 24 * 60 * 60
	deadline := paktum.UnixTime(1000000)
	escrowed := coin.NewCoin(1000, "PAK")

	cases := map[string]struct {
		readyAt paktum.UnixTime
		rateBp  int64
		want    int64
	}{
		"ready before the deadline":   {readyAt: deadline - 1, rateBp: 100, want: 0},
		"ready exactly on time":       {readyAt: deadline, rateBp: 100, want: 0},
		"late but less than a day":    {readyAt: deadline + day - 1, rateBp: 100, want: 0},
		"one full day late":           {readyAt: deadline + day, rateBp: 100, want: 10},
		"almost two days is one day":  {readyAt: deadline + 2*day - 1, rateBp: 100, want: 10},
		"three days late":             {readyAt: deadline + 3*day, rateBp: 100, want: 30},
		"penalty rounds down":         {readyAt: deadline + day, rateBp: 33, want: 3},
		"zero rate":                   {readyAt: deadline + 10*day, rateBp: 0, want: 0},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := LatePenalty(escrowed, tc.readyAt, deadline, tc.rateBp)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Amount)
		})
	}

	t.Run("overflow is reported", func(t *testing.T) {
		_, err := LatePenalty(escrowed, deadline+paktum.UnixTime(int64(1)<<40), deadline, int64(1)<<40)
		assert.True(t, errors.ErrOverflow.Is(err))
	})
}

func TestEffectiveDeadline(t *testing.T) {
	original := paktum.UnixTime(5000)

	cases := map[string]struct {
		approved   paktum.UnixTime
		approvedAt paktum.UnixTime
		want       paktum.UnixTime
	}{
		"no extension":                     {approved: 0, approvedAt: 0, want: original},
		"approved before the deadline":     {approved: 9000, approvedAt: 4000, want: 9000},
		"approved exactly at the deadline": {approved: 9000, approvedAt: 5000, want: 9000},
		"approved too late does not count": {approved: 9000, approvedAt: 5001, want: original},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got := EffectiveDeadline(original, tc.approved, tc.approvedAt)
			assert.Equal(t, tc.want, got)
		})
	}
}
