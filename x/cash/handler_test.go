package cash

import (
	"context"
	"testing"

	"github.com/paktum-network/paktum"
	"github.com/paktum-network/paktum/coin"
	"github.com/paktum-network/paktum/errors"
	"github.com/paktum-network/paktum/paktumtest"
	"github.com/paktum-network/paktum/paktumtest/assert"
	"github.com/paktum-network/paktum/store"
)

func TestSendHandler(t *testing.T) {
	var (
		alice = paktumtest.NewCondition()
		bob   = paktumtest.NewCondition()
	)

	cases := map[string]struct {
		signer  paktum.Condition
		msg     *SendMsg
		wantErr *errors.Error
	}{
		"source signer can send": {
			signer: alice,
			msg: &SendMsg{
				Src:    alice.Address(),
				Dest:   bob.Address(),
				Amount: coin.NewCoin(100, "PAK"),
			},
		},
		"a stranger cannot move the funds": {
			signer: bob,
			msg: &SendMsg{
				Src:    alice.Address(),
				Dest:   bob.Address(),
				Amount: coin.NewCoin(100, "PAK"),
			},
			wantErr: errors.ErrUnauthorized,
		},
		"zero amount is invalid": {
			signer: alice,
			msg: &SendMsg{
				Src:    alice.Address(),
				Dest:   bob.Address(),
				Amount: coin.NewCoin(0, "PAK"),
			},
			wantErr: errors.ErrAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController()
			assert.Nil(t, ctrl.IssueCoins(db, alice.Address(), coin.NewCoin(1000, "PAK")))

			h := SendHandler{
				auth: &paktumtest.Auth{Signer: tc.signer},
				ctrl: ctrl,
			}
			tx := &paktumtest.Tx{Msg: tc.msg}
			ctx := context.Background()

			if _, err := h.Check(ctx, db, tx); !tc.wantErr.Is(err) {
				t.Fatalf("check: want %v, got %+v", tc.wantErr, err)
			}
			if _, err := h.Deliver(ctx, db, tx); !tc.wantErr.Is(err) {
				t.Fatalf("deliver: want %v, got %+v", tc.wantErr, err)
			}

			if tc.wantErr == nil {
				got, err := ctrl.Balance(db, bob.Address(), "PAK")
				assert.Nil(t, err)
				assert.Equal(t, int64(100), got.Amount)
			}
		})
	}
}
