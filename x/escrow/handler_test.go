package escrow

import (
	"context"
	"testing"
	"time"

	"github.com/paktum-network/paktum"
	"github.com/paktum-network/paktum/app"
	"github.com/paktum-network/paktum/coin"
	"github.com/paktum-network/paktum/errors"
	"github.com/paktum-network/paktum/paktumtest"
	"github.com/paktum-network/paktum/paktumtest/assert"
	"github.com/paktum-network/paktum/store"
	"github.com/paktum-network/paktum/x/cash"
	"github.com/paktum-network/paktum/x/utils"
)

// testApp wires the full dispatch stack the way a host application
// does: savepoint, reentrancy guard, then the message router.
type testApp struct {
	db      store.CacheableKVStore
	handler paktum.Handler
	bank    cash.CashController
	auth    *paktumtest.CtxAuth

	buyer   paktum.Condition
	seller  paktum.Condition
	arbiter paktum.Condition
}

func newTestApp(t testing.TB) *testApp {
	t.Helper()

	a := &testApp{
		db:      store.MemStore(),
		bank:    cash.NewController(),
		auth:    &paktumtest.CtxAuth{Key: "auth"},
		buyer:   paktumtest.NewCondition(),
		seller:  paktumtest.NewCondition(),
		arbiter: paktumtest.NewCondition(),
	}

	r := app.NewRouter()
	RegisterRoutes(r, a.auth, a.bank)
	a.handler = app.ChainDecorators(
		utils.NewSavepoint().OnDeliver(),
		NewReentrancyGuard(),
	).WithHandler(r)

	assert.Nil(t, a.bank.IssueCoins(a.db, a.buyer.Address(), coin.NewCoin(2000, "PAK")))
	return a
}

func (a *testApp) deliver(t testing.TB, signer paktum.Condition, now time.Time, msg paktum.Msg) (*paktum.DeliverResult, error) {
	t.Helper()
	ctx := paktum.WithBlockTime(context.Background(), now)
	ctx = a.auth.SetConditions(ctx, signer)
	return a.handler.Deliver(ctx, a.db, &paktumtest.Tx{Msg: msg})
}

func (a *testApp) create(t testing.TB) []byte {
	t.Helper()
	res, err := a.deliver(t, a.buyer, time.Unix(1000000, 0), &CreateMsg{
		Buyer:              a.buyer.Address(),
		Seller:             a.seller.Address(),
		Arbiter:            a.arbiter.Address(),
		Ticker:             "PAK",
		FlatFee:            coin.NewCoin(50, "PAK"),
		FeeRateBp:          250,
		PenaltyRateBp:      100,
		CompletionDuration: paktum.AsUnixDuration(10 * day),
		ReleaseTimeout:     paktum.AsUnixDuration(3 * day),
		ResponseTimeout:    paktum.AsUnixDuration(2 * day),
	})
	assert.Nil(t, err)
	if len(res.Data) != 8 {
		t.Fatalf("want an 8 byte agreement id, got %X", res.Data)
	}
	return res.Data
}

func (a *testApp) balance(t testing.TB, addr paktum.Address) int64 {
	t.Helper()
	c, err := a.bank.Balance(a.db, addr, "PAK")
	assert.Nil(t, err)
	return c.Amount
}

// Fund, mark ready in time and release: the seller receives the whole
// escrowed amount and no penalty flows back.
func TestHappyPathRelease(t *testing.T) {
	a := newTestApp(t)
	id := a.create(t)
	start := time.Unix(1000000, 0)

	_, err := a.deliver(t, a.buyer, start, &FundMsg{
		AgreementID: id,
		Amount:      coin.NewCoin(1000, "PAK"),
		FeeOffer:    coin.NewCoin(75, "PAK"),
	})
	assert.Nil(t, err)

	_, err = a.deliver(t, a.seller, start.Add(5*day), &MarkReadyMsg{AgreementID: id})
	assert.Nil(t, err)

	_, err = a.deliver(t, a.buyer, start.Add(6*day), &ReleaseMsg{AgreementID: id})
	assert.Nil(t, err)

	assert.Equal(t, int64(1000), a.balance(t, a.seller.Address()))
	assert.Equal(t, int64(925), a.balance(t, a.buyer.Address()))
	assert.Equal(t, int64(75), a.balance(t, a.arbiter.Address()))
	assert.Equal(t, int64(0), a.balance(t, CustodyCondition(id).Address()))
}

// An ignored extension request becomes a seller initiated dispute once
// the response window elapsed.
func TestIgnoredExtensionDispute(t *testing.T) {
	a := newTestApp(t)
	id := a.create(t)
	start := time.Unix(1000000, 0)

	_, err := a.deliver(t, a.buyer, start, &FundMsg{
		AgreementID: id,
		Amount:      coin.NewCoin(1000, "PAK"),
		FeeOffer:    coin.NewCoin(75, "PAK"),
	})
	assert.Nil(t, err)

	_, err = a.deliver(t, a.seller, start.Add(day), &RequestExtensionMsg{AgreementID: id, Days: 2})
	assert.Nil(t, err)

	// buyer never answers; before the window ends escalation fails
	_, err = a.deliver(t, a.seller, start.Add(2*day), &OpenExtensionDisputeMsg{AgreementID: id})
	assert.IsErr(t, errors.ErrTiming, err)

	_, err = a.deliver(t, a.seller, start.Add(3*day), &OpenExtensionDisputeMsg{AgreementID: id})
	assert.Nil(t, err)

	ctrl := NewController(a.bank)
	agreement, err := ctrl.Load(a.db, id)
	assert.Nil(t, err)
	assert.Equal(t, StatusDisputed, agreement.Status)
	assert.Equal(t, a.seller.Address(), agreement.DisputeInitiator)
}

// The arbiter splits a disputed escrow 400/600 and the agreement
// completes with the dispute record cleared.
func TestArbiterResolution(t *testing.T) {
	a := newTestApp(t)
	id := a.create(t)
	start := time.Unix(1000000, 0)

	_, err := a.deliver(t, a.buyer, start, &FundMsg{
		AgreementID: id,
		Amount:      coin.NewCoin(1000, "PAK"),
		FeeOffer:    coin.NewCoin(75, "PAK"),
	})
	assert.Nil(t, err)

	_, err = a.deliver(t, a.buyer, start.Add(day), &InitiateDisputeMsg{AgreementID: id})
	assert.Nil(t, err)

	// only the arbiter may resolve
	_, err = a.deliver(t, a.seller, start.Add(2*day), &ResolveMsg{
		AgreementID: id,
		Refund:      coin.NewCoin(400, "PAK"),
		Release:     coin.NewCoin(600, "PAK"),
	})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = a.deliver(t, a.arbiter, start.Add(2*day), &ResolveMsg{
		AgreementID: id,
		Refund:      coin.NewCoin(400, "PAK"),
		Release:     coin.NewCoin(600, "PAK"),
	})
	assert.Nil(t, err)

	assert.Equal(t, int64(1325), a.balance(t, a.buyer.Address()))
	assert.Equal(t, int64(600), a.balance(t, a.seller.Address()))

	ctrl := NewController(a.bank)
	agreement, err := ctrl.Load(a.db, id)
	assert.Nil(t, err)
	assert.Equal(t, StatusCompleted, agreement.Status)
	assert.Nil(t, agreement.DisputeInitiator)
	assert.Equal(t, paktum.UnixTime(0), agreement.DisputeOpenedAt)
}

func TestClaimWindow(t *testing.T) {
	a := newTestApp(t)
	id := a.create(t)
	start := time.Unix(1000000, 0)

	_, err := a.deliver(t, a.buyer, start, &FundMsg{
		AgreementID: id,
		Amount:      coin.NewCoin(1000, "PAK"),
		FeeOffer:    coin.NewCoin(75, "PAK"),
	})
	assert.Nil(t, err)
	_, err = a.deliver(t, a.seller, start.Add(5*day), &MarkReadyMsg{AgreementID: id})
	assert.Nil(t, err)

	// the release window runs 3 days from marking ready
	_, err = a.deliver(t, a.seller, start.Add(8*day).Add(-time.Second), &ClaimMsg{AgreementID: id})
	assert.IsErr(t, errors.ErrTiming, err)

	// boundary inclusive
	_, err = a.deliver(t, a.seller, start.Add(8*day), &ClaimMsg{AgreementID: id})
	assert.Nil(t, err)
	assert.Equal(t, int64(1000), a.balance(t, a.seller.Address()))
}

func TestWrongPartyRejected(t *testing.T) {
	a := newTestApp(t)
	id := a.create(t)
	start := time.Unix(1000000, 0)

	cases := map[string]struct {
		signer paktum.Condition
		msg    paktum.Msg
	}{
		"seller cannot fund":             {a.seller, &FundMsg{AgreementID: id, Amount: coin.NewCoin(1000, "PAK"), FeeOffer: coin.NewCoin(75, "PAK")}},
		"buyer cannot request extension": {a.buyer, &RequestExtensionMsg{AgreementID: id, Days: 1}},
		"seller cannot dispute directly": {a.seller, &InitiateDisputeMsg{AgreementID: id}},
		"arbiter cannot release":         {a.arbiter, &ReleaseMsg{AgreementID: id}},
		"buyer cannot claim":             {a.buyer, &ClaimMsg{AgreementID: id}},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := a.deliver(t, tc.signer, start, tc.msg)
			assert.IsErr(t, errors.ErrUnauthorized, err)
		})
	}
}

func TestUnknownAgreement(t *testing.T) {
	a := newTestApp(t)
	start := time.Unix(1000000, 0)

	_, err := a.deliver(t, a.buyer, start, &FundMsg{
		AgreementID: paktumtest.SequenceID(42),
		Amount:      coin.NewCoin(1000, "PAK"),
		FeeOffer:    coin.NewCoin(75, "PAK"),
	})
	assert.IsErr(t, errors.ErrNotFound, err)
}

// A transfer failure inside deliver must not leave a partial state
// behind. Funding with a fee the buyer can pay but an amount above the
// balance fails after the fee moved, the savepoint rolls it all back.
func TestLedgerFailureRollsBack(t *testing.T) {
	a := newTestApp(t)
	id := a.create(t)
	start := time.Unix(1000000, 0)

	_, err := a.deliver(t, a.buyer, start, &FundMsg{
		AgreementID: id,
		Amount:      coin.NewCoin(1990, "PAK"),
		FeeOffer:    coin.NewCoin(99, "PAK"),
	})
	assert.IsErr(t, errors.ErrInsufficientAmount, err)

	assert.Equal(t, int64(2000), a.balance(t, a.buyer.Address()))
	assert.Equal(t, int64(0), a.balance(t, a.arbiter.Address()))

	ctrl := NewController(a.bank)
	agreement, err := ctrl.Load(a.db, id)
	assert.Nil(t, err)
	assert.Equal(t, StatusUnfunded, agreement.Status)
}
