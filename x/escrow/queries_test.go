package escrow

import (
	"testing"
	"time"

	"github.com/paktum-network/paktum"
	"github.com/paktum-network/paktum/errors"
	"github.com/paktum-network/paktum/paktumtest"
	"github.com/paktum-network/paktum/paktumtest/assert"
)

func TestQueries(t *testing.T) {
	f := newFixture(t)
	now := time.Unix(1000000, 0)
	f.fund(t, now)

	status, err := CurrentStatus(f.db, f.id)
	assert.Nil(t, err)
	assert.Equal(t, StatusInProgress, status)

	deadline, err := CurrentDeadline(f.db, f.id)
	assert.Nil(t, err)
	assert.Equal(t, paktum.AsUnixTime(now.Add(10*day)), deadline)

	escrowed, err := EscrowedAmount(f.db, f.id)
	assert.Nil(t, err)
	assert.Equal(t, int64(1000), escrowed.Amount)

	buyer, seller, arbiter, err := Parties(f.db, f.id)
	assert.Nil(t, err)
	assert.Equal(t, f.buyer, buyer)
	assert.Equal(t, f.seller, seller)
	assert.Equal(t, f.arbiter, arbiter)

	initiator, openedAt, err := DisputeRecord(f.db, f.id)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(initiator))
	assert.Equal(t, paktum.UnixTime(0), openedAt)

	a := f.load(t)
	assert.Nil(t, f.ctrl.InitiateDispute(at(now.Add(day)), f.db, f.id, a))

	initiator, openedAt, err = DisputeRecord(f.db, f.id)
	assert.Nil(t, err)
	assert.Equal(t, f.buyer, initiator)
	assert.Equal(t, paktum.AsUnixTime(now.Add(day)), openedAt)
}

func TestQueriesUnknownAgreement(t *testing.T) {
	f := newFixture(t)

	_, err := CurrentStatus(f.db, paktumtest.SequenceID(42))
	assert.IsErr(t, errors.ErrNotFound, err)
}
