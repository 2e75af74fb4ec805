package app

import (
	"context"
	"testing"

	"github.com/paktum-network/paktum/errors"
	"github.com/paktum-network/paktum/paktumtest"
	"github.com/paktum-network/paktum/paktumtest/assert"
	"github.com/paktum-network/paktum/store"
)

func TestChainDecorators(t *testing.T) {
	h := &paktumtest.Handler{}
	d1 := &paktumtest.Decorator{}
	d2 := &paktumtest.Decorator{}

	stack := ChainDecorators(d1, nil, d2).WithHandler(h)

	db := store.MemStore()
	tx := &paktumtest.Tx{Msg: &paktumtest.Msg{RoutePath: "test/ok"}}

	_, err := stack.Check(context.Background(), db, tx)
	assert.Nil(t, err)
	_, err = stack.Deliver(context.Background(), db, tx)
	assert.Nil(t, err)

	assert.Equal(t, 2, d1.CallCount())
	assert.Equal(t, 2, d2.CallCount())
	assert.Equal(t, 2, h.CallCount())
}

func TestChainAbortsOnDecoratorError(t *testing.T) {
	h := &paktumtest.Handler{}
	bad := &paktumtest.Decorator{
		CheckErr:   errors.ErrUnauthorized,
		DeliverErr: errors.ErrUnauthorized,
	}
	after := &paktumtest.Decorator{}

	stack := ChainDecorators(bad, after).WithHandler(h)

	db := store.MemStore()
	tx := &paktumtest.Tx{Msg: &paktumtest.Msg{RoutePath: "test/ok"}}

	_, err := stack.Check(context.Background(), db, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = stack.Deliver(context.Background(), db, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	assert.Equal(t, 0, after.CallCount())
	assert.Equal(t, 0, h.CallCount())
}

func TestChainExtension(t *testing.T) {
	h := &paktumtest.Handler{}
	d1 := &paktumtest.Decorator{}
	d2 := &paktumtest.Decorator{}

	stack := ChainDecorators(d1).Chain(d2).WithHandler(h)

	db := store.MemStore()
	tx := &paktumtest.Tx{Msg: &paktumtest.Msg{RoutePath: "test/ok"}}
	_, err := stack.Deliver(context.Background(), db, tx)
	assert.Nil(t, err)
	assert.Equal(t, 1, d1.DeliverCallCount())
	assert.Equal(t, 1, d2.DeliverCallCount())
}
