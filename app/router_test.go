package app

import (
	"context"
	"testing"

	"github.com/paktum-network/paktum/errors"
	"github.com/paktum-network/paktum/paktumtest"
	"github.com/paktum-network/paktum/paktumtest/assert"
	"github.com/paktum-network/paktum/store"
)

func TestRouterSuccess(t *testing.T) {
	r := NewRouter()
	h := &paktumtest.Handler{}
	r.Handle("test/good", h)

	tx := &paktumtest.Tx{Msg: &paktumtest.Msg{RoutePath: "test/good"}}
	db := store.MemStore()

	_, err := r.Check(context.Background(), db, tx)
	assert.Nil(t, err)
	_, err = r.Deliver(context.Background(), db, tx)
	assert.Nil(t, err)
	assert.Equal(t, 2, h.CallCount())
}

func TestRouterNoHandler(t *testing.T) {
	r := NewRouter()
	r.Handle("test/good", &paktumtest.Handler{})

	tx := &paktumtest.Tx{Msg: &paktumtest.Msg{RoutePath: "test/missing"}}
	db := store.MemStore()

	_, err := r.Check(context.Background(), db, tx)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = r.Deliver(context.Background(), db, tx)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestRouterRegistration(t *testing.T) {
	r := NewRouter()
	r.Handle("test/good", &paktumtest.Handler{})

	// a path cannot be registered twice
	assert.Panics(t, func() {
		r.Handle("test/good", &paktumtest.Handler{})
	})
	// and must be well formed
	assert.Panics(t, func() {
		r.Handle("bad path!", &paktumtest.Handler{})
	})
}
