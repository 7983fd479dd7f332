package app

import (
	"testing"

	"github.com/iov-one/drip/driptest"
	"github.com/iov-one/drip/errors"
	"github.com/stretchr/testify/assert"
)

func TestRouter(t *testing.T) {
	r := NewRouter()

	good := &driptest.Handler{}
	bad := &driptest.Handler{
		CheckErr:   errors.ErrAmount,
		DeliverErr: errors.ErrAmount,
	}
	r.Handle("stream/good", good)
	r.Handle("stream/bad", bad)

	assert.Panics(t, func() { r.Handle("stream/good", good) }, "double registration")
	assert.Panics(t, func() { r.Handle("l:7", good) }, "invalid path")

	txFor := func(path string) *driptest.Tx {
		return &driptest.Tx{Msg: &driptest.Msg{RoutePath: path}}
	}

	_, err := r.Check(nil, nil, txFor("stream/good"))
	assert.NoError(t, err)
	_, err = r.Deliver(nil, nil, txFor("stream/good"))
	assert.NoError(t, err)
	assert.Equal(t, 1, good.CheckCallCount())
	assert.Equal(t, 1, good.DeliverCallCount())

	_, err = r.Deliver(nil, nil, txFor("stream/bad"))
	assert.True(t, errors.ErrAmount.Is(err))

	_, err = r.Check(nil, nil, txFor("stream/missing"))
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Deliver(nil, nil, txFor("stream/missing"))
	assert.True(t, errors.ErrNotFound.Is(err))

	_, err = r.Deliver(nil, nil, &driptest.Tx{})
	assert.True(t, errors.ErrState.Is(err))

	_, err = r.Deliver(nil, nil, &driptest.Tx{Err: errors.ErrInput})
	assert.True(t, errors.ErrInput.Is(err))
}
