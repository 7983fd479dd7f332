package drip_test

import (
	"testing"

	"github.com/iov-one/drip"
	"github.com/iov-one/drip/driptest"
	"github.com/iov-one/drip/errors"
	"github.com/stretchr/testify/assert"
)

func TestLoadMsg(t *testing.T) {
	msg := &driptest.Msg{RoutePath: "stream/create"}

	cases := map[string]struct {
		tx       drip.Tx
		dst      func() interface{}
		wantErr  *errors.Error
		wantPath string
	}{
		"pointer destination": {
			tx:       &driptest.Tx{Msg: msg},
			dst:      func() interface{} { return new(*driptest.Msg) },
			wantPath: "stream/create",
		},
		"value destination": {
			tx:       &driptest.Tx{Msg: msg},
			dst:      func() interface{} { return new(driptest.Msg) },
			wantPath: "stream/create",
		},
		"interface destination": {
			tx:       &driptest.Tx{Msg: msg},
			dst:      func() interface{} { return new(drip.Msg) },
			wantPath: "stream/create",
		},
		"wrong type": {
			tx:      &driptest.Tx{Msg: msg},
			dst:     func() interface{} { return new(string) },
			wantErr: errors.ErrType,
		},
		"nil destination": {
			tx:      &driptest.Tx{Msg: msg},
			dst:     func() interface{} { return (*driptest.Msg)(nil) },
			wantErr: errors.ErrHuman,
		},
		"no message": {
			tx:      &driptest.Tx{},
			dst:     func() interface{} { return new(driptest.Msg) },
			wantErr: errors.ErrState,
		},
		"undecodable message": {
			tx:      &driptest.Tx{Err: errors.Wrap(errors.ErrInput, "garbage")},
			dst:     func() interface{} { return new(driptest.Msg) },
			wantErr: errors.ErrInput,
		},
		"invalid message": {
			tx:      &driptest.Tx{Msg: &driptest.Msg{RoutePath: "stream/create", Err: errors.ErrAmount}},
			dst:     func() interface{} { return new(driptest.Msg) },
			wantErr: errors.ErrAmount,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			dst := tc.dst()
			err := drip.LoadMsg(tc.tx, dst)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			assert.NoError(t, err)
			var got drip.Msg
			switch d := dst.(type) {
			case **driptest.Msg:
				got = *d
			case *driptest.Msg:
				got = d
			case *drip.Msg:
				got = *d
			}
			assert.Equal(t, tc.wantPath, got.Path())
		})
	}
}

func TestGetPath(t *testing.T) {
	assert.Equal(t, "stream/cancel", drip.GetPath(&driptest.Tx{Msg: &driptest.Msg{RoutePath: "stream/cancel"}}))
	assert.Equal(t, "(missing)", drip.GetPath(&driptest.Tx{}))
	assert.Equal(t, "(missing)", drip.GetPath(&driptest.Tx{Err: errors.ErrInput}))
}
