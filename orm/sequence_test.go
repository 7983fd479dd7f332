package orm

import (
	"bytes"
	"testing"

	"github.com/iov-one/drip/driptest/assert"
	"github.com/iov-one/drip/store"
)

func TestSequence(t *testing.T) {
	db := store.MemStore()
	s := NewSequence("stream", "id")
	assert.Equal(t, []byte("_s.stream:id"), s.ID())

	latest, err := s.Latest(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), latest)

	first, err := s.NextInt(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), first)

	raw, err := s.NextVal(db)
	assert.Nil(t, err)
	assert.Equal(t, EncodeSequence(2), raw)

	latest, err = s.Latest(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(2), latest)

	// byte order follows numeric order
	if bytes.Compare(EncodeSequence(255), EncodeSequence(256)) >= 0 {
		t.Fatal("encoded sequence values must sort numerically")
	}

	// sequences with different names do not share state
	other := NewSequence("stream", "other")
	n, err := other.NextInt(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), n)
}

func TestPrefixRange(t *testing.T) {
	cases := map[string]struct {
		prefix, wantStart, wantEnd []byte
	}{
		"empty":    {prefix: nil},
		"simple":   {prefix: []byte("ab"), wantStart: []byte("ab"), wantEnd: []byte("ac")},
		"overflow": {prefix: []byte{1, 0xff}, wantStart: []byte{1, 0xff}, wantEnd: []byte{2, 0}},
		"no end":   {prefix: []byte{0xff, 0xff}, wantStart: []byte{0xff, 0xff}},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			start, end := prefixRange(tc.prefix)
			assert.Equal(t, tc.wantStart, start)
			assert.Equal(t, tc.wantEnd, end)
		})
	}
}
