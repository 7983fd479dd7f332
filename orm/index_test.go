package orm

import (
	"testing"

	"github.com/iov-one/drip/driptest/assert"
	"github.com/iov-one/drip/errors"
	"github.com/iov-one/drip/store"
)

func TestIndexUpdate(t *testing.T) {
	refKey := func(k []byte) []byte { return append([]byte("o:"), k...) }
	owned := func(key, owner string) Object {
		return NewSimpleObj([]byte(key), &Owned{Owner: []byte(owner)})
	}

	cases := map[string]struct {
		prev, next Object
		wantErr    *errors.Error
		wantKeys   map[string][]string
	}{
		"insert": {
			next:     owned("b", "alice"),
			wantKeys: map[string][]string{"alice": {"a", "b"}},
		},
		"move": {
			prev:     owned("a", "alice"),
			next:     owned("a", "bob"),
			wantKeys: map[string][]string{"alice": nil, "bob": {"a"}},
		},
		"delete": {
			prev:     owned("a", "alice"),
			wantKeys: map[string][]string{"alice": nil},
		},
		"delete unknown reference": {
			prev:    owned("z", "alice"),
			wantErr: errors.ErrNotFound,
		},
		"nothing to update": {
			wantErr: errors.ErrHuman,
		},
		"primary key change": {
			prev:    owned("a", "alice"),
			next:    owned("b", "alice"),
			wantErr: errors.ErrHuman,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			idx := NewMultiKeyIndex("owner", asMultiKeyIndexer(ownerIndex), false, refKey)
			assert.Nil(t, idx.Update(db, nil, owned("a", "alice")))

			err := idx.Update(db, tc.prev, tc.next)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			for value, want := range tc.wantKeys {
				refs, err := idx.Keys(db, []byte(value))
				assert.Nil(t, err)
				var got []string
				for _, r := range refs {
					got = append(got, string(r))
				}
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestIndexQueryDanglingReference(t *testing.T) {
	db := store.MemStore()
	idx := NewMultiKeyIndex("owner", asMultiKeyIndexer(ownerIndex), true, func(k []byte) []byte { return k })
	assert.Nil(t, idx.Update(db, nil, NewSimpleObj([]byte("a"), &Owned{Owner: []byte("alice")})))

	_, err := idx.Query(db, "", []byte("alice"))
	assert.IsErr(t, errors.ErrDatabase, err)

	_, err = idx.Query(db, "suffix", []byte("alice"))
	assert.IsErr(t, errors.ErrInput, err)
}
