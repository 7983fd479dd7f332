package stream

import (
	"bytes"
	"testing"

	"github.com/iov-one/drip/driptest"
	"github.com/iov-one/drip/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyBytes(t *testing.T) {
	cases := map[string]struct {
		key  Key
		want []byte
	}{
		"counter": {key: CounterKey(), want: []byte("_s.stream:id")},
		"config":  {key: ConfigKey(), want: []byte("_c:stream")},
		"stream":  {key: StreamKey(1), want: append([]byte("stream:"), 0, 0, 0, 0, 0, 0, 0, 1)},
		"big stream id": {
			key:  StreamKey(1 << 40),
			want: append([]byte("stream:"), 0, 0, 1, 0, 0, 0, 0, 0),
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.key.Bytes())
		})
	}
}

func TestKeysDoNotCollide(t *testing.T) {
	keys := [][]byte{CounterKey().Bytes(), ConfigKey().Bytes()}
	for _, id := range []uint64{0, 1, 2, 255, 256, 1 << 63} {
		keys = append(keys, StreamKey(id).Bytes())
	}
	for i := range keys {
		for j := range keys {
			if i != j && bytes.Equal(keys[i], keys[j]) {
				t.Fatalf("keys %d and %d are both %q", i, j, keys[i])
			}
		}
	}
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "stream(7)", StreamKey(7).String())
	assert.Equal(t, "counter", CounterKey().String())
	assert.Equal(t, "KeyKind(9)", KeyKind(9).String())
	assert.Panics(t, func() { Key{}.Bytes() })
}

// Records must end up under the documented keys.
func TestStorageLayout(t *testing.T) {
	f := newFixture(t, 10)
	id := f.create(t, 1000, 10)

	raw, err := f.db.Get(StreamKey(id).Bytes())
	require.NoError(t, err)
	var s Stream
	require.NoError(t, s.Unmarshal(raw))
	assert.EqualValues(t, 999, s.DepositedAmount)

	raw, err = f.db.Get(CounterKey().Bytes())
	require.NoError(t, err)
	assert.Equal(t, driptest.SequenceID(1), raw)

	raw, err = f.db.Get(ConfigKey().Bytes())
	require.NoError(t, err)
	var conf ProtocolConfig
	require.NoError(t, conf.Unmarshal(raw))
	assert.EqualValues(t, 10, conf.FeeRateBps)

	last, err := f.ctrl.streams.LastID(store.MemStore())
	require.NoError(t, err)
	assert.EqualValues(t, 0, last)
}

func TestParseKey(t *testing.T) {
	for _, k := range []Key{CounterKey(), ConfigKey(), StreamKey(1), StreamKey(1 << 40)} {
		got, err := ParseKey(k.Bytes())
		require.NoError(t, err, k.String())
		assert.Equal(t, k, got)
	}

	bad := map[string][]byte{
		"empty":        nil,
		"other bucket": append([]byte("cash:"), 0, 0, 0, 0, 0, 0, 0, 1),
		"short id":     []byte("stream:\x01"),
		"zero id":      StreamKey(0).Bytes(),
	}
	for name, raw := range bad {
		_, err := ParseKey(raw)
		assert.Error(t, err, name)
	}
}
