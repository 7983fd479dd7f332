package stream

import (
	"bytes"
	"fmt"

	"github.com/iov-one/drip/errors"
	"github.com/iov-one/drip/gconf"
	"github.com/iov-one/drip/orm"
)

const (
	// BucketName is the name of the bucket holding stream records. It is
	// also the prefix of all their keys.
	BucketName = "stream"

	// ConfigPkg is the gconf package name of the protocol configuration.
	ConfigPkg = "stream"

	counterName = "id"
)

// KeyKind tells which record a Key addresses.
type KeyKind uint8

const (
	// KeyCounter addresses the stream ID counter.
	KeyCounter KeyKind = iota + 1
	// KeyStream addresses a single stream record.
	KeyStream
	// KeyConfig addresses the protocol configuration singleton.
	KeyConfig
)

func (k KeyKind) String() string {
	switch k {
	case KeyCounter:
		return "counter"
	case KeyStream:
		return "stream"
	case KeyConfig:
		return "config"
	default:
		return fmt.Sprintf("KeyKind(%d)", uint8(k))
	}
}

// Key addresses every record kept by this extension. Use CounterKey,
// StreamKey or ConfigKey to build one.
type Key struct {
	kind KeyKind
	id   uint64
}

// CounterKey returns the key of the stream ID counter.
func CounterKey() Key { return Key{kind: KeyCounter} }

// StreamKey returns the key of the stream with given ID.
func StreamKey(id uint64) Key { return Key{kind: KeyStream, id: id} }

// ConfigKey returns the key of the protocol configuration.
func ConfigKey() Key { return Key{kind: KeyConfig} }

// Kind returns the kind of the addressed record.
func (k Key) Kind() KeyKind { return k.kind }

// ID returns the stream ID. It is zero for all but stream keys.
func (k Key) ID() uint64 { return k.id }

// Bytes returns the database key. Each kind lives in its own key space,
// so keys of different kinds never collide:
//
//   counter  _s.stream:id
//   stream   stream:<8 byte big endian id>
//   config   _c:stream
func (k Key) Bytes() []byte {
	switch k.kind {
	case KeyCounter:
		return orm.NewSequence(BucketName, counterName).ID()
	case KeyStream:
		return append([]byte(BucketName+":"), orm.EncodeSequence(k.id)...)
	case KeyConfig:
		return gconf.Key(ConfigPkg)
	default:
		panic(fmt.Sprintf("unknown key kind %d", k.kind))
	}
}

func (k Key) String() string {
	if k.kind == KeyStream {
		return fmt.Sprintf("%s(%d)", k.kind, k.id)
	}
	return k.kind.String()
}

// ParseKey returns the Key of given database key. It fails for keys that
// were not produced by Key.Bytes.
func ParseKey(raw []byte) (Key, error) {
	switch {
	case bytes.Equal(raw, CounterKey().Bytes()):
		return CounterKey(), nil
	case bytes.Equal(raw, ConfigKey().Bytes()):
		return ConfigKey(), nil
	}
	prefix := []byte(BucketName + ":")
	if !bytes.HasPrefix(raw, prefix) {
		return Key{}, errors.Wrapf(errors.ErrInput, "not a stream key: %q", raw)
	}
	id, err := orm.DecodeSequence(raw[len(prefix):])
	if err != nil {
		return Key{}, errors.Wrap(errors.ErrInput, err.Error())
	}
	if id == 0 {
		return Key{}, errors.Wrap(errors.ErrInput, "zero stream id")
	}
	return StreamKey(id), nil
}
