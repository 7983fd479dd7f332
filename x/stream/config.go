package stream

import (
	"github.com/iov-one/drip"
	"github.com/iov-one/drip/errors"
	"github.com/iov-one/drip/gconf"
)

// ConfigStore gives access to the protocol configuration singleton.
type ConfigStore interface {
	// Get returns the configuration or nil if it was never saved.
	Get(db drip.ReadOnlyKVStore) (*ProtocolConfig, error)
	// Put validates and saves the configuration.
	Put(db drip.KVStore, c *ProtocolConfig) error
	// Exists returns true if the configuration was saved.
	Exists(db drip.ReadOnlyKVStore) (bool, error)
}

// NewConfigStore returns a ConfigStore keeping the configuration in the
// gconf singleton of this extension.
func NewConfigStore() ConfigStore {
	return gconfStore{pkg: ConfigPkg}
}

type gconfStore struct {
	pkg string
}

func (s gconfStore) Get(db drip.ReadOnlyKVStore) (*ProtocolConfig, error) {
	var c ProtocolConfig
	switch err := gconf.Load(db, s.pkg, &c); {
	case err == nil:
		return &c, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, errors.Wrap(err, "load protocol config")
	}
}

func (s gconfStore) Put(db drip.KVStore, c *ProtocolConfig) error {
	return gconf.Save(db, s.pkg, c)
}

func (s gconfStore) Exists(db drip.ReadOnlyKVStore) (bool, error) {
	return gconf.Exists(db, s.pkg)
}
