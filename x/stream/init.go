package stream

import (
	"github.com/iov-one/drip"
	"github.com/iov-one/drip/gconf"
)

// Initializer loads the protocol configuration from the "conf.stream"
// genesis section. The protocol starts uninitialized when the section is
// missing, and an InitializeMsg must be sent before fees are collected.
type Initializer struct{}

var _ drip.Initializer = Initializer{}

// FromGenesis saves the genesis protocol configuration, if present.
func (Initializer) FromGenesis(opts drip.Options, db drip.KVStore) error {
	var conf ProtocolConfig
	return gconf.InitConfig(db, opts, ConfigPkg, &conf)
}
