package server

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/drip"
	"github.com/iov-one/drip/errors"
	"github.com/iov-one/drip/store"
)

// ValidateGenesis dry runs each genesis file: the chain id must be
// accepted by the application and the initializer must load app_state
// into an in-memory store without error. The first failure is returned.
func ValidateGenesis(ini drip.Initializer, genesisPaths []string) error {
	if len(genesisPaths) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no genesis file")
	}
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini drip.Initializer, path string) error {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read genesis")
	}
	var doc GenesisDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	var chainID string
	if err := json.Unmarshal(doc["chain_id"], &chainID); err != nil || !drip.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}

	var opts drip.Options
	if state := doc[appStateKey]; len(state) != 0 {
		if err := json.Unmarshal(state, &opts); err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
	}
	if opts == nil {
		return errors.Wrap(errors.ErrEmpty, appStateKey)
	}
	if err := ini.FromGenesis(opts, store.MemStore()); err != nil {
		return errors.Wrap(err, "initialize")
	}
	return nil
}
