package gconf

import (
	"github.com/iov-one/drip"
	"github.com/iov-one/drip/errors"
)

// ReadStore and Store are the parts of a drip.KVStore gconf needs.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

type ValidMarshaler interface {
	Marshal() ([]byte, error)
	Validate() error
}

type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Configuration is a per package singleton such as the protocol fee config.
type Configuration interface {
	ValidMarshaler
	Unmarshaler
}

// Key is where the configuration of pkg is stored.
func Key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates src and stores it as the configuration of pkg.
func Save(db Store, pkg string, src ValidMarshaler) error {
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "%s configuration", pkg)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal %s configuration", pkg)
	}
	return db.Set(Key(pkg), raw)
}

// Load fails with ErrNotFound when pkg was never configured.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	raw, err := db.Get(Key(pkg))
	switch {
	case err != nil:
		return err
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "%s configuration", pkg)
	}
	return errors.Wrapf(dst.Unmarshal(raw), "unmarshal %s configuration", pkg)
}

func Exists(db ReadStore, pkg string) (bool, error) {
	raw, err := db.Get(Key(pkg))
	return err == nil && raw != nil, err
}

// InitConfig saves the genesis value at app_state.conf.<pkg>. A package
// absent from genesis is left unconfigured without an error.
func InitConfig(db Store, opts drip.Options, pkg string, conf Configuration) error {
	var all drip.Options
	if err := opts.ReadOptions("conf", &all); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if all[pkg] == nil {
		return nil
	}
	if err := all.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(errors.ErrInput, "%s configuration: %s", pkg, err)
	}
	return Save(db, pkg, conf)
}
