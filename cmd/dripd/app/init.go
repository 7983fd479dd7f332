package dripd

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/iov-one/drip"
	"github.com/iov-one/drip/coin"
	"github.com/iov-one/drip/commands/server"
	"github.com/iov-one/drip/crypto"
	"github.com/iov-one/drip/errors"
	"github.com/iov-one/drip/x/cash"
	"github.com/iov-one/drip/x/stream"
	abci "github.com/tendermint/tendermint/abci/types"
)

// DefaultTicker is the token of the development genesis account.
const DefaultTicker = "DRP"

const (
	defaultBalance    = 123456789
	defaultFeeRateBps = 25
)

// GenInitOptions produces the genesis state of a development chain: one rich
// account that is also the protocol admin and the treasury.
//
// Accepted arguments are
//
//	[-balance "<amount> <ticker>"] [-fee-bps <bps>] [ticker] [address]
//
// A ticker argument overrides the ticker of the balance. When no address is
// given, a new key is generated and its seed is printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	balance := coin.NewCoin(defaultBalance, DefaultTicker)
	fs := flag.NewFlagSet("genesis", flag.ContinueOnError)
	fs.Var(&balance, "balance", "funds of the genesis account")
	feeBps := fs.Uint("fee-bps", defaultFeeRateBps, "protocol fee in basis points")
	if err := fs.Parse(args); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if fs.NArg() > 0 {
		balance.Ticker = fs.Arg(0)
	}
	if err := balance.Validate(); err != nil {
		return nil, err
	}
	if !balance.IsPositive() {
		return nil, errors.Wrapf(errors.ErrAmount, "genesis balance %s", balance)
	}

	var addr drip.Address
	if fs.NArg() > 1 {
		a, err := drip.ParseAddress(fs.Arg(1))
		if err != nil {
			return nil, errors.Wrap(err, "address")
		}
		addr = a
	} else {
		a, seed, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		addr = a
		fmt.Println(seed)
	}

	conf := &stream.ProtocolConfig{Admin: addr, Treasury: addr, FeeRateBps: uint32(*feeBps)}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	type dict map[string]interface{}
	return json.Marshal(dict{
		"cash": []cash.GenesisAccount{
			{Address: addr, Coins: coin.Coins{&balance}},
		},
		"conf": dict{stream.ConfigPkg: conf},
	})
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(options *server.Options) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if options.Home != "" {
		dbPath = filepath.Join(options.Home, "drip.db")
	}

	application, err := Application("drip", Stack(options.Metrics), TxDecoder, dbPath, options.Debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers())
	application.WithLogger(options.Logger)
	return application, nil
}

// Initializers returns the genesis loaders of all extensions.
func Initializers() drip.Initializer {
	return drip.ChainInitializers(
		cash.Initializer{},
		stream.Initializer{},
	)
}

// GenerateCoinKey returns the address of a new key, along with the hex
// encoded seed that the key is derived from.
func GenerateCoinKey() (drip.Address, string, error) {
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return nil, "", errors.Wrap(err, "cannot read random seed")
	}
	key, err := crypto.DeriveKey(seed, crypto.DefaultDerivationPath)
	if err != nil {
		return nil, "", err
	}
	return key.PublicKey().Address(), hex.EncodeToString(seed), nil
}
