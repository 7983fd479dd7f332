package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/drip"
	dripd "github.com/iov-one/drip/cmd/dripd/app"
	"github.com/iov-one/drip/commands/server"
	"github.com/iov-one/drip/crypto"
	"github.com/iov-one/drip/errors"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	flagHome = "home"
	varHome  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".drip")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("dripd")
	fmt.Println("          Token streaming node")
	fmt.Println("")
	fmt.Println("help      Print this message")
	fmt.Println("init      Initialize app options in genesis file")
	fmt.Println("          init [-f] [-chain-id id] [-- -balance \"N TICKER\" -fee-bps N] [ticker] [address]")
	fmt.Println("start     Run the abci server")
	fmt.Println("validate  Validate the app_state of genesis files")
	fmt.Println("keys      Print the address of a key derived from a hex seed")
	fmt.Println("version   Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.drip")`)
}

func main() {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "drip")

	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	var err error
	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = server.InitCmd(dripd.GenInitOptions, logger, *varHome, rest)
	case "start":
		err = server.StartCmd(dripd.GenerateApp, logger, *varHome, rest)
	case "validate":
		err = server.ValidateGenesis(dripd.Initializers(), rest)
	case "keys":
		err = keysCmd(rest)
	case "version":
		fmt.Println(drip.Version())
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}

func keysCmd(args []string) error {
	fs := flag.NewFlagSet("keys", flag.ContinueOnError)
	path := fs.String("path", crypto.DefaultDerivationPath, "derivation path of the key")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.Wrap(errors.ErrInput, "usage: keys [-path m/44'/234'/0'] <hex seed>")
	}
	seed, err := hex.DecodeString(fs.Arg(0))
	if err != nil {
		return errors.Wrap(errors.ErrInput, "seed must be hex encoded")
	}
	key, err := crypto.DeriveKey(seed, *path)
	if err != nil {
		return err
	}
	addr := key.PublicKey().Address()
	b32, err := addr.Bech32()
	if err != nil {
		return err
	}
	fmt.Printf("hex:    %s\nbech32: %s\n", addr, b32)
	return nil
}
