package server

import (
	"flag"
	"net/http"

	"github.com/iov-one/drip/errors"
	"github.com/iov-one/drip/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind    = "bind"
	flagDebug   = "debug"
	flagMetrics = "metrics"
)

// Options are the values an AppGenerator builds the application from.
type Options struct {
	Home   string
	Logger log.Logger
	Debug  bool
	// Metrics is where the application registers its collectors.
	Metrics prometheus.Registerer
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(*Options) (abci.Application, error)

type startArgs struct {
	bind    string
	metrics string
	debug   bool
}

func parseStartFlags(args []string) (startArgs, error) {
	var sa startArgs
	fs := flag.NewFlagSet("start", flag.ContinueOnError)
	fs.StringVar(&sa.bind, flagBind, "tcp://localhost:26658", "address server listens on")
	fs.StringVar(&sa.metrics, flagMetrics, "", "address the prometheus metrics are served on (disabled if empty)")
	fs.BoolVar(&sa.debug, flagDebug, false, "call stack returned on error")
	if err := fs.Parse(args); err != nil {
		return sa, errors.Wrap(errors.ErrInput, err.Error())
	}
	return sa, nil
}

// StartCmd initializes the application, and serves it over the ABCI
// socket until a termination signal is received.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	sa, err := parseStartFlags(args)
	if err != nil {
		return err
	}

	reg := utils.NewRegistry()
	app, err := gen(&Options{
		Home:    home,
		Logger:  logger,
		Debug:   sa.debug,
		Metrics: reg,
	})
	if err != nil {
		return err
	}

	var metrics *http.Server
	if sa.metrics != "" {
		metrics = &http.Server{Addr: sa.metrics, Handler: utils.MetricsHandler(reg)}
		go func() {
			logger.Info("Serving metrics", "addr", sa.metrics)
			if err := metrics.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server", "err", err)
			}
		}()
	}

	logger.Info("Starting ABCI app", "bind", sa.bind)
	svr, err := server.NewServer(sa.bind, "socket", app)
	if err != nil {
		return errors.Wrap(err, "cannot create listener")
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "cannot start server")
	}

	// Wait forever
	cmn.TrapSignal(logger, func() {
		svr.Stop()
		if metrics != nil {
			metrics.Close()
		}
	})
	select {}
}
