package utils

import (
	"time"

	"github.com/iov-one/drip"
)

// Logging writes one log line per processed transaction with its path,
// block height and processing time. Failures are logged at error level,
// deliveries at info level and checks at debug level.
type Logging struct{}

var _ drip.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx drip.Context, db drip.KVStore, tx drip.Tx, next drip.Checker) (*drip.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	var msg string
	if res != nil {
		msg = res.Log
	}
	logTx(ctx, tx, start, msg, err, true)
	return res, err
}

func (Logging) Deliver(ctx drip.Context, db drip.KVStore, tx drip.Tx, next drip.Deliverer) (*drip.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	var msg string
	if res != nil {
		msg = res.Log
	}
	logTx(ctx, tx, start, msg, err, false)
	return res, err
}

func logTx(ctx drip.Context, tx drip.Tx, start time.Time, msg string, err error, check bool) {
	height, _ := drip.GetHeight(ctx)
	logger := drip.GetLogger(ctx).With(
		"path", drip.GetPath(tx),
		"height", height,
		"duration_us", time.Since(start)/time.Microsecond,
	)
	switch {
	case err != nil:
		logger.Error(msg, "err", err)
	case check:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
