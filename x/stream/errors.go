package stream

import "github.com/iov-one/drip/errors"

// x/stream reserves 1001 ~ 1009.
var (
	ErrInvalidAmount      = errors.Register(1001, "invalid amount")
	ErrStreamNotFound     = errors.Register(1002, "stream not found")
	ErrUnauthorized       = errors.Register(1003, "unauthorized")
	ErrStreamInactive     = errors.Register(1004, "stream inactive")
	ErrAlreadyInitialized = errors.Register(1005, "already initialized")
	ErrNotAdmin           = errors.Register(1006, "not admin")
	ErrInvalidFeeRate     = errors.Register(1007, "invalid fee rate")
	ErrNotInitialized     = errors.Register(1008, "not initialized")
	ErrInvalidDuration    = errors.Register(1009, "invalid duration")
)
