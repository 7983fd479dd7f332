package sigs

import "github.com/iov-one/drip/errors"

// x/sigs reserves 120 ~ 129.
var (
	// ErrInvalidSequence is returned when a signature does not use the
	// current sequence of its signer.
	ErrInvalidSequence = errors.Register(120, "invalid sequence number")
)
