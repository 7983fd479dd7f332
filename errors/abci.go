package errors

import (
	"errors"
	"fmt"
)

const (
	// SuccessABCICode is the response code of a successful request.
	SuccessABCICode = 0

	// Errors that do not wrap a registered error share this code. Their
	// message is hidden outside of debug mode since it may leak
	// implementation details.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the response code and log for err. In debug mode the
// log carries the full message including the stack trace.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

// ABCIError turns a response code and log back into an error. Registered
// codes produce an error that passes the Is test of the registered root
// error. Unknown codes are reported as internal errors.
func ABCIError(code uint32, log string) error {
	if code == SuccessABCICode {
		return nil
	}
	if e, ok := registry[code]; ok {
		return Wrap(e, log)
	}
	return Wrap(errors.New(internalABCILog), log)
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the code of the first registered error found while
// unwrapping err.
func abciCode(err error) uint32 {
	for !isNilErr(err) {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return internalABCICode
}
