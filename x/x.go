/*
Package x contains the building blocks shared by all drip extensions.
*/
package x

import "github.com/iov-one/drip"

// Authenticator tells which principals signed the current transaction.
// Extensions receive it explicitly so tests can plug in fixed signers.
type Authenticator interface {
	// GetConditions returns every condition the transaction satisfies.
	GetConditions(drip.Context) []drip.Condition
	// HasAddress reports whether addr is one of those conditions.
	HasAddress(drip.Context, drip.Address) bool
}

// Validater is any model or message that can check its own state.
type Validater interface {
	Validate() error
}
